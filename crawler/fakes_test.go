package crawler

import (
	"context"
	"sync"
	"time"

	"kino_karlsruhe/model"
	"kino_karlsruhe/tmdb"
)

type deleteCall struct {
	cinemaId uint
	from, to time.Time
}

// fakeStore is an in-memory Store for reconciler, orchestrator and extractor
// tests. Lookups return copies so callers cannot mutate stored state except
// through UpdateMovie.
type fakeStore struct {
	mu            sync.Mutex
	cinemas       []model.Cinema
	movies        []model.Movie
	screenings    []model.Screening
	deletes       []deleteCall
	nextMovieId   uint
	nextScreening uint
}

func newFakeStore(cinemas ...model.Cinema) *fakeStore {
	s := &fakeStore{cinemas: cinemas}
	for i := range s.cinemas {
		if s.cinemas[i].ID == 0 {
			s.cinemas[i].ID = uint(i + 1)
		}
	}
	return s
}

func (s *fakeStore) seedMovie(m model.Movie) model.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		s.nextMovieId++
		m.ID = s.nextMovieId
	} else if m.ID > s.nextMovieId {
		s.nextMovieId = m.ID
	}
	s.movies = append(s.movies, m)
	return m
}

func (s *fakeStore) seedScreening(sc model.Screening) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextScreening++
	sc.ID = s.nextScreening
	s.screenings = append(s.screenings, sc)
}

func (s *fakeStore) CinemaByName(_ context.Context, name string) (*model.Cinema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cinemas {
		if c.Name == name {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) MovieBySearchTitles(_ context.Context, titles ...string) (*model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.movies {
		for _, stored := range m.SearchTitles {
			for _, t := range titles {
				if stored == t {
					cp := m
					cp.SearchTitles = append([]string{}, m.SearchTitles...)
					return &cp, nil
				}
			}
		}
	}
	return nil, nil
}

func (s *fakeStore) MovieByTmdbId(_ context.Context, tmdbId int) (*model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.movies {
		if m.TmdbId != nil && *m.TmdbId == tmdbId {
			cp := m
			cp.SearchTitles = append([]string{}, m.SearchTitles...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) CreateMovie(_ context.Context, m *model.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMovieId++
	m.ID = s.nextMovieId
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = time.Now()
	}
	cp := *m
	cp.SearchTitles = append([]string{}, m.SearchTitles...)
	s.movies = append(s.movies, cp)
	return nil
}

func (s *fakeStore) UpdateMovie(_ context.Context, m *model.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.movies {
		if s.movies[i].ID == m.ID {
			cp := *m
			cp.SearchTitles = append([]string{}, m.SearchTitles...)
			s.movies[i] = cp
			return nil
		}
	}
	return nil
}

func (s *fakeStore) DeleteScreenings(_ context.Context, cinemaId uint, from, to time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, deleteCall{cinemaId: cinemaId, from: from, to: to})
	kept := s.screenings[:0]
	for _, sc := range s.screenings {
		inWindow := sc.CinemaId == cinemaId && !sc.StartTime.Before(from) && !sc.StartTime.After(to)
		if !inWindow {
			kept = append(kept, sc)
		}
	}
	s.screenings = kept
	return nil
}

func (s *fakeStore) CreateScreenings(_ context.Context, screenings []model.Screening) ([]model.Screening, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Screening, 0, len(screenings))
	for _, sc := range screenings {
		s.nextScreening++
		sc.ID = s.nextScreening
		s.screenings = append(s.screenings, sc)
		out = append(out, sc)
	}
	return out, nil
}

func (s *fakeStore) movieByTitle(title string) *model.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.movies {
		if m.Title == title {
			cp := m
			return &cp
		}
	}
	return nil
}

func (s *fakeStore) movieCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movies)
}

func (s *fakeStore) screeningCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.screenings)
}

// fakeMeta is a canned Metadata service recording every call.
type fakeMeta struct {
	mu          sync.Mutex
	results     map[string]*tmdb.SearchResult
	details     map[int]*tmdb.MovieDetails
	detailsErr  map[int]error
	searches    []string
	detailCalls []int
}

func newFakeMeta() *fakeMeta {
	return &fakeMeta{
		results:    make(map[string]*tmdb.SearchResult),
		details:    make(map[int]*tmdb.MovieDetails),
		detailsErr: make(map[int]error),
	}
}

func (m *fakeMeta) Search(_ context.Context, title string) (*tmdb.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, title)
	return m.results[title], nil
}

func (m *fakeMeta) Details(_ context.Context, tmdbId int) (*tmdb.MovieDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detailCalls = append(m.detailCalls, tmdbId)
	if err := m.detailsErr[tmdbId]; err != nil {
		return nil, err
	}
	return m.details[tmdbId], nil
}

func (m *fakeMeta) searchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.searches)
}

// fakeExtractor returns a fixed batch and deletes stale screenings the way
// the real extractors do.
type fakeExtractor struct {
	name     string
	store    Store
	cinemaId uint
	batch    []RawScreening
	err      error
}

func (f *fakeExtractor) CinemaName() string { return f.name }

func (f *fakeExtractor) Extract(ctx context.Context) ([]RawScreening, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err := deleteStale(ctx, f.store, f.cinemaId, f.batch); err != nil {
		return nil, err
	}
	return f.batch, nil
}
