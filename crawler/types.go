// Package crawler fetches the programs of the four Karlsruhe cinemas,
// reconciles the scraped titles against the movie metadata service and keeps
// the stored screenings in sync.
package crawler

import (
	"context"
	"net/http"
	"time"

	"kino_karlsruhe/model"
	"kino_karlsruhe/tmdb"
)

// RawScreening is one scraped showing before movie identity resolution.
// ReleaseYear, ReleaseDate and Length are hints taken straight from the site
// and only used when the metadata service has nothing for the title.
type RawScreening struct {
	MovieTitle  string
	StartTime   time.Time
	Properties  []string
	CinemaId    uint
	ReleaseYear *int
	ReleaseDate *time.Time
	Length      *int
}

// Store is the persistence surface the crawler needs. Lookups return
// (nil, nil) when nothing matches.
type Store interface {
	CinemaByName(ctx context.Context, name string) (*model.Cinema, error)
	MovieBySearchTitles(ctx context.Context, titles ...string) (*model.Movie, error)
	MovieByTmdbId(ctx context.Context, tmdbId int) (*model.Movie, error)
	CreateMovie(ctx context.Context, m *model.Movie) error
	UpdateMovie(ctx context.Context, m *model.Movie) error
	DeleteScreenings(ctx context.Context, cinemaId uint, from, to time.Time) error
	CreateScreenings(ctx context.Context, screenings []model.Screening) ([]model.Screening, error)
}

// Metadata is the rate-limited movie metadata service. Both calls return
// (nil, nil) for "not found".
type Metadata interface {
	Search(ctx context.Context, title string) (*tmdb.SearchResult, error)
	Details(ctx context.Context, tmdbId int) (*tmdb.MovieDetails, error)
}

// Extractor scrapes one cinema's program. Implementations delete the
// cinema's stored screenings inside the scraped time window themselves, so a
// failed extraction leaves the cinema's existing data untouched.
type Extractor interface {
	CinemaName() string
	Extract(ctx context.Context) ([]RawScreening, error)
}

// berlin is the wall-clock zone of all four cinemas.
var berlin = func() *time.Location {
	if loc, err := time.LoadLocation("Europe/Berlin"); err == nil {
		return loc
	}
	return time.Local
}()

func newFetchClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// timeBounds returns the closed interval spanned by a non-empty batch.
func timeBounds(screenings []RawScreening) (time.Time, time.Time) {
	min, max := screenings[0].StartTime, screenings[0].StartTime
	for _, s := range screenings[1:] {
		if s.StartTime.Before(min) {
			min = s.StartTime
		}
		if s.StartTime.After(max) {
			max = s.StartTime
		}
	}
	return min, max
}

// deleteStale removes the cinema's stored screenings inside the window
// covered by the new batch. An empty batch deletes nothing.
func deleteStale(ctx context.Context, store Store, cinemaId uint, screenings []RawScreening) error {
	if len(screenings) == 0 {
		return nil
	}
	from, to := timeBounds(screenings)
	return store.DeleteScreenings(ctx, cinemaId, from, to)
}
