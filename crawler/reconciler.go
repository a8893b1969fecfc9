package crawler

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"kino_karlsruhe/model"
	"kino_karlsruhe/tmdb"
	"kino_karlsruhe/utils"

	"golang.org/x/sync/errgroup"
)

// movieStaleAfter is how old a tmdb-linked movie may get before its metadata
// is refreshed opportunistically.
const movieStaleAfter = 5 * 24 * time.Hour

const defaultResolveWorkers = 8

// Reconciler maps the raw titles of one crawl cycle onto Movie records:
// matching stored search titles first, then the metadata service with a
// segment-stripping fallback, and creating local-only movies from scraped
// hints when everything else fails.
type Reconciler struct {
	store   Store
	meta    Metadata
	workers int
	now     func() time.Time
}

func NewReconciler(store Store, meta Metadata) *Reconciler {
	return &Reconciler{
		store:   store,
		meta:    meta,
		workers: defaultResolveWorkers,
		now:     time.Now,
	}
}

// Resolution is the outcome of one reconciliation pass, keyed by the raw
// titles found in the batch.
type Resolution struct {
	MovieIds   map[string]uint
	ExtraProps map[string][]string
	Created    []model.Movie
}

type titleOutcome struct {
	rawTitle   string
	cleanTitle string
	parenProps []string

	existingId   uint               // matched a stored movie
	hit          *tmdb.SearchResult // matched the metadata service
	matchedQuery string             // the search candidate that hit
	segmentProps []string           // segments dropped to reach the hit
	localOnly    bool

	hint RawScreening
}

// Resolve reconciles the combined raw screenings of one cycle. Per-title
// failures are logged and drop only that title; the returned error is
// reserved for context cancellation.
func (r *Reconciler) Resolve(ctx context.Context, screenings []RawScreening) (*Resolution, error) {
	titles, hints := uniqueTitles(screenings)

	outcomes := make([]*titleOutcome, 0, len(titles))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, title := range titles {
		title := title
		g.Go(func() error {
			outcome, err := r.resolveTitle(gctx, title, hints[title])
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Printf("resolving title %q failed: %v", title, err)
				return nil
			}
			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Creation happens only after all resolution is done, so fallback
	// properties are known to be kept or discarded.
	res := &Resolution{
		MovieIds:   make(map[string]uint),
		ExtraProps: make(map[string][]string),
	}
	r.applyExistingMatches(outcomes, res)
	r.createMatchedMovies(ctx, outcomes, res)
	r.createLocalMovies(ctx, outcomes, res)
	return res, nil
}

// uniqueTitles returns the distinct raw titles in stable order plus one
// representative screening per title for fallback hints.
func uniqueTitles(screenings []RawScreening) ([]string, map[string]RawScreening) {
	hints := make(map[string]RawScreening)
	titles := make([]string, 0)
	for _, s := range screenings {
		if _, ok := hints[s.MovieTitle]; !ok {
			hints[s.MovieTitle] = s
			titles = append(titles, s.MovieTitle)
		}
	}
	sort.Strings(titles)
	return titles, hints
}

func (r *Reconciler) resolveTitle(ctx context.Context, rawTitle string, hint RawScreening) (*titleOutcome, error) {
	clean, annotation := splitTrailingParen(rawTitle)
	outcome := &titleOutcome{
		rawTitle:   rawTitle,
		cleanTitle: clean,
		hint:       hint,
	}
	if annotation != "" {
		outcome.parenProps = strings.Split(annotation, segmentSeparator)
	}

	existing, err := r.store.MovieBySearchTitles(ctx, rawTitle, clean)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		outcome.existingId = existing.ID
		r.maybeRefresh(ctx, existing)
		return outcome, nil
	}

	if blacklisted(rawTitle) || blacklisted(clean) {
		outcome.localOnly = true
		return outcome, nil
	}

	for i, candidate := range shrinkCandidates(clean) {
		hit, err := r.meta.Search(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if hit != nil {
			outcome.hit = hit
			outcome.matchedQuery = candidate
			outcome.segmentProps = droppedSegments(clean, i)
			return outcome, nil
		}
	}

	// No match anywhere: the stripped segments were guesses that did not
	// pan out, so they are discarded with the match attempt.
	outcome.localOnly = true
	return outcome, nil
}

func (r *Reconciler) applyExistingMatches(outcomes []*titleOutcome, res *Resolution) {
	for _, o := range outcomes {
		if o.existingId == 0 {
			continue
		}
		res.MovieIds[o.rawTitle] = o.existingId
		res.ExtraProps[o.rawTitle] = o.parenProps
	}
}

// createMatchedMovies creates exactly one movie per distinct tmdb id, or
// backfills the search titles of a movie that already owns the id.
func (r *Reconciler) createMatchedMovies(ctx context.Context, outcomes []*titleOutcome, res *Resolution) {
	byTmdbId := make(map[int][]*titleOutcome)
	ids := make([]int, 0)
	for _, o := range outcomes {
		if o.hit == nil {
			continue
		}
		if _, ok := byTmdbId[o.hit.ID]; !ok {
			ids = append(ids, o.hit.ID)
		}
		byTmdbId[o.hit.ID] = append(byTmdbId[o.hit.ID], o)
	}
	sort.Ints(ids)

	for _, tmdbId := range ids {
		group := byTmdbId[tmdbId]

		existing, err := r.store.MovieByTmdbId(ctx, tmdbId)
		if err != nil {
			log.Printf("looking up tmdb id %d failed: %v", tmdbId, err)
			continue
		}
		if existing != nil {
			// The id is already ours; remember the new title spellings so
			// the next cycle matches without a metadata lookup.
			if r.backfillSearchTitles(ctx, existing, group) {
				r.recordMatches(group, existing.ID, res)
			}
			continue
		}

		details, err := r.meta.Details(ctx, tmdbId)
		if err != nil {
			// Hard service error: abort this movie's creation only.
			log.Printf("fetching details for tmdb id %d failed: %v", tmdbId, err)
			continue
		}
		if details == nil {
			// The search hit vanished; fall back to local-only creation.
			for _, o := range group {
				o.hit = nil
				o.segmentProps = nil
				o.localOnly = true
			}
			continue
		}

		movie := r.buildMatchedMovie(group, details)
		if err := r.store.CreateMovie(ctx, movie); err != nil {
			log.Printf("creating movie %q failed: %v", movie.Title, err)
			continue
		}
		res.Created = append(res.Created, *movie)
		r.recordMatches(group, movie.ID, res)
	}
}

func (r *Reconciler) recordMatches(group []*titleOutcome, movieId uint, res *Resolution) {
	for _, o := range group {
		res.MovieIds[o.rawTitle] = movieId
		res.ExtraProps[o.rawTitle] = append(append([]string{}, o.segmentProps...), o.parenProps...)
	}
}

func (r *Reconciler) backfillSearchTitles(ctx context.Context, movie *model.Movie, group []*titleOutcome) bool {
	changed := false
	for _, o := range group {
		for _, t := range []string{o.rawTitle, o.cleanTitle, o.matchedQuery} {
			if t != "" && !containsString(movie.SearchTitles, t) {
				movie.SearchTitles = append(movie.SearchTitles, t)
				changed = true
			}
		}
	}
	if changed {
		if err := r.store.UpdateMovie(ctx, movie); err != nil {
			log.Printf("backfilling search titles of %q failed: %v", movie.Title, err)
			return false
		}
	}
	return true
}

func (r *Reconciler) buildMatchedMovie(group []*titleOutcome, details *tmdb.MovieDetails) *model.Movie {
	searchTitles := make([]string, 0, len(group)*3)
	for _, o := range group {
		for _, t := range []string{o.rawTitle, o.cleanTitle, o.matchedQuery} {
			if t != "" && !containsString(searchTitles, t) {
				searchTitles = append(searchTitles, t)
			}
		}
	}

	title := details.Title
	if title == "" {
		title = group[0].cleanTitle
	}
	movie := &model.Movie{
		Title:        title,
		SearchTitles: searchTitles,
		TmdbId:       utils.Ptr(details.ID),
		Popularity:   utils.Ptr(details.Popularity),
	}
	if details.Runtime > 0 {
		movie.Length = utils.Ptr(details.Runtime)
	}
	if details.PosterPath != "" {
		movie.PosterUrl = utils.Ptr(details.PosterPath)
	}
	if details.BackdropPath != "" {
		movie.BackdropUrl = utils.Ptr(details.BackdropPath)
	}
	if details.ReleaseDate != nil {
		movie.ReleaseDate = &utils.CustomDate{Time: *details.ReleaseDate}
	}
	return movie
}

// createLocalMovies creates movies with no metadata link, seeded only from
// scraped hints. Titles cleaning to the same string share one record.
func (r *Reconciler) createLocalMovies(ctx context.Context, outcomes []*titleOutcome, res *Resolution) {
	byClean := make(map[string][]*titleOutcome)
	cleans := make([]string, 0)
	for _, o := range outcomes {
		if !o.localOnly {
			continue
		}
		if _, ok := byClean[o.cleanTitle]; !ok {
			cleans = append(cleans, o.cleanTitle)
		}
		byClean[o.cleanTitle] = append(byClean[o.cleanTitle], o)
	}
	sort.Strings(cleans)

	for _, clean := range cleans {
		group := byClean[clean]

		searchTitles := make([]string, 0, len(group)*2)
		for _, o := range group {
			for _, t := range []string{o.rawTitle, o.cleanTitle} {
				if t != "" && !containsString(searchTitles, t) {
					searchTitles = append(searchTitles, t)
				}
			}
		}

		movie := &model.Movie{
			Title:        clean,
			SearchTitles: searchTitles,
		}
		r.applyHints(movie, group[0].hint)

		if err := r.store.CreateMovie(ctx, movie); err != nil {
			log.Printf("creating local movie %q failed: %v", clean, err)
			continue
		}
		res.Created = append(res.Created, *movie)
		for _, o := range group {
			res.MovieIds[o.rawTitle] = movie.ID
			// Segment-derived guesses are discarded; parenthetical tags stay.
			res.ExtraProps[o.rawTitle] = o.parenProps
		}
	}
}

func (r *Reconciler) applyHints(movie *model.Movie, hint RawScreening) {
	if hint.Length != nil {
		movie.Length = utils.Ptr(*hint.Length)
	}
	switch {
	case hint.ReleaseDate != nil:
		movie.ReleaseDate = &utils.CustomDate{Time: *hint.ReleaseDate}
	case hint.ReleaseYear != nil:
		now := r.now()
		if *hint.ReleaseYear < now.Year() {
			movie.ReleaseDate = &utils.CustomDate{Time: time.Date(*hint.ReleaseYear, time.January, 1, 0, 0, 0, 0, berlin)}
		} else {
			movie.ReleaseDate = &utils.CustomDate{Time: now}
		}
	}
}

// maybeRefresh re-fetches details for a tmdb-linked movie whose metadata is
// stale or incomplete. Failures here are never fatal; the old data stays.
func (r *Reconciler) maybeRefresh(ctx context.Context, movie *model.Movie) {
	if movie.TmdbId == nil {
		return
	}
	stale := r.now().Sub(movie.UpdatedAt) > movieStaleAfter
	incomplete := movie.Popularity == nil || movie.ReleaseDate == nil || movie.BackdropUrl == nil
	if !stale && !incomplete {
		return
	}

	details, err := r.meta.Details(ctx, *movie.TmdbId)
	if err != nil {
		log.Printf("refreshing %q failed: %v", movie.Title, err)
		return
	}
	if details == nil {
		// The id is gone; try to find a replacement, else drop the link.
		r.reresolveTmdbId(ctx, movie)
		return
	}

	applyDetails(movie, details)
	if err := r.store.UpdateMovie(ctx, movie); err != nil {
		log.Printf("updating %q failed: %v", movie.Title, err)
	}
}

func (r *Reconciler) reresolveTmdbId(ctx context.Context, movie *model.Movie) {
	movie.TmdbId = nil
	for _, candidate := range shrinkCandidates(movie.Title) {
		hit, err := r.meta.Search(ctx, candidate)
		if err != nil {
			log.Printf("re-resolving %q failed: %v", movie.Title, err)
			return
		}
		if hit == nil {
			continue
		}
		other, err := r.store.MovieByTmdbId(ctx, hit.ID)
		if err != nil || other != nil {
			break
		}
		movie.TmdbId = utils.Ptr(hit.ID)
		if details, err := r.meta.Details(ctx, hit.ID); err == nil && details != nil {
			applyDetails(movie, details)
		}
		break
	}
	if err := r.store.UpdateMovie(ctx, movie); err != nil {
		log.Printf("updating %q failed: %v", movie.Title, err)
	}
}

func applyDetails(movie *model.Movie, details *tmdb.MovieDetails) {
	movie.Popularity = utils.Ptr(details.Popularity)
	if details.Runtime > 0 {
		movie.Length = utils.Ptr(details.Runtime)
	}
	if details.PosterPath != "" {
		movie.PosterUrl = utils.Ptr(details.PosterPath)
	}
	if details.BackdropPath != "" {
		movie.BackdropUrl = utils.Ptr(details.BackdropPath)
	}
	if details.ReleaseDate != nil {
		movie.ReleaseDate = &utils.CustomDate{Time: *details.ReleaseDate}
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
