package crawler

import (
	"context"
	"log"
	"sync"

	"kino_karlsruhe/model"
)

// Orchestrator runs one full sync cycle: all extractors concurrently, one
// reconciliation pass over the combined batch, then the screening insert.
type Orchestrator struct {
	store      Store
	reconciler *Reconciler
	extractors []Extractor
}

// Result lists what one cycle created, for the caller's logging.
type Result struct {
	Screenings []model.Screening
	Movies     []model.Movie
}

// NewOrchestrator wires the four Karlsruhe extractors to the given store and
// metadata service.
func NewOrchestrator(store Store, meta Metadata) *Orchestrator {
	return &Orchestrator{
		store:      store,
		reconciler: NewReconciler(store, meta),
		extractors: []Extractor{
			NewSchauburg(store),
			NewKinemathek(store),
			NewUniversum(store),
			NewFilmpalast(store),
		},
	}
}

// newOrchestratorWith exists for tests that need fake extractors.
func newOrchestratorWith(store Store, reconciler *Reconciler, extractors []Extractor) *Orchestrator {
	return &Orchestrator{store: store, reconciler: reconciler, extractors: extractors}
}

// Run executes one sync cycle. A failing extractor yields an empty batch for
// its cinema and never aborts the others.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	log.Print("running crawlers...")

	batches := make([][]RawScreening, len(o.extractors))
	var wg sync.WaitGroup
	for i, extractor := range o.extractors {
		wg.Add(1)
		go func(i int, extractor Extractor) {
			defer wg.Done()
			screenings, err := extractor.Extract(ctx)
			if err != nil {
				log.Printf("crawling %s failed: %v", extractor.CinemaName(), err)
				return
			}
			log.Printf("found %d screenings in %s", len(screenings), extractor.CinemaName())
			batches[i] = screenings
		}(i, extractor)
	}
	wg.Wait()

	var raw []RawScreening
	for _, batch := range batches {
		raw = append(raw, batch...)
	}

	resolution, err := o.reconciler.Resolve(ctx, raw)
	if err != nil {
		return nil, err
	}
	log.Printf("resolved %d titles, created %d movies", len(resolution.MovieIds), len(resolution.Created))

	screenings := make([]model.Screening, 0, len(raw))
	for _, s := range raw {
		movieId, ok := resolution.MovieIds[s.MovieTitle]
		if !ok {
			// Resolution for this title failed this cycle; its screenings
			// are left out until the next run.
			continue
		}
		screenings = append(screenings, model.Screening{
			MovieId:    movieId,
			CinemaId:   s.CinemaId,
			StartTime:  s.StartTime,
			Properties: NormalizeProperties(append(append([]string{}, s.Properties...), resolution.ExtraProps[s.MovieTitle]...)),
		})
	}

	created, err := o.store.CreateScreenings(ctx, screenings)
	if err != nil {
		return nil, err
	}
	log.Printf("created %d screenings", len(created))

	return &Result{Screenings: created, Movies: resolution.Created}, nil
}
