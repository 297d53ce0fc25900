package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"shelf/internal/library"
	"shelf/internal/logging"
)

// DefaultResultLimit caps hits kept per bucket query.
const DefaultResultLimit = 8

// Enricher runs catalog searches and caches the genre table.
type Enricher struct {
	catalog Catalog
	logger  *slog.Logger
	limit   int

	genresMu sync.Mutex
	genres   map[int]string
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithResultLimit caps hits per bucket.
func WithResultLimit(limit int) Option {
	return func(e *Enricher) {
		if limit > 0 {
			e.limit = limit
		}
	}
}

// New constructs an Enricher over catalog.
func New(catalog Catalog, opts ...Option) *Enricher {
	e := &Enricher{catalog: catalog, logger: logging.NewNop(), limit: DefaultResultLimit}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "enrich")
	return e
}

// Genres returns the genre table, fetching it once per process. A failed
// fetch is not cached.
func (e *Enricher) Genres(ctx context.Context) (map[int]string, error) {
	e.genresMu.Lock()
	defer e.genresMu.Unlock()
	if e.genres != nil {
		return e.genres, nil
	}
	table, err := e.catalog.Genres(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch genres: %w", err)
	}
	e.genres = table
	return table, nil
}

// GenresOrEmpty returns the cached genre table or an empty one, logging a
// fetch failure.
func (e *Enricher) GenresOrEmpty(ctx context.Context) map[int]string {
	table, err := e.Genres(ctx)
	if err != nil {
		logging.WarnWithContext(e.logger, "genre table unavailable", "catalog_genres",
			logging.String(logging.FieldErrorHint, "check tmdb api key and network"),
			logging.String(logging.FieldImpact, "genre tags skipped for this apply"),
			logging.Error(err),
		)
		return map[int]string{}
	}
	return table
}

// Details fetches the authoritative record for a candidate.
func (e *Enricher) Details(ctx context.Context, c Candidate) (*Details, error) {
	d, err := e.catalog.Details(ctx, c.MediaType, c.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch %s details: %w", c.Key(), err)
	}
	return d, nil
}

// Search gathers candidates for a title. When a year is known the
// year-constrained pass runs first; if it finds nothing across all name
// variants every variant is retried without the year.
func (e *Enricher) Search(ctx context.Context, title string) ([]Candidate, error) {
	terms := ParseTitleForSearch(title)
	if len(terms.Names) == 0 {
		return nil, nil
	}
	if terms.Year != "" {
		found, err := e.searchPass(ctx, terms.Names, terms.Year)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			return found, nil
		}
	}
	return e.searchPass(ctx, terms.Names, "")
}

type bucketResult struct {
	hits []Hit
	err  error
}

func (e *Enricher) searchPass(ctx context.Context, names []string, year string) ([]Candidate, error) {
	results := make([]bucketResult, len(names)*2)
	var g errgroup.Group
	g.SetLimit(4)
	for i, name := range names {
		g.Go(func() error {
			hits, err := e.catalog.SearchMovies(ctx, name, year)
			results[i*2] = bucketResult{hits: e.clip(hits, library.MediaMovie), err: err}
			return nil
		})
		g.Go(func() error {
			hits, err := e.catalog.SearchSeries(ctx, name, year)
			results[i*2+1] = bucketResult{hits: e.clip(hits, library.MediaSeries), err: err}
			return nil
		})
	}
	_ = g.Wait()

	var (
		out    []Candidate
		errs   []error
		failed int
	)
	seen := make(map[string]struct{})
	for idx, res := range results {
		if res.err != nil {
			failed++
			errs = append(errs, res.err)
			logging.WarnWithContext(e.logger, "catalog search failed", "catalog_search",
				logging.String("query", names[idx/2]),
				logging.String("year", year),
				logging.String(logging.FieldErrorHint, "check tmdb api key and network"),
				logging.String(logging.FieldImpact, "bucket skipped"),
				logging.Error(res.err),
			)
			continue
		}
		for _, hit := range res.hits {
			c := CandidateFromHit(hit)
			if _, dup := seen[c.Key()]; dup {
				continue
			}
			seen[c.Key()] = struct{}{}
			out = append(out, c)
		}
	}
	if failed == len(results) {
		return nil, fmt.Errorf("catalog search: %w", errors.Join(errs...))
	}
	e.logger.Debug("catalog search pass",
		logging.Int("variants", len(names)),
		logging.String("year", year),
		logging.Int("candidates", len(out)),
	)
	return out, nil
}

func (e *Enricher) clip(hits []Hit, media library.MediaType) []Hit {
	if len(hits) > e.limit {
		hits = hits[:e.limit]
	}
	out := make([]Hit, len(hits))
	for i, hit := range hits {
		if hit.MediaType == "" {
			hit.MediaType = media
		}
		out[i] = hit
	}
	return out
}
