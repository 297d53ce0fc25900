package testsupport

import (
	"context"
	"errors"
	"sync"

	"shelf/internal/enrich"
	"shelf/internal/library"
)

// Catalog is an in-memory enrich.Catalog. Hits are keyed by query; the year
// argument is ignored unless an entry is registered under "query|year".
type Catalog struct {
	mu      sync.Mutex
	movies  map[string][]enrich.Hit
	series  map[string][]enrich.Hit
	details map[int64]*enrich.Details
	genres  map[int]string
	err     error
	gate    chan struct{}
	calls   []string
}

// NewCatalog returns an empty fake catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		movies:  make(map[string][]enrich.Hit),
		series:  make(map[string][]enrich.Hit),
		details: make(map[int64]*enrich.Details),
		genres:  make(map[int]string),
	}
}

// AddMovie registers movie hits for query.
func (c *Catalog) AddMovie(query string, hits ...enrich.Hit) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.movies[query] = append(c.movies[query], hits...)
}

// AddSeries registers series hits for query.
func (c *Catalog) AddSeries(query string, hits ...enrich.Hit) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series[query] = append(c.series[query], hits...)
}

// SetDetails registers the detail record for a catalog id.
func (c *Catalog) SetDetails(id int64, d *enrich.Details) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.details[id] = d
}

// SetGenres replaces the genre table.
func (c *Catalog) SetGenres(table map[int]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.genres = table
}

// FailWith makes every call return err until cleared with nil.
func (c *Catalog) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Hold blocks searches and detail lookups that start from now on until the
// returned release function is called. A later Hold gates later calls
// separately, so held calls can be released in any order.
func (c *Catalog) Hold() (release func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gate := make(chan struct{})
	c.gate = gate
	var once sync.Once
	return func() {
		once.Do(func() { close(gate) })
	}
}

// Calls returns the recorded calls in order.
func (c *Catalog) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *Catalog) search(ctx context.Context, kind string, table map[string][]enrich.Hit, query, year string) ([]enrich.Hit, error) {
	c.mu.Lock()
	c.calls = append(c.calls, kind+":"+query+"|"+year)
	gate := c.gate
	c.mu.Unlock()
	if err := wait(ctx, gate); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	if year != "" {
		return append([]enrich.Hit(nil), table[query+"|"+year]...), nil
	}
	return append([]enrich.Hit(nil), table[query]...), nil
}

// SearchMovies implements enrich.Catalog.
func (c *Catalog) SearchMovies(ctx context.Context, query, year string) ([]enrich.Hit, error) {
	return c.search(ctx, "movie", c.movies, query, year)
}

// SearchSeries implements enrich.Catalog.
func (c *Catalog) SearchSeries(ctx context.Context, query, year string) ([]enrich.Hit, error) {
	return c.search(ctx, "series", c.series, query, year)
}

// Details implements enrich.Catalog.
func (c *Catalog) Details(ctx context.Context, media library.MediaType, id int64) (*enrich.Details, error) {
	c.mu.Lock()
	c.calls = append(c.calls, "details:"+string(media))
	gate := c.gate
	c.mu.Unlock()
	if err := wait(ctx, gate); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	d, ok := c.details[id]
	if !ok {
		return nil, errors.New("details not found")
	}
	cp := *d
	return &cp, nil
}

// Genres implements enrich.Catalog.
func (c *Catalog) Genres(context.Context) (map[int]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	out := make(map[int]string, len(c.genres))
	for id, name := range c.genres {
		out[id] = name
	}
	return out, nil
}

func wait(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
