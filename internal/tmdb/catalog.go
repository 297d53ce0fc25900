package tmdb

import (
	"context"
	"fmt"
	"strings"

	"shelf/internal/enrich"
	"shelf/internal/library"
)

// DefaultImageBaseURL prefixes poster paths.
const DefaultImageBaseURL = "https://image.tmdb.org/t/p/w342"

// Catalog adapts a Client to enrich.Catalog.
type Catalog struct {
	client    *Client
	imageBase string
	limit     int
}

var _ enrich.Catalog = (*Catalog)(nil)

// NewCatalog wraps client. limit <= 0 keeps every result.
func NewCatalog(client *Client, imageBase string, limit int) *Catalog {
	imageBase = strings.TrimRight(strings.TrimSpace(imageBase), "/")
	if imageBase == "" {
		imageBase = DefaultImageBaseURL
	}
	return &Catalog{client: client, imageBase: imageBase, limit: limit}
}

// SearchMovies implements enrich.Catalog.
func (c *Catalog) SearchMovies(ctx context.Context, query, year string) ([]enrich.Hit, error) {
	resp, err := c.client.SearchMovie(ctx, query, year)
	if err != nil {
		return nil, err
	}
	return c.hits(resp.Results, library.MediaMovie), nil
}

// SearchSeries implements enrich.Catalog.
func (c *Catalog) SearchSeries(ctx context.Context, query, year string) ([]enrich.Hit, error) {
	resp, err := c.client.SearchTV(ctx, query, year)
	if err != nil {
		return nil, err
	}
	return c.hits(resp.Results, library.MediaSeries), nil
}

// Details implements enrich.Catalog.
func (c *Catalog) Details(ctx context.Context, mediaType library.MediaType, id int64) (*enrich.Details, error) {
	var (
		d   *Details
		err error
	)
	switch mediaType {
	case library.MediaMovie:
		d, err = c.client.MovieDetails(ctx, id)
	case library.MediaSeries:
		d, err = c.client.TVDetails(ctx, id)
	default:
		return nil, fmt.Errorf("unsupported media type %q", mediaType)
	}
	if err != nil {
		return nil, err
	}
	out := &enrich.Details{
		CountryCodes: countryCodes(d),
		SeasonCount:  d.NumberOfSeasons,
		EpisodeCount: d.NumberOfEpisodes,
		FirstAirDate: d.FirstAirDate,
		LastAirDate:  d.LastAirDate,
		InProduction: d.InProduction,
	}
	for _, g := range d.Genres {
		out.GenreIDs = append(out.GenreIDs, g.ID)
	}
	return out, nil
}

// Genres implements enrich.Catalog by merging the movie and TV lists.
func (c *Catalog) Genres(ctx context.Context) (map[int]string, error) {
	movie, err := c.client.MovieGenres(ctx)
	if err != nil {
		return nil, err
	}
	tv, err := c.client.TVGenres(ctx)
	if err != nil {
		return nil, err
	}
	table := make(map[int]string, len(movie)+len(tv))
	for _, g := range append(movie, tv...) {
		if _, ok := table[g.ID]; ok {
			continue
		}
		table[g.ID] = g.Name
	}
	return table, nil
}

func (c *Catalog) hits(results []Result, media library.MediaType) []enrich.Hit {
	if c.limit > 0 && len(results) > c.limit {
		results = results[:c.limit]
	}
	out := make([]enrich.Hit, 0, len(results))
	for _, r := range results {
		hit := enrich.Hit{
			ID:            r.ID,
			MediaType:     media,
			Overview:      r.Overview,
			GenreIDs:      r.GenreIDs,
			OriginCountry: r.OriginCountry,
			Rating:        r.VoteAverage,
			VoteCount:     r.VoteCount,
		}
		if media == library.MediaSeries {
			hit.Title, hit.OriginalTitle, hit.Date = r.Name, r.OriginalName, r.FirstAirDate
		} else {
			hit.Title, hit.OriginalTitle, hit.Date = r.Title, r.OriginalTitle, r.ReleaseDate
		}
		if r.PosterPath != "" {
			hit.PosterURL = c.imageBase + "/" + strings.TrimLeft(r.PosterPath, "/")
		}
		out = append(out, hit)
	}
	return out
}

func countryCodes(d *Details) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(code string) {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			return
		}
		if _, ok := seen[code]; ok {
			return
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	for _, code := range d.OriginCountry {
		add(code)
	}
	for _, pc := range d.ProductionCountries {
		add(pc.ISO)
	}
	return out
}
