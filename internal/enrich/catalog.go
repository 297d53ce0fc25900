package enrich

import (
	"context"
	"fmt"
	"strings"

	"shelf/internal/library"
)

// Hit is one raw catalog search result.
type Hit struct {
	ID            int64
	MediaType     library.MediaType
	Title         string
	OriginalTitle string
	Overview      string
	PosterURL     string
	Date          string
	GenreIDs      []int
	OriginCountry []string
	Rating        float64
	VoteCount     int64
}

// Details is the authoritative catalog record fetched after a pick.
type Details struct {
	CountryCodes []string
	GenreIDs     []int
	SeasonCount  int
	EpisodeCount int
	FirstAirDate string
	LastAirDate  string
	InProduction *bool
}

// Catalog is the external metadata service. Year is "" when unconstrained.
type Catalog interface {
	SearchMovies(ctx context.Context, query, year string) ([]Hit, error)
	SearchSeries(ctx context.Context, query, year string) ([]Hit, error)
	Details(ctx context.Context, mediaType library.MediaType, id int64) (*Details, error)
	Genres(ctx context.Context) (map[int]string, error)
}

// Candidate is a deduplicated search result offered to the user.
type Candidate struct {
	ID             int64             `json:"id"`
	MediaType      library.MediaType `json:"mediaType"`
	GenreIDs       []int             `json:"genreIds,omitempty"`
	Overview       string            `json:"overview,omitempty"`
	PosterURL      string            `json:"poster,omitempty"`
	LocalizedTitle string            `json:"title"`
	AlternateTitle string            `json:"alternateTitle,omitempty"`
	Year           string            `json:"year,omitempty"`
	OriginCountry  []string          `json:"originCountry,omitempty"`
	Rating         float64           `json:"rating,omitempty"`
	VoteCount      int64             `json:"votes,omitempty"`
}

// Key identifies a candidate across buckets.
func (c Candidate) Key() string {
	return fmt.Sprintf("%s:%d", c.MediaType, c.ID)
}

// DisplayTitle renders "<title>[ / <alternate>][ (<year>)]".
func (c Candidate) DisplayTitle() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(c.LocalizedTitle))
	if alt := strings.TrimSpace(c.AlternateTitle); alt != "" && !strings.EqualFold(alt, strings.TrimSpace(c.LocalizedTitle)) {
		b.WriteString(" / ")
		b.WriteString(alt)
	}
	if c.Year != "" {
		b.WriteString(" (")
		b.WriteString(c.Year)
		b.WriteString(")")
	}
	return b.String()
}

func yearFromDate(date string) string {
	date = strings.TrimSpace(date)
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

// CandidateFromHit converts a raw hit.
func CandidateFromHit(h Hit) Candidate {
	title := strings.TrimSpace(h.Title)
	original := strings.TrimSpace(h.OriginalTitle)
	if title == "" {
		title = original
	}
	if strings.EqualFold(original, title) {
		original = ""
	}
	return Candidate{
		ID:             h.ID,
		MediaType:      h.MediaType,
		GenreIDs:       append([]int(nil), h.GenreIDs...),
		Overview:       strings.TrimSpace(h.Overview),
		PosterURL:      h.PosterURL,
		LocalizedTitle: title,
		AlternateTitle: original,
		Year:           yearFromDate(h.Date),
		OriginCountry:  append([]string(nil), h.OriginCountry...),
		Rating:         h.Rating,
		VoteCount:      h.VoteCount,
	}
}
