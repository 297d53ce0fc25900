package library

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// MediaType is the catalog kind an item was matched to.
type MediaType string

const (
	MediaMovie  MediaType = "movie"
	MediaSeries MediaType = "series"
)

// Item is a single catalog entry. ID is assigned once and never changes.
type Item struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created"`

	CatalogID   int64     `json:"tmdbId,omitempty"`
	Description string    `json:"description,omitempty"`
	PosterURL   string    `json:"poster,omitempty"`
	Rating      float64   `json:"rating,omitempty"`
	VoteCount   int64     `json:"votes,omitempty"`
	MediaType   MediaType `json:"mediaType,omitempty"`
	Year        string    `json:"year,omitempty"`

	SeasonCount  int    `json:"seasons,omitempty"`
	EpisodeCount int    `json:"episodes,omitempty"`
	FirstAirDate string `json:"firstAirDate,omitempty"`
	LastAirDate  string `json:"lastAirDate,omitempty"`
	InProduction *bool  `json:"inProduction,omitempty"`
}

// NewID returns a fresh stable item identifier.
func NewID() string {
	return uuid.NewString()
}

// NewItem builds an item with a fresh id and no tags.
func NewItem(text string, createdAt time.Time) *Item {
	return &Item{
		ID:        NewID(),
		Text:      text,
		Tags:      []string{},
		CreatedAt: createdAt,
	}
}

// Clone returns a deep copy sharing nothing with the receiver.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	cp := *it
	cp.Tags = slices.Clone(it.Tags)
	if it.InProduction != nil {
		v := *it.InProduction
		cp.InProduction = &v
	}
	return &cp
}

// HasRating reports whether a usable rating is present. Ratings <= 0 are
// stored as-is but treated as absent.
func (it *Item) HasRating() bool {
	return it.Rating > 0
}

// IsViewed reports whether the reserved viewed tag is set.
func (it *Item) IsViewed() bool {
	return containsTag(it.Tags, ViewedTag)
}

// ClearEnrichment drops every catalog-derived field.
func (it *Item) ClearEnrichment() {
	it.CatalogID = 0
	it.Description = ""
	it.PosterURL = ""
	it.Rating = 0
	it.VoteCount = 0
	it.MediaType = ""
	it.Year = ""
	it.SeasonCount = 0
	it.EpisodeCount = 0
	it.FirstAirDate = ""
	it.LastAirDate = ""
	it.InProduction = nil
}

// CloneItems deep-copies a slice of items.
func CloneItems(items []*Item) []*Item {
	out := make([]*Item, 0, len(items))
	for _, it := range items {
		out = append(out, it.Clone())
	}
	return out
}
