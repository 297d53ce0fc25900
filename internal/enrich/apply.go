package enrich

import (
	"shelf/internal/library"
)

// ApplyFast is the synchronous phase of applying a candidate. It clears all
// catalog fields and user tags, then fills the item from the candidate. The
// viewed tag keeps its position.
func ApplyFast(it *library.Item, c Candidate, genres map[int]string) {
	previous := append([]string(nil), it.Tags...)
	it.ClearEnrichment()

	it.Text = c.DisplayTitle()
	it.CatalogID = c.ID
	it.Description = c.Overview
	it.PosterURL = c.PosterURL
	it.Rating = c.Rating
	it.VoteCount = c.VoteCount
	it.MediaType = c.MediaType
	it.Year = c.Year

	series := c.MediaType == library.MediaSeries
	it.Tags = withReserved(previous, CatalogTags(c.GenreIDs, c.OriginCountry, genres, series))
}

// ApplyDetails is the background phase. It recomputes the catalog tag set
// from the detail record and fills the series fields. Genre ids from the
// detail record win; the item's own media type decides the series marker.
func ApplyDetails(it *library.Item, d *Details, genres map[int]string, fallbackGenres []int) {
	if d == nil {
		return
	}
	ids := d.GenreIDs
	if len(ids) == 0 {
		ids = fallbackGenres
	}
	series := it.MediaType == library.MediaSeries
	it.Tags = withReserved(it.Tags, CatalogTags(ids, d.CountryCodes, genres, series))
	if !series {
		return
	}
	it.SeasonCount = d.SeasonCount
	it.EpisodeCount = d.EpisodeCount
	it.FirstAirDate = d.FirstAirDate
	it.LastAirDate = d.LastAirDate
	if d.InProduction != nil {
		v := *d.InProduction
		it.InProduction = &v
	} else {
		it.InProduction = nil
	}
}
