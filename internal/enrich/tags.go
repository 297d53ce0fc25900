package enrich

import (
	"shelf/internal/library"
)

// AnimeTag replaces animation genres for East-Asian productions.
const AnimeTag = "anime"

var animationFamily = map[string]struct{}{
	"animation":  {},
	"анимация":   {},
	"мультфильм": {},
}

var eastAsianCountries = map[string]struct{}{
	"japan":       {},
	"china":       {},
	"south korea": {},
	"taiwan":      {},
	"hong kong":   {},
	"япония":      {},
	"китай":       {},
	"южная корея": {},
	"тайвань":     {},
	"гонконг":     {},
}

// GenreTags resolves genre ids through the catalog genre table. Unknown ids
// are skipped.
func GenreTags(ids []int, table map[int]string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := table[id]; ok {
			out = append(out, name)
		}
	}
	return library.NormalizeTags(out)
}

// ApplyAnimeRule collapses animation-family tags into a single anime tag when
// an East-Asian country tag is present. The anime tag takes the position of
// the first animation tag and the triggering country tags are consumed.
func ApplyAnimeRule(tags []string) []string {
	tags = library.NormalizeTags(tags)
	first := -1
	hasCountry := false
	for i, tag := range tags {
		if _, ok := animationFamily[tag]; ok && first < 0 {
			first = i
		}
		if _, ok := eastAsianCountries[tag]; ok {
			hasCountry = true
		}
	}
	if first < 0 || !hasCountry {
		return tags
	}
	out := make([]string, 0, len(tags))
	for i, tag := range tags {
		if i == first {
			out = append(out, AnimeTag)
			continue
		}
		if _, ok := animationFamily[tag]; ok {
			continue
		}
		if _, ok := eastAsianCountries[tag]; ok {
			continue
		}
		out = append(out, tag)
	}
	return library.NormalizeTags(out)
}

// CatalogTags builds the catalog-derived tag set: genres, then countries,
// the anime rule, and the series marker last.
func CatalogTags(genreIDs []int, countryCodes []string, table map[int]string, series bool) []string {
	tags := GenreTags(genreIDs, table)
	for _, code := range countryCodes {
		if tag := CountryTag(code); tag != "" {
			tags = append(tags, tag)
		}
	}
	tags = ApplyAnimeRule(tags)
	out := make([]string, 0, len(tags)+1)
	for _, tag := range tags {
		if library.IsReservedTag(tag) || tag == library.SeriesTag {
			continue
		}
		out = append(out, tag)
	}
	if series {
		out = append(out, library.SeriesTag)
	}
	return out
}

// withReserved re-inserts the viewed tag at the index it held in previous.
func withReserved(previous, fresh []string) []string {
	pos := -1
	for i, tag := range previous {
		if library.IsReservedTag(tag) {
			pos = i
			break
		}
	}
	if pos < 0 {
		return fresh
	}
	if pos > len(fresh) {
		pos = len(fresh)
	}
	out := make([]string, 0, len(fresh)+1)
	out = append(out, fresh[:pos]...)
	out = append(out, library.ViewedTag)
	out = append(out, fresh[pos:]...)
	return out
}
