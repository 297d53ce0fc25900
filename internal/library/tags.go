package library

import "strings"

const (
	// ViewedTag is the reserved status tag. It never shows up in tag listings
	// or filters and is left alone by catalog tag normalization.
	ViewedTag = "viewed"
	// SeriesTag marks items matched to a series catalog entry.
	SeriesTag = "series"
)

// NormalizeTag trims, collapses inner whitespace, and lowercases a tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.Join(strings.Fields(tag), " "))
}

// NormalizeTags normalizes every tag, drops blanks, and removes duplicates
// while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		normalized := NormalizeTag(tag)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

// IsReservedTag reports whether tag is an internal status marker.
func IsReservedTag(tag string) bool {
	return NormalizeTag(tag) == ViewedTag
}

// VisibleTags returns the user-facing tags, excluding the reserved tag.
func VisibleTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if IsReservedTag(tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

func containsTag(tags []string, tag string) bool {
	for _, existing := range tags {
		if existing == tag {
			return true
		}
	}
	return false
}

func removeTag(tags []string, tag string) []string {
	out := make([]string, 0, len(tags))
	for _, existing := range tags {
		if existing != tag {
			out = append(out, existing)
		}
	}
	return out
}
