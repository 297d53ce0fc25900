package main

import (
	"fmt"
	"strings"

	"shelf/internal/library"
)

const shortIDLength = 8

func shortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}

func formatTags(tags []string) string {
	return strings.Join(library.VisibleTags(tags), ", ")
}

func formatRating(it *library.Item) string {
	if !it.HasRating() {
		return ""
	}
	return fmt.Sprintf("%.1f", it.Rating)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func viewedMark(it *library.Item) string {
	if it.IsViewed() {
		return "✓"
	}
	return ""
}
