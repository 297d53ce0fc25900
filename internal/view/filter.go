package view

import (
	"strings"

	"shelf/internal/library"
)

// Filter narrows a listing. Query is a case-insensitive substring match on
// the item text; Tags match when the item carries any of them.
type Filter struct {
	Query string
	Tags  []string
}

// Active reports whether the filter excludes anything.
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Query) != "" || len(f.selectable()) > 0
}

func (f Filter) selectable() []string {
	return library.VisibleTags(library.NormalizeTags(f.Tags))
}

// Match reports whether it passes the filter.
func (f Filter) Match(it *library.Item) bool {
	if it == nil {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(it.Text), q) {
			return false
		}
	}
	want := f.selectable()
	if len(want) == 0 {
		return true
	}
	for _, tag := range library.VisibleTags(it.Tags) {
		for _, w := range want {
			if tag == w {
				return true
			}
		}
	}
	return false
}

// Scope selects which sections a listing covers.
type Scope struct {
	Section    string
	All        bool
	ShowViewed bool
}

// Sections resolves the scope against the store. All-sections mode skips
// viewed sections unless ShowViewed is set.
func (s Scope) Sections(store *library.Store) []string {
	if !s.All {
		if store.HasSection(s.Section) {
			return []string{s.Section}
		}
		return nil
	}
	var out []string
	for _, name := range store.SectionNames() {
		if library.IsViewedSection(name) && !s.ShowViewed {
			continue
		}
		out = append(out, name)
	}
	return out
}
