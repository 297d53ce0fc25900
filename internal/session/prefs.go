package session

import (
	"context"
	"encoding/json"
	"strconv"

	"shelf/internal/logging"
	"shelf/internal/view"
)

const (
	prefSection    = "pref:section"
	prefSort       = "pref:sort"
	prefQuery      = "pref:query"
	prefTags       = "pref:tags"
	prefShowViewed = "pref:show_viewed"
	prefExpanded   = "pref:expanded"
)

// Prefs is the persisted browsing state.
type Prefs struct {
	Section    string
	Sort       view.Sort
	Query      string
	Tags       []string
	ShowViewed bool
	// Expanded is the id of the item whose details are open.
	Expanded string
}

// Filter returns the text and tag filter.
func (p Prefs) Filter() view.Filter {
	return view.Filter{Query: p.Query, Tags: append([]string(nil), p.Tags...)}
}

// Scope returns the listing scope for the current section.
func (p Prefs) Scope(all bool) view.Scope {
	return view.Scope{Section: p.Section, All: all, ShowViewed: p.ShowViewed}
}

// DefaultPrefs is the browsing state of a fresh install.
func DefaultPrefs() Prefs {
	return Prefs{Sort: view.DefaultSort}
}

func (s *Session) loadPrefs(ctx context.Context) Prefs {
	p := DefaultPrefs()
	if s.state == nil {
		return p
	}
	get := func(key string) string {
		value, ok, err := s.state.Get(ctx, key)
		if err != nil {
			s.logger.Debug("read preference failed", logging.String("key", key), logging.Error(err))
			return ""
		}
		if !ok {
			return ""
		}
		return value
	}
	p.Section = get(prefSection)
	if raw := get(prefSort); raw != "" {
		if sort, err := view.ParseSort(raw); err == nil {
			p.Sort = sort
		}
	}
	p.Query = get(prefQuery)
	if raw := get(prefTags); raw != "" {
		_ = json.Unmarshal([]byte(raw), &p.Tags)
	}
	p.ShowViewed, _ = strconv.ParseBool(get(prefShowViewed))
	p.Expanded = get(prefExpanded)
	return p
}

// Prefs returns a copy of the current preferences.
func (s *Session) Prefs() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.prefs
	p.Tags = append([]string(nil), s.prefs.Tags...)
	return p
}

// UpdatePrefs applies fn to the preferences and persists the result. A
// current section that does not exist falls back to the first section.
func (s *Session) UpdatePrefs(ctx context.Context, fn func(*Prefs)) Prefs {
	s.mu.Lock()
	p := s.prefs
	p.Tags = append([]string(nil), s.prefs.Tags...)
	fn(&p)
	if !s.store.HasSection(p.Section) {
		p.Section = s.store.FirstSection()
	}
	s.prefs = p
	s.mu.Unlock()

	s.savePrefs(ctx, p)
	return p
}

func (s *Session) savePrefs(ctx context.Context, p Prefs) {
	if s.state == nil {
		return
	}
	tags, _ := json.Marshal(p.Tags)
	values := []struct{ key, value string }{
		{prefSection, p.Section},
		{prefSort, p.Sort.String()},
		{prefQuery, p.Query},
		{prefTags, string(tags)},
		{prefShowViewed, strconv.FormatBool(p.ShowViewed)},
		{prefExpanded, p.Expanded},
	}
	for _, kv := range values {
		if err := s.state.Set(ctx, kv.key, kv.value); err != nil {
			logging.WarnWithContext(s.logger, "preference write failed", "prefs_persist",
				logging.String("key", kv.key),
				logging.String(logging.FieldErrorHint, "check state database permissions"),
				logging.String(logging.FieldImpact, "browsing state resets on next start"),
				logging.Error(err),
			)
			return
		}
	}
}

// redirectPrefsLocked keeps the current section and expanded item valid
// after sections were renamed, merged or deleted. It reports whether
// anything changed.
func (s *Session) redirectPrefsLocked(from, to string) bool {
	changed := false
	if s.prefs.Section == from {
		s.prefs.Section = to
		changed = true
	}
	if !s.store.HasSection(s.prefs.Section) {
		s.prefs.Section = s.store.FirstSection()
		changed = true
	}
	if s.prefs.Expanded != "" {
		if _, _, ok := s.store.FindItem(s.prefs.Expanded); !ok {
			s.prefs.Expanded = ""
			changed = true
		}
	}
	return changed
}
