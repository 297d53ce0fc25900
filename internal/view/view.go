package view

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"shelf/internal/library"
	"shelf/internal/reconcile"
)

// Entry is one listed item and its current position.
type Entry struct {
	Section string
	Index   int
	Item    *library.Item
}

type settings struct {
	collation string
}

// Option customizes listing behavior.
type Option func(*settings)

// WithCollation sets the BCP 47 language used for alphabetical ordering.
func WithCollation(lang string) Option {
	return func(s *settings) {
		if strings.TrimSpace(lang) != "" {
			s.collation = lang
		}
	}
}

func buildSettings(opts []Option) settings {
	s := settings{collation: "ru"}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Entries lists the items in scope that pass the filter, in the requested
// order.
func Entries(store *library.Store, scope Scope, filter Filter, order Sort, opts ...Option) []Entry {
	cfg := buildSettings(opts)
	var out []Entry
	for _, name := range scope.Sections(store) {
		items, _ := store.Items(name)
		for idx, it := range items {
			if filter.Match(it) {
				out = append(out, Entry{Section: name, Index: idx, Item: it})
			}
		}
	}
	order.apply(out, cfg.collation)
	return out
}

// EditBuffer is the text handed to the editor plus the exposure masks
// needed to fold it back.
type EditBuffer struct {
	Text  string
	All   bool
	Masks map[string][]bool
	// Section is set in single-section mode.
	Section string
}

// BuildEdit renders the filtered items of the scope in stored order. In
// all-sections mode every line carries its section label.
func BuildEdit(store *library.Store, scope Scope, filter Filter) EditBuffer {
	buf := EditBuffer{All: scope.All, Masks: make(map[string][]bool)}
	if !scope.All {
		buf.Section = scope.Section
	}
	var lines []string
	for _, name := range scope.Sections(store) {
		items, _ := store.Items(name)
		mask := make([]bool, len(items))
		exposed := false
		for idx, it := range items {
			if !filter.Match(it) {
				continue
			}
			mask[idx] = true
			exposed = true
			if scope.All {
				lines = append(lines, reconcile.FormatLine(name, it.Text))
			} else {
				lines = append(lines, it.Text)
			}
		}
		if exposed || !scope.All {
			buf.Masks[name] = mask
		}
	}
	if len(lines) > 0 {
		buf.Text = strings.Join(lines, "\n") + "\n"
	}
	return buf
}

// Plan folds an edited buffer back into a reconcile plan.
func (b EditBuffer) Plan(store *library.Store, edited string, opts ...reconcile.Option) (reconcile.Plan, error) {
	lines := reconcile.SplitLines(edited)
	if b.All {
		return reconcile.PlanAll(store, b.Masks, lines, opts...), nil
	}
	return reconcile.PlanSection(store, b.Section, b.Masks[b.Section], lines, opts...)
}

// TagCount is a tag with the number of items carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// TagCounts counts user-visible tags over the scope, ordered by collation.
func TagCounts(store *library.Store, scope Scope, opts ...Option) []TagCount {
	cfg := buildSettings(opts)
	counts := make(map[string]int)
	for _, name := range scope.Sections(store) {
		items, _ := store.Items(name)
		for _, it := range items {
			for _, tag := range library.VisibleTags(library.NormalizeTags(it.Tags)) {
				counts[tag]++
			}
		}
	}
	out := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	tag, err := language.Parse(cfg.collation)
	if err != nil {
		tag = language.Russian
	}
	col := collate.New(tag)
	sort.Slice(out, func(i, j int) bool { return col.CompareString(out[i].Tag, out[j].Tag) < 0 })
	return out
}
