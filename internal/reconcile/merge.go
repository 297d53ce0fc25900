package reconcile

import (
	"strings"
	"time"

	"shelf/internal/library"
)

// Result is the outcome of merging one section.
type Result struct {
	Items   []*library.Item
	Created []string
	Renamed []string
	Dropped []string
}

// Changed reports whether the merge altered anything.
func (r Result) Changed() bool {
	return len(r.Created) > 0 || len(r.Renamed) > 0 || len(r.Dropped) > 0
}

// Option customizes id and timestamp generation for new items.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock sets the time source for CreatedAt on new items.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDFunc sets the id generator for new items.
func WithIDFunc(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, newID: library.NewID}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// MergeByMask aligns lines against the masked items of original.
//
// Masked items consume lines in order and keep every field except Text; a
// consumed line is taken as-is even when blank. Masked items left without a
// line are dropped. Unmasked items pass through untouched. Remaining lines
// become new items, except lines that are blank after trimming. Missing mask
// entries count as false.
func MergeByMask(original []*library.Item, mask []bool, lines []string, opts ...Option) Result {
	o := buildOptions(opts)
	res := Result{Items: make([]*library.Item, 0, len(original)+len(lines))}
	cursor := 0
	for idx, it := range original {
		if idx >= len(mask) || !mask[idx] {
			res.Items = append(res.Items, it)
			continue
		}
		if cursor >= len(lines) {
			res.Dropped = append(res.Dropped, it.ID)
			continue
		}
		next := strings.TrimSpace(lines[cursor])
		cursor++
		kept := it.Clone()
		if kept.Text != next {
			res.Renamed = append(res.Renamed, kept.ID)
		}
		kept.Text = next
		res.Items = append(res.Items, kept)
	}
	for _, line := range lines[cursor:] {
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		it := library.NewItem(text, o.now())
		it.ID = o.newID()
		res.Items = append(res.Items, it)
		res.Created = append(res.Created, it.ID)
	}
	return res
}

// SplitLines trims every buffer line and drops blank ones.
func SplitLines(buffer string) []string {
	raw := strings.Split(strings.ReplaceAll(buffer, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
