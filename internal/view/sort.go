package view

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey names a listing order.
type SortKey string

const (
	SortManual SortKey = "manual"
	SortAlpha  SortKey = "alpha"
	SortYear   SortKey = "year"
	SortDate   SortKey = "date"
)

// Direction is ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is a key plus direction.
type Sort struct {
	Key SortKey
	Dir Direction
}

// DefaultSort is manual order.
var DefaultSort = Sort{Key: SortManual, Dir: Desc}

// DefaultDirection returns the direction a key starts with.
func DefaultDirection(key SortKey) Direction {
	if key == SortAlpha {
		return Asc
	}
	return Desc
}

// ParseSort reads "key" or "key:dir". Unknown directions fall back to desc.
func ParseSort(value string) (Sort, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return DefaultSort, nil
	}
	keyPart, dirPart, hasDir := strings.Cut(value, ":")
	key := SortKey(keyPart)
	switch key {
	case SortManual, SortAlpha, SortYear, SortDate:
	default:
		return Sort{}, fmt.Errorf("unknown sort key %q", keyPart)
	}
	dir := DefaultDirection(key)
	if hasDir {
		dir = Desc
		if Direction(dirPart) == Asc {
			dir = Asc
		}
	}
	return Sort{Key: key, Dir: dir}, nil
}

// String renders the form accepted by ParseSort.
func (s Sort) String() string {
	key := s.Key
	if key == "" {
		key = SortManual
	}
	dir := s.Dir
	if dir == "" {
		dir = DefaultDirection(key)
	}
	return string(key) + ":" + string(dir)
}

// Toggle returns the sort after selecting key: the same key flips direction,
// a new key starts at its default direction, manual resets.
func (s Sort) Toggle(key SortKey) Sort {
	switch {
	case key == SortManual:
		return DefaultSort
	case s.Key == key:
		if s.Dir == Asc {
			return Sort{Key: key, Dir: Desc}
		}
		return Sort{Key: key, Dir: Asc}
	default:
		return Sort{Key: key, Dir: DefaultDirection(key)}
	}
}

var yearPattern = regexp.MustCompile(`\((\d{4})\)`)

// YearOf extracts the "(YYYY)" year from a title, or 0.
func YearOf(text string) int {
	m := yearPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	year, _ := strconv.Atoi(m[1])
	return year
}

// apply sorts ascending with a stable sort and reverses for desc.
func (s Sort) apply(entries []Entry, lang string) {
	var less func(a, b Entry) bool
	switch s.Key {
	case SortAlpha:
		tag, err := language.Parse(lang)
		if err != nil {
			tag = language.Russian
		}
		col := collate.New(tag)
		less = func(a, b Entry) bool { return col.CompareString(a.Item.Text, b.Item.Text) < 0 }
	case SortYear:
		less = func(a, b Entry) bool { return YearOf(a.Item.Text) < YearOf(b.Item.Text) }
	case SortDate:
		less = func(a, b Entry) bool { return a.Item.CreatedAt.Before(b.Item.CreatedAt) }
	default:
		return
	}
	sort.SliceStable(entries, func(i, j int) bool { return less(entries[i], entries[j]) })
	if s.Dir == Desc {
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}
}
