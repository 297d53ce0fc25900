package reconcile

import (
	"regexp"
	"strings"

	"shelf/internal/library"
)

const (
	viewedLabelPrefix = "~"
	escapeChar        = '\\'
)

var labelPattern = regexp.MustCompile(`^\[((?:\\.|[^\]\\])+)\]\s*(.*)$`)

// EncodeLabel maps a section name to its editor label. Viewed sections are
// written as "~base". Backslashes and closing brackets are escaped with a
// backslash, as is a leading "~" on a regular section name.
func EncodeLabel(section string) string {
	if library.IsViewedSection(section) {
		return viewedLabelPrefix + escapeLabel(library.BaseSectionName(section))
	}
	label := escapeLabel(section)
	if strings.HasPrefix(label, viewedLabelPrefix) {
		return string(escapeChar) + label
	}
	return label
}

// DecodeLabel is the inverse of EncodeLabel.
func DecodeLabel(label string) string {
	label = strings.TrimSpace(label)
	if rest, ok := strings.CutPrefix(label, viewedLabelPrefix); ok {
		return library.ViewedSectionName(unescapeLabel(rest))
	}
	return unescapeLabel(label)
}

func escapeLabel(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == escapeChar || r == ']' {
			b.WriteRune(escapeChar)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// unescapeLabel drops the backslash in front of any rune. A trailing lone
// backslash is kept.
func unescapeLabel(label string) string {
	var b strings.Builder
	escaped := false
	for _, r := range label {
		if r == escapeChar && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	if escaped {
		b.WriteRune(escapeChar)
	}
	return b.String()
}

// FormatLine renders one all-sections buffer line.
func FormatLine(section, text string) string {
	return "[" + EncodeLabel(section) + "] " + text
}

// Buckets holds lines grouped by section, in first-seen section order.
type Buckets struct {
	Order []string
	Lines map[string][]string
}

func (b *Buckets) touch(section string) {
	if _, ok := b.Lines[section]; ok {
		return
	}
	b.Order = append(b.Order, section)
	b.Lines[section] = []string{}
}

// ParseAllLines groups all-sections buffer lines by their label prefix. A
// prefixed line switches the current section for the lines that follow; a
// prefix with nothing after it only switches. Lines before any prefix go to
// first.
func ParseAllLines(lines []string, first string) Buckets {
	b := Buckets{Lines: make(map[string][]string)}
	current := first
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := labelPattern.FindStringSubmatch(line); m != nil {
			if section := DecodeLabel(m[1]); section != "" {
				current = section
				b.touch(current)
				if rest := strings.TrimSpace(m[2]); rest != "" {
					b.Lines[current] = append(b.Lines[current], rest)
				}
				continue
			}
		}
		if current == "" {
			continue
		}
		b.touch(current)
		b.Lines[current] = append(b.Lines[current], line)
	}
	return b
}
