package enrich

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// SearchTerms are the catalog queries derived from one title.
type SearchTerms struct {
	Names []string
	// Year is "" when no year was found.
	Year string
}

const separatorChars = "–—.,:;|_-"

var (
	parenYearPattern    = regexp.MustCompile(`\((\d{4})\)`)
	leadingYearPattern  = regexp.MustCompile(`^(\d{4})[\s` + separatorChars + `]+`)
	trailingYearPattern = regexp.MustCompile(`[\s` + separatorChars + `]+(\d{4})$`)
	standaloneYearToken = regexp.MustCompile(`(?:^|[^\p{L}\p{N}])((?:19|20)\d{2})(?:$|[^\p{L}\p{N}])`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
	yearPatternsInOrder = []*regexp.Regexp{parenYearPattern, leadingYearPattern, trailingYearPattern, standaloneYearToken}
)

// ParseTitleForSearch splits title on "/" into name variants and pulls out
// the first year it finds. Each part tries, in order: "(YYYY)" anywhere, a
// leading "YYYY" followed by a separator, a trailing "YYYY" preceded by a
// separator, and any standalone 19xx/20xx token. Names are deduplicated
// case-insensitively in first-seen order.
func ParseTitleForSearch(title string) SearchTerms {
	var parts []string
	for _, part := range strings.Split(title, "/") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			parts = []string{trimmed}
		}
	}

	var terms SearchTerms
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		name, year := extractYear(part)
		if terms.Year == "" && year != "" {
			terms.Year = year
		}
		if name == "" {
			continue
		}
		key := fold.String(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		terms.Names = append(terms.Names, name)
	}
	return terms
}

func extractYear(part string) (string, string) {
	for _, pattern := range yearPatternsInOrder {
		loc := pattern.FindStringSubmatchIndex(part)
		if loc == nil {
			continue
		}
		year := part[loc[2]:loc[3]]
		start, end := loc[0], loc[1]
		if pattern == standaloneYearToken {
			start, end = loc[2], loc[3]
		}
		cleaned := cleanName(part[:start] + " " + part[end:])
		if cleaned == "" {
			// A title that is only a year ("1917") stays a name.
			return cleanName(part), ""
		}
		return cleaned, year
	}
	return cleanName(part), ""
}

func cleanName(value string) string {
	value = whitespacePattern.ReplaceAllString(value, " ")
	return strings.TrimFunc(value, func(r rune) bool {
		return unicode.IsSpace(r) || r == '/' || strings.ContainsRune(separatorChars, r)
	})
}
