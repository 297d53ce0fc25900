package library

import (
	"strings"
	"time"
)

// ViewedSectionPrefix namespaces the hidden section that receives items
// marked viewed out of a regular section.
const ViewedSectionPrefix = "__viewed__:"

// Section is a named, ordered list of items.
type Section struct {
	Name     string
	Items    []*Item
	Modified time.Time
}

// Clone deep-copies the section and its items.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	return &Section{Name: s.Name, Items: CloneItems(s.Items), Modified: s.Modified}
}

// ViewedSectionName returns the viewed companion section for base.
func ViewedSectionName(base string) string {
	return ViewedSectionPrefix + base
}

// IsViewedSection reports whether name is a viewed companion section.
func IsViewedSection(name string) bool {
	return strings.HasPrefix(name, ViewedSectionPrefix)
}

// BaseSectionName strips the viewed prefix when present.
func BaseSectionName(name string) string {
	return strings.TrimPrefix(name, ViewedSectionPrefix)
}
