package reconcile

import (
	"shelf/internal/library"
)

// SectionPlan is the computed next state of one section.
type SectionPlan struct {
	Section string
	Create  bool
	Result  Result
}

// Plan is a fully computed bulk edit. Nothing touches the store until Apply.
type Plan struct {
	Sections []SectionPlan
}

// Created lists ids of new items across all sections.
func (p Plan) Created() []string {
	var out []string
	for _, sp := range p.Sections {
		out = append(out, sp.Result.Created...)
	}
	return out
}

// Renamed lists ids whose text changed across all sections.
func (p Plan) Renamed() []string {
	var out []string
	for _, sp := range p.Sections {
		out = append(out, sp.Result.Renamed...)
	}
	return out
}

// Dropped lists ids removed across all sections.
func (p Plan) Dropped() []string {
	var out []string
	for _, sp := range p.Sections {
		out = append(out, sp.Result.Dropped...)
	}
	return out
}

// Changed reports whether any section changes.
func (p Plan) Changed() bool {
	for _, sp := range p.Sections {
		if sp.Create || sp.Result.Changed() {
			return true
		}
	}
	return false
}

// Apply writes every planned section into the store.
func (p Plan) Apply(store *library.Store) {
	for _, sp := range p.Sections {
		if !sp.Create && !sp.Result.Changed() {
			continue
		}
		store.ReplaceItems(sp.Section, sp.Result.Items)
	}
}

// PlanSection merges lines into a single section.
func PlanSection(store *library.Store, section string, mask []bool, lines []string, opts ...Option) (Plan, error) {
	items, err := store.Items(section)
	if err != nil {
		return Plan{}, err
	}
	res := MergeByMask(items, mask, lines, opts...)
	return Plan{Sections: []SectionPlan{{Section: section, Result: res}}}, nil
}

// PlanAll merges an all-sections buffer. masks holds the exposure mask of
// each section that was rendered into the buffer. Sections with no exposed
// items and no lines are left alone; labels naming unknown sections create
// them.
func PlanAll(store *library.Store, masks map[string][]bool, lines []string, opts ...Option) Plan {
	buckets := ParseAllLines(lines, store.FirstSection())
	var plan Plan
	for _, name := range store.SectionNames() {
		mask := masks[name]
		sectionLines := buckets.Lines[name]
		if !anyTrue(mask) && len(sectionLines) == 0 {
			continue
		}
		items, _ := store.Items(name)
		plan.Sections = append(plan.Sections, SectionPlan{
			Section: name,
			Result:  MergeByMask(items, mask, sectionLines, opts...),
		})
	}
	for _, name := range buckets.Order {
		if store.HasSection(name) {
			continue
		}
		plan.Sections = append(plan.Sections, SectionPlan{
			Section: name,
			Create:  true,
			Result:  MergeByMask(nil, nil, buckets.Lines[name], opts...),
		})
	}
	return plan
}

func anyTrue(mask []bool) bool {
	for _, v := range mask {
		if v {
			return true
		}
	}
	return false
}
