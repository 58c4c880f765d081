package tour

import "slices"

// SummaryDescriptionLimit caps descriptions in step listings, ellipsis included.
const SummaryDescriptionLimit = 50

const ellipsis = "..."

// StepUpdate names the fields UpdateStep overwrites. Nil fields are left untouched.
type StepUpdate struct {
	Description *string
	Title       *string
}

// StepSummary is the listing view of a step. A step's pattern is reported as
// patternRegex. Directory and pattern are both reported when a step carries both.
type StepSummary struct {
	Index        int    `json:"index"`
	Description  string `json:"description"`
	Title        string `json:"title,omitempty"`
	File         string `json:"file,omitempty"`
	Directory    string `json:"directory,omitempty"`
	PatternRegex string `json:"patternRegex,omitempty"`
}

// New returns a tour with no steps.
func New(title, description string) *Tour {
	return &Tour{Title: title, Description: description, Steps: []Step{}}
}

// BuildStep assembles a step for insertion. Title may be empty.
func BuildStep(file, description, title string, loc Location) Step {
	return Step{File: file, Description: description, Title: title, Location: loc}
}

// InsertStep inserts step at *index, or appends when index is nil, and
// returns where the step now lives. Out-of-range indices are clamped to
// [0, len(steps)] rather than rejected.
func (t *Tour) InsertStep(step Step, index *int) int {
	t.opaque = claim(t.opaque, "steps")
	if index == nil {
		t.Steps = append(t.Steps, step)
		return len(t.Steps) - 1
	}
	i := min(max(*index, 0), len(t.Steps))
	t.Steps = slices.Insert(t.Steps, i, step)
	return i
}

// UpdateStep overwrites the supplied fields of step i.
func (t *Tour) UpdateStep(i int, u StepUpdate) error {
	if err := CheckIndex(i, len(t.Steps)); err != nil {
		return err
	}
	s := &t.Steps[i]
	if u.Description != nil || u.Title != nil {
		s.literal = nil
	}
	if u.Description != nil {
		s.Description = *u.Description
		s.opaque = claim(s.opaque, "description")
	}
	if u.Title != nil {
		s.Title = *u.Title
		s.opaque = claim(s.opaque, "title")
	}
	return nil
}

// RemoveStep deletes step i; later steps shift left.
func (t *Tour) RemoveStep(i int) error {
	if err := CheckIndex(i, len(t.Steps)); err != nil {
		return err
	}
	t.Steps = slices.Delete(t.Steps, i, i+1)
	return nil
}

// Step returns step i unmodified.
func (t *Tour) Step(i int) (Step, error) {
	if err := CheckIndex(i, len(t.Steps)); err != nil {
		return Step{}, err
	}
	return t.Steps[i], nil
}

// ListSteps summarises every step in order.
func (t *Tour) ListSteps() []StepSummary {
	out := make([]StepSummary, 0, len(t.Steps))
	for i, s := range t.Steps {
		sum := StepSummary{
			Index:       i,
			Description: Truncate(s.Description, SummaryDescriptionLimit),
			Title:       s.Title,
			File:        s.File,
		}
		if d, ok := stringField(s.raw, "directory"); ok {
			sum.Directory = d
		}
		if p, ok := stringField(s.raw, "pattern"); ok {
			sum.PatternRegex = p
		}
		switch s.Location.Kind {
		case DirectoryLocation:
			sum.Directory = s.Location.Directory
		case PatternLocation:
			sum.PatternRegex = s.Location.Pattern
		}
		out = append(out, sum)
	}
	return out
}

// Truncate returns s unchanged when it has at most limit characters,
// otherwise its first limit-3 characters followed by "...".
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	cut := max(limit-len(ellipsis), 0)
	return string(r[:cut]) + ellipsis
}
