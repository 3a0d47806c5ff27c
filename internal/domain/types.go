package domain

import "time"

// HierarchyEntry is one section of the classification with its parent division and class
type HierarchyEntry struct {
	SectionCode         string `json:"section_code"`
	DivisionCode        string `json:"division_code"`
	ClassCode           string `json:"class_code"`
	ClassDescription    string `json:"class_description"`
	DivisionDescription string `json:"division_description"`
	SectionDescription  string `json:"section_description"`
}

// Node is a single class, division or section without its ancestry
type Node struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// SearchHit is a match from a text search over all three levels
type SearchHit struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Level   string `json:"level"`
	Display string `json:"display"`
}

// DailyResponse is what the daily endpoint returns. Descriptions are only
// set when the reveal level allows them.
type DailyResponse struct {
	Date                string  `json:"date"`
	SectionCode         string  `json:"section"`
	ClassCode           string  `json:"main_class"`
	DivisionCode        string  `json:"division"`
	ClassDescription    *string `json:"main_class_description,omitempty"`
	DivisionDescription *string `json:"division_description,omitempty"`
	SectionMasked       *string `json:"section_masked,omitempty"`
}

// DateLayout is the canonical calendar date form.
const DateLayout = "2006-01-02"

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
