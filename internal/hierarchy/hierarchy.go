// Package hierarchy holds the class/division/section table in memory.
// It is built once at startup and never mutated.
package hierarchy

import (
	"fmt"
	"sort"

	"github.com/pbaille/dewey/internal/domain"
)

// Hierarchy is a read-only index of sections by code
type Hierarchy struct {
	entries map[string]domain.HierarchyEntry
	codes   []string
}

// New validates entries and builds the index. Codes are enumerated in
// ascending numeric order; changing that order would remap past dates.
func New(entries []domain.HierarchyEntry) (*Hierarchy, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: hierarchy is empty", domain.ErrConfiguration)
	}

	h := &Hierarchy{
		entries: make(map[string]domain.HierarchyEntry, len(entries)),
		codes:   make([]string, 0, len(entries)),
	}

	for _, e := range entries {
		if err := validate(e); err != nil {
			return nil, err
		}
		if _, dup := h.entries[e.SectionCode]; dup {
			return nil, fmt.Errorf("%w: duplicate section %s", domain.ErrConfiguration, e.SectionCode)
		}
		h.entries[e.SectionCode] = e
		h.codes = append(h.codes, e.SectionCode)
	}

	// Fixed-width digit strings sort the same lexically and numerically
	sort.Strings(h.codes)

	return h, nil
}

// Lookup returns the entry for a section code
func (h *Hierarchy) Lookup(code string) (domain.HierarchyEntry, error) {
	e, ok := h.entries[code]
	if !ok {
		return domain.HierarchyEntry{}, fmt.Errorf("section %s: %w", code, domain.ErrNotFound)
	}
	return e, nil
}

// Codes returns all populated section codes in ascending order
func (h *Hierarchy) Codes() []string {
	out := make([]string, len(h.codes))
	copy(out, h.codes)
	return out
}

// Len is the number of populated sections
func (h *Hierarchy) Len() int {
	return len(h.codes)
}

func validate(e domain.HierarchyEntry) error {
	if !IsCode(e.SectionCode) {
		return fmt.Errorf("%w: malformed section code %q", domain.ErrConfiguration, e.SectionCode)
	}
	if want := DivisionOf(e.SectionCode); e.DivisionCode != want {
		return fmt.Errorf("%w: section %s has division %q, want %s",
			domain.ErrConfiguration, e.SectionCode, e.DivisionCode, want)
	}
	if want := ClassOf(e.SectionCode); e.ClassCode != want {
		return fmt.Errorf("%w: section %s has class %q, want %s",
			domain.ErrConfiguration, e.SectionCode, e.ClassCode, want)
	}
	return nil
}

// IsCode reports whether s is a 3-digit code "000".."999"
func IsCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// DivisionOf zeroes the last digit of a section code
func DivisionOf(section string) string {
	return section[:2] + "0"
}

// ClassOf zeroes the last two digits of a section code
func ClassOf(section string) string {
	return section[:1] + "00"
}
