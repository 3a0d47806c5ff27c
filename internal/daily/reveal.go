package daily

import (
	"fmt"
	"time"

	"github.com/pbaille/dewey/internal/domain"
)

// RevealOptions are the caller's explicit overrides of the hourly schedule
type RevealOptions struct {
	Hint *int
	Full bool
}

// Hour bands, UTC. Each band starts at its hour and runs to the next one.
var bands = []struct {
	start int
	level domain.RevealLevel
}{
	{0, domain.CodeOnly},
	{9, domain.WithClass},
	{17, domain.WithDivision},
	{21, domain.WithMaskedSection},
}

// Decide picks the reveal level. Full wins over a hint, a hint wins over the hour.
func Decide(hour int, opts RevealOptions) (domain.RevealLevel, error) {
	if opts.Full {
		return domain.WithMaskedSection, nil
	}

	if opts.Hint != nil {
		switch *opts.Hint {
		case 1:
			return domain.WithClass, nil
		case 2:
			return domain.WithDivision, nil
		case 3:
			return domain.WithMaskedSection, nil
		default:
			return domain.CodeOnly, fmt.Errorf("%w: hint must be 1, 2 or 3, got %d", domain.ErrInvalidParameter, *opts.Hint)
		}
	}

	if hour < 0 || hour > 23 {
		return domain.CodeOnly, fmt.Errorf("%w: hour must be 0-23, got %d", domain.ErrInvalidParameter, hour)
	}

	level := bands[0].level
	for _, b := range bands {
		if hour >= b.start {
			level = b.level
		}
	}
	return level, nil
}

// NextChange is when the response for t and opts can next differ: the
// following band boundary for schedule-driven requests, otherwise the next
// UTC midnight when the date rolls over.
func NextChange(t time.Time, opts RevealOptions) time.Time {
	t = t.UTC()
	day := domain.Day(t)
	midnight := day.AddDate(0, 0, 1)

	if opts.Full || opts.Hint != nil {
		return midnight
	}

	for _, b := range bands {
		if b.start > t.Hour() {
			return day.Add(time.Duration(b.start) * time.Hour)
		}
	}
	return midnight
}
