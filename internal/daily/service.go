// Package daily picks the section of the day and decides how much of it to show.
package daily

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pbaille/dewey/internal/domain"
)

// HierarchyStore is the read-only section table the service draws from
type HierarchyStore interface {
	Lookup(code string) (domain.HierarchyEntry, error)
	Codes() []string
}

// Service builds daily responses
type Service struct {
	store    HierarchyStore
	selector *Selector
	logger   *zap.Logger
}

// NewService enumerates the store's codes once. An empty store is a configuration error.
func NewService(store HierarchyStore, logger *zap.Logger) (*Service, error) {
	selector, err := NewSelector(store.Codes())
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, selector: selector, logger: logger}, nil
}

// Section returns the full entry selected for the date of t
func (s *Service) Section(t time.Time) (domain.HierarchyEntry, error) {
	code := s.selector.Select(t)
	entry, err := s.store.Lookup(code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("selected section missing from hierarchy",
				zap.String("date", domain.Day(t).Format(domain.DateLayout)),
				zap.String("section", code),
				zap.Error(err))
		}
		return domain.HierarchyEntry{}, fmt.Errorf("lookup daily section: %w", err)
	}
	return entry, nil
}

// Build assembles the response for date at the given UTC hour. Each level
// includes everything below it. The raw section description is never returned.
func (s *Service) Build(date time.Time, hour int, opts RevealOptions) (*domain.DailyResponse, error) {
	level, err := Decide(hour, opts)
	if err != nil {
		return nil, err
	}

	entry, err := s.Section(date)
	if err != nil {
		return nil, err
	}

	resp := &domain.DailyResponse{
		Date:         domain.Day(date).Format(domain.DateLayout),
		SectionCode:  entry.SectionCode,
		ClassCode:    entry.ClassCode,
		DivisionCode: entry.DivisionCode,
	}

	if level >= domain.WithClass {
		resp.ClassDescription = &entry.ClassDescription
	}
	if level >= domain.WithDivision {
		resp.DivisionDescription = &entry.DivisionDescription
	}
	if level >= domain.WithMaskedSection {
		masked := Mask(entry.SectionDescription)
		resp.SectionMasked = &masked
	}

	s.logger.Debug("built daily response",
		zap.String("date", resp.Date),
		zap.String("section", resp.SectionCode),
		zap.Stringer("level", level))

	return resp, nil
}

// BuildAt derives the date and hour from t in UTC
func (s *Service) BuildAt(t time.Time, opts RevealOptions) (*domain.DailyResponse, error) {
	t = t.UTC()
	return s.Build(t, t.Hour(), opts)
}
