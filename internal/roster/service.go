// Package roster provides the on-call roster listings and mutations.
package roster

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thiagoblake/Sistema-SobreAviso/internal/domain"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/pkg/ctxlog"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/pkg/datefmt"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/pkg/metrics"
)

// Service implements roster business logic.
type Service struct {
	repo    Repository
	builder *ViewBuilder
	now     func() time.Time
}

// NewService creates a new roster service.
func NewService(repo Repository, formatter DateFormatter) *Service {
	return &Service{
		repo:    repo,
		builder: NewViewBuilder(formatter),
		now:     time.Now,
	}
}

// CreateEntryInput holds the submitted fields of a new roster entry.
type CreateEntryInput struct {
	Name      string
	City      string
	EntryDate string
	EntryTime string
	ExitDate  string
	ExitTime  string
	Kind      string
}

// List returns all entries, newest first.
func (s *Service) List(ctx context.Context) ([]EntryView, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roster entries: %w", err)
	}
	return s.builder.All(entries), nil
}

// Month returns the current-month, next-month and upcoming views relative to now.
func (s *Service) Month(ctx context.Context) (MonthViews, error) {
	now := s.now()

	current, err := s.repo.ListByMonth(ctx, now.Month())
	if err != nil {
		return MonthViews{}, fmt.Errorf("list current month entries: %w", err)
	}

	first, last := NextMonthRange(now)
	next, err := s.repo.ListByDateRange(ctx, first, last)
	if err != nil {
		return MonthViews{}, fmt.Errorf("list next month entries: %w", err)
	}

	return s.builder.Month(current, next, now), nil
}

// Create stores a new entry. Date fields are truncated to their date part;
// no other validation is applied.
func (s *Service) Create(ctx context.Context, input CreateEntryInput) (int64, error) {
	entry := &domain.NewRosterEntry{
		Name:      input.Name,
		City:      input.City,
		EntryDate: datefmt.TruncateDate(input.EntryDate),
		EntryTime: strings.TrimSpace(input.EntryTime),
		ExitDate:  datefmt.TruncateDate(input.ExitDate),
		ExitTime:  strings.TrimSpace(input.ExitTime),
		Kind:      input.Kind,
	}

	id, err := s.repo.Create(ctx, entry)
	if err != nil {
		return 0, fmt.Errorf("create roster entry: %w", err)
	}

	metrics.RosterMutations.WithLabelValues("create").Inc()
	ctxlog.FromContext(ctx).Info("roster entry created", "entry_id", id)
	return id, nil
}

// Delete removes an entry. Deleting an unknown ID is not an error.
func (s *Service) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete roster entry: %w", err)
	}

	if affected > 0 {
		metrics.RosterMutations.WithLabelValues("delete").Inc()
	}
	ctxlog.FromContext(ctx).Info("roster entry deleted", "entry_id", id, "affected", affected)
	return nil
}
