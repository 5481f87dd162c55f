package roster

import (
	"context"
	"time"

	"github.com/thiagoblake/Sistema-SobreAviso/internal/domain"
)

// Repository defines the interface for roster data operations.
type Repository interface {
	// ListAll returns every entry, newest entry date first.
	ListAll(ctx context.Context) ([]domain.RosterEntry, error)
	// ListByMonth returns entries whose entry date falls in the given month of any year.
	ListByMonth(ctx context.Context, month time.Month) ([]domain.RosterEntry, error)
	// ListByDateRange returns entries whose entry date is within [start, end], both inclusive.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.RosterEntry, error)
	// Create stores a new entry and returns its ID.
	Create(ctx context.Context, entry *domain.NewRosterEntry) (int64, error)
	// Delete removes an entry by ID and returns the number of rows removed.
	Delete(ctx context.Context, id int64) (int64, error)
}
