package roster

import (
	"context"
	"slices"
	"time"

	"github.com/thiagoblake/Sistema-SobreAviso/internal/domain"
)

// mockRepository implements Repository in memory for testing.
// It returns rows unordered so the view builder's own ordering is exercised.
type mockRepository struct {
	entries []domain.RosterEntry
	nextID  int64
	calls   []string

	listErr   error
	createErr error
	deleteErr error

	lastCreated *domain.NewRosterEntry
	lastStart   time.Time
	lastEnd     time.Time
	lastMonth   time.Month
}

func newMockRepository(entries ...domain.RosterEntry) *mockRepository {
	m := &mockRepository{nextID: 1}
	for _, e := range entries {
		if e.ID == 0 {
			e.ID = m.nextID
		}
		if e.ID >= m.nextID {
			m.nextID = e.ID + 1
		}
		m.entries = append(m.entries, e)
	}
	return m
}

func (m *mockRepository) ListAll(_ context.Context) ([]domain.RosterEntry, error) {
	m.calls = append(m.calls, "ListAll")
	if m.listErr != nil {
		return nil, m.listErr
	}
	return slices.Clone(m.entries), nil
}

func (m *mockRepository) ListByMonth(_ context.Context, month time.Month) ([]domain.RosterEntry, error) {
	m.calls = append(m.calls, "ListByMonth")
	m.lastMonth = month
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.RosterEntry
	for _, e := range m.entries {
		if e.EntryDate.Month() == month {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockRepository) ListByDateRange(_ context.Context, start, end time.Time) ([]domain.RosterEntry, error) {
	m.calls = append(m.calls, "ListByDateRange")
	m.lastStart, m.lastEnd = start, end
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.RosterEntry
	for _, e := range m.entries {
		if !e.EntryDate.Before(start) && !e.EntryDate.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockRepository) Create(_ context.Context, entry *domain.NewRosterEntry) (int64, error) {
	m.calls = append(m.calls, "Create")
	m.lastCreated = entry
	if m.createErr != nil {
		return 0, m.createErr
	}
	d, _ := time.Parse(time.DateOnly, entry.EntryDate)
	x, _ := time.Parse(time.DateOnly, entry.ExitDate)
	id := m.nextID
	m.nextID++
	m.entries = append(m.entries, domain.RosterEntry{
		ID:        id,
		Name:      entry.Name,
		City:      entry.City,
		EntryDate: d,
		ExitDate:  x,
		Kind:      entry.Kind,
	})
	return id, nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) (int64, error) {
	m.calls = append(m.calls, "Delete")
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	before := len(m.entries)
	m.entries = slices.DeleteFunc(m.entries, func(e domain.RosterEntry) bool { return e.ID == id })
	return int64(before - len(m.entries)), nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func entry(id int64, d time.Time) domain.RosterEntry {
	return domain.RosterEntry{
		ID:        id,
		Name:      "Plantonista",
		City:      "Porto Alegre",
		EntryDate: d,
		ExitDate:  d.AddDate(0, 0, 1),
		Kind:      "técnico",
	}
}
