package roster

import (
	"slices"
	"time"

	"github.com/thiagoblake/Sistema-SobreAviso/internal/domain"
)

// DateFormatter renders stored dates and times for display.
type DateFormatter interface {
	DisplayDate(t time.Time) string
	DisplayTime(t domain.TimeOfDay) string
}

// EntryView is a roster entry decorated for display.
type EntryView struct {
	ID        int64
	Name      string
	City      string
	EntryDate string
	EntryTime string
	ExitDate  string
	ExitTime  string
	Kind      string

	// entryDate keeps the raw value for ordering and filtering.
	entryDate time.Time
}

// MonthViews groups the entries shown on the month overview page.
type MonthViews struct {
	CurrentMonth []EntryView
	NextMonth    []EntryView
	Upcoming     []EntryView
}

// ViewBuilder partitions and orders raw entries into display views.
type ViewBuilder struct {
	formatter DateFormatter
}

// NewViewBuilder creates a view builder using the given formatter.
func NewViewBuilder(formatter DateFormatter) *ViewBuilder {
	return &ViewBuilder{formatter: formatter}
}

// All returns every entry ordered by entry date, newest first.
func (b *ViewBuilder) All(entries []domain.RosterEntry) []EntryView {
	views := b.decorate(entries)
	slices.SortStableFunc(views, func(x, y EntryView) int {
		return y.entryDate.Compare(x.entryDate)
	})
	return views
}

// CurrentMonth returns entries whose entry date has the same month number as now,
// regardless of year, in ascending entry date order.
func (b *ViewBuilder) CurrentMonth(entries []domain.RosterEntry, now time.Time) []EntryView {
	month := now.Month()
	var matched []domain.RosterEntry
	for _, e := range entries {
		if e.EntryDate.Month() == month {
			matched = append(matched, e)
		}
	}
	return ascending(b.decorate(matched))
}

// NextMonth returns entries dated within the calendar month following now,
// year included, in ascending entry date order.
func (b *ViewBuilder) NextMonth(entries []domain.RosterEntry, now time.Time) []EntryView {
	first, last := NextMonthRange(now)
	var matched []domain.RosterEntry
	for _, e := range entries {
		d := dateOnly(e.EntryDate)
		if !d.Before(first) && !d.After(last) {
			matched = append(matched, e)
		}
	}
	return ascending(b.decorate(matched))
}

// Upcoming keeps the current-month views whose entry date is strictly after now.
// The entry date is taken as midnight in now's location.
func (b *ViewBuilder) Upcoming(current []EntryView, now time.Time) []EntryView {
	upcoming := make([]EntryView, 0, len(current))
	for _, v := range current {
		d := v.entryDate
		start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
		if start.After(now) {
			upcoming = append(upcoming, v)
		}
	}
	return upcoming
}

// Month builds the month overview from the current-month and next-month result sets.
func (b *ViewBuilder) Month(current, next []domain.RosterEntry, now time.Time) MonthViews {
	currentViews := b.CurrentMonth(current, now)
	return MonthViews{
		CurrentMonth: currentViews,
		NextMonth:    b.NextMonth(next, now),
		Upcoming:     b.Upcoming(currentViews, now),
	}
}

// NextMonthRange returns the first and last day of the calendar month after now,
// both at midnight UTC.
func NextMonthRange(now time.Time) (first, last time.Time) {
	first = time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

func (b *ViewBuilder) decorate(entries []domain.RosterEntry) []EntryView {
	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, EntryView{
			ID:        e.ID,
			Name:      e.Name,
			City:      e.City,
			EntryDate: b.formatter.DisplayDate(e.EntryDate),
			EntryTime: b.formatter.DisplayTime(e.EntryTime),
			ExitDate:  b.formatter.DisplayDate(e.ExitDate),
			ExitTime:  b.formatter.DisplayTime(e.ExitTime),
			Kind:      e.Kind,
			entryDate: e.EntryDate,
		})
	}
	return views
}

func ascending(views []EntryView) []EntryView {
	slices.SortStableFunc(views, func(x, y EntryView) int {
		return x.entryDate.Compare(y.entryDate)
	})
	return views
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
