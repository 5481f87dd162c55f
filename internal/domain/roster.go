package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is a clock value without a date. Valid is false when no time was recorded.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
	Valid  bool
}

// String returns the clock value as HH:MM:SS, or an empty string when not valid.
func (t TimeOfDay) String() string {
	if !t.Valid {
		return ""
	}
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// RosterEntry is one on-call assignment.
type RosterEntry struct {
	ID        int64
	Name      string
	City      string
	EntryDate time.Time
	EntryTime TimeOfDay
	ExitDate  time.Time
	ExitTime  TimeOfDay
	Kind      string
}

// NewRosterEntry holds the submitted fields of an entry before it is stored.
// Dates and times are kept as text and handed to the store unparsed.
type NewRosterEntry struct {
	Name      string
	City      string
	EntryDate string
	EntryTime string
	ExitDate  string
	ExitTime  string
	Kind      string
}
