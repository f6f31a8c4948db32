package ledger

import (
	"time"
)

// RecurrenceFrequency enumerates the supported repeat intervals
type RecurrenceFrequency string

const (
	RecurrenceDaily   RecurrenceFrequency = "daily"
	RecurrenceWeekly  RecurrenceFrequency = "weekly"
	RecurrenceMonthly RecurrenceFrequency = "monthly"
	RecurrenceYearly  RecurrenceFrequency = "yearly"
)

// IsValid checks if the frequency is one of the supported values
func (f RecurrenceFrequency) IsValid() bool {
	switch f {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// String returns the string representation
func (f RecurrenceFrequency) String() string {
	return string(f)
}

// Recurrence describes how a transaction would repeat. It is stored with
// the transaction and validated at the boundary, but no process consumes
// it: there is no scheduler and recurring entries are never materialized.
type Recurrence struct {
	Frequency RecurrenceFrequency `json:"frequency"`
	NextDate  *time.Time          `json:"next_date,omitempty"`
}

// NewRecurrence creates a recurrence descriptor
func NewRecurrence(frequency RecurrenceFrequency, nextDate *time.Time) (*Recurrence, error) {
	if !frequency.IsValid() {
		return nil, ErrInvalidRecurrence
	}
	return &Recurrence{
		Frequency: frequency,
		NextDate:  nextDate,
	}, nil
}
