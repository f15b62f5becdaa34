package model

import (
	"fmt"
	"time"
)

// DayFormat is the wire format for calendar dates throughout the bot.
const DayFormat = "2006-01-02"

// ClockFormat is the wire format for local times of day, second precision.
const ClockFormat = "15:04:05"

// AttendanceRecord is one check-in: at most one per (UserID, Day).
// Records are immutable once written; the table is the permanent audit log.
type AttendanceRecord struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"` // snapshot at insert time, never re-synced
	Day         time.Time `json:"day"`         // calendar date in the office timezone
	ClockTime   string    `json:"clockTime"`   // "HH:MM:SS" local
	IsLate      bool      `json:"isLate"`
}

// LateCount is one row of the grouped late-count query.
type LateCount struct {
	UserID      string
	DisplayName string
	Count       int
}

// UserSummary is one row of the per-user monthly summary query.
type UserSummary struct {
	UserID      string
	DisplayName string
	TotalDays   int
	LateDays    int
}

// MonthRange bounds a report query to one calendar month, inclusive on
// both ends. Start and End are UTC midnights carrying date information only.
type MonthRange struct {
	Start time.Time
	End   time.Time
}

// NewMonthRange computes the inclusive [first day, last day] range for the
// given year and month. Month arithmetic is delegated to time.Date, which
// normalizes January+12 into the following year.
func NewMonthRange(year, month int) MonthRange {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return MonthRange{Start: start, End: end}
}

// String renders the range's month as "YYYY-MM" for labels and filenames.
func (r MonthRange) String() string {
	return fmt.Sprintf("%04d-%02d", r.Start.Year(), int(r.Start.Month()))
}
