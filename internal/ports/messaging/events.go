package messaging

import "time"

// AttendanceMarkedEvent is the JSON payload published after every
// successful check-in, consumed by the HR sync worker.
type AttendanceMarkedEvent struct {
	RecordID    int64     `json:"recordId"`
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	Day         string    `json:"day"`       // "YYYY-MM-DD"
	ClockTime   string    `json:"clockTime"` // "HH:MM:SS" local
	IsLate      bool      `json:"isLate"`
	OccurredAt  time.Time `json:"occurredAt"`
}
