package repository

import (
	"context"
	"errors"
	"time"

	"attendance.bot/internal/core/model"
)

// ErrDuplicateRecord is returned by Insert when a record for the same
// (user, day) already exists. The unique constraint on the table is the
// authoritative guard; callers treat this as the idempotent
// "already checked in" outcome, not a failure.
var ErrDuplicateRecord = errors.New("attendance record already exists for this user and day")

// Repository is the attendance store contract.
type Repository interface {
	// EnsureSchema creates the attendance table and its unique index if
	// they do not exist yet.
	EnsureSchema(ctx context.Context) error

	// HasRecordForDay reports whether the user already checked in on the
	// given calendar day.
	HasRecordForDay(ctx context.Context, userID string, day time.Time) (bool, error)

	// Insert appends one record. Returns ErrDuplicateRecord when the
	// (user, day) uniqueness constraint rejects the row.
	Insert(ctx context.Context, rec model.AttendanceRecord) (int64, error)

	// QueryRange returns every record with start <= day <= end, ordered
	// by (day, clock time) ascending.
	QueryRange(ctx context.Context, start, end time.Time) ([]model.AttendanceRecord, error)

	// QueryLateCountsByUser groups late records per user over the range,
	// ordered by late count descending.
	QueryLateCountsByUser(ctx context.Context, start, end time.Time) ([]model.LateCount, error)

	// QueryUserLateCount counts one user's late records over the range.
	QueryUserLateCount(ctx context.Context, userID string, start, end time.Time) (int, error)

	// QuerySummaryByUser returns per-user total and late day counts over
	// the range, ordered by display name, case-insensitive.
	QuerySummaryByUser(ctx context.Context, start, end time.Time) ([]model.UserSummary, error)

	// PresentOnDay returns the set of user IDs with a record on the day.
	PresentOnDay(ctx context.Context, day time.Time) (map[string]bool, error)
}
