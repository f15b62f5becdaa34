package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"attendance.bot/internal/core/model"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const pgUniqueViolation = "23505"

// AttendanceRepository is the concrete implementation for a PostgreSQL database.
type AttendanceRepository struct {
	DB *sql.DB
}

// NewAttendanceRepository create new instance
func NewAttendanceRepository(db *sql.DB) Repository {
	return &AttendanceRepository{DB: db}
}

// EnsureSchema creates the attendance table if it is not there yet. The
// unique constraint on (user_id, day) is what makes concurrent check-ins
// for the same user safe; everything else relies on it.
func (r *AttendanceRepository) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS attendance (
		id           BIGSERIAL PRIMARY KEY,
		user_id      TEXT NOT NULL,
		display_name TEXT NOT NULL,
		day          DATE NOT NULL,
		clock_time   TEXT NOT NULL,
		is_late      BOOLEAN NOT NULL,
		UNIQUE (user_id, day)
	)`

	_, err := r.DB.ExecContext(ctx, query)
	return err
}

// HasRecordForDay checks whether the user already has a record today.
func (r *AttendanceRepository) HasRecordForDay(ctx context.Context, userID string, day time.Time) (bool, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.userId", userID))

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM attendance WHERE user_id = $1 AND day = $2)`

	err := r.DB.QueryRowContext(ctx, query, userID, day.Format(model.DayFormat)).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Insert appends one attendance record. A unique-constraint rejection is
// mapped to ErrDuplicateRecord so callers can treat it as idempotence.
func (r *AttendanceRepository) Insert(ctx context.Context, rec model.AttendanceRecord) (int64, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.userId", rec.UserID))

	var id int64
	query := `INSERT INTO attendance (user_id, display_name, day, clock_time, is_late)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := r.DB.QueryRowContext(ctx, query,
		rec.UserID, rec.DisplayName, rec.Day.Format(model.DayFormat), rec.ClockTime, rec.IsLate,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, ErrDuplicateRecord
		}
		return 0, err
	}

	return id, nil
}

// QueryRange returns every record in [start, end], ordered by (day, clock_time).
func (r *AttendanceRepository) QueryRange(ctx context.Context, start, end time.Time) ([]model.AttendanceRecord, error) {
	query := `SELECT id, user_id, display_name, day, clock_time, is_late
              FROM attendance
              WHERE day >= $1 AND day <= $2
              ORDER BY day ASC, clock_time ASC`

	rows, err := r.DB.QueryContext(ctx, query, start.Format(model.DayFormat), end.Format(model.DayFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.DisplayName, &rec.Day, &rec.ClockTime, &rec.IsLate); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// QueryLateCountsByUser groups late records per user, most late first.
// Ties keep natural row order.
func (r *AttendanceRepository) QueryLateCountsByUser(ctx context.Context, start, end time.Time) ([]model.LateCount, error) {
	query := `SELECT user_id, display_name, COUNT(*) AS late_count
              FROM attendance
              WHERE is_late AND day >= $1 AND day <= $2
              GROUP BY user_id, display_name
              ORDER BY late_count DESC`

	rows, err := r.DB.QueryContext(ctx, query, start.Format(model.DayFormat), end.Format(model.DayFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.LateCount
	for rows.Next() {
		var lc model.LateCount
		if err := rows.Scan(&lc.UserID, &lc.DisplayName, &lc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, lc)
	}

	return counts, rows.Err()
}

// QueryUserLateCount counts one user's late days in the range.
func (r *AttendanceRepository) QueryUserLateCount(ctx context.Context, userID string, start, end time.Time) (int, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.userId", userID))

	var count int
	query := `SELECT COUNT(*) FROM attendance
              WHERE user_id = $1 AND is_late AND day >= $2 AND day <= $3`

	err := r.DB.QueryRowContext(ctx, query, userID, start.Format(model.DayFormat), end.Format(model.DayFormat)).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// QuerySummaryByUser returns per-user totals over the range, ordered by
// display name without regard to case.
func (r *AttendanceRepository) QuerySummaryByUser(ctx context.Context, start, end time.Time) ([]model.UserSummary, error) {
	query := `SELECT user_id, display_name, COUNT(*) AS total_days,
                     COUNT(*) FILTER (WHERE is_late) AS late_days
              FROM attendance
              WHERE day >= $1 AND day <= $2
              GROUP BY user_id, display_name
              ORDER BY LOWER(display_name) ASC`

	rows, err := r.DB.QueryContext(ctx, query, start.Format(model.DayFormat), end.Format(model.DayFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.UserSummary
	for rows.Next() {
		var s model.UserSummary
		if err := rows.Scan(&s.UserID, &s.DisplayName, &s.TotalDays, &s.LateDays); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// PresentOnDay returns the user IDs with a record on the given day.
func (r *AttendanceRepository) PresentOnDay(ctx context.Context, day time.Time) (map[string]bool, error) {
	query := `SELECT user_id FROM attendance WHERE day = $1`

	rows, err := r.DB.QueryContext(ctx, query, day.Format(model.DayFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		present[userID] = true
	}

	return present, rows.Err()
}
