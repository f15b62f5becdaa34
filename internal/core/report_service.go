package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"attendance.bot/internal/core/model"
	"attendance.bot/internal/ports/chat"
	"attendance.bot/internal/ports/repository"
	"attendance.bot/internal/report"
)

// ReportService turns store rows into tables and delivers them as CSV
// attachments. Builders are pure given store contents; delivery streams
// the bytes straight to the channel.
type ReportService struct {
	repo     repository.Repository
	policy   Policy
	notifier chat.Notifier
}

// NewReportService wires up the report builder.
func NewReportService(repo repository.Repository, policy Policy, notifier chat.Notifier) *ReportService {
	return &ReportService{repo: repo, policy: policy, notifier: notifier}
}

// BuildRawAttendance lists every record in the month, ordered by
// (date, time).
func (s *ReportService) BuildRawAttendance(ctx context.Context, r model.MonthRange) (report.Table, error) {
	records, err := s.repo.QueryRange(ctx, r.Start, r.End)
	if err != nil {
		return report.Table{}, fmt.Errorf("querying attendance range: %w", err)
	}

	table := report.Table{
		Name:   "raw_attendance_" + r.String(),
		Header: []string{"Employee", "Date", "Time", "Status"},
	}
	for _, rec := range records {
		status := "On Time"
		if rec.IsLate {
			status = "Late"
		}
		table.Rows = append(table.Rows, []string{
			rec.DisplayName, rec.Day.Format(model.DayFormat), rec.ClockTime, status,
		})
	}
	return table, nil
}

// BuildLateFines maps each user's monthly late count to a fine, most late
// first. Returns ErrNoLateRecords when the month has none.
func (s *ReportService) BuildLateFines(ctx context.Context, r model.MonthRange) (report.Table, error) {
	counts, err := s.repo.QueryLateCountsByUser(ctx, r.Start, r.End)
	if err != nil {
		return report.Table{}, fmt.Errorf("querying late counts: %w", err)
	}
	if len(counts) == 0 {
		return report.Table{}, ErrNoLateRecords
	}

	table := report.Table{
		Name:   "late_fines_" + r.String(),
		Header: []string{"Employee", "Late Count", "Fine"},
	}
	for _, lc := range counts {
		table.Rows = append(table.Rows, []string{
			lc.DisplayName, strconv.Itoa(lc.Count), strconv.Itoa(s.policy.Fine(lc.Count)),
		})
	}
	return table, nil
}

// BuildEmployeeSummary breaks each user's month into on-time and late
// days, ordered by display name.
func (s *ReportService) BuildEmployeeSummary(ctx context.Context, r model.MonthRange) (report.Table, error) {
	summaries, err := s.repo.QuerySummaryByUser(ctx, r.Start, r.End)
	if err != nil {
		return report.Table{}, fmt.Errorf("querying user summaries: %w", err)
	}

	table := report.Table{
		Name:   "employee_summary_" + r.String(),
		Header: []string{"Employee", "On Time Days", "Late Days", "Total Days", "Fine"},
	}
	for _, sum := range summaries {
		table.Rows = append(table.Rows, []string{
			sum.DisplayName,
			strconv.Itoa(sum.TotalDays - sum.LateDays),
			strconv.Itoa(sum.LateDays),
			strconv.Itoa(sum.TotalDays),
			strconv.Itoa(s.policy.Fine(sum.LateDays)),
		})
	}
	return table, nil
}

// SendLateFines delivers the late-fine CSV to the channel. A month with no
// late records gets a notice instead of a table.
func (s *ReportService) SendLateFines(ctx context.Context, channelID string, year, month int, auto bool) error {
	r := model.NewMonthRange(year, month)

	table, err := s.BuildLateFines(ctx, r)
	if errors.Is(err, ErrNoLateRecords) {
		return s.notifier.SendMessage(ctx, channelID, fmt.Sprintf("✅ No late records for %s.", r))
	}
	if err != nil {
		return err
	}

	message := fmt.Sprintf("📊 Late & fine report for %s", r)
	if auto {
		message = fmt.Sprintf("📊 Automatic monthly late & fine report for %s", r)
	}
	return s.deliver(ctx, channelID, table, message)
}

// SendRawAttendance delivers the full check-in log for the month.
func (s *ReportService) SendRawAttendance(ctx context.Context, channelID string, year, month int) error {
	r := model.NewMonthRange(year, month)

	table, err := s.BuildRawAttendance(ctx, r)
	if err != nil {
		return err
	}
	if table.Empty() {
		return s.notifier.SendMessage(ctx, channelID, fmt.Sprintf("✅ No attendance records for %s.", r))
	}

	return s.deliver(ctx, channelID, table, fmt.Sprintf("📊 Attendance report for %s", r))
}

// SendEmployeeSummary delivers the per-employee month breakdown.
func (s *ReportService) SendEmployeeSummary(ctx context.Context, channelID string, year, month int) error {
	r := model.NewMonthRange(year, month)

	table, err := s.BuildEmployeeSummary(ctx, r)
	if err != nil {
		return err
	}
	if table.Empty() {
		return s.notifier.SendMessage(ctx, channelID, fmt.Sprintf("✅ No attendance records for %s.", r))
	}

	return s.deliver(ctx, channelID, table, fmt.Sprintf("📊 Employee summary for %s", r))
}

func (s *ReportService) deliver(ctx context.Context, channelID string, table report.Table, message string) error {
	contents, err := table.ToCSV()
	if err != nil {
		return err
	}
	return s.notifier.SendFile(ctx, channelID, table.Filename(), contents, message)
}
