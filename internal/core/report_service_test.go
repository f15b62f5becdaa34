package core

import (
	"context"
	"testing"
	"time"

	"attendance.bot/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leadershipChannel = "chan-leadership"

func seedMarch(t *testing.T, repo *fakeRepo) {
	t.Helper()
	ctx := context.Background()

	seed := []struct {
		user  string
		name  string
		day   int
		clock string
		late  bool
	}{
		{"u1", "alice#1001", 4, "10:25:00", true},
		{"u1", "alice#1001", 5, "10:31:07", true},
		{"u1", "alice#1001", 6, "09:10:00", false},
		{"u1", "alice#1001", 7, "10:45:00", true},
		{"u1", "alice#1001", 8, "10:21:00", true},
		{"u2", "Bob#2002", 4, "08:55:00", false},
		{"u2", "Bob#2002", 5, "10:30:00", true},
	}
	for _, s := range seed {
		_, err := repo.Insert(ctx, model.AttendanceRecord{
			UserID: s.user, DisplayName: s.name,
			Day:       time.Date(2024, 3, s.day, 0, 0, 0, 0, time.UTC),
			ClockTime: s.clock, IsLate: s.late,
		})
		require.NoError(t, err)
	}
}

func TestBuildRawAttendance(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	seedMarch(t, repo)
	svc := NewReportService(repo, testPolicy(), &fakeNotifier{})

	table, err := svc.BuildRawAttendance(ctx, model.NewMonthRange(2024, 3))
	require.NoError(t, err)

	assert.Equal(t, "raw_attendance_2024-03", table.Name)
	assert.Equal(t, []string{"Employee", "Date", "Time", "Status"}, table.Header)
	require.Len(t, table.Rows, 7)

	// Ordered by (date, time): Bob's 08:55 on the 4th comes first.
	assert.Equal(t, []string{"Bob#2002", "2024-03-04", "08:55:00", "On Time"}, table.Rows[0])
	assert.Equal(t, []string{"alice#1001", "2024-03-04", "10:25:00", "Late"}, table.Rows[1])
	assert.Equal(t, []string{"alice#1001", "2024-03-08", "10:21:00", "Late"}, table.Rows[6])
}

func TestBuildLateFines(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	seedMarch(t, repo)
	svc := NewReportService(repo, testPolicy(), &fakeNotifier{})

	table, err := svc.BuildLateFines(ctx, model.NewMonthRange(2024, 3))
	require.NoError(t, err)

	assert.Equal(t, "late_fines_2024-03", table.Name)
	require.Len(t, table.Rows, 2)

	// alice: 4 late days, over the threshold of 3.
	assert.Equal(t, []string{"alice#1001", "4", "2000"}, table.Rows[0])
	assert.Equal(t, []string{"Bob#2002", "1", "0"}, table.Rows[1])
}

func TestBuildLateFinesEmptyMonth(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	seedMarch(t, repo)
	svc := NewReportService(repo, testPolicy(), &fakeNotifier{})

	_, err := svc.BuildLateFines(ctx, model.NewMonthRange(2024, 1))
	assert.ErrorIs(t, err, ErrNoLateRecords)
}

func TestBuildEmployeeSummary(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	seedMarch(t, repo)
	svc := NewReportService(repo, testPolicy(), &fakeNotifier{})

	table, err := svc.BuildEmployeeSummary(ctx, model.NewMonthRange(2024, 3))
	require.NoError(t, err)

	assert.Equal(t, []string{"Employee", "On Time Days", "Late Days", "Total Days", "Fine"}, table.Header)
	require.Len(t, table.Rows, 2)

	// Case-insensitive name order: alice before Bob.
	assert.Equal(t, []string{"alice#1001", "1", "4", "5", "2000"}, table.Rows[0])
	assert.Equal(t, []string{"Bob#2002", "1", "1", "2", "0"}, table.Rows[1])
}

func TestBuildEmployeeSummaryArithmetic(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewReportService(repo, testPolicy(), &fakeNotifier{})

	// 5 total days, 2 late.
	for day := 1; day <= 5; day++ {
		_, err := repo.Insert(ctx, model.AttendanceRecord{
			UserID: "u1", DisplayName: "alice#1001",
			Day:       time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
			ClockTime: "10:00:00", IsLate: day <= 2,
		})
		require.NoError(t, err)
	}

	table, err := svc.BuildEmployeeSummary(ctx, model.NewMonthRange(2024, 3))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"alice#1001", "3", "2", "5", "0"}, table.Rows[0])
}

func TestSendLateFinesDeliversCSV(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	seedMarch(t, repo)
	notifier := &fakeNotifier{}
	svc := NewReportService(repo, testPolicy(), notifier)

	require.NoError(t, svc.SendLateFines(ctx, leadershipChannel, 2024, 3, true))

	files := notifier.sentFiles()
	require.Len(t, files, 1)
	assert.Equal(t, leadershipChannel, files[0].ChannelID)
	assert.Equal(t, "late_fines_2024-03.csv", files[0].Filename)
	assert.Contains(t, files[0].Message, "Automatic monthly")
	assert.Contains(t, string(files[0].Contents), "alice#1001,4,2000")
	assert.Empty(t, notifier.sentMessages())
}

func TestSendLateFinesEmptyMonthSendsNotice(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := NewReportService(repo, testPolicy(), notifier)

	require.NoError(t, svc.SendLateFines(ctx, leadershipChannel, 2024, 1, false))

	assert.Empty(t, notifier.sentFiles(), "no table for an empty month")
	messages := notifier.sentMessages()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].Content, "No late records")
	assert.Contains(t, messages[0].Content, "2024-01")
}

func TestSendRawAttendanceAndSummary(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	seedMarch(t, repo)
	notifier := &fakeNotifier{}
	svc := NewReportService(repo, testPolicy(), notifier)

	require.NoError(t, svc.SendRawAttendance(ctx, leadershipChannel, 2024, 3))
	require.NoError(t, svc.SendEmployeeSummary(ctx, leadershipChannel, 2024, 3))

	files := notifier.sentFiles()
	require.Len(t, files, 2)
	assert.Equal(t, "raw_attendance_2024-03.csv", files[0].Filename)
	assert.Equal(t, "employee_summary_2024-03.csv", files[1].Filename)
}
