// Package scheduler runs the automatic monthly report. The alarm is
// anchored to local midnight and recomputed after each firing, so a
// process restart mid-cycle cannot drift the schedule.
package scheduler

import (
	"context"
	"errors"
	"time"

	"attendance.bot/internal/core"
	"attendance.bot/internal/core/model"
	"github.com/rs/zerolog/log"
)

// MonthlyReporter fires once per local midnight. On the first day of a
// month it delivers the prior month's late-fine report to the leadership
// channel, and optionally emails a summary. Failures are logged and the
// next cycle proceeds; there is no retry.
type MonthlyReporter struct {
	reports             *core.ReportService
	mailer              core.FinesMailer // nil when leadership email is not configured
	leadershipChannelID string
	loc                 *time.Location
	now                 func() time.Time
}

// NewMonthlyReporter wires up the scheduler.
func NewMonthlyReporter(reports *core.ReportService, mailer core.FinesMailer, leadershipChannelID string, loc *time.Location) *MonthlyReporter {
	return &MonthlyReporter{
		reports:             reports,
		mailer:              mailer,
		leadershipChannelID: leadershipChannelID,
		loc:                 loc,
		now:                 time.Now,
	}
}

// Run blocks until the context is canceled, firing at each local midnight.
func (m *MonthlyReporter) Run(ctx context.Context) {
	next := nextMidnight(m.now().In(m.loc))
	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()

	log.Info().Time("next_fire", next).Msg("Monthly report scheduler started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Monthly report scheduler shutting down")
			return
		case <-timer.C:
			m.fire(ctx)
			next = nextMidnight(m.now().In(m.loc))
			timer.Reset(time.Until(next))
		}
	}
}

func (m *MonthlyReporter) fire(ctx context.Context) {
	today := m.now().In(m.loc)
	if today.Day() != 1 {
		return
	}

	year, month := priorMonth(today)
	log.Info().Int("year", year).Int("month", int(month)).Msg("Generating automatic monthly report")

	if err := m.reports.SendLateFines(ctx, m.leadershipChannelID, year, int(month), true); err != nil {
		log.Error().Err(err).Msg("Failed to deliver automatic monthly report")
		return
	}

	if m.mailer == nil {
		return
	}
	r := model.NewMonthRange(year, int(month))
	table, err := m.reports.BuildLateFines(ctx, r)
	if errors.Is(err, core.ErrNoLateRecords) {
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to build fines table for email summary")
		return
	}
	if err := m.mailer.SendFinesSummary(ctx, r.String(), table); err != nil {
		log.Error().Err(err).Msg("Failed to email fines summary to leadership")
	}
}

// nextMidnight is the first instant of the day after t, in t's location.
// time.Date normalizes, so the end of a month or year needs no special case.
func nextMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
}

// priorMonth wraps January back to December of the previous year.
func priorMonth(t time.Time) (int, time.Month) {
	if t.Month() == time.January {
		return t.Year() - 1, time.December
	}
	return t.Year(), t.Month() - 1
}
