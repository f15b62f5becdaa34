package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"attendance.bot/internal/core/model"
	"attendance.bot/internal/ports/chat"
	"attendance.bot/internal/ports/messaging"
	"attendance.bot/internal/ports/repository"
	"github.com/rs/zerolog/log"
)

// MarkOutcome is the result of a check-in attempt for the caller to relay.
type MarkOutcome int

const (
	OutcomeAlreadyRecorded MarkOutcome = iota
	OutcomeOnTime
	OutcomeLate
)

// AttendanceService owns the check-in flow: it classifies lateness,
// persists the day's record exactly once per user, and emits the public
// late notice. Both the passive message path and the explicit command
// path run through it.
type AttendanceService struct {
	repo     repository.Repository
	policy   Policy
	notifier chat.Notifier
	producer messaging.Producer

	attendanceChannelID string
	loc                 *time.Location
	now                 func() time.Time
}

// NewAttendanceService wires up the check-in service.
func NewAttendanceService(
	repo repository.Repository,
	policy Policy,
	notifier chat.Notifier,
	producer messaging.Producer,
	attendanceChannelID string,
	loc *time.Location,
) *AttendanceService {
	return &AttendanceService{
		repo:                repo,
		policy:              policy,
		notifier:            notifier,
		producer:            producer,
		attendanceChannelID: attendanceChannelID,
		loc:                 loc,
		now:                 time.Now,
	}
}

// WithClock replaces the time source. Tests use this to pin "now".
func (s *AttendanceService) WithClock(now func() time.Time) *AttendanceService {
	s.now = now
	return s
}

// MarkFromMessage handles a passive check-in: any non-bot message in the
// attendance channel counts. Late check-ins get a public notice; on-time
// ones are recorded silently.
func (s *AttendanceService) MarkFromMessage(ctx context.Context, msg chat.Message) error {
	if msg.IsBot || msg.ChannelID != s.attendanceChannelID {
		return nil
	}

	outcome, rec, err := s.mark(ctx, msg.AuthorID, msg.AuthorName, msg.RoleNames)
	if err != nil {
		return err
	}

	if outcome == OutcomeLate {
		s.notifyLate(ctx, rec)
	}
	return nil
}

// MarkFromCommand handles the explicit check-in command. It is restricted
// to the attendance channel. The outcome is returned for the platform
// adapter to answer privately; late check-ins additionally get the public
// notice.
func (s *AttendanceService) MarkFromCommand(ctx context.Context, actor chat.Actor, channelID string) (MarkOutcome, model.AttendanceRecord, error) {
	if channelID != s.attendanceChannelID {
		return 0, model.AttendanceRecord{}, ErrWrongChannel
	}

	outcome, rec, err := s.mark(ctx, actor.ID, actor.DisplayName, actor.RoleNames)
	if err != nil {
		return 0, model.AttendanceRecord{}, err
	}

	if outcome == OutcomeLate {
		s.notifyLate(ctx, rec)
	}
	return outcome, rec, nil
}

// mark records attendance for the current local day, once. The existence
// check short-circuits the common case; the unique constraint in the
// store is the authoritative guard when two check-ins race.
func (s *AttendanceService) mark(ctx context.Context, userID, displayName string, roleNames []string) (MarkOutcome, model.AttendanceRecord, error) {
	now := s.now().In(s.loc)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	clock := now.Format(model.ClockFormat)

	exists, err := s.repo.HasRecordForDay(ctx, userID, day)
	if err != nil {
		return 0, model.AttendanceRecord{}, fmt.Errorf("checking existing attendance: %w", err)
	}
	if exists {
		return OutcomeAlreadyRecorded, model.AttendanceRecord{}, nil
	}

	rec := model.AttendanceRecord{
		UserID:      userID,
		DisplayName: displayName,
		Day:         day,
		ClockTime:   clock,
		IsLate:      s.policy.IsLate(clock),
	}

	id, err := s.repo.Insert(ctx, rec)
	if errors.Is(err, repository.ErrDuplicateRecord) {
		// Lost the check-then-insert race; the other check-in won.
		return OutcomeAlreadyRecorded, model.AttendanceRecord{}, nil
	}
	if err != nil {
		return 0, model.AttendanceRecord{}, fmt.Errorf("inserting attendance record: %w", err)
	}
	rec.ID = id

	if rec.IsLate && s.policy.IsExempt(roleNames) {
		// Exempt roles are still marked late; see DESIGN.md for the
		// pending product decision on suppressing this.
		log.Debug().Str("user_id", userID).Msg("late check-in by fine-exempt role member")
	}

	s.publishMarked(ctx, rec)

	if rec.IsLate {
		return OutcomeLate, rec, nil
	}
	return OutcomeOnTime, rec, nil
}

// publishMarked emits the downstream event. The record is already durable,
// so a publish failure is logged and swallowed.
func (s *AttendanceService) publishMarked(ctx context.Context, rec model.AttendanceRecord) {
	if s.producer == nil {
		return
	}

	event := messaging.AttendanceMarkedEvent{
		RecordID:    rec.ID,
		UserID:      rec.UserID,
		DisplayName: rec.DisplayName,
		Day:         rec.Day.Format(model.DayFormat),
		ClockTime:   rec.ClockTime,
		IsLate:      rec.IsLate,
		OccurredAt:  s.now(),
	}
	if err := s.producer.PublishAttendanceMarked(ctx, event); err != nil {
		log.Warn().Err(err).Int64("record_id", rec.ID).Msg("failed to publish attendance event")
	}
}

// notifyLate announces the late check-in in the attendance channel. The
// record is already durable at this point, so a send failure must not be
// reported to the caller as a failed check-in; it is logged and swallowed.
func (s *AttendanceService) notifyLate(ctx context.Context, rec model.AttendanceRecord) {
	content := fmt.Sprintf("⏰ %s is **late today** (checked in at `%s`).", chat.Mention(rec.UserID), rec.ClockTime)
	if err := s.notifier.SendMessage(ctx, s.attendanceChannelID, content); err != nil {
		log.Warn().Err(err).Str("user_id", rec.UserID).Msg("failed to send late notice")
	}
}

// LateCount counts the user's late days in the given month.
func (s *AttendanceService) LateCount(ctx context.Context, userID string, year, month int) (int, error) {
	r := model.NewMonthRange(year, month)
	return s.repo.QueryUserLateCount(ctx, userID, r.Start, r.End)
}

// PresentToday returns the set of user IDs already checked in on the
// current local day, together with that day.
func (s *AttendanceService) PresentToday(ctx context.Context) (map[string]bool, time.Time, error) {
	now := s.now().In(s.loc)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	present, err := s.repo.PresentOnDay(ctx, day)
	return present, day, err
}
