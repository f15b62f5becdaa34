package core

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"attendance.bot/internal/core/model"
	"attendance.bot/internal/ports/messaging"
	"attendance.bot/internal/ports/repository"
)

// fakeRepo is an in-memory store enforcing the same (user, day) unique
// constraint as the real table, under a mutex so concurrent check-ins
// exercise the reject-on-conflict path.
type fakeRepo struct {
	mu      sync.Mutex
	nextID  int64
	records []model.AttendanceRecord
	byKey   map[string]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byKey: make(map[string]bool)}
}

func key(userID string, day time.Time) string {
	return userID + "|" + day.Format(model.DayFormat)
}

func (r *fakeRepo) EnsureSchema(ctx context.Context) error { return nil }

func (r *fakeRepo) HasRecordForDay(ctx context.Context, userID string, day time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byKey[key(userID, day)], nil
}

func (r *fakeRepo) Insert(ctx context.Context, rec model.AttendanceRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(rec.UserID, rec.Day)
	if r.byKey[k] {
		return 0, repository.ErrDuplicateRecord
	}
	r.byKey[k] = true

	r.nextID++
	rec.ID = r.nextID
	r.records = append(r.records, rec)
	return rec.ID, nil
}

func (r *fakeRepo) inRange(rec model.AttendanceRecord, start, end time.Time) bool {
	return !rec.Day.Before(start) && !rec.Day.After(end)
}

func (r *fakeRepo) QueryRange(ctx context.Context, start, end time.Time) ([]model.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.AttendanceRecord
	for _, rec := range r.records {
		if r.inRange(rec, start, end) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Day.Equal(out[j].Day) {
			return out[i].Day.Before(out[j].Day)
		}
		return out[i].ClockTime < out[j].ClockTime
	})
	return out, nil
}

func (r *fakeRepo) QueryLateCountsByUser(ctx context.Context, start, end time.Time) ([]model.LateCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var order []string
	counts := make(map[string]*model.LateCount)
	for _, rec := range r.records {
		if !rec.IsLate || !r.inRange(rec, start, end) {
			continue
		}
		if _, ok := counts[rec.UserID]; !ok {
			counts[rec.UserID] = &model.LateCount{UserID: rec.UserID, DisplayName: rec.DisplayName}
			order = append(order, rec.UserID)
		}
		counts[rec.UserID].Count++
	}

	out := make([]model.LateCount, 0, len(order))
	for _, id := range order {
		out = append(out, *counts[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func (r *fakeRepo) QueryUserLateCount(ctx context.Context, userID string, start, end time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, rec := range r.records {
		if rec.UserID == userID && rec.IsLate && r.inRange(rec, start, end) {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) QuerySummaryByUser(ctx context.Context, start, end time.Time) ([]model.UserSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var order []string
	summaries := make(map[string]*model.UserSummary)
	for _, rec := range r.records {
		if !r.inRange(rec, start, end) {
			continue
		}
		if _, ok := summaries[rec.UserID]; !ok {
			summaries[rec.UserID] = &model.UserSummary{UserID: rec.UserID, DisplayName: rec.DisplayName}
			order = append(order, rec.UserID)
		}
		summaries[rec.UserID].TotalDays++
		if rec.IsLate {
			summaries[rec.UserID].LateDays++
		}
	}

	out := make([]model.UserSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *summaries[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayName) < strings.ToLower(out[j].DisplayName)
	})
	return out, nil
}

func (r *fakeRepo) PresentOnDay(ctx context.Context, day time.Time) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	present := make(map[string]bool)
	for _, rec := range r.records {
		if rec.Day.Equal(day) {
			present[rec.UserID] = true
		}
	}
	return present, nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// fakeNotifier captures outbound messages and files.
type sentMessage struct {
	ChannelID string
	Content   string
}

type sentFile struct {
	ChannelID string
	Filename  string
	Contents  []byte
	Message   string
}

type fakeNotifier struct {
	mu             sync.Mutex
	messages       []sentMessage
	files          []sentFile
	sendMessageErr error
}

func (n *fakeNotifier) SendMessage(ctx context.Context, channelID, content string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sendMessageErr != nil {
		return n.sendMessageErr
	}
	n.messages = append(n.messages, sentMessage{ChannelID: channelID, Content: content})
	return nil
}

func (n *fakeNotifier) SendFile(ctx context.Context, channelID, filename string, contents []byte, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.files = append(n.files, sentFile{ChannelID: channelID, Filename: filename, Contents: contents, Message: message})
	return nil
}

func (n *fakeNotifier) sentMessages() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMessage(nil), n.messages...)
}

func (n *fakeNotifier) sentFiles() []sentFile {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentFile(nil), n.files...)
}

// fakeProducer records published events.
type fakeProducer struct {
	mu     sync.Mutex
	events []messaging.AttendanceMarkedEvent
}

func (p *fakeProducer) PublishAttendanceMarked(ctx context.Context, event messaging.AttendanceMarkedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakeProducer) published() []messaging.AttendanceMarkedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]messaging.AttendanceMarkedEvent(nil), p.events...)
}
