package messaging

import "context"

// Producer publishes attendance events for downstream consumers. The
// check-in path treats publish failures as non-fatal: the record is
// already durable, the event is best-effort.
type Producer interface {
	PublishAttendanceMarked(ctx context.Context, event AttendanceMarkedEvent) error
}
