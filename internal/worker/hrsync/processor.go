package hrsync

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"

	"attendance.bot/internal/ports/messaging"
	"attendance.bot/internal/worker/hrapi"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// Processor forwards attendance events to the legacy HR system. Calls go
// through a circuit breaker so a struggling HR system is not hammered;
// failed messages come back via SQS visibility with exponential backoff.
type Processor struct {
	hr hrapi.Client
	cb *gobreaker.CircuitBreaker
}

// NewProcessor creates the HR sync processor with its circuit breaker.
func NewProcessor(hr hrapi.Client) *Processor {
	settings := gobreaker.Settings{
		Name:        "HR-API",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate exceeds 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &Processor{
		hr: hr,
		cb: gobreaker.NewCircuitBreaker(settings),
	}
}

// Process handles one message from the attendance queue.
func (p *Processor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.AttendanceMarkedEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal attendance event")
		return false, 0, err // Do not retry on malformed message
	}

	log.Ctx(ctx).Info().
		Str("user_id", event.UserID).
		Str("day", event.Day).
		Bool("is_late", event.IsLate).
		Msg("Forwarding attendance event to HR system")

	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.hr.RecordAttendance(ctx, event)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			log.Ctx(ctx).Warn().Msg("Circuit breaker is OPEN; skipping HR API call")
		}
		return true, calculateBackoff(receiveCount(msg)), err
	}

	return false, 0, nil
}

// receiveCount reads how many times SQS has delivered this message.
func receiveCount(msg types.Message) int {
	raw, ok := msg.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)]
	if !ok {
		return 1
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return count
}

// calculateBackoff grows the retry delay exponentially with each delivery.
func calculateBackoff(receiveCount int) int32 {
	backoff := int32(math.Pow(2, float64(receiveCount)) * 10)
	if backoff > 3600 {
		return 3600 // max at 1 hour
	}
	return backoff
}
