package hrsync

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"attendance.bot/internal/ports/messaging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHRClient struct {
	err    error
	events []messaging.AttendanceMarkedEvent
}

func (c *fakeHRClient) RecordAttendance(ctx context.Context, event messaging.AttendanceMarkedEvent) error {
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, event)
	return nil
}

func eventMessage(t *testing.T, event messaging.AttendanceMarkedEvent) types.Message {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return types.Message{
		Body:      aws.String(string(body)),
		MessageId: aws.String("m1"),
	}
}

func TestProcessForwardsEvent(t *testing.T) {
	hr := &fakeHRClient{}
	p := NewProcessor(hr)

	event := messaging.AttendanceMarkedEvent{
		RecordID: 7, UserID: "u1", DisplayName: "alice#1001",
		Day: "2024-03-05", ClockTime: "10:25:01", IsLate: true,
	}
	shouldRetry, delay, err := p.Process(context.Background(), eventMessage(t, event))

	require.NoError(t, err)
	assert.False(t, shouldRetry)
	assert.Zero(t, delay)
	require.Len(t, hr.events, 1)
	assert.Equal(t, event, hr.events[0])
}

func TestProcessRetriesOnHRFailure(t *testing.T) {
	hr := &fakeHRClient{err: errors.New("hr system down")}
	p := NewProcessor(hr)

	msg := eventMessage(t, messaging.AttendanceMarkedEvent{UserID: "u1", Day: "2024-03-05"})
	msg.Attributes = map[string]string{
		string(types.MessageSystemAttributeNameApproximateReceiveCount): "3",
	}

	shouldRetry, delay, err := p.Process(context.Background(), msg)

	require.Error(t, err)
	assert.True(t, shouldRetry)
	assert.Equal(t, int32(80), delay)
}

func TestProcessDoesNotRetryMalformedMessage(t *testing.T) {
	p := NewProcessor(&fakeHRClient{})

	msg := types.Message{Body: aws.String("not json"), MessageId: aws.String("m2")}
	shouldRetry, _, err := p.Process(context.Background(), msg)

	require.Error(t, err)
	assert.False(t, shouldRetry)
}

func TestCalculateBackoff(t *testing.T) {
	assert.Equal(t, int32(20), calculateBackoff(1))
	assert.Equal(t, int32(40), calculateBackoff(2))
	assert.Equal(t, int32(3600), calculateBackoff(12), "backoff caps at one hour")
}
