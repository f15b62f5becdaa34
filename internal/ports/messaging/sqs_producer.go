package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"attendance.bot/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSClient sendMessage interface based on aws sdk
type SQSClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSProducer publishes attendance events to an SQS queue.
type SQSProducer struct {
	client   SQSClient
	queueURL string
}

// NewSQSProducer new instance of SQS producer.
func NewSQSProducer(client SQSClient, queueURL string) *SQSProducer {
	return &SQSProducer{
		client:   client,
		queueURL: queueURL,
	}
}

// PublishAttendanceMarked sends the event to the attendance queue with the
// current trace context attached as message attributes.
func (p *SQSProducer) PublishAttendanceMarked(ctx context.Context, event AttendanceMarkedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	attrs := telemetry.InjectTraceContext(ctx)
	attrs["EventType"] = telemetry.StringAttribute("ATTENDANCE_MARKED")

	input := &sqs.SendMessageInput{
		QueueUrl:          aws.String(p.queueURL),
		MessageBody:       aws.String(string(body)),
		MessageAttributes: attrs,
	}

	_, err = p.client.SendMessage(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send message to attendance queue: %w", err)
	}

	return nil
}
