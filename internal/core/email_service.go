package core

import (
	"context"
	"fmt"
	"strings"

	"attendance.bot/internal/report"
	"attendance.bot/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// FinesMailer emails a plain-text rendering of the monthly fines to
// leadership, alongside the channel CSV.
type FinesMailer interface {
	SendFinesSummary(ctx context.Context, monthLabel string, table report.Table) error
}

type SESFinesMailer struct {
	client    *ses.Client
	sender    string
	recipient string
}

func NewSESFinesMailer(client *ses.Client, sender, recipient string) *SESFinesMailer {
	return &SESFinesMailer{client: client, sender: sender, recipient: recipient}
}

func (m *SESFinesMailer) SendFinesSummary(ctx context.Context, monthLabel string, table report.Table) error {
	tracer := otel.Tracer("ses-fines-mailer")
	ctx, span := tracer.Start(ctx, "send_email", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if userID := telemetry.GetUserIDFromContext(ctx); userID != "" {
		span.SetAttributes(attribute.String("app.userId", userID))
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Late & fine summary for %s\n\n", monthLabel)
	for _, row := range table.Rows {
		fmt.Fprintf(&body, "%s: %s late days, fine %s\n", row[0], row[1], row[2])
	}

	input := &ses.SendEmailInput{
		Source: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{m.recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(fmt.Sprintf("Monthly attendance fines for %s", monthLabel)),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body.String()),
				},
			},
		},
	}

	_, err := m.client.SendEmail(ctx, input)
	return err
}
