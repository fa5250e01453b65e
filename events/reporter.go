// Package events reports critical checkout incidents to the error-tracking
// topic. The only event class published from this service is the
// post-capture reconciliation failure: money moved but the booking record
// could not be confirmed, so support needs the join keys.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
)

// ReconciliationFailure carries everything support triage needs to match a
// captured charge with its unconfirmed booking.
type ReconciliationFailure struct {
	EventType       string    `json:"eventType"`
	FlowID          string    `json:"flowId"`
	OrderID         string    `json:"orderId"`
	PaymentIntentID string    `json:"paymentIntentId"`
	EventID         string    `json:"eventId"`
	PaymentMethod   string    `json:"paymentMethod"`
	Reason          string    `json:"reason"`
	Timestamp       time.Time `json:"timestamp"`
}

// Reporter publishes reconciliation failures. Reporting is best-effort:
// a failed publish is logged and swallowed, never surfaced to the flow.
type Reporter interface {
	ReportReconciliationFailure(ctx context.Context, failure ReconciliationFailure)
}

// SNSReporter publishes failures to an SNS topic.
type SNSReporter struct {
	client   *sns.Client
	topicArn string
	logger   *zap.Logger
}

// NewSNSReporter builds a Reporter against the given topic ARN.
func NewSNSReporter(ctx context.Context, region, topicArn string, logger *zap.Logger) (*SNSReporter, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSReporter{
		client:   sns.NewFromConfig(cfg),
		topicArn: topicArn,
		logger:   logger,
	}, nil
}

// ReportReconciliationFailure publishes the failure with full context.
func (r *SNSReporter) ReportReconciliationFailure(ctx context.Context, failure ReconciliationFailure) {
	failure.EventType = "booking_reconciliation_failed"
	if failure.Timestamp.IsZero() {
		failure.Timestamp = time.Now()
	}

	payload, err := json.Marshal(failure)
	if err != nil {
		r.logger.Error("failed to marshal reconciliation failure", zap.Error(err))
		return
	}

	_, err = r.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(r.topicArn),
		Message:  aws.String(string(payload)),
	})
	if err != nil {
		r.logger.Error("failed to publish reconciliation failure",
			zap.String("order_id", failure.OrderID),
			zap.String("payment_intent_id", failure.PaymentIntentID),
			zap.Error(err))
		return
	}

	r.logger.Info("published reconciliation failure",
		zap.String("order_id", failure.OrderID),
		zap.String("payment_intent_id", failure.PaymentIntentID))
}

// LogReporter is the fallback when no topic is configured: structured log
// only, so the context still reaches support via log search.
type LogReporter struct {
	Logger *zap.Logger
}

func (r *LogReporter) ReportReconciliationFailure(_ context.Context, failure ReconciliationFailure) {
	r.Logger.Error("booking reconciliation failed",
		zap.String("flow_id", failure.FlowID),
		zap.String("order_id", failure.OrderID),
		zap.String("payment_intent_id", failure.PaymentIntentID),
		zap.String("event_id", failure.EventID),
		zap.String("payment_method", failure.PaymentMethod),
		zap.String("reason", failure.Reason))
}
