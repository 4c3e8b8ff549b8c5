// internal/notify/dispatcher.go

// Package notify executes the suggested actions attached to alert items:
// reminder and review emails go out through SES, escalations through an SNS
// topic. The classifier only labels actions; this package is the one place
// labels turn into side effects.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"compliance-engine/internal/common/config"
	stderrors "compliance-engine/internal/common/errors"
	"compliance-engine/internal/common/logger"
	"compliance-engine/internal/common/metrics"
	"compliance-engine/internal/engine/alerts"
	"compliance-engine/internal/models"
)

// EmailAPI and TopicAPI mirror the AWS client methods the dispatcher calls;
// tests substitute fakes.
type EmailAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type TopicAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Dispatcher turns alert action labels into outbound notifications.
type Dispatcher struct {
	cfg   config.NotificationConfig
	log   logger.Logger
	email EmailAPI
	topic TopicAPI
}

// New builds a Dispatcher against live AWS clients.
func New(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*Dispatcher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewWithClients(cfg, log, ses.NewFromConfig(awsCfg), sns.NewFromConfig(awsCfg)), nil
}

// NewWithClients wires explicit clients; tests inject fakes through it.
func NewWithClients(cfg config.NotificationConfig, log logger.Logger, email EmailAPI, topic TopicAPI) *Dispatcher {
	return &Dispatcher{cfg: cfg, log: log, email: email, topic: topic}
}

// Dispatch executes one action for one alert item. Unknown actions are
// rejected rather than silently skipped.
func (d *Dispatcher) Dispatch(ctx context.Context, action string, item models.AlertItem) error {
	if !d.cfg.Enabled {
		d.log.Debug("notifications disabled, skipping", map[string]interface{}{
			"action":       action,
			"documentCode": item.DocumentCode,
		})
		return nil
	}

	switch action {
	case alerts.ActionSendReminder:
		return d.sendEmail(ctx, action, reminderSubject(item), reminderBody(item))
	case alerts.ActionScheduleReview:
		return d.sendEmail(ctx, action, reviewSubject(item), reviewBody(item))
	case alerts.ActionEscalate:
		return d.escalate(ctx, item)
	default:
		return stderrors.NewUnknownActionError(action)
	}
}

// DispatchItem executes every suggested action on the item, stopping at the
// first failure.
func (d *Dispatcher) DispatchItem(ctx context.Context, item models.AlertItem) error {
	for _, action := range item.Actions {
		if err := d.Dispatch(ctx, action, item); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) sendEmail(ctx context.Context, action, subject, body string) error {
	_, err := d.email.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{d.cfg.RecipientEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(d.cfg.SenderEmail),
	})
	if err != nil {
		return stderrors.NewNotificationSendFailedError("email", err)
	}
	metrics.NotificationsDispatched.WithLabelValues("email", action).Inc()
	return nil
}

func (d *Dispatcher) escalate(ctx context.Context, item models.AlertItem) error {
	message := fmt.Sprintf(
		"ESCALATION: %s (%s) from %s is %d day(s) overdue.",
		item.DocumentName, item.DocumentCode, item.ContractorName, item.OverdueDays,
	)
	_, err := d.topic.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(d.cfg.EscalationTopicARN),
		Subject:  aws.String("Compliance escalation: " + item.ContractorName),
		Message:  aws.String(message),
	})
	if err != nil {
		return stderrors.NewNotificationSendFailedError("sns", err)
	}
	metrics.NotificationsDispatched.WithLabelValues("sns", alerts.ActionEscalate).Inc()
	return nil
}

func reminderSubject(item models.AlertItem) string {
	return fmt.Sprintf("Reminder: %s pending for %s", item.DocumentName, item.ContractorName)
}

func reminderBody(item models.AlertItem) string {
	if item.OverdueDays > 0 {
		return fmt.Sprintf("%s (%s) is %d day(s) past its planned due date. Current progress: %d%%.",
			item.DocumentName, item.DocumentCode, item.OverdueDays, item.ProgressPct)
	}
	if item.DueInDays != nil {
		return fmt.Sprintf("%s (%s) is due in %d day(s). Current progress: %d%%.",
			item.DocumentName, item.DocumentCode, *item.DueInDays, item.ProgressPct)
	}
	return fmt.Sprintf("%s (%s) requires attention. Current progress: %d%%.",
		item.DocumentName, item.DocumentCode, item.ProgressPct)
}

func reviewSubject(item models.AlertItem) string {
	return fmt.Sprintf("Review needed: %s / %s", item.ContractorName, item.DocumentName)
}

func reviewBody(item models.AlertItem) string {
	return fmt.Sprintf("Please schedule a review meeting with %s regarding %s (%s).",
		item.ContractorName, item.DocumentName, item.DocumentCode)
}
