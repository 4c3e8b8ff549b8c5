// internal/notify/dispatcher_test.go

package notify

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance-engine/internal/common/config"
	"compliance-engine/internal/common/logger"
	"compliance-engine/internal/engine/alerts"
	"compliance-engine/internal/models"
)

type fakeEmail struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeEmail) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, params)
	return &ses.SendEmailOutput{}, nil
}

type fakeTopic struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeTopic) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, params)
	return &sns.PublishOutput{}, nil
}

func testConfig() config.NotificationConfig {
	return config.NotificationConfig{
		Enabled:            true,
		Region:             "ap-southeast-1",
		SenderEmail:        "compliance@example.com",
		RecipientEmail:     "ops@example.com",
		EscalationTopicARN: "arn:aws:sns:ap-southeast-1:000000000000:escalations",
	}
}

func testItem() models.AlertItem {
	return models.AlertItem{
		ProgressRecord: models.ProgressRecord{
			ContractorID:   "c-001",
			ContractorName: "Alpha Builders",
			DocumentName:   "Safety Plan",
			DocumentCode:   "SAF-01",
		},
		OverdueDays:  5,
		WarningLevel: 3,
		ProgressPct:  33,
		Actions:      []string{alerts.ActionSendReminder, alerts.ActionScheduleReview, alerts.ActionEscalate},
	}
}

func TestDispatchReminderEmail(t *testing.T) {
	email := &fakeEmail{}
	topic := &fakeTopic{}
	d := NewWithClients(testConfig(), logger.NewNoOpLogger(), email, topic)

	err := d.Dispatch(context.Background(), alerts.ActionSendReminder, testItem())
	require.NoError(t, err)

	require.Len(t, email.inputs, 1)
	in := email.inputs[0]
	assert.Equal(t, "compliance@example.com", *in.Source)
	assert.Equal(t, []string{"ops@example.com"}, in.Destination.ToAddresses)
	assert.Contains(t, *in.Message.Subject.Data, "Safety Plan")
	assert.Contains(t, *in.Message.Body.Text.Data, "5 day(s) past")
	assert.Empty(t, topic.inputs)
}

func TestDispatchEscalation(t *testing.T) {
	email := &fakeEmail{}
	topic := &fakeTopic{}
	d := NewWithClients(testConfig(), logger.NewNoOpLogger(), email, topic)

	err := d.Dispatch(context.Background(), alerts.ActionEscalate, testItem())
	require.NoError(t, err)

	require.Len(t, topic.inputs, 1)
	in := topic.inputs[0]
	assert.Equal(t, testConfig().EscalationTopicARN, *in.TopicArn)
	assert.Contains(t, *in.Message, "ESCALATION")
	assert.Contains(t, *in.Message, "SAF-01")
	assert.Empty(t, email.inputs)
}

func TestDispatchUnknownAction(t *testing.T) {
	d := NewWithClients(testConfig(), logger.NewNoOpLogger(), &fakeEmail{}, &fakeTopic{})

	err := d.Dispatch(context.Background(), "page_oncall", testItem())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNKNOWN_ACTION")
}

func TestDispatchDisabledIsANoOp(t *testing.T) {
	email := &fakeEmail{}
	cfg := testConfig()
	cfg.Enabled = false
	d := NewWithClients(cfg, logger.NewNoOpLogger(), email, &fakeTopic{})

	err := d.Dispatch(context.Background(), alerts.ActionSendReminder, testItem())
	require.NoError(t, err)
	assert.Empty(t, email.inputs)
}

func TestDispatchItemStopsOnFirstFailure(t *testing.T) {
	email := &fakeEmail{err: assert.AnError}
	topic := &fakeTopic{}
	d := NewWithClients(testConfig(), logger.NewNoOpLogger(), email, topic)

	err := d.DispatchItem(context.Background(), testItem())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIFICATION_SEND_FAILED")
	assert.Empty(t, topic.inputs)
}

func TestDispatchItemRunsAllActions(t *testing.T) {
	email := &fakeEmail{}
	topic := &fakeTopic{}
	d := NewWithClients(testConfig(), logger.NewNoOpLogger(), email, topic)

	err := d.DispatchItem(context.Background(), testItem())
	require.NoError(t, err)
	assert.Len(t, email.inputs, 2)
	assert.Len(t, topic.inputs, 1)
}
