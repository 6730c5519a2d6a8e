package security

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zapcore"

	"liyu1981.xyz/ai-security-service/pkg/common"
	"liyu1981.xyz/ai-security-service/pkg/models"
	"liyu1981.xyz/ai-security-service/pkg/security/mocks"
	_ "liyu1981.xyz/ai-security-service/pkg/testing"
)

func resetAlertSettings(t *testing.T, sec *Security, mutate func(s *models.AlertSetting)) {
	settings := DefaultAlertSettings()
	if mutate != nil {
		mutate(&settings)
	}
	_, err := sec.Alert.UpdateSettings(context.Background(), &settings)
	require.NoError(t, err)
}

func suspiciousDetection(confidence float64) *models.Detection {
	return &models.Detection{
		ID:            uuid.NewString(),
		Source:        "Main Entrance",
		DetectionType: "suspicious-behavior",
		Description:   "Suspicious movement",
		Confidence:    confidence,
		Suspicious:    true,
	}
}

func TestGetSettingsDefaults(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sec, _, _, _, _ := GetMockSecurityWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	ctx := context.Background()
	require.NoError(t, sec.Db.Conn.Exec("DELETE FROM alert_settings").Error)

	settings, err := sec.Alert.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, settings.EmailEnabled)
	assert.False(t, settings.SMSEnabled)
	assert.True(t, settings.PushEnabled)
	assert.Equal(t, "admin@security.com", settings.EmailAddress)
	assert.Equal(t, 0.8, settings.Threshold)
	assert.ElementsMatch(t, AlertTypes, settings.AlertTypes)

	again, err := sec.Alert.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.AlertTypes, again.AlertTypes)
}

func TestUpdateSettings(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sec, _, _, _, _ := GetMockSecurityWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	ctx := context.Background()

	input := DefaultAlertSettings()
	input.SMSEnabled = true
	input.SMSNumber = "+15550100"
	input.Threshold = 0.5
	input.AlertTypes = []string{AlertTypeUnauthorizedAccess, AlertTypeUnauthorizedAccess}

	updated, err := sec.Alert.UpdateSettings(ctx, &input)
	require.NoError(t, err)
	assert.Equal(t, []string{AlertTypeUnauthorizedAccess}, updated.AlertTypes)

	saved, err := sec.Alert.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, saved.SMSEnabled)
	assert.Equal(t, "+15550100", saved.SMSNumber)
	assert.Equal(t, 0.5, saved.Threshold)
	assert.Equal(t, []string{AlertTypeUnauthorizedAccess}, saved.AlertTypes)

	{
		bad := DefaultAlertSettings()
		bad.Threshold = 1.5
		_, err := sec.Alert.UpdateSettings(ctx, &bad)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	{
		bad := DefaultAlertSettings()
		bad.AlertTypes = []string{"fire"}
		_, err := sec.Alert.UpdateSettings(ctx, &bad)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	resetAlertSettings(t, sec, nil)
}

func TestEvaluate(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sec, _, _, _, _ := GetMockSecurityWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	notifier := mocks.NewMockNotifier(ctrl)
	sec.WithServices(ServiceOpts{Notifier: notifier})
	resetAlertSettings(t, sec, nil)

	ctx := context.Background()
	d := suspiciousDetection(0.9)

	gomock.InOrder(
		notifier.EXPECT().Notify(gomock.Any(), models.AlertChannelEmail, "admin@security.com", gomock.Any()).Return(nil),
		notifier.EXPECT().Notify(gomock.Any(), models.AlertChannelPush, PushRecipient, gomock.Any()).Return(nil),
	)

	items, err := sec.Alert.Evaluate(ctx, d)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, models.DeliveryStatusSent, item.Status)
		assert.Equal(t, AlertTypeSuspiciousActivity, item.Type)
		assert.Equal(t, d.ID, *item.DetectionID)
		assert.Equal(t, "Suspicious movement detected at Main Entrance (90% confidence)", item.Message)
	}
	assert.Equal(t, uint64(2), sec.Metrics.AlertsSent.Load())

	history, err := sec.Alert.ListHistory(ctx, 500)
	require.NoError(t, err)
	stored := 0
	for _, h := range history {
		if h.DetectionID != nil && *h.DetectionID == d.ID {
			assert.Equal(t, models.DeliveryStatusSent, h.Status)
			stored++
		}
	}
	assert.Equal(t, 2, stored)
}

func TestEvaluate_NoAlert(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sec, _, _, _, _ := GetMockSecurityWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	notifier := mocks.NewMockNotifier(ctrl)
	sec.WithServices(ServiceOpts{Notifier: notifier})
	resetAlertSettings(t, sec, nil)

	ctx := context.Background()

	{
		items, err := sec.Alert.Evaluate(ctx, nil)
		assert.NoError(t, err)
		assert.Empty(t, items)
	}

	{
		d := suspiciousDetection(0.9)
		d.Suspicious = false
		items, err := sec.Alert.Evaluate(ctx, d)
		assert.NoError(t, err)
		assert.Empty(t, items)
	}

	{
		items, err := sec.Alert.Evaluate(ctx, suspiciousDetection(0.79))
		assert.NoError(t, err)
		assert.Empty(t, items)
	}

	{
		resetAlertSettings(t, sec, func(s *models.AlertSetting) {
			s.AlertTypes = []string{AlertTypeUnauthorizedAccess}
		})
		items, err := sec.Alert.Evaluate(ctx, suspiciousDetection(0.9))
		assert.NoError(t, err)
		assert.Empty(t, items)
	}

	{
		resetAlertSettings(t, sec, func(s *models.AlertSetting) {
			s.EmailEnabled = false
			s.PushEnabled = false
		})
		items, err := sec.Alert.Evaluate(ctx, suspiciousDetection(0.9))
		assert.NoError(t, err)
		assert.Empty(t, items)
	}

	resetAlertSettings(t, sec, nil)
}

func TestEvaluate_DeliveryFailure(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sec, _, _, _, _ := GetMockSecurityWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	resetAlertSettings(t, sec, func(s *models.AlertSetting) {
		s.PushEnabled = false
		s.EmailAddress = ""
	})
	defer resetAlertSettings(t, sec, nil)

	d := suspiciousDetection(0.9)
	d.Description = "Unauthorized entry"

	items, err := sec.Alert.Evaluate(context.Background(), d)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.DeliveryStatusFailed, items[0].Status)
	assert.Equal(t, AlertTypeUnauthorizedAccess, items[0].Type)
	assert.Equal(t, uint64(1), sec.Metrics.AlertsFailed.Load())
}

func TestSendTestAndAcknowledge(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sec, _, _, _, _ := GetMockSecurityWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	notifier := mocks.NewMockNotifier(ctrl)
	sec.WithServices(ServiceOpts{Notifier: notifier})
	resetAlertSettings(t, sec, nil)

	ctx := context.Background()

	// sms is disabled by default but can still be tested
	notifier.EXPECT().Notify(gomock.Any(), models.AlertChannelSMS, "+1234567890", "Test alert via sms").Return(errors.New("gateway down"))
	item, err := sec.Alert.SendTest(ctx, models.AlertChannelSMS)
	require.NoError(t, err)
	assert.Equal(t, AlertTypeTest, item.Type)
	assert.Equal(t, models.DeliveryStatusFailed, item.Status)

	_, err = sec.Alert.SendTest(ctx, "pager")
	assert.ErrorIs(t, err, ErrUnsupportedChannel)

	active, err := sec.Alert.ListActive(ctx)
	require.NoError(t, err)
	assert.True(t, containsAlert(active, item.ID))

	acked, err := sec.Alert.Acknowledge(ctx, item.ID, "admin")
	require.NoError(t, err)
	assert.True(t, acked.Acknowledged)
	require.NotNil(t, acked.AcknowledgedBy)
	assert.Equal(t, "admin", *acked.AcknowledgedBy)
	assert.NotNil(t, acked.AcknowledgedAt)

	active, err = sec.Alert.ListActive(ctx)
	require.NoError(t, err)
	assert.False(t, containsAlert(active, item.ID))

	_, err = sec.Alert.Acknowledge(ctx, uuid.NewString(), "admin")
	assert.ErrorIs(t, err, ErrAlertNotFound)
}

func TestEvaluate_WithLog(t *testing.T) {
	var buf = &bytes.Buffer{}
	common.SetTestCaptureLogger(buf, zapcore.InfoLevel)

	ctrl, sec, _, _, _, _ := GetMockSecurityWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	resetAlertSettings(t, sec, func(s *models.AlertSetting) {
		s.PushEnabled = false
	})
	defer resetAlertSettings(t, sec, nil)

	d := suspiciousDetection(0.85)
	_, err := sec.Alert.Evaluate(context.Background(), d)
	require.NoError(t, err)

	logs := ParseLogs(buf)

	{
		found := false
		for _, log := range logs {
			lobj := log.(map[string]any)
			if lobj["category"] == "alert" &&
				lobj["logger"] == "security_core" &&
				lobj["msg"] == "Alert found" &&
				lobj["detection_id"] == d.ID &&
				lobj["type"] == AlertTypeSuspiciousActivity {
				found = true
			}
		}
		assert.True(t, found)
	}

	{
		found := false
		for _, log := range logs {
			lobj := log.(map[string]any)
			if lobj["category"] == "alert" &&
				lobj["logger"] == "security_core" &&
				lobj["msg"] == "Alert delivered" &&
				lobj["channel"] == "email" &&
				lobj["recipient"] == "admin@security.com" {
				found = true
			}
		}
		assert.True(t, found)
	}

	{
		found := false
		for _, log := range logs {
			lobj := log.(map[string]any)
			if lobj["category"] == "alert" &&
				lobj["logger"] == "security_core" &&
				lobj["msg"] == "Alert processed" &&
				lobj["alert"].(map[string]any)["detection_id"] == d.ID &&
				lobj["alert"].(map[string]any)["status"] == "sent" {
				found = true
			}
		}
		assert.True(t, found)
	}
}

func TestLogNotifier(t *testing.T) {
	common.SetTestLoggerNop()

	n := &LogNotifier{}
	assert.NoError(t, n.Notify(context.Background(), models.AlertChannelEmail, "a@b.c", "hello"))
	assert.ErrorIs(t, n.Notify(context.Background(), models.AlertChannelSMS, " ", "hello"), ErrEmptyRecipient)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Notify(ctx, models.AlertChannelPush, PushRecipient, "hello"), context.Canceled)
}

func containsAlert(items []models.AlertHistoryItem, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}
