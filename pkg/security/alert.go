package security

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"liyu1981.xyz/ai-security-service/pkg/common"
	"liyu1981.xyz/ai-security-service/pkg/db"
	"liyu1981.xyz/ai-security-service/pkg/models"
)

const (
	AlertTypeSuspiciousActivity = "suspicious_activity"
	AlertTypeUnauthorizedAccess = "unauthorized_access"
	AlertTypeSystemError        = "system_error"
	AlertTypeTest               = "test"

	// PushRecipient is the recipient recorded for push alerts, which go to the dashboard.
	PushRecipient = "dashboard"

	DefaultHistoryLimit = 50

	alertSettingsID = 1
)

var AlertTypes = []string{AlertTypeSuspiciousActivity, AlertTypeUnauthorizedAccess, AlertTypeSystemError}

func DefaultAlertSettings() models.AlertSetting {
	return models.AlertSetting{
		ID:           alertSettingsID,
		EmailEnabled: true,
		SMSEnabled:   false,
		PushEnabled:  true,
		EmailAddress: "admin@security.com",
		SMSNumber:    "+1234567890",
		Threshold:    0.8,
		AlertTypes:   []string{AlertTypeSuspiciousActivity, AlertTypeUnauthorizedAccess, AlertTypeSystemError},
	}
}

// AlertTypeFor classifies a detection into an alert type.
func AlertTypeFor(d *models.Detection) string {
	label := strings.ToLower(d.Description + " " + d.DetectionType)
	if strings.Contains(label, "unauthorized") || strings.Contains(label, "trespass") {
		return AlertTypeUnauthorizedAccess
	}
	return AlertTypeSuspiciousActivity
}

func AlertMessage(d *models.Detection) string {
	return fmt.Sprintf("%s detected at %s (%.0f%% confidence)", d.Description, d.Source, d.Confidence*100)
}

// recipients lists enabled channels with their recipient, in a stable order.
func recipients(settings *models.AlertSetting) []lo.Tuple2[models.AlertChannel, string] {
	var out []lo.Tuple2[models.AlertChannel, string]
	if settings.EmailEnabled {
		out = append(out, lo.T2(models.AlertChannelEmail, settings.EmailAddress))
	}
	if settings.SMSEnabled {
		out = append(out, lo.T2(models.AlertChannelSMS, settings.SMSNumber))
	}
	if settings.PushEnabled {
		out = append(out, lo.T2(models.AlertChannelPush, PushRecipient))
	}
	return out
}

func recipientFor(settings *models.AlertSetting, channel models.AlertChannel) (string, error) {
	switch channel {
	case models.AlertChannelEmail:
		return settings.EmailAddress, nil
	case models.AlertChannelSMS:
		return settings.SMSNumber, nil
	case models.AlertChannelPush:
		return PushRecipient, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedChannel, channel)
}

func (s *Security) alertLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameSecurityCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryAlert),
	)
}

// getSettings returns the settings row, creating it with defaults on first use.
func (s *Security) getSettings(ctx context.Context) (*models.AlertSetting, error) {
	settings, err := selectOne[models.AlertSetting](ctx, s.Db, models.TableAlertSettings, db.Filter{"id": alertSettingsID})
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	defaults := DefaultAlertSettings()
	defaults.UpdatedAt = s.now()
	if err := s.Db.Conn.WithContext(ctx).FirstOrCreate(&defaults, models.AlertSetting{ID: alertSettingsID}).Error; err != nil {
		return nil, err
	}
	return &defaults, nil
}

func (s *Security) updateSettings(ctx context.Context, input *models.AlertSetting) (*models.AlertSetting, error) {
	logger := s.alertLogger()

	if input.Threshold < 0 || input.Threshold > 1 {
		return nil, fmt.Errorf("%w: threshold %v outside [0,1]", ErrInvalidInput, input.Threshold)
	}
	if unknown := lo.Without(input.AlertTypes, AlertTypes...); len(unknown) > 0 {
		return nil, fmt.Errorf("%w: unknown alert types %v", ErrInvalidInput, unknown)
	}

	settings := *input
	settings.ID = alertSettingsID
	settings.AlertTypes = lo.Uniq(input.AlertTypes)
	if settings.AlertTypes == nil {
		settings.AlertTypes = []string{}
	}
	settings.UpdatedAt = s.now()

	if err := s.Db.Conn.WithContext(ctx).Save(&settings).Error; err != nil {
		return nil, err
	}

	logger.Info("Alert settings updated", zap.Reflect("settings", settings))
	return &settings, nil
}

// deliver stores a pending history item, notifies, and records the delivery outcome.
func (s *Security) deliver(ctx context.Context, item models.AlertHistoryItem) (*models.AlertHistoryItem, error) {
	logger := s.alertLogger()

	item.ID = uuid.NewString()
	item.Status = models.DeliveryStatusPending
	item.CreatedAt = s.now()
	if err := s.Db.Insert(ctx, models.TableAlertHistory, &item); err != nil {
		return nil, err
	}

	status := models.DeliveryStatusSent
	if s.Notifier == nil {
		status = models.DeliveryStatusFailed
	} else if err := s.Notifier.Notify(ctx, item.Channel, item.Recipient, item.Message); err != nil {
		logger.Warn("Alert delivery failed",
			zap.String("id", item.ID),
			zap.String("channel", string(item.Channel)),
			zap.Error(err),
		)
		status = models.DeliveryStatusFailed
	}

	if _, err := s.Db.Update(ctx, models.TableAlertHistory, db.Filter{"id": item.ID}, db.Patch{"status": status}); err != nil {
		return nil, err
	}
	item.Status = status
	s.Metrics.ObserveAlert(status == models.DeliveryStatusSent)

	logger.Info("Alert processed", zap.Reflect("alert", item))
	return &item, nil
}

// evaluate raises one alert per enabled channel for a suspicious detection at or above the
// threshold whose alert type is enabled.
func (s *Security) evaluate(ctx context.Context, d *models.Detection) ([]models.AlertHistoryItem, error) {
	if d == nil || !d.Suspicious {
		return nil, nil
	}

	settings, err := s.getSettings(ctx)
	if err != nil {
		return nil, err
	}
	if d.Confidence < settings.Threshold {
		return nil, nil
	}

	alertType := AlertTypeFor(d)
	if !lo.Contains(settings.AlertTypes, alertType) {
		return nil, nil
	}

	s.alertLogger().Info("Alert found",
		zap.String("detection_id", d.ID),
		zap.String("type", alertType),
		zap.Float64("confidence", d.Confidence),
	)

	var items []models.AlertHistoryItem
	for _, r := range recipients(settings) {
		detectionID := d.ID
		item, err := s.deliver(ctx, models.AlertHistoryItem{
			DetectionID: &detectionID,
			Type:        alertType,
			Message:     AlertMessage(d),
			Channel:     r.A,
			Recipient:   r.B,
		})
		if err != nil {
			return items, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// sendTest delivers a test message on channel whether or not the channel is enabled.
func (s *Security) sendTest(ctx context.Context, channel models.AlertChannel) (*models.AlertHistoryItem, error) {
	settings, err := s.getSettings(ctx)
	if err != nil {
		return nil, err
	}
	recipient, err := recipientFor(settings, channel)
	if err != nil {
		return nil, err
	}
	return s.deliver(ctx, models.AlertHistoryItem{
		Type:      AlertTypeTest,
		Message:   fmt.Sprintf("Test alert via %s", channel),
		Channel:   channel,
		Recipient: recipient,
	})
}

func (s *Security) listHistory(ctx context.Context, limit int) ([]models.AlertHistoryItem, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	var items []models.AlertHistoryItem
	err := s.Db.Conn.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// listActive returns unacknowledged alerts, newest first.
func (s *Security) listActive(ctx context.Context) ([]models.AlertHistoryItem, error) {
	var items []models.AlertHistoryItem
	err := s.Db.Conn.WithContext(ctx).
		Where("acknowledged = ?", false).
		Order("created_at desc").
		Find(&items).Error
	return items, err
}

func (s *Security) acknowledge(ctx context.Context, id string, by string) (*models.AlertHistoryItem, error) {
	now := s.now()
	rows, err := s.Db.Update(ctx, models.TableAlertHistory, db.Filter{"id": id}, db.Patch{
		"acknowledged":    true,
		"acknowledged_by": by,
		"acknowledged_at": now,
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAlertNotFound
	}

	s.alertLogger().Info("Alert acknowledged", zap.String("id", id), zap.String("by", by))

	item, err := selectOne[models.AlertHistoryItem](ctx, s.Db, models.TableAlertHistory, db.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrAlertNotFound
	}
	return item, nil
}

type IAlertImpl struct {
	security *Security
}

func (ia *IAlertImpl) GetSettings(ctx context.Context) (*models.AlertSetting, error) {
	return ia.security.getSettings(ctx)
}

func (ia *IAlertImpl) UpdateSettings(ctx context.Context, input *models.AlertSetting) (*models.AlertSetting, error) {
	return ia.security.updateSettings(ctx, input)
}

func (ia *IAlertImpl) Evaluate(ctx context.Context, d *models.Detection) ([]models.AlertHistoryItem, error) {
	return ia.security.evaluate(ctx, d)
}

func (ia *IAlertImpl) SendTest(ctx context.Context, channel models.AlertChannel) (*models.AlertHistoryItem, error) {
	return ia.security.sendTest(ctx, channel)
}

func (ia *IAlertImpl) ListHistory(ctx context.Context, limit int) ([]models.AlertHistoryItem, error) {
	return ia.security.listHistory(ctx, limit)
}

func (ia *IAlertImpl) ListActive(ctx context.Context) ([]models.AlertHistoryItem, error) {
	return ia.security.listActive(ctx)
}

func (ia *IAlertImpl) Acknowledge(ctx context.Context, id string, by string) (*models.AlertHistoryItem, error) {
	return ia.security.acknowledge(ctx, id, by)
}

func (s *Security) GetIAlert() IAlert {
	return &IAlertImpl{security: s}
}
