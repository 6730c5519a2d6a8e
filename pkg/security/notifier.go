package security

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"liyu1981.xyz/ai-security-service/pkg/common"
	"liyu1981.xyz/ai-security-service/pkg/models"
)

// Notifier delivers one alert message over a channel.
type Notifier interface {
	Notify(ctx context.Context, channel models.AlertChannel, recipient string, message string) error
}

// LogNotifier writes alerts to the service log instead of an external gateway.
type LogNotifier struct{}

func (n *LogNotifier) Notify(ctx context.Context, channel models.AlertChannel, recipient string, message string) error {
	logger := common.GetLoggerWith(
		common.LoggerNameSecurityCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryAlert),
	)

	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(recipient) == "" {
		return ErrEmptyRecipient
	}

	logger.Info("Alert delivered",
		zap.String("channel", string(channel)),
		zap.String("recipient", recipient),
		zap.String("message", message),
	)
	return nil
}
