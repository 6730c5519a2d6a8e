package security

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"liyu1981.xyz/ai-security-service/pkg/common"
	"liyu1981.xyz/ai-security-service/pkg/db"
	"liyu1981.xyz/ai-security-service/pkg/detection"
	"liyu1981.xyz/ai-security-service/pkg/models"
)

const (
	DefaultRecentLimit = 50
	MaxRecentLimit     = 500

	// HighSeverityConfidence is the confidence at which a suspicious detection becomes high severity.
	HighSeverityConfidence = 0.8
)

func SeverityFor(suspicious bool, confidence float64) models.Severity {
	switch {
	case suspicious && confidence >= HighSeverityConfidence:
		return models.SeverityHigh
	case suspicious:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

func ValidDetectionStatus(status models.DetectionStatus) bool {
	switch status {
	case models.DetectionStatusActive, models.DetectionStatusResolved, models.DetectionStatusInvestigating:
		return true
	}
	return false
}

// DetectionFromEvent maps a generated event to its persisted row. An empty cameraID stores no
// camera; a non-empty source replaces the event's source.
func DetectionFromEvent(cameraID, source string, e detection.Event, createdAt time.Time) models.Detection {
	if source == "" {
		source = e.Source
	}
	suspicious := e.Suspicious()

	row := models.Detection{
		ID:            e.ID,
		Source:        source,
		DetectionType: e.Category,
		Description:   e.Label,
		Confidence:    e.Confidence,
		Severity:      SeverityFor(suspicious, e.Confidence),
		Status:        models.DetectionStatusActive,
		Suspicious:    suspicious,
		Box: models.BoundingBox{
			X:      float64(e.Box.X),
			Y:      float64(e.Box.Y),
			Width:  float64(e.Box.Width),
			Height: float64(e.Box.Height),
		},
		FrameSeq:   e.FrameSeq,
		Page:       e.Page,
		CapturedAt: e.Timestamp.UTC(),
		CreatedAt:  createdAt,
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if cameraID != "" {
		row.CameraID = &cameraID
	}
	return row
}

func (s *Security) detectionLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameSecurityCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryDetection),
	)
}

// recordEvents persists events in one transaction, then runs alert evaluation for each row.
// Alert failures are logged and do not fail the call.
func (s *Security) recordEvents(ctx context.Context, cameraID, source string, events []detection.Event) ([]models.Detection, error) {
	if len(events) == 0 {
		return nil, nil
	}
	logger := s.detectionLogger()

	now := s.now()
	rows := make([]models.Detection, len(events))
	for i, e := range events {
		rows[i] = DetectionFromEvent(cameraID, source, e, now)
	}

	err := s.Db.Transaction(ctx, func(tx *db.DB) error {
		for i := range rows {
			if err := tx.Insert(ctx, models.TableDetections, &rows[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	suspicious := 0
	for i := range rows {
		if rows[i].Suspicious {
			suspicious++
		}
	}
	logger.Info("Detections recorded",
		zap.String("camera_id", cameraID),
		zap.Int("count", len(rows)),
		zap.Int("suspicious", suspicious),
	)

	if s.Alert != nil {
		for i := range rows {
			if _, err := s.Alert.Evaluate(ctx, &rows[i]); err != nil {
				logger.Warn("Alert evaluation failed", zap.String("detection_id", rows[i].ID), zap.Error(err))
			}
		}
	}
	return rows, nil
}

func (s *Security) listRecent(ctx context.Context, limit int) ([]models.Detection, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	limit = min(limit, MaxRecentLimit)

	var rows []models.Detection
	err := s.Db.Conn.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (s *Security) listByDateRange(ctx context.Context, start, end time.Time) ([]models.Detection, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: range end %s is before start %s", ErrInvalidInput, end, start)
	}

	var rows []models.Detection
	err := s.Db.Conn.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", start.UTC(), end.UTC()).
		Order("created_at desc").
		Find(&rows).Error
	return rows, err
}

func (s *Security) getDetection(ctx context.Context, id string) (*models.Detection, error) {
	row, err := selectOne[models.Detection](ctx, s.Db, models.TableDetections, db.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrDetectionNotFound
	}
	return row, nil
}

func (s *Security) updateStatus(ctx context.Context, id string, status models.DetectionStatus) (*models.Detection, error) {
	if !ValidDetectionStatus(status) {
		return nil, fmt.Errorf("%w: unknown detection status %q", ErrInvalidInput, status)
	}

	rows, err := s.Db.Update(ctx, models.TableDetections, db.Filter{"id": id}, db.Patch{"status": status})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrDetectionNotFound
	}

	s.detectionLogger().Info("Detection status changed", zap.String("id", id), zap.String("status", string(status)))
	return s.getDetection(ctx, id)
}

type IDetectionImpl struct {
	security *Security
}

func (idet *IDetectionImpl) RecordEvents(ctx context.Context, cameraID string, source string, events []detection.Event) ([]models.Detection, error) {
	return idet.security.recordEvents(ctx, cameraID, source, events)
}

func (idet *IDetectionImpl) ListRecent(ctx context.Context, limit int) ([]models.Detection, error) {
	return idet.security.listRecent(ctx, limit)
}

func (idet *IDetectionImpl) ListByDateRange(ctx context.Context, start, end time.Time) ([]models.Detection, error) {
	return idet.security.listByDateRange(ctx, start, end)
}

func (idet *IDetectionImpl) UpdateStatus(ctx context.Context, id string, status models.DetectionStatus) (*models.Detection, error) {
	return idet.security.updateStatus(ctx, id, status)
}

func (idet *IDetectionImpl) Stats(ctx context.Context, days int) ([]models.DailyStat, error) {
	return idet.security.stats(ctx, days)
}

func (idet *IDetectionImpl) HourlyStats(ctx context.Context) ([]models.HourlyStat, error) {
	return idet.security.hourlyStats(ctx)
}

func (idet *IDetectionImpl) CameraStats(ctx context.Context) ([]models.CameraStat, error) {
	return idet.security.cameraStats(ctx)
}

func (idet *IDetectionImpl) TypeBreakdown(ctx context.Context) ([]models.TypeStat, error) {
	return idet.security.typeBreakdown(ctx)
}

func (idet *IDetectionImpl) History(ctx context.Context, filter models.HistoryFilter) ([]models.Detection, error) {
	return idet.security.history(ctx, filter)
}

func (idet *IDetectionImpl) ExportCSV(ctx context.Context, filter models.HistoryFilter, w io.Writer) error {
	return idet.security.exportCSV(ctx, filter, w)
}

func (s *Security) GetIDetection() IDetection {
	return &IDetectionImpl{security: s}
}
