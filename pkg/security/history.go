package security

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/ai-security-service/pkg/common"
	"liyu1981.xyz/ai-security-service/pkg/models"
)

var csvHeader = []string{"Timestamp", "Source", "Detection Type", "Description", "Confidence", "Severity", "Status"}

func (s *Security) history(ctx context.Context, filter models.HistoryFilter) ([]models.Detection, error) {
	if filter.Status != "" && !ValidDetectionStatus(filter.Status) {
		return nil, fmt.Errorf("%w: unknown detection status %q", ErrInvalidInput, filter.Status)
	}

	q := s.Db.Conn.WithContext(ctx).Model(&models.Detection{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		q = q.Where("source LIKE ?", "%"+search+"%")
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Days > 0 {
		q = q.Where("created_at >= ?", s.now().Add(-time.Duration(filter.Days)*24*time.Hour))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []models.Detection
	err := q.Order("created_at desc").Find(&rows).Error
	return rows, err
}

// CSVRecord renders one detection as a history export line.
func CSVRecord(d models.Detection) []string {
	return []string{
		d.CreatedAt.UTC().Format(time.RFC3339),
		d.Source,
		d.DetectionType,
		d.Description,
		fmt.Sprintf("%.1f%%", d.Confidence*100),
		string(d.Severity),
		string(d.Status),
	}
}

func (s *Security) exportCSV(ctx context.Context, filter models.HistoryFilter, w io.Writer) error {
	rows, err := s.history(ctx, filter)
	if err != nil {
		return err
	}

	records := append([][]string{csvHeader}, common.Mapper(rows, CSVRecord)...)
	if err := csv.NewWriter(w).WriteAll(records); err != nil {
		return err
	}

	s.detectionLogger().Info("History exported", zap.Int("rows", len(rows)), zap.Reflect("filter", filter))
	return nil
}
