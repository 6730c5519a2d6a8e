package security

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"liyu1981.xyz/ai-security-service/pkg/models"
)

const DefaultStatsDays = 7

const dateLayout = "2006-01-02"

func (s *Security) detectionsBetween(ctx context.Context, since, until time.Time) ([]models.Detection, error) {
	var rows []models.Detection
	err := s.Db.Conn.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", since.UTC(), until.UTC()).
		Order("created_at asc").
		Find(&rows).Error
	return rows, err
}

func countSuspicious(rows []models.Detection) int {
	return lo.CountBy(rows, func(d models.Detection) bool { return d.Suspicious })
}

// stats returns one row per day for the last days days, oldest first, including empty days.
func (s *Security) stats(ctx context.Context, days int) ([]models.DailyStat, error) {
	if days <= 0 {
		days = DefaultStatsDays
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -(days - 1))

	rows, err := s.detectionsBetween(ctx, start, now)
	if err != nil {
		return nil, err
	}

	byDate := lo.GroupBy(rows, func(d models.Detection) string {
		return d.CreatedAt.UTC().Format(dateLayout)
	})

	stats := make([]models.DailyStat, days)
	for i := range days {
		date := start.AddDate(0, 0, i).Format(dateLayout)
		group := byDate[date]
		suspicious := countSuspicious(group)
		stats[i] = models.DailyStat{
			Date:       date,
			Total:      len(group),
			Suspicious: suspicious,
			Normal:     len(group) - suspicious,
		}
	}
	return stats, nil
}

// hourlyStats buckets the last 24 hours of detections by hour of day.
func (s *Security) hourlyStats(ctx context.Context) ([]models.HourlyStat, error) {
	now := s.now()
	rows, err := s.detectionsBetween(ctx, now.Add(-24*time.Hour), now)
	if err != nil {
		return nil, err
	}

	byHour := lo.GroupBy(rows, func(d models.Detection) int { return d.CreatedAt.UTC().Hour() })

	stats := make([]models.HourlyStat, 24)
	for hour := range 24 {
		stats[hour] = models.HourlyStat{
			Hour:       hour,
			Count:      len(byHour[hour]),
			Suspicious: countSuspicious(byHour[hour]),
		}
	}
	return stats, nil
}

// cameraStats lists every camera with its detection counts, busiest first.
func (s *Security) cameraStats(ctx context.Context) ([]models.CameraStat, error) {
	cameras, err := s.listCameras(ctx)
	if err != nil {
		return nil, err
	}

	var rows []models.Detection
	if err := s.Db.Conn.WithContext(ctx).Where("camera_id IS NOT NULL").Find(&rows).Error; err != nil {
		return nil, err
	}
	byCamera := lo.GroupBy(rows, func(d models.Detection) string { return *d.CameraID })

	stats := lo.Map(cameras, func(c models.Camera, _ int) models.CameraStat {
		return models.CameraStat{
			CameraID:   c.ID,
			Name:       c.Name,
			Location:   c.Location,
			Total:      len(byCamera[c.ID]),
			Suspicious: countSuspicious(byCamera[c.ID]),
		}
	})
	slices.SortStableFunc(stats, func(a, b models.CameraStat) int { return b.Total - a.Total })
	return stats, nil
}

// typeBreakdown counts detections per detection type, most frequent first.
func (s *Security) typeBreakdown(ctx context.Context) ([]models.TypeStat, error) {
	var rows []models.Detection
	if err := s.Db.Conn.WithContext(ctx).Select("detection_type").Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := lo.CountValuesBy(rows, func(d models.Detection) string { return d.DetectionType })
	stats := lo.MapToSlice(counts, func(t string, n int) models.TypeStat {
		return models.TypeStat{Type: t, Count: n}
	})
	slices.SortFunc(stats, func(a, b models.TypeStat) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Type, b.Type)
	})
	return stats, nil
}
