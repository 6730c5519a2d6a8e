package security

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"liyu1981.xyz/ai-security-service/pkg/common"
	"liyu1981.xyz/ai-security-service/pkg/detection"
	"liyu1981.xyz/ai-security-service/pkg/models"
	_ "liyu1981.xyz/ai-security-service/pkg/testing"
)

func TestStats(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sec, _, _, _, mockIAlert := GetMockSecurityWithMemorySqliteDialector(t, false, false, false, true)
	defer ctrl.Finish()

	mockIAlert.EXPECT().Evaluate(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	ctx := context.Background()

	yesterday := time.Date(2045, 3, 9, 10, 0, 0, 0, time.UTC)
	sec.Now = func() time.Time { return yesterday }
	_, err := sec.Detection.RecordEvents(ctx, "", "stats", []detection.Event{
		{Category: "person-activity", Label: "Person detected", Confidence: 0.6},
		{Category: "suspicious-behavior", Label: "Suspicious movement", Confidence: 0.7},
	})
	require.NoError(t, err)

	today := time.Date(2045, 3, 10, 12, 0, 0, 0, time.UTC)
	sec.Now = func() time.Time { return today }
	_, err = sec.Detection.RecordEvents(ctx, "", "stats", []detection.Event{
		{Category: "suspicious-behavior", Label: "Suspicious movement", Confidence: 0.9},
	})
	require.NoError(t, err)

	stats, err := sec.Detection.Stats(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []models.DailyStat{
		{Date: "2045-03-08", Total: 0, Suspicious: 0, Normal: 0},
		{Date: "2045-03-09", Total: 2, Suspicious: 1, Normal: 1},
		{Date: "2045-03-10", Total: 1, Suspicious: 1, Normal: 0},
	}, stats)

	stats, err = sec.Detection.Stats(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, stats, DefaultStatsDays)
	assert.Equal(t, "2045-03-10", stats[DefaultStatsDays-1].Date)
}

func TestHourlyStats(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sec, _, _, _, mockIAlert := GetMockSecurityWithMemorySqliteDialector(t, false, false, false, true)
	defer ctrl.Finish()

	mockIAlert.EXPECT().Evaluate(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	ctx := context.Background()

	record := func(at time.Time, label string) {
		sec.Now = func() time.Time { return at }
		_, err := sec.Detection.RecordEvents(ctx, "", "hourly", []detection.Event{
			{Category: "person-activity", Label: label, Confidence: 0.6},
		})
		require.NoError(t, err)
	}

	now := time.Date(2046, 1, 2, 15, 30, 0, 0, time.UTC)
	record(now.Add(-30*time.Hour), "Person detected") // outside the window
	record(time.Date(2046, 1, 1, 18, 5, 0, 0, time.UTC), "Person detected")
	record(time.Date(2046, 1, 2, 15, 10, 0, 0, time.UTC), "Person detected")
	record(time.Date(2046, 1, 2, 15, 20, 0, 0, time.UTC), "Suspicious package")

	sec.Now = func() time.Time { return now }
	stats, err := sec.Detection.HourlyStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 24)

	for hour, s := range stats {
		assert.Equal(t, hour, s.Hour)
	}
	assert.Equal(t, 1, stats[18].Count)
	assert.Equal(t, 2, stats[15].Count)
	assert.Equal(t, 1, stats[15].Suspicious)
	assert.Equal(t, 0, stats[21].Count)
}

func TestCameraStatsAndTypeBreakdown(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sec, _, _, _, mockIAlert := GetMockSecurityWithMemorySqliteDialector(t, false, false, false, true)
	defer ctrl.Finish()

	mockIAlert.EXPECT().Evaluate(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	ctx := context.Background()
	camera, err := sec.Camera.CreateCamera(ctx, &models.Camera{Name: "Stats Cam", Location: "Lab"})
	require.NoError(t, err)
	idle, err := sec.Camera.CreateCamera(ctx, &models.Camera{Name: "Idle Cam", Location: "Lab"})
	require.NoError(t, err)

	kindA := "type-" + uuid.NewString()
	kindB := "type-" + uuid.NewString()
	_, err = sec.Detection.RecordEvents(ctx, camera.ID, "", []detection.Event{
		{Category: kindA, Label: "Suspicious movement", Confidence: 0.7},
		{Category: kindA, Label: "Person detected", Confidence: 0.7},
		{Category: kindB, Label: "Person detected", Confidence: 0.7},
	})
	require.NoError(t, err)

	cameraStats, err := sec.Detection.CameraStats(ctx)
	require.NoError(t, err)
	byID := map[string]models.CameraStat{}
	for _, s := range cameraStats {
		byID[s.CameraID] = s
	}
	assert.Equal(t, models.CameraStat{CameraID: camera.ID, Name: "Stats Cam", Location: "Lab", Total: 3, Suspicious: 1}, byID[camera.ID])
	assert.Equal(t, 0, byID[idle.ID].Total)

	types, err := sec.Detection.TypeBreakdown(ctx)
	require.NoError(t, err)
	counts := map[string]int{}
	for _, s := range types {
		counts[s.Type] = s.Count
	}
	assert.Equal(t, 2, counts[kindA])
	assert.Equal(t, 1, counts[kindB])

	for i := 1; i < len(types); i++ {
		assert.GreaterOrEqual(t, types[i-1].Count, types[i].Count)
	}
}
