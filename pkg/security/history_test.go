package security

import (
	"bytes"
	"context"
	"encoding/csv"
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

func TestHistory(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sec, _, _, _, mockIAlert := GetMockSecurityWithMemorySqliteDialector(t, false, false, false, true)
	defer ctrl.Finish()

	mockIAlert.EXPECT().Evaluate(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	ctx := context.Background()
	tag := uuid.NewString()
	now := time.Date(2047, 8, 20, 9, 0, 0, 0, time.UTC)

	sec.Now = func() time.Time { return now.Add(-10 * 24 * time.Hour) }
	old, err := sec.Detection.RecordEvents(ctx, "", "Warehouse "+tag, []detection.Event{
		{Category: "person-activity", Label: "Person detected", Confidence: 0.6},
	})
	require.NoError(t, err)

	sec.Now = func() time.Time { return now }
	recent, err := sec.Detection.RecordEvents(ctx, "", "Parking "+tag, []detection.Event{
		{Category: "suspicious-behavior", Label: "Suspicious movement", Confidence: 0.91},
	})
	require.NoError(t, err)
	_, err = sec.Detection.UpdateStatus(ctx, recent[0].ID, models.DetectionStatusInvestigating)
	require.NoError(t, err)

	{
		rows, err := sec.Detection.History(ctx, models.HistoryFilter{Search: tag})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, recent[0].ID, rows[0].ID, "newest first")
		assert.Equal(t, old[0].ID, rows[1].ID)
	}

	{
		rows, err := sec.Detection.History(ctx, models.HistoryFilter{Search: "warehouse " + tag})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, old[0].ID, rows[0].ID)
	}

	{
		rows, err := sec.Detection.History(ctx, models.HistoryFilter{Search: tag, Status: models.DetectionStatusInvestigating})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, recent[0].ID, rows[0].ID)
	}

	{
		rows, err := sec.Detection.History(ctx, models.HistoryFilter{Search: tag, Days: 7})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, recent[0].ID, rows[0].ID)
	}

	{
		_, err := sec.Detection.History(ctx, models.HistoryFilter{Status: "closed"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestExportCSV(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sec, _, _, _, mockIAlert := GetMockSecurityWithMemorySqliteDialector(t, false, false, false, true)
	defer ctrl.Finish()

	mockIAlert.EXPECT().Evaluate(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	ctx := context.Background()
	source := "Export " + uuid.NewString()
	now := time.Date(2048, 1, 1, 8, 30, 0, 0, time.UTC)
	sec.Now = func() time.Time { return now }

	_, err := sec.Detection.RecordEvents(ctx, "", source, []detection.Event{
		{Category: "suspicious-behavior", Label: "Suspicious movement, near door", Confidence: 0.91},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, sec.Detection.ExportCSV(ctx, models.HistoryFilter{Search: source}, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Timestamp", "Source", "Detection Type", "Description", "Confidence", "Severity", "Status"}, records[0])
	assert.Equal(t, []string{
		"2048-01-01T08:30:00Z",
		source,
		"suspicious-behavior",
		"Suspicious movement, near door",
		"91.0%",
		"high",
		"active",
	}, records[1])

	{
		var empty bytes.Buffer
		require.NoError(t, sec.Detection.ExportCSV(ctx, models.HistoryFilter{Search: uuid.NewString()}, &empty))
		records, err := csv.NewReader(&empty).ReadAll()
		require.NoError(t, err)
		assert.Len(t, records, 1)
	}
}
