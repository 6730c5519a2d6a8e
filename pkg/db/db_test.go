package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"liyu1981.xyz/ai-security-service/pkg/common"
	"liyu1981.xyz/ai-security-service/pkg/models"
	_ "liyu1981.xyz/ai-security-service/pkg/testing"

	"gorm.io/gorm"
)

func tableExists(db *gorm.DB, tableName string) bool {
	var count int64
	err := db.Raw(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, tableName,
	).Scan(&count).Error
	return err == nil && count > 0
}

func TestWithMemorySqlite(t *testing.T) {
	common.SetTestLoggerNop()

	instance := GetInstance(UseMemorySqliteDialector())
	if instance == nil {
		t.Fatal("Expected non-nil DB instance")
	}

	var tables = []string{
		models.TableAccounts,
		models.TableIdentities,
		models.TableCameras,
		models.TableDetections,
		models.TableAlertSettings,
		models.TableAlertHistory,
	}
	for _, table := range tables {
		if !tableExists(instance.Conn, table) {
			t.Errorf("Expected table %q to exist after migration", table)
		}
	}
}

func TestSingletonConcurrency(t *testing.T) {
	common.SetTestLoggerNop()

	const goroutineCount = 20

	var wg sync.WaitGroup
	instances := make(chan *DB, goroutineCount)

	for range goroutineCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			instances <- GetInstance(UseMemorySqliteDialector())
		}()
	}

	wg.Wait()
	close(instances)

	var first *DB
	for inst := range instances {
		if first == nil {
			first = inst
			continue
		}
		if inst != first {
			t.Error("Expected all instances to be the same (singleton), but found different ones")
		}
	}
}

func TestStoreInsertSelectUpdate(t *testing.T) {
	common.SetTestLoggerNop()

	store := GetInstance(UseMemorySqliteDialector())
	ctx := context.Background()

	camera := &models.Camera{
		ID:           uuid.NewString(),
		Name:         "Main Entrance",
		Location:     "Building A - Front Door",
		Status:       models.CameraStatusOnline,
		LastActivity: time.Now(),
	}
	require.NoError(t, store.Insert(ctx, models.TableCameras, camera))

	var rows []models.Camera
	require.NoError(t, store.Select(ctx, models.TableCameras, Filter{"id": camera.ID}, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Main Entrance", rows[0].Name)

	n, err := store.Update(ctx, models.TableCameras, Filter{"id": camera.ID}, Patch{"status": models.CameraStatusMaintenance})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	rows = nil
	require.NoError(t, store.Select(ctx, models.TableCameras, Filter{"id": camera.ID}, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, models.CameraStatusMaintenance, rows[0].Status)

	n, err = store.Delete(ctx, models.TableCameras, Filter{"id": camera.ID}, &models.Camera{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	rows = nil
	require.NoError(t, store.Select(ctx, models.TableCameras, Filter{"id": camera.ID}, &rows))
	assert.Len(t, rows, 0)
}

func TestStore_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	store := GetInstance(UseMemorySqliteDialector())
	ctx := context.Background()

	_, err := store.Update(ctx, models.TableCameras, nil, Patch{"status": "offline"})
	assert.ErrorIs(t, err, ErrEmptyFilter)

	_, err = store.Delete(ctx, models.TableCameras, Filter{}, &models.Camera{})
	assert.ErrorIs(t, err, ErrEmptyFilter)

	n, err := store.Update(ctx, models.TableCameras, Filter{"id": uuid.NewString()}, Patch{})
	assert.NoError(t, err)
	assert.EqualValues(t, 0, n)

	// duplicate primary key is surfaced as an error
	id := uuid.NewString()
	require.NoError(t, store.Insert(ctx, models.TableCameras, &models.Camera{ID: id, Name: "a", Location: "b", Status: models.CameraStatusOnline}))
	assert.Error(t, store.Insert(ctx, models.TableCameras, &models.Camera{ID: id, Name: "a", Location: "b", Status: models.CameraStatusOnline}))
}
