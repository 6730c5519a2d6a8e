package security

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"liyu1981.xyz/ai-security-service/pkg/common"
	"liyu1981.xyz/ai-security-service/pkg/db"
	"liyu1981.xyz/ai-security-service/pkg/models"
)

func ValidCameraStatus(status models.CameraStatus) bool {
	switch status {
	case models.CameraStatusOnline, models.CameraStatusOffline, models.CameraStatusMaintenance:
		return true
	}
	return false
}

// DefaultCameras are seeded into an empty cameras table.
func DefaultCameras() []models.Camera {
	return []models.Camera{
		{Name: "Main Entrance", Location: "Building A - Front Door", Status: models.CameraStatusOnline, Recording: true},
		{Name: "Parking Lot", Location: "Outdoor Parking Area", Status: models.CameraStatusOnline, Recording: true},
		{Name: "Warehouse", Location: "Storage Area B", Status: models.CameraStatusOnline},
		{Name: "Office Area", Location: "Floor 2 - Open Office", Status: models.CameraStatusOnline, Recording: true},
		{Name: "Loading Dock", Location: "Rear Building Entrance", Status: models.CameraStatusMaintenance},
	}
}

func (s *Security) cameraLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameSecurityCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryCamera),
	)
}

func (s *Security) createCamera(ctx context.Context, input *models.Camera) (*models.Camera, error) {
	logger := s.cameraLogger()

	name := strings.TrimSpace(input.Name)
	location := strings.TrimSpace(input.Location)
	if name == "" || location == "" {
		return nil, fmt.Errorf("%w: camera name and location are required", ErrInvalidInput)
	}

	status := input.Status
	if status == "" {
		status = models.CameraStatusOnline
	}
	if !ValidCameraStatus(status) {
		return nil, fmt.Errorf("%w: unknown camera status %q", ErrInvalidInput, status)
	}

	now := s.now()
	camera := models.Camera{
		ID:           input.ID,
		Name:         name,
		Location:     location,
		Status:       status,
		StreamURL:    input.StreamURL,
		Recording:    input.Recording,
		LastActivity: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if camera.ID == "" {
		camera.ID = uuid.NewString()
	}

	if err := s.Db.Insert(ctx, models.TableCameras, &camera); err != nil {
		return nil, err
	}

	logger.Info("Camera created", zap.Reflect("camera", camera))
	return &camera, nil
}

func (s *Security) getCamera(ctx context.Context, id string) (*models.Camera, error) {
	camera, err := selectOne[models.Camera](ctx, s.Db, models.TableCameras, db.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	if camera == nil {
		return nil, ErrCameraNotFound
	}
	return camera, nil
}

func (s *Security) listCameras(ctx context.Context) ([]models.Camera, error) {
	var cameras []models.Camera
	err := s.Db.Conn.WithContext(ctx).
		Order("created_at asc").
		Order("name asc").
		Find(&cameras).Error
	return cameras, err
}

func (s *Security) updateCamera(ctx context.Context, id string, patch models.CameraPatch) (*models.Camera, error) {
	logger := s.cameraLogger()

	update := db.Patch{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: camera name cannot be empty", ErrInvalidInput)
		}
		update["name"] = name
	}
	if patch.Location != nil {
		location := strings.TrimSpace(*patch.Location)
		if location == "" {
			return nil, fmt.Errorf("%w: camera location cannot be empty", ErrInvalidInput)
		}
		update["location"] = location
	}
	if patch.Status != nil {
		if !ValidCameraStatus(*patch.Status) {
			return nil, fmt.Errorf("%w: unknown camera status %q", ErrInvalidInput, *patch.Status)
		}
		update["status"] = *patch.Status
	}
	if patch.StreamURL != nil {
		update["stream_url"] = *patch.StreamURL
	}
	if patch.Recording != nil {
		update["recording"] = *patch.Recording
	}

	if len(update) == 0 {
		return s.getCamera(ctx, id)
	}
	update["updated_at"] = s.now()

	rows, err := s.Db.Update(ctx, models.TableCameras, db.Filter{"id": id}, update)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrCameraNotFound
	}

	logger.Info("Camera updated", zap.String("id", id), zap.Reflect("patch", update))
	return s.getCamera(ctx, id)
}

// deleteCamera removes the camera together with its detections.
func (s *Security) deleteCamera(ctx context.Context, id string) error {
	logger := s.cameraLogger()

	var removed int64
	err := s.Db.Transaction(ctx, func(tx *db.DB) error {
		detections, err := tx.Delete(ctx, models.TableDetections, db.Filter{"camera_id": id}, &models.Detection{})
		if err != nil {
			return err
		}
		rows, err := tx.Delete(ctx, models.TableCameras, db.Filter{"id": id}, &models.Camera{})
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrCameraNotFound
		}
		removed = detections
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Camera deleted", zap.String("id", id), zap.Int64("detections", removed))
	return nil
}

func (s *Security) toggleRecording(ctx context.Context, id string) (*models.Camera, error) {
	camera, err := s.getCamera(ctx, id)
	if err != nil {
		return nil, err
	}
	recording := !camera.Recording
	return s.updateCamera(ctx, id, models.CameraPatch{Recording: &recording})
}

func (s *Security) touchActivity(ctx context.Context, id string, at time.Time) error {
	rows, err := s.Db.Update(ctx, models.TableCameras, db.Filter{"id": id}, db.Patch{"last_activity": at.UTC()})
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCameraNotFound
	}
	return nil
}

// seedDefaultCameras inserts DefaultCameras when no camera exists and reports how many were added.
func (s *Security) seedDefaultCameras(ctx context.Context) (int, error) {
	logger := s.cameraLogger()

	var count int64
	if err := s.Db.Conn.WithContext(ctx).Model(&models.Camera{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	seeded := 0
	for _, camera := range DefaultCameras() {
		if _, err := s.createCamera(ctx, &camera); err != nil {
			return seeded, err
		}
		seeded++
	}

	logger.Info("Default cameras seeded", zap.Int("count", seeded))
	return seeded, nil
}

type ICameraImpl struct {
	security *Security
}

func (ic *ICameraImpl) CreateCamera(ctx context.Context, input *models.Camera) (*models.Camera, error) {
	return ic.security.createCamera(ctx, input)
}

func (ic *ICameraImpl) GetCamera(ctx context.Context, id string) (*models.Camera, error) {
	return ic.security.getCamera(ctx, id)
}

func (ic *ICameraImpl) ListCameras(ctx context.Context) ([]models.Camera, error) {
	return ic.security.listCameras(ctx)
}

func (ic *ICameraImpl) UpdateCamera(ctx context.Context, id string, patch models.CameraPatch) (*models.Camera, error) {
	return ic.security.updateCamera(ctx, id, patch)
}

func (ic *ICameraImpl) DeleteCamera(ctx context.Context, id string) error {
	return ic.security.deleteCamera(ctx, id)
}

func (ic *ICameraImpl) ToggleRecording(ctx context.Context, id string) (*models.Camera, error) {
	return ic.security.toggleRecording(ctx, id)
}

func (ic *ICameraImpl) TouchActivity(ctx context.Context, id string, at time.Time) error {
	return ic.security.touchActivity(ctx, id, at)
}

func (ic *ICameraImpl) SeedDefaultCameras(ctx context.Context) (int, error) {
	return ic.security.seedDefaultCameras(ctx)
}

func (s *Security) GetICamera() ICamera {
	return &ICameraImpl{security: s}
}
