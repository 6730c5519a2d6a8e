package security

import (
	"context"
	"errors"
	"io"
	"time"

	"liyu1981.xyz/ai-security-service/pkg/db"
	"liyu1981.xyz/ai-security-service/pkg/detection"
	"liyu1981.xyz/ai-security-service/pkg/metrics"
	"liyu1981.xyz/ai-security-service/pkg/models"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrCameraNotFound     = errors.New("camera not found")
	ErrCameraUnavailable  = errors.New("camera is not online")
	ErrAccountNotFound    = errors.New("account not found")
	ErrDetectionNotFound  = errors.New("detection not found")
	ErrAlertNotFound      = errors.New("alert not found")
	ErrNoFrame            = errors.New("no frame captured yet")
	ErrManagerStopped     = errors.New("live manager stopped")
	ErrEmptyRecipient     = errors.New("empty recipient")
	ErrUnsupportedChannel = errors.New("unsupported alert channel")
)

type ICamera interface {
	CreateCamera(ctx context.Context, input *models.Camera) (*models.Camera, error)
	GetCamera(ctx context.Context, id string) (*models.Camera, error)
	ListCameras(ctx context.Context) ([]models.Camera, error)
	UpdateCamera(ctx context.Context, id string, patch models.CameraPatch) (*models.Camera, error)
	DeleteCamera(ctx context.Context, id string) error
	ToggleRecording(ctx context.Context, id string) (*models.Camera, error)
	TouchActivity(ctx context.Context, id string, at time.Time) error
	SeedDefaultCameras(ctx context.Context) (int, error)
}

type IAccount interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	ToggleStatus(ctx context.Context, id string) (*models.Account, error)
	SetRole(ctx context.Context, id string, role models.Role) (*models.Account, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	DeleteAccount(ctx context.Context, id string) error
}

type IDetection interface {
	RecordEvents(ctx context.Context, cameraID string, source string, events []detection.Event) ([]models.Detection, error)
	ListRecent(ctx context.Context, limit int) ([]models.Detection, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]models.Detection, error)
	UpdateStatus(ctx context.Context, id string, status models.DetectionStatus) (*models.Detection, error)
	Stats(ctx context.Context, days int) ([]models.DailyStat, error)
	HourlyStats(ctx context.Context) ([]models.HourlyStat, error)
	CameraStats(ctx context.Context) ([]models.CameraStat, error)
	TypeBreakdown(ctx context.Context) ([]models.TypeStat, error)
	History(ctx context.Context, filter models.HistoryFilter) ([]models.Detection, error)
	ExportCSV(ctx context.Context, filter models.HistoryFilter, w io.Writer) error
}

type IAlert interface {
	GetSettings(ctx context.Context) (*models.AlertSetting, error)
	UpdateSettings(ctx context.Context, input *models.AlertSetting) (*models.AlertSetting, error)
	Evaluate(ctx context.Context, d *models.Detection) ([]models.AlertHistoryItem, error)
	SendTest(ctx context.Context, channel models.AlertChannel) (*models.AlertHistoryItem, error)
	ListHistory(ctx context.Context, limit int) ([]models.AlertHistoryItem, error)
	ListActive(ctx context.Context) ([]models.AlertHistoryItem, error)
	Acknowledge(ctx context.Context, id string, by string) (*models.AlertHistoryItem, error)
}

// Security is the core: persisted cameras, accounts, detections and alerts.
type Security struct {
	Db        *db.DB
	Camera    ICamera
	Account   IAccount
	Detection IDetection
	Alert     IAlert
	Notifier  Notifier
	Metrics   *metrics.Metrics

	// Now defaults to time.Now.
	Now func() time.Time
}

type ServiceOpts struct {
	Camera    ICamera
	Account   IAccount
	Detection IDetection
	Alert     IAlert
	Notifier  Notifier
}

// New builds a Security wired with its own service implementations.
func New(dbInstance *db.DB, m *metrics.Metrics) *Security {
	s := &Security{Db: dbInstance, Metrics: m}
	return s.WithServices(ServiceOpts{
		Camera:    s.GetICamera(),
		Account:   s.GetIAccount(),
		Detection: s.GetIDetection(),
		Alert:     s.GetIAlert(),
		Notifier:  &LogNotifier{},
	})
}

func (s *Security) WithServices(opts ServiceOpts) *Security {
	if opts.Camera != nil {
		s.Camera = opts.Camera
	}
	if opts.Account != nil {
		s.Account = opts.Account
	}
	if opts.Detection != nil {
		s.Detection = opts.Detection
	}
	if opts.Alert != nil {
		s.Alert = opts.Alert
	}
	if opts.Notifier != nil {
		s.Notifier = opts.Notifier
	}
	return s
}

// timestamps are stored in UTC so sqlite text comparison orders them correctly
func (s *Security) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// selectOne returns the single row matching filter, or nil when there is none.
func selectOne[T any](ctx context.Context, store db.Store, table string, filter db.Filter) (*T, error) {
	var rows []T
	if err := store.Select(ctx, table, filter, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
