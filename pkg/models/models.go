package models

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

type CameraStatus string

const (
	CameraStatusOnline      CameraStatus = "online"
	CameraStatusOffline     CameraStatus = "offline"
	CameraStatusMaintenance CameraStatus = "maintenance"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type DetectionStatus string

const (
	DetectionStatusActive        DetectionStatus = "active"
	DetectionStatusResolved      DetectionStatus = "resolved"
	DetectionStatusInvestigating DetectionStatus = "investigating"
)

type AlertChannel string

const (
	AlertChannelEmail AlertChannel = "email"
	AlertChannelSMS   AlertChannel = "sms"
	AlertChannelPush  AlertChannel = "push"
)

type DeliveryStatus string

const (
	DeliveryStatusSent    DeliveryStatus = "sent"
	DeliveryStatusFailed  DeliveryStatus = "failed"
	DeliveryStatusPending DeliveryStatus = "pending"
)

const (
	TableAccounts      = "accounts"
	TableIdentities    = "identities"
	TableCameras       = "cameras"
	TableDetections    = "detections"
	TableAlertSettings = "alert_settings"
	TableAlertHistory  = "alert_history"
)

// Account is the local, role-aware mirror of an identity provider record.
type Account struct {
	ID        string        `gorm:"primaryKey" json:"id"`
	Username  string        `gorm:"uniqueIndex" json:"username"`
	Email     string        `gorm:"uniqueIndex" json:"email"`
	Role      Role          `gorm:"type:varchar(20);check:role IN ('admin','viewer')" json:"role"`
	Status    AccountStatus `gorm:"type:varchar(20);check:status IN ('active','inactive')" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	LastLogin *time.Time    `json:"last_login"`
}

func (Account) TableName() string { return TableAccounts }

// Identity is a credential row of the built-in identity provider.
type Identity struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Username     string
	Role         Role `gorm:"type:varchar(20)"`
	CreatedAt    time.Time
}

func (Identity) TableName() string { return TableIdentities }

type Camera struct {
	ID           string       `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"not null" json:"name"`
	Location     string       `gorm:"not null" json:"location"`
	Status       CameraStatus `gorm:"type:varchar(20);check:status IN ('online','offline','maintenance')" json:"status"`
	StreamURL    string       `json:"stream_url"`
	Recording    bool         `json:"recording"`
	LastActivity time.Time    `json:"last_activity"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	Detections []Detection `gorm:"foreignKey:CameraID;references:ID" json:"-"`
}

func (Camera) TableName() string { return TableCameras }

type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Detection is a persisted detection row. Upload analyses have no camera.
type Detection struct {
	ID            string          `gorm:"primaryKey" json:"id"`
	CameraID      *string         `gorm:"index" json:"camera_id"`
	Source        string          `gorm:"index" json:"source"`
	DetectionType string          `gorm:"type:varchar(100);not null" json:"detection_type"`
	Description   string          `json:"description"`
	Confidence    float64         `gorm:"check:confidence >= 0 AND confidence <= 1" json:"confidence"`
	Severity      Severity        `gorm:"type:varchar(20)" json:"severity"`
	Status        DetectionStatus `gorm:"type:varchar(20)" json:"status"`
	Suspicious    bool            `gorm:"index" json:"suspicious"`
	Box           BoundingBox     `gorm:"embedded;embeddedPrefix:box_" json:"coordinates"`
	FrameSeq      uint64          `json:"frame_seq"`
	Page          int             `json:"page,omitempty"`
	CapturedAt    time.Time       `json:"captured_at"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
}

func (Detection) TableName() string { return TableDetections }

// AlertSetting is a single-row table (ID 1) holding notification channel configuration.
type AlertSetting struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	EmailEnabled bool      `json:"email_enabled"`
	SMSEnabled   bool      `json:"sms_enabled"`
	PushEnabled  bool      `json:"push_enabled"`
	EmailAddress string    `json:"email_address"`
	SMSNumber    string    `json:"sms_number"`
	Threshold    float64   `json:"threshold"`
	AlertTypes   []string  `gorm:"serializer:json" json:"alert_types"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (AlertSetting) TableName() string { return TableAlertSettings }

type AlertHistoryItem struct {
	ID             string         `gorm:"primaryKey" json:"id"`
	DetectionID    *string        `gorm:"index" json:"detection_id"`
	Type           string         `json:"type"`
	Message        string         `json:"message"`
	Channel        AlertChannel   `gorm:"type:varchar(10)" json:"method"`
	Recipient      string         `json:"recipient"`
	Status         DeliveryStatus `gorm:"type:varchar(10);check:status IN ('sent','failed','pending')" json:"status"`
	Acknowledged   bool           `gorm:"index" json:"acknowledged"`
	AcknowledgedBy *string        `json:"acknowledged_by"`
	AcknowledgedAt *time.Time     `json:"acknowledged_at"`
	CreatedAt      time.Time      `gorm:"index" json:"timestamp"`
}

func (AlertHistoryItem) TableName() string { return TableAlertHistory }
