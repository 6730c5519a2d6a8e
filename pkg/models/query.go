package models

// CameraPatch carries the fields a camera update may change. Nil fields are left alone.
type CameraPatch struct {
	Name      *string       `json:"name"`
	Location  *string       `json:"location"`
	Status    *CameraStatus `json:"status"`
	StreamURL *string       `json:"stream_url"`
	Recording *bool         `json:"recording"`
}

// HistoryFilter narrows the detection history. Zero values disable a condition.
type HistoryFilter struct {
	Search string          `json:"search"`
	Status DetectionStatus `json:"status"`
	Days   int             `json:"days"`
	Limit  int             `json:"limit"`
}

type DailyStat struct {
	Date       string `json:"date"`
	Total      int    `json:"total"`
	Suspicious int    `json:"suspicious"`
	Normal     int    `json:"normal"`
}

type HourlyStat struct {
	Hour       int `json:"hour"`
	Count      int `json:"count"`
	Suspicious int `json:"suspicious"`
}

type CameraStat struct {
	CameraID   string `json:"camera_id"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	Total      int    `json:"total"`
	Suspicious int    `json:"suspicious"`
}

type TypeStat struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}
