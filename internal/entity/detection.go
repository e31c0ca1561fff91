package entity

import "time"

type DetectionType string

const (
	DetectionTypeFace   DetectionType = "face"
	DetectionTypeObject DetectionType = "object"
)

func (t DetectionType) Valid() bool {
	return t == DetectionTypeFace || t == DetectionTypeObject
}

type DetectionRecord struct {
	ID            string        `db:"id"`
	Filename      string        `db:"filename"`
	DetectionType DetectionType `db:"detection_type"`
	Result        string        `db:"result"`
	Confidence    float64       `db:"confidence"`
	FileURL       string        `db:"file_url"`
	CreatedAt     time.Time     `db:"created_at"`
}

type DetectionStats struct {
	TotalDetections  int                   `json:"total_detections"`
	RecentDetections int                   `json:"recent_detections"`
	ByType           map[DetectionType]int `json:"by_type"`
}
