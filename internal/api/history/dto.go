package history

import (
	"SmartVision/internal/entity"
	"time"
)

type ListQuery struct {
	Limit int    `query:"limit" validate:"omitempty,min=1,max=500"`
	Type  string `query:"type" validate:"omitempty,oneof=face object"`
}

type RecordResponse struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	DetectionType string    `json:"detection_type"`
	Result        string    `json:"result"`
	Confidence    float64   `json:"confidence"`
	FileURL       string    `json:"file_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func MakeRecordResponse(record entity.DetectionRecord) RecordResponse {
	return RecordResponse{
		ID:            record.ID,
		Filename:      record.Filename,
		DetectionType: string(record.DetectionType),
		Result:        record.Result,
		Confidence:    record.Confidence,
		FileURL:       record.FileURL,
		CreatedAt:     record.CreatedAt,
	}
}

type ListResponse struct {
	Data []RecordResponse `json:"data"`
}

type StatsResponse struct {
	Data entity.DetectionStats `json:"data"`
}
