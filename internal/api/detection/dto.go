package detection

import (
	"SmartVision/pkg/vision"
	"time"
)

// ImageInput is the normalized form of an upload, whether it arrived as a
// multipart file or a base64 JSON body.
type ImageInput struct {
	Filename string
	Source   string
	Data     []byte
}

type DetectRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
	Filename    string `json:"filename" validate:"omitempty,max=255"`
	Source      string `json:"source" validate:"omitempty,oneof=upload webcam"`
}

type DetectionData struct {
	ID            string              `json:"id,omitempty"`
	Filename      string              `json:"filename"`
	DetectionType string              `json:"detection_type,omitempty"`
	Result        string              `json:"result"`
	Confidence    float64             `json:"confidence"`
	Detected      bool                `json:"detected"`
	Faces         []vision.Face       `json:"faces,omitempty"`
	Predictions   []vision.Prediction `json:"predictions,omitempty"`
	FileURL       string              `json:"file_url,omitempty"`
	CreatedAt     time.Time           `json:"created_at,omitempty"`
}

type DetectResponse struct {
	Data DetectionData `json:"data"`
}
