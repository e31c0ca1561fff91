package vision

import (
	"errors"

	"golang.org/x/net/context"
)

var (
	ErrNoFace      = errors.New("no face detected")
	ErrNoDetection = errors.New("no detection")
)

type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type Face struct {
	FaceID     int     `json:"face_id"`
	Box        Box     `json:"box"`
	Age        int     `json:"age"`
	Gender     string  `json:"gender"`
	Confidence float64 `json:"confidence"`
}

type FaceResult struct {
	Faces []Face `json:"faces"`
}

type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type ObjectResult struct {
	Predictions []Prediction `json:"predictions"`
}

type FrameVerdict struct {
	HasFace bool  `json:"has_face"`
	Boxes   []Box `json:"boxes,omitempty"`
}

// FaceAnalyzer locates faces and estimates age and gender per face.
// Implementations return ErrNoFace when the image contains no face.
type FaceAnalyzer interface {
	AnalyzeFaces(ctx context.Context, image []byte) (FaceResult, error)
}

// ObjectClassifier returns the top-K labels for the whole image.
// Implementations return ErrNoDetection when nothing clears the threshold.
type ObjectClassifier interface {
	ClassifyObjects(ctx context.Context, image []byte) (ObjectResult, error)
}

// FrameScanner is the fast path for live webcam frames: face boxes only,
// no age/gender estimation.
type FrameScanner interface {
	ScanFrame(frame []byte) (FrameVerdict, error)
}

type Provider interface {
	FaceAnalyzer
	ObjectClassifier
}
