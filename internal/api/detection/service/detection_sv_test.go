package detectionService_test

import (
	"SmartVision/database/store"
	"SmartVision/internal/api/detection"
	detectionService "SmartVision/internal/api/detection/service"
	historyRepository "SmartVision/internal/api/history/repository"
	"SmartVision/internal/entity"
	"SmartVision/pkg/utils"
	"SmartVision/pkg/vision"
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	faceResult   vision.FaceResult
	faceErr      error
	objectResult vision.ObjectResult
	objectErr    error
}

func (s *stubProvider) AnalyzeFaces(context.Context, []byte) (vision.FaceResult, error) {
	return s.faceResult, s.faceErr
}

func (s *stubProvider) ClassifyObjects(context.Context, []byte) (vision.ObjectResult, error) {
	return s.objectResult, s.objectErr
}

func newTestService(t *testing.T, provider vision.Provider) (detectionService.IDetectionService, historyRepository.Repository) {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, store.Bootstrap(db))

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	repo := historyRepository.New(db, logger)
	svc := detectionService.New(logger, provider, nil, repo, nil, utils.New())
	return svc, repo
}

func countRecords(t *testing.T, repo historyRepository.Repository) int {
	t.Helper()

	client, err := repo.NewClient(false)
	require.NoError(t, err)

	count, err := client.Detections.CountAll(context.Background())
	require.NoError(t, err)
	return count
}

func TestDetectFaceFirst(t *testing.T) {
	provider := &stubProvider{
		faceResult: vision.FaceResult{Faces: []vision.Face{
			{FaceID: 1, Age: 34, Gender: "Female", Confidence: 0.92},
			{FaceID: 2, Age: 41, Gender: "Male", Confidence: 0.88},
		}},
		objectResult: vision.ObjectResult{Predictions: []vision.Prediction{
			{Label: "laptop", Confidence: 0.9},
		}},
	}
	svc, repo := newTestService(t, provider)

	data, err := svc.Detect(context.Background(), detection.ImageInput{
		Filename: "group.jpg",
		Data:     []byte("jpeg bytes"),
	})
	require.NoError(t, err)

	assert.True(t, data.Detected)
	assert.Equal(t, string(entity.DetectionTypeFace), data.DetectionType)
	assert.Equal(t, "Detected 2 face(s)", data.Result)
	assert.InDelta(t, 0.90, data.Confidence, 1e-9)
	assert.Len(t, data.Faces, 2)
	assert.NotEmpty(t, data.ID)

	assert.Equal(t, 1, countRecords(t, repo))
}

func TestDetectFallsBackToObjects(t *testing.T) {
	provider := &stubProvider{
		faceErr: vision.ErrNoFace,
		objectResult: vision.ObjectResult{Predictions: []vision.Prediction{
			{Label: "coffee mug", Confidence: 0.84},
			{Label: "water bottle", Confidence: 0.31},
		}},
	}
	svc, repo := newTestService(t, provider)

	data, err := svc.Detect(context.Background(), detection.ImageInput{
		Filename: "desk.jpg",
		Data:     []byte("jpeg bytes"),
	})
	require.NoError(t, err)

	assert.True(t, data.Detected)
	assert.Equal(t, string(entity.DetectionTypeObject), data.DetectionType)
	assert.Equal(t, "Detected: coffee mug (84.0%)", data.Result)
	assert.Len(t, data.Predictions, 2)

	assert.Equal(t, 1, countRecords(t, repo))
}

func TestDetectNothingFoundWritesNoRecord(t *testing.T) {
	provider := &stubProvider{
		faceErr:   vision.ErrNoFace,
		objectErr: vision.ErrNoDetection,
	}
	svc, repo := newTestService(t, provider)

	data, err := svc.Detect(context.Background(), detection.ImageInput{
		Filename: "static.jpg",
		Data:     []byte("noise"),
	})
	require.NoError(t, err)

	assert.False(t, data.Detected)
	assert.Equal(t, "No detection", data.Result)
	assert.Empty(t, data.ID)

	assert.Equal(t, 0, countRecords(t, repo))
}

func TestDetectFacesExplicitPipeline(t *testing.T) {
	provider := &stubProvider{faceErr: vision.ErrNoFace}
	svc, repo := newTestService(t, provider)

	_, err := svc.DetectFaces(context.Background(), detection.ImageInput{
		Filename: "empty.jpg",
		Data:     []byte("jpeg bytes"),
	})
	assert.ErrorIs(t, err, vision.ErrNoFace)
	assert.Equal(t, 0, countRecords(t, repo))
}

func TestDetectUsesWebcamFilenameWhenMissing(t *testing.T) {
	provider := &stubProvider{
		faceResult: vision.FaceResult{Faces: []vision.Face{
			{FaceID: 1, Age: 27, Gender: "Male", Confidence: 0.8},
		}},
	}
	svc, _ := newTestService(t, provider)

	data, err := svc.Detect(context.Background(), detection.ImageInput{
		Source: "webcam",
		Data:   []byte("frame"),
	})
	require.NoError(t, err)

	assert.Regexp(t, `^webcam_\d{8}_\d{6}\.jpg$`, data.Filename)
}

func TestProcessFrameWithoutScanner(t *testing.T) {
	svc, _ := newTestService(t, &stubProvider{})

	_, err := svc.ProcessFrame([]byte("frame"))
	assert.ErrorIs(t, err, vision.ErrNoDetection)
}
