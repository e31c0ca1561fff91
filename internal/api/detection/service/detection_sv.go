package detectionService

import (
	"SmartVision/internal/api/detection"
	"SmartVision/internal/entity"
	contextPkg "SmartVision/pkg/context"
	"SmartVision/pkg/vision"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *detectionService) Detect(c context.Context, input detection.ImageInput) (detection.DetectionData, error) {
	requestID := contextPkg.GetRequestID(c)

	faceData, err := s.DetectFaces(c, input)
	if err == nil {
		return faceData, nil
	}
	if !errors.Is(err, vision.ErrNoFace) {
		return detection.DetectionData{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"filename":   input.Filename,
	}).Debug("No face found, falling back to object classification")

	objectData, err := s.DetectObjects(c, input)
	if err == nil {
		return objectData, nil
	}
	if !errors.Is(err, vision.ErrNoDetection) {
		return detection.DetectionData{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"filename":   input.Filename,
	}).Warn("No detection in either pipeline")

	return detection.DetectionData{
		Filename: input.Filename,
		Result:   "No detection",
		Detected: false,
	}, nil
}

func (s *detectionService) DetectFaces(c context.Context, input detection.ImageInput) (detection.DetectionData, error) {
	requestID := contextPkg.GetRequestID(c)

	result, err := s.provider.AnalyzeFaces(c, input.Data)
	if err != nil {
		if errors.Is(err, vision.ErrNoFace) {
			return detection.DetectionData{}, err
		}
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Face analysis failed")
		return detection.DetectionData{}, vision.ErrNoFace
	}

	if len(result.Faces) == 0 {
		return detection.DetectionData{}, vision.ErrNoFace
	}

	var sum float64
	for _, face := range result.Faces {
		sum += face.Confidence
	}
	confidence := sum / float64(len(result.Faces))

	summary := fmt.Sprintf("Detected %d face(s)", len(result.Faces))

	record, err := s.persist(c, input, entity.DetectionTypeFace, summary, confidence)
	if err != nil {
		return detection.DetectionData{}, err
	}

	data := makeDetectionData(record)
	data.Faces = result.Faces

	return data, nil
}

func (s *detectionService) DetectObjects(c context.Context, input detection.ImageInput) (detection.DetectionData, error) {
	requestID := contextPkg.GetRequestID(c)

	result, err := s.provider.ClassifyObjects(c, input.Data)
	if err != nil {
		if errors.Is(err, vision.ErrNoDetection) {
			return detection.DetectionData{}, err
		}
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Object classification failed")
		return detection.DetectionData{}, vision.ErrNoDetection
	}

	if len(result.Predictions) == 0 {
		return detection.DetectionData{}, vision.ErrNoDetection
	}

	top := result.Predictions[0]
	summary := fmt.Sprintf("Detected: %s (%.1f%%)", top.Label, top.Confidence*100)

	record, err := s.persist(c, input, entity.DetectionTypeObject, summary, top.Confidence)
	if err != nil {
		return detection.DetectionData{}, err
	}

	data := makeDetectionData(record)
	data.Predictions = result.Predictions

	return data, nil
}

func (s *detectionService) ProcessFrame(frame []byte) (vision.FrameVerdict, error) {
	if s.scanner == nil {
		return vision.FrameVerdict{}, vision.ErrNoDetection
	}
	return s.scanner.ScanFrame(frame)
}

func (s *detectionService) persist(c context.Context, input detection.ImageInput, detectionType entity.DetectionType, summary string, confidence float64) (entity.DetectionRecord, error) {
	requestID := contextPkg.GetRequestID(c)

	repo, err := s.historyRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.DetectionRecord{}, err
	}

	now := time.Now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return entity.DetectionRecord{}, err
	}

	filename := input.Filename
	if filename == "" {
		filename = s.utils.WebcamFilename(now)
	}

	var fileURL string
	if s.s3Client != nil {
		fileURL, err = s.s3Client.UploadImage(filename, input.Data)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Image archive upload failed, record kept without file URL")
			fileURL = ""
		}
	}

	record := entity.DetectionRecord{
		ID:            id,
		Filename:      filename,
		DetectionType: detectionType,
		Result:        summary,
		Confidence:    confidence,
		FileURL:       fileURL,
		CreatedAt:     now,
	}

	if err := repo.Detections.Create(c, record); err != nil {
		return entity.DetectionRecord{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"id":         record.ID,
		"type":       string(detectionType),
		"confidence": confidence,
	}).Info("Detection record created")

	return record, nil
}

func makeDetectionData(record entity.DetectionRecord) detection.DetectionData {
	return detection.DetectionData{
		ID:            record.ID,
		Filename:      record.Filename,
		DetectionType: string(record.DetectionType),
		Result:        record.Result,
		Confidence:    record.Confidence,
		Detected:      true,
		FileURL:       record.FileURL,
		CreatedAt:     record.CreatedAt,
	}
}
