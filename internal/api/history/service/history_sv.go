package historyService

import (
	"SmartVision/internal/api/history"
	"SmartVision/internal/entity"
	contextPkg "SmartVision/pkg/context"
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	defaultListLimit = 100
	recentWindow     = 7 * 24 * time.Hour
)

func (s *historyService) List(ctx context.Context, query history.ListQuery) ([]history.RecordResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	records, err := repo.Detections.List(ctx, limit, entity.DetectionType(query.Type))
	if err != nil {
		return nil, err
	}

	responses := make([]history.RecordResponse, 0, len(records))
	for _, record := range records {
		resp := history.MakeRecordResponse(record)

		// Archived images live in a private bucket; hand the admin view a
		// short-lived link instead of the raw object URL.
		if s.s3Client != nil && record.FileURL != "" {
			signed, err := s.s3Client.PresignUrl(record.FileURL)
			if err != nil {
				s.log.WithFields(logrus.Fields{
					"request_id": requestID,
					"id":         record.ID,
					"error":      err.Error(),
				}).Warn("Failed to presign archived file")
			} else {
				resp.FileURL = signed
			}
		}

		responses = append(responses, resp)
	}

	return responses, nil
}

func (s *historyService) Stats(ctx context.Context) (entity.DetectionStats, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.DetectionStats{}, err
	}

	total, err := repo.Detections.CountAll(ctx)
	if err != nil {
		return entity.DetectionStats{}, err
	}

	byType, err := repo.Detections.CountByType(ctx)
	if err != nil {
		return entity.DetectionStats{}, err
	}

	recent, err := repo.Detections.CountSince(ctx, time.Now().Add(-recentWindow))
	if err != nil {
		return entity.DetectionStats{}, err
	}

	return entity.DetectionStats{
		TotalDetections:  total,
		RecentDetections: recent,
		ByType:           byType,
	}, nil
}

func (s *historyService) Delete(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	record, err := repo.Detections.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := repo.Detections.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.deleteArchivedFile(requestID, record)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"id":         id,
	}).Info("Detection record deleted")

	return nil
}

func (s *historyService) Clear(ctx context.Context) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	records, err := repo.Detections.ListAllOrdered(ctx)
	if err != nil {
		return err
	}

	if err := repo.Detections.Clear(ctx); err != nil {
		return err
	}

	for _, record := range records {
		s.deleteArchivedFile(requestID, record)
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
	}).Info("Detection history cleared")

	return nil
}

// deleteArchivedFile removes the S3 object behind a deleted record.
// Failures are logged only; the record itself is already gone.
func (s *historyService) deleteArchivedFile(requestID string, record entity.DetectionRecord) {
	if s.s3Client == nil || record.FileURL == "" {
		return
	}

	if err := s.s3Client.DeleteFile(record.FileURL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"id":         record.ID,
			"error":      err.Error(),
		}).Warn("Failed to delete archived file")
	}
}

func (s *historyService) ExportCSV(ctx context.Context) ([]byte, string, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, "", err
	}

	records, err := repo.Detections.ListAllOrdered(ctx)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Filename", "Type", "Result", "Confidence", "Timestamp"}); err != nil {
		return nil, "", err
	}

	for _, record := range records {
		row := []string{
			record.ID,
			record.Filename,
			string(record.DetectionType),
			record.Result,
			strconv.FormatFloat(record.Confidence, 'f', 2, 64),
			record.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			return nil, "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := "detection_history_" + time.Now().Format("20060102_150405") + ".csv"

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"rows":       len(records),
	}).Info("Detection history exported")

	return buf.Bytes(), filename, nil
}
