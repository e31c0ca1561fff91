package historyService_test

import (
	"SmartVision/database/store"
	"SmartVision/internal/api/history"
	historyRepository "SmartVision/internal/api/history/repository"
	historyService "SmartVision/internal/api/history/service"
	"SmartVision/internal/entity"
	"SmartVision/pkg/s3"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	deleted []string
}

func (f *fakeS3) UploadImage(filename string, data []byte) (string, error) {
	return "https://bucket.example.com/uploads/" + filename, nil
}

func (f *fakeS3) PresignUrl(fileUrl string) (string, error) {
	return fileUrl + "?signed=1", nil
}

func (f *fakeS3) DeleteFile(fileUrl string) error {
	f.deleted = append(f.deleted, fileUrl)
	return nil
}

func newTestService(t *testing.T, s3Client s3.ItfS3) (historyService.IHistoryService, historyRepository.Repository) {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, store.Bootstrap(db))

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	repo := historyRepository.New(db, logger)
	return historyService.New(logger, repo, s3Client), repo
}

func seedRecord(t *testing.T, repo historyRepository.Repository, n int, detectionType entity.DetectionType, result string, createdAt time.Time) {
	t.Helper()
	seedRecordWithFile(t, repo, n, detectionType, result, createdAt, "")
}

func seedRecordWithFile(t *testing.T, repo historyRepository.Repository, n int, detectionType entity.DetectionType, result string, createdAt time.Time, fileURL string) {
	t.Helper()

	client, err := repo.NewClient(false)
	require.NoError(t, err)

	require.NoError(t, client.Detections.Create(context.Background(), entity.DetectionRecord{
		ID:            fmt.Sprintf("01TEST%020d", n),
		Filename:      fmt.Sprintf("photo_%d.jpg", n),
		DetectionType: detectionType,
		Result:        result,
		Confidence:    0.85,
		FileURL:       fileURL,
		CreatedAt:     createdAt,
	}))
}

func TestListDefaultsAndFilter(t *testing.T) {
	svc, repo := newTestService(t, nil)
	now := time.Now()

	seedRecord(t, repo, 1, entity.DetectionTypeFace, "Detected 1 face(s)", now)
	seedRecord(t, repo, 2, entity.DetectionTypeObject, "Detected: laptop (91.0%)", now)

	all, err := svc.List(context.Background(), history.ListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "photo_2.jpg", all[0].Filename)

	objects, err := svc.List(context.Background(), history.ListQuery{Type: "object"})
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "object", objects[0].DetectionType)
}

func TestListPresignsArchivedFiles(t *testing.T) {
	archive := &fakeS3{}
	svc, repo := newTestService(t, archive)
	now := time.Now()

	seedRecordWithFile(t, repo, 1, entity.DetectionTypeFace, "Detected 1 face(s)", now,
		"https://bucket.example.com/uploads/photo_1.jpg")
	seedRecord(t, repo, 2, entity.DetectionTypeObject, "Detected: laptop (91.0%)", now)

	records, err := svc.List(context.Background(), history.ListQuery{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first: the unarchived record leads.
	assert.Empty(t, records[0].FileURL)
	assert.Equal(t, "https://bucket.example.com/uploads/photo_1.jpg?signed=1", records[1].FileURL)
}

func TestStatsCountsRecentWindow(t *testing.T) {
	svc, repo := newTestService(t, nil)
	now := time.Now()

	seedRecord(t, repo, 1, entity.DetectionTypeFace, "Detected 1 face(s)", now)
	seedRecord(t, repo, 2, entity.DetectionTypeFace, "Detected 2 face(s)", now.Add(-2*24*time.Hour))
	seedRecord(t, repo, 3, entity.DetectionTypeObject, "Detected: bicycle (88.2%)", now.Add(-20*24*time.Hour))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalDetections)
	assert.Equal(t, 2, stats.RecentDetections)
	assert.Equal(t, 2, stats.ByType[entity.DetectionTypeFace])
	assert.Equal(t, 1, stats.ByType[entity.DetectionTypeObject])
}

func TestDeleteMissingRecord(t *testing.T) {
	svc, _ := newTestService(t, nil)

	err := svc.Delete(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, history.ErrRecordNotFound)
}

func TestDeleteRemovesArchivedFile(t *testing.T) {
	archive := &fakeS3{}
	svc, repo := newTestService(t, archive)
	now := time.Now()

	seedRecordWithFile(t, repo, 1, entity.DetectionTypeFace, "Detected 1 face(s)", now,
		"https://bucket.example.com/uploads/photo_1.jpg")

	require.NoError(t, svc.Delete(context.Background(), "01TEST00000000000000000001"))

	assert.Equal(t, []string{"https://bucket.example.com/uploads/photo_1.jpg"}, archive.deleted)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalDetections)
}

func TestClearRemovesEverything(t *testing.T) {
	archive := &fakeS3{}
	svc, repo := newTestService(t, archive)
	now := time.Now()

	seedRecordWithFile(t, repo, 1, entity.DetectionTypeFace, "Detected 1 face(s)", now,
		"https://bucket.example.com/uploads/photo_1.jpg")
	seedRecordWithFile(t, repo, 2, entity.DetectionTypeObject, "Detected: guitar (79.4%)", now,
		"https://bucket.example.com/uploads/photo_2.jpg")
	seedRecord(t, repo, 3, entity.DetectionTypeObject, "Detected: umbrella (66.1%)", now)

	require.NoError(t, svc.Clear(context.Background()))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalDetections)

	// Only archived records trigger S3 deletes.
	assert.ElementsMatch(t, []string{
		"https://bucket.example.com/uploads/photo_1.jpg",
		"https://bucket.example.com/uploads/photo_2.jpg",
	}, archive.deleted)
}

func TestExportCSV(t *testing.T) {
	svc, repo := newTestService(t, nil)
	now := time.Date(2025, 5, 10, 14, 30, 0, 0, time.UTC)

	// Commas in the result exercise CSV quoting.
	seedRecord(t, repo, 2, entity.DetectionTypeObject, `Detected: coffee mug (84.0%), maybe a cup`, now.Add(time.Minute))
	seedRecord(t, repo, 1, entity.DetectionTypeFace, "Detected 1 face(s)", now)

	data, filename, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "detection_history_"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	reader := csv.NewReader(strings.NewReader(string(data)))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"ID", "Filename", "Type", "Result", "Confidence", "Timestamp"}, rows[0])

	// Stored order is oldest first regardless of insert order.
	assert.Equal(t, "photo_1.jpg", rows[1][1])
	assert.Equal(t, "face", rows[1][2])
	assert.Equal(t, "0.85", rows[1][4])

	assert.Equal(t, "photo_2.jpg", rows[2][1])
	assert.Equal(t, "Detected: coffee mug (84.0%), maybe a cup", rows[2][3])
}

func TestExportCSVEmptyStore(t *testing.T) {
	svc, _ := newTestService(t, nil)

	data, _, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(string(data)))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ID", rows[0][0])
}
