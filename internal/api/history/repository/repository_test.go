package historyRepository_test

import (
	"SmartVision/database/store"
	"SmartVision/internal/api/history"
	historyRepository "SmartVision/internal/api/history/repository"
	"SmartVision/internal/entity"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) historyRepository.Repository {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, store.Bootstrap(db))

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return historyRepository.New(db, logger)
}

func testRecord(n int, detectionType entity.DetectionType, createdAt time.Time) entity.DetectionRecord {
	return entity.DetectionRecord{
		ID:            fmt.Sprintf("01TEST%020d", n),
		Filename:      fmt.Sprintf("photo_%d.jpg", n),
		DetectionType: detectionType,
		Result:        "Detected 1 face(s)",
		Confidence:    0.9,
		CreatedAt:     createdAt,
	}
}

func TestCreateAndGetByID(t *testing.T) {
	repo := newTestRepo(t)
	client, err := repo.NewClient(false)
	require.NoError(t, err)

	ctx := context.Background()
	record := testRecord(1, entity.DetectionTypeFace, time.Now())

	require.NoError(t, client.Detections.Create(ctx, record))

	got, err := client.Detections.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.Filename, got.Filename)
	assert.Equal(t, entity.DetectionTypeFace, got.DetectionType)
	assert.InDelta(t, record.Confidence, got.Confidence, 1e-9)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)
	client, err := repo.NewClient(false)
	require.NoError(t, err)

	_, err = client.Detections.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, history.ErrRecordNotFound)
}

func TestListNewestFirstWithTypeFilter(t *testing.T) {
	repo := newTestRepo(t)
	client, err := repo.NewClient(false)
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Now()

	require.NoError(t, client.Detections.Create(ctx, testRecord(1, entity.DetectionTypeFace, now)))
	require.NoError(t, client.Detections.Create(ctx, testRecord(2, entity.DetectionTypeObject, now)))
	require.NoError(t, client.Detections.Create(ctx, testRecord(3, entity.DetectionTypeFace, now)))

	all, err := client.Detections.List(ctx, 10, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "photo_3.jpg", all[0].Filename)
	assert.Equal(t, "photo_1.jpg", all[2].Filename)

	faces, err := client.Detections.List(ctx, 10, entity.DetectionTypeFace)
	require.NoError(t, err)
	require.Len(t, faces, 2)
	for _, record := range faces {
		assert.Equal(t, entity.DetectionTypeFace, record.DetectionType)
	}

	limited, err := client.Detections.List(ctx, 2, "")
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListAllOrderedIsOldestFirst(t *testing.T) {
	repo := newTestRepo(t)
	client, err := repo.NewClient(false)
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Now()

	for i := 3; i >= 1; i-- {
		require.NoError(t, client.Detections.Create(ctx, testRecord(i, entity.DetectionTypeObject, now)))
	}

	records, err := client.Detections.ListAllOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "photo_1.jpg", records[0].Filename)
	assert.Equal(t, "photo_3.jpg", records[2].Filename)
}

func TestDeleteByID(t *testing.T) {
	repo := newTestRepo(t)
	client, err := repo.NewClient(false)
	require.NoError(t, err)

	ctx := context.Background()
	record := testRecord(1, entity.DetectionTypeFace, time.Now())
	require.NoError(t, client.Detections.Create(ctx, record))

	require.NoError(t, client.Detections.DeleteByID(ctx, record.ID))

	_, err = client.Detections.GetByID(ctx, record.ID)
	assert.ErrorIs(t, err, history.ErrRecordNotFound)

	err = client.Detections.DeleteByID(ctx, record.ID)
	assert.ErrorIs(t, err, history.ErrRecordNotFound)
}

func TestClearAndCounts(t *testing.T) {
	repo := newTestRepo(t)
	client, err := repo.NewClient(false)
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Now()

	require.NoError(t, client.Detections.Create(ctx, testRecord(1, entity.DetectionTypeFace, now)))
	require.NoError(t, client.Detections.Create(ctx, testRecord(2, entity.DetectionTypeFace, now)))
	require.NoError(t, client.Detections.Create(ctx, testRecord(3, entity.DetectionTypeObject, now.Add(-30*24*time.Hour))))

	total, err := client.Detections.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	byType, err := client.Detections.CountByType(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, byType[entity.DetectionTypeFace])
	assert.Equal(t, 1, byType[entity.DetectionTypeObject])

	recent, err := client.Detections.CountSince(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, recent)

	require.NoError(t, client.Detections.Clear(ctx))

	total, err = client.Detections.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestTransactionRollback(t *testing.T) {
	repo := newTestRepo(t)

	txClient, err := repo.NewClient(true)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, txClient.Detections.Create(ctx, testRecord(1, entity.DetectionTypeFace, time.Now())))
	require.NoError(t, txClient.Rollback())

	client, err := repo.NewClient(false)
	require.NoError(t, err)

	total, err := client.Detections.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}
