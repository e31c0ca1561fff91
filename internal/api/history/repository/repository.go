package historyRepository

import (
	"SmartVision/internal/entity"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var db sqlx.ExtContext
	var commitFunc, rollbackFunc func() error

	db = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		db = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Detections: &detectionRepository{q: db, log: r.log},
		Commit:     commitFunc,
		Rollback:   rollbackFunc,
	}, nil
}

type Client struct {
	Detections interface {
		Create(ctx context.Context, record entity.DetectionRecord) error
		List(ctx context.Context, limit int, detectionType entity.DetectionType) ([]entity.DetectionRecord, error)
		ListAllOrdered(ctx context.Context) ([]entity.DetectionRecord, error)
		GetByID(ctx context.Context, id string) (entity.DetectionRecord, error)
		DeleteByID(ctx context.Context, id string) error
		Clear(ctx context.Context) error
		CountAll(ctx context.Context) (int, error)
		CountByType(ctx context.Context) (map[entity.DetectionType]int, error)
		CountSince(ctx context.Context, since time.Time) (int, error)
	}

	Commit   func() error
	Rollback func() error
}

type detectionRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}
