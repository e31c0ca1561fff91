package historyService

import (
	"SmartVision/internal/api/history"
	historyRepository "SmartVision/internal/api/history/repository"
	"SmartVision/internal/entity"
	"SmartVision/pkg/s3"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IHistoryService interface {
	List(ctx context.Context, query history.ListQuery) ([]history.RecordResponse, error)
	Stats(ctx context.Context) (entity.DetectionStats, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	ExportCSV(ctx context.Context) ([]byte, string, error)
}

type historyService struct {
	log      *logrus.Logger
	repo     historyRepository.Repository
	s3Client s3.ItfS3
}

// New wires the history service. s3Client may be nil when no archive bucket
// is configured; archived-file handling is skipped in that case.
func New(log *logrus.Logger, repo historyRepository.Repository, s3Client s3.ItfS3) IHistoryService {
	return &historyService{
		log:      log,
		repo:     repo,
		s3Client: s3Client,
	}
}
