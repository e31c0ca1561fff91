package detectionService

import (
	"SmartVision/internal/api/detection"
	historyRepository "SmartVision/internal/api/history/repository"
	"SmartVision/pkg/s3"
	"SmartVision/pkg/utils"
	"SmartVision/pkg/vision"
	"context"

	"github.com/sirupsen/logrus"
)

type IDetectionService interface {
	Detect(c context.Context, input detection.ImageInput) (detection.DetectionData, error)
	DetectFaces(c context.Context, input detection.ImageInput) (detection.DetectionData, error)
	DetectObjects(c context.Context, input detection.ImageInput) (detection.DetectionData, error)
	ProcessFrame(frame []byte) (vision.FrameVerdict, error)
}

type detectionService struct {
	log         *logrus.Logger
	provider    vision.Provider
	scanner     vision.FrameScanner
	historyRepo historyRepository.Repository
	s3Client    s3.ItfS3
	utils       utils.IUtils
}

func New(log *logrus.Logger,
	provider vision.Provider,
	scanner vision.FrameScanner,
	historyRepo historyRepository.Repository,
	s3Client s3.ItfS3,
	utils utils.IUtils,
) IDetectionService {
	return &detectionService{
		log:         log,
		provider:    provider,
		scanner:     scanner,
		historyRepo: historyRepo,
		s3Client:    s3Client,
		utils:       utils,
	}
}
