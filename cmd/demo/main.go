package main

import (
	"SmartVision/internal/api/detection"
	"SmartVision/internal/api/history"
	"SmartVision/internal/entity"
	"SmartVision/pkg/log"
	"SmartVision/pkg/utils"
	"SmartVision/pkg/vision"
	"SmartVision/pkg/vision/simulated"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

// The demo binary is the whole service collapsed into one process: simulated
// detection, an in-memory store, no auth, no external services. It exists for
// hosting environments that cannot run the full stack.
type demoServer struct {
	log      *logrus.Logger
	provider *simulated.Provider
	store    *memoryStore
	utils    utils.IUtils
}

func main() {
	logger := log.NewLogger()

	srv := &demoServer{
		log:      logger,
		provider: simulated.New(),
		store:    newMemoryStore(),
		utils:    utils.New(),
	}

	app := fiber.New(fiber.Config{
		AppName:     "Smart Vision Detector (demo)",
		BodyLimit:   10 * 1024 * 1024,
		JSONEncoder: jsoniter.Marshal,
		JSONDecoder: jsoniter.Unmarshal,
	})

	app.Get("/", srv.handleIndex)
	app.Get("/test", srv.handleTest)
	app.Get("/health", srv.handleHealth)

	api := app.Group("/api/v1")
	api.Post("/detect", srv.handleDetect(""))
	api.Post("/detect/face", srv.handleDetect(entity.DetectionTypeFace))
	api.Post("/detect/object", srv.handleDetect(entity.DetectionTypeObject))
	api.Get("/history", srv.handleHistory)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := app.Listen(fmt.Sprintf(":%s", port)); err != nil {
		logger.Fatalf("Error starting demo server: %v", err)
	}
}

func (s *demoServer) handleIndex(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"name":    "Smart Vision Detector",
		"mode":    "demo",
		"message": "Detection values are simulated. POST an image to /api/v1/detect.",
	})
}

func (s *demoServer) handleTest(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"status":  "ok",
		"records": s.store.Len(),
	})
}

func (s *demoServer) handleHealth(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"message": "Server is Healthy!",
	})
}

func (s *demoServer) readImage(ctx *fiber.Ctx) (string, []byte, error) {
	file, err := ctx.FormFile("image")
	if err == nil {
		if err := s.utils.ValidateImageFile(file); err != nil {
			return "", nil, err
		}

		fileContent, err := file.Open()
		if err != nil {
			return "", nil, err
		}
		defer fileContent.Close()

		data, err := io.ReadAll(fileContent)
		if err != nil {
			return "", nil, err
		}

		return file.Filename, data, nil
	}

	var req detection.DetectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return "", nil, err
	}

	payload := req.ImageBase64
	if idx := strings.Index(payload, ";base64,"); idx != -1 {
		payload = payload[idx+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}

	if err := s.utils.ValidateImageBytes(data); err != nil {
		return "", nil, err
	}

	return req.Filename, data, nil
}

func (s *demoServer) handleDetect(forced entity.DetectionType) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		filename, data, err := s.readImage(ctx)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid image",
			})
		}

		now := time.Now()
		if filename == "" {
			filename = s.utils.WebcamFilename(now)
		}

		var record entity.DetectionRecord
		var faces []vision.Face
		var predictions []vision.Prediction

		runFace := forced == "" || forced == entity.DetectionTypeFace
		runObject := forced == "" || forced == entity.DetectionTypeObject
		detected := false

		if runFace {
			result, err := s.provider.AnalyzeFaces(ctx.UserContext(), data)
			if err == nil && len(result.Faces) > 0 {
				var sum float64
				for _, face := range result.Faces {
					sum += face.Confidence
				}
				record = entity.DetectionRecord{
					DetectionType: entity.DetectionTypeFace,
					Result:        fmt.Sprintf("Detected %d face(s)", len(result.Faces)),
					Confidence:    sum / float64(len(result.Faces)),
				}
				faces = result.Faces
				detected = true
			} else if err != nil && !errors.Is(err, vision.ErrNoFace) {
				s.log.Errorf("Simulated face analysis failed: %v", err)
			}
		}

		if !detected && runObject {
			result, err := s.provider.ClassifyObjects(ctx.UserContext(), data)
			if err == nil && len(result.Predictions) > 0 {
				top := result.Predictions[0]
				record = entity.DetectionRecord{
					DetectionType: entity.DetectionTypeObject,
					Result:        fmt.Sprintf("Detected: %s (%.1f%%)", top.Label, top.Confidence*100),
					Confidence:    top.Confidence,
				}
				predictions = result.Predictions
				detected = true
			} else if err != nil && !errors.Is(err, vision.ErrNoDetection) {
				s.log.Errorf("Simulated classification failed: %v", err)
			}
		}

		if !detected {
			return ctx.JSON(detection.DetectResponse{
				Data: detection.DetectionData{
					Filename: filename,
					Result:   "No detection",
					Detected: false,
				},
			})
		}

		id, err := s.utils.NewULIDFromTimestamp(now)
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}

		record.ID = id
		record.Filename = filename
		record.CreatedAt = now
		s.store.Add(record)

		return ctx.JSON(detection.DetectResponse{
			Data: detection.DetectionData{
				ID:            record.ID,
				Filename:      record.Filename,
				DetectionType: string(record.DetectionType),
				Result:        record.Result,
				Confidence:    record.Confidence,
				Detected:      true,
				Faces:         faces,
				Predictions:   predictions,
				CreatedAt:     record.CreatedAt,
			},
		})
	}
}

func (s *demoServer) handleHistory(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 100)

	records := s.store.List(limit)
	responses := make([]history.RecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, history.MakeRecordResponse(record))
	}

	return ctx.JSON(history.ListResponse{
		Data: responses,
	})
}
