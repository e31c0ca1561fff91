package detectionHandler

import (
	"SmartVision/internal/api/detection"
	contextPkg "SmartVision/pkg/context"
	"SmartVision/pkg/handlerUtil"
	"SmartVision/pkg/log"
	"SmartVision/pkg/utils"
	"SmartVision/pkg/vision"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// readImageInput accepts either a multipart "image" file or a JSON body with
// a base64 payload, the same two shapes the browser UI sends.
func (h *DetectionHandler) readImageInput(ctx *fiber.Ctx, requestID string) (detection.ImageInput, error) {
	file, err := ctx.FormFile("image")
	if err == nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"file_name":  file.Filename,
			"file_size":  file.Size,
		}).Debug("Processing file upload")

		if err := h.utils.ValidateImageFile(file); err != nil {
			if errors.Is(err, utils.ErrFileTooLarge) {
				return detection.ImageInput{}, detection.ErrFileTooLarge
			}
			return detection.ImageInput{}, detection.ErrInvalidImage
		}

		fileContent, err := file.Open()
		if err != nil {
			return detection.ImageInput{}, err
		}
		defer fileContent.Close()

		data, err := io.ReadAll(fileContent)
		if err != nil {
			return detection.ImageInput{}, err
		}

		return detection.ImageInput{
			Filename: file.Filename,
			Source:   "upload",
			Data:     data,
		}, nil
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing JSON request")

	var req detection.DetectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return detection.ImageInput{}, detection.ErrInvalidImage
	}

	if err := h.validator.Struct(req); err != nil {
		return detection.ImageInput{}, err
	}

	payload := req.ImageBase64
	if idx := strings.Index(payload, ";base64,"); idx != -1 {
		payload = payload[idx+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return detection.ImageInput{}, detection.ErrInvalidImage
	}

	if err := h.utils.ValidateImageBytes(data); err != nil {
		if errors.Is(err, utils.ErrFileTooLarge) {
			return detection.ImageInput{}, detection.ErrFileTooLarge
		}
		return detection.ImageInput{}, detection.ErrInvalidImage
	}

	return detection.ImageInput{
		Filename: req.Filename,
		Source:   req.Source,
		Data:     data,
	}, nil
}

func (h *DetectionHandler) HandleDetect(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	input, err := h.readImageInput(ctx, requestID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_image")
	}

	data, err := h.detectionService.Detect(c, input)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "detect")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"type":       data.DetectionType,
			"detected":   data.Detected,
		}).Info("Detection completed")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, detection.DetectResponse{
			Data: data,
		})
	}
}

func (h *DetectionHandler) HandleDetectFace(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	input, err := h.readImageInput(ctx, requestID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_image")
	}

	data, err := h.detectionService.DetectFaces(c, input)
	if err != nil {
		if errors.Is(err, vision.ErrNoFace) {
			h.log.WithFields(log.Fields{
				"request_id": requestID,
				"path":       ctx.Path(),
			}).Warn("No face detected")
			return errHandler.HandleSuccess(ctx, fiber.StatusOK, detection.DetectResponse{
				Data: detection.DetectionData{
					Filename: input.Filename,
					Result:   "No face detected",
					Detected: false,
				},
			})
		}
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "detect_face")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, detection.DetectResponse{
			Data: data,
		})
	}
}

func (h *DetectionHandler) HandleDetectObject(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	input, err := h.readImageInput(ctx, requestID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_image")
	}

	data, err := h.detectionService.DetectObjects(c, input)
	if err != nil {
		if errors.Is(err, vision.ErrNoDetection) {
			h.log.WithFields(log.Fields{
				"request_id": requestID,
				"path":       ctx.Path(),
			}).Warn("No object detected")
			return errHandler.HandleSuccess(ctx, fiber.StatusOK, detection.DetectResponse{
				Data: detection.DetectionData{
					Filename: input.Filename,
					Result:   "No detection",
					Detected: false,
				},
			})
		}
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "detect_object")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, detection.DetectResponse{
			Data: data,
		})
	}
}
