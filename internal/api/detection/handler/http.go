package detectionHandler

import (
	detectionService "SmartVision/internal/api/detection/service"
	"SmartVision/internal/middleware"
	"SmartVision/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type DetectionHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	detectionService detectionService.IDetectionService
	utils            utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ds detectionService.IDetectionService,
	utils utils.IUtils,
) *DetectionHandler {
	return &DetectionHandler{
		log:              log,
		validator:        validator,
		middleware:       middleware,
		detectionService: ds,
		utils:            utils,
	}
}

func (h *DetectionHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	detect := srv.Group("/detect")
	detect.Post("/", h.HandleDetect)
	detect.Post("/face", h.HandleDetectFace)
	detect.Post("/object", h.HandleDetectObject)

	detect.Use("/face/ws", wsMiddleware)
	detect.Get("/face/ws", websocket.New(h.handleFaceWebSocket))
}
