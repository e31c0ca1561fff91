package historyHandler

import (
	historyService "SmartVision/internal/api/history/service"
	"SmartVision/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type HistoryHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	historyService historyService.IHistoryService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	hs historyService.IHistoryService,
) *HistoryHandler {
	return &HistoryHandler{
		log:            log,
		validator:      validator,
		middleware:     middleware,
		historyService: hs,
	}
}

func (h *HistoryHandler) Start(srv fiber.Router) {
	history := srv.Group("/history")
	history.Get("/", h.middleware.NewTokenMiddleware, h.HandleList)
	history.Get("/stats", h.middleware.NewTokenMiddleware, h.HandleStats)
	history.Get("/export", h.middleware.NewTokenMiddleware, h.HandleExportCSV)
	history.Delete("/:id", h.middleware.NewTokenMiddleware, h.HandleDelete)
	history.Delete("/", h.middleware.NewTokenMiddleware, h.HandleClear)
}
