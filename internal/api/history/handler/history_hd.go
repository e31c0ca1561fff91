package historyHandler

import (
	"SmartVision/internal/api/history"
	contextPkg "SmartVision/pkg/context"
	"SmartVision/pkg/handlerUtil"
	"SmartVision/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *HistoryHandler) HandleList(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var query history.ListQuery
	if err := ctx.QueryParser(&query); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_query")
	}

	if err := h.validator.Struct(query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	records, err := h.historyService.List(c, query)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_history")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, history.ListResponse{
			Data: records,
		})
	}
}

func (h *HistoryHandler) HandleStats(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	stats, err := h.historyService.Stats(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "history_stats")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, history.StatsResponse{
			Data: stats,
		})
	}
}

func (h *HistoryHandler) HandleDelete(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")

	if err := h.historyService.Delete(c, id); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_record")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"id":         id,
		}).Info("Detection record deleted")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "record deleted",
		})
	}
}

func (h *HistoryHandler) HandleClear(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	if err := h.historyService.Clear(c); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "clear_history")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
		}).Info("Detection history cleared")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "history cleared",
		})
	}
}

func (h *HistoryHandler) HandleExportCSV(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	data, filename, err := h.historyService.ExportCSV(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "export_csv")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		ctx.Set(fiber.HeaderContentType, "text/csv")
		ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return ctx.Status(fiber.StatusOK).Send(data)
	}
}
