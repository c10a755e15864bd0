package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/open-teleop/tfpublisher/domain/diagnostic"
	"github.com/open-teleop/tfpublisher/domain/reconfigure"
	customlog "github.com/open-teleop/tfpublisher/pkg/log"
	"github.com/open-teleop/tfpublisher/services"
)

// ReconfigureHandler holds dependencies for the transform and reconfigure endpoints.
type ReconfigureHandler struct {
	reconfigureService services.ReconfigureService
	logger             customlog.Logger
}

// NewReconfigureHandler creates a new handler for the reconfigure endpoints.
func NewReconfigureHandler(reconfigureService services.ReconfigureService, logger customlog.Logger) *ReconfigureHandler {
	if reconfigureService == nil {
		panic("ReconfigureService cannot be nil in NewReconfigureHandler")
	}
	if logger == nil {
		panic("Logger cannot be nil in NewReconfigureHandler")
	}
	return &ReconfigureHandler{
		reconfigureService: reconfigureService,
		logger:             logger,
	}
}

// RegisterReconfigureRoutes registers the HTTP API with the Fiber app.
// stats may be nil, in which case the diagnostics route is not registered.
func RegisterReconfigureRoutes(app *fiber.App, reconfigureService services.ReconfigureService, stats *diagnostic.PublishStats, logger customlog.Logger) {
	h := NewReconfigureHandler(reconfigureService, logger)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	apiGroup := app.Group("/api/v1")
	apiGroup.Get("/transform", h.handleGetTransform)
	apiGroup.Get("/reconfigure", h.handleDescribe)
	apiGroup.Put("/reconfigure/:kind", h.handleReconfigure)
	if stats != nil {
		apiGroup.Get("/diagnostics", stats.GetMetricsHandler)
	}

	logger.Infof("Registered transform API endpoints under /api/v1")
}

// handleGetTransform returns the transform as currently stored.
func (h *ReconfigureHandler) handleGetTransform(c *fiber.Ctx) error {
	return c.JSON(NewTransformMsg(h.reconfigureService.Transform()))
}

// handleDescribe returns the configuration mirror and the angle bounds.
func (h *ReconfigureHandler) handleDescribe(c *fiber.Ctx) error {
	return c.JSON(h.reconfigureService.Describe())
}

// handleReconfigure applies one edit. The JSON body holds the fields to
// change and is merged over the current configuration.
func (h *ReconfigureHandler) handleReconfigure(c *fiber.Ctx) error {
	kind, err := reconfigure.ParseChangeKind(c.Params("kind"))
	if err != nil {
		h.logger.Warnf("Rejected reconfigure request: %v", err)
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	body := c.Body()
	res, err := h.reconfigureService.Update(kind, func(cfg *reconfigure.ConfigSnapshot) error {
		if len(body) == 0 {
			return nil
		}
		return json.Unmarshal(body, cfg)
	})
	if err != nil {
		h.logger.Warnf("Failed to apply %s edit: %v", kind, err)
		status := http.StatusBadRequest
		if errors.Is(err, reconfigure.ErrUnknownChangeKind) {
			status = http.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"error": fmt.Sprintf("Reconfigure failed: %v", err),
		})
	}

	h.logger.Debugf("Applied %s edit via HTTP", kind)
	return c.JSON(res)
}
