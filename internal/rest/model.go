package rest

import (
	"context"
	"net/http"
	"time"

	"caseAssist/business/recommend"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type ModelManager interface {
	Models(ctx context.Context) ([]*recommend.Model, error)
	Current() (*recommend.Model, error)
	Status() recommend.Status
	Retrain(ctx context.Context, trigger recommend.Trigger) (recommend.UpdateResult, error)
	Activate(ctx context.Context, version string) (*recommend.Model, error)
}

type ModelHandler struct {
	models  ModelManager
	timeout time.Duration
}

func NewModelHandler(models ModelManager) *ModelHandler {
	return &ModelHandler{
		models:  models,
		timeout: 10 * time.Second,
	}
}

// GET /api/v1/models
func (h *ModelHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	models, err := h.models.Models(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(models))
}

// GET /api/v1/models/current
func (h *ModelHandler) Current(c echo.Context) error {
	m, err := h.models.Current()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(m))
}

// GET /api/v1/models/status
func (h *ModelHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.models.Status()))
}

// POST /api/v1/models/retrain
// No handler timeout: a started run is not cancellable.
func (h *ModelHandler) Retrain(c echo.Context) error {
	res, err := h.models.Retrain(c.Request().Context(), recommend.TriggerManual)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// POST /api/v1/models/switch/:version
func (h *ModelHandler) Switch(c echo.Context) error {
	version := c.Param("version")
	if version == "" {
		return badRequest(c, "version is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	m, err := h.models.Activate(ctx, version)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(m))
}
