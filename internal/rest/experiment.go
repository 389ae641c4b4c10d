package rest

import (
	"context"
	"net/http"
	"time"

	"mealmind/business/experiment"
	"mealmind/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	ExperimentHandler struct {
		validate *validator.Validate
		service  ExperimentService
	}

	ExperimentService interface {
		CreateExperiment(ctx context.Context, cfg experiment.CreateConfig) (*domain.Experiment, error)
		ListActive(ctx context.Context) ([]domain.Experiment, error)
		Analyze(ctx context.Context, experimentID string) (*experiment.Analysis, error)
		StopExperiment(ctx context.Context, experimentID string) error
	}

	CreateExperimentRequest struct {
		Name               string         `json:"name" validate:"required"`
		ControlAlgorithm   string         `json:"control_algorithm" validate:"required,oneof=collaborative content_based trending popularity hybrid neural"`
		TreatmentAlgorithm string         `json:"treatment_algorithm" validate:"required,oneof=collaborative content_based trending popularity hybrid neural"`
		TrafficSplit       float64        `json:"traffic_split" validate:"required,gt=0,lte=0.5"`
		TargetMetrics      []string       `json:"target_metrics" validate:"omitempty,dive,oneof=ctr conversion_rate engagement_rate"`
		SegmentFilters     map[string]any `json:"segment_filters"`
		DurationHours      int            `json:"duration_hours" validate:"omitempty,gt=0"`
	}
)

func NewExperimentHandler(svc ExperimentService) *ExperimentHandler {
	return &ExperimentHandler{
		validate: validator.New(),
		service:  svc,
	}
}

// POST /api/v1/admin/experiments
func (h *ExperimentHandler) Create(c echo.Context) error {
	var req CreateExperimentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	cfg := experiment.CreateConfig{
		Name:               req.Name,
		ControlAlgorithm:   req.ControlAlgorithm,
		TreatmentAlgorithm: req.TreatmentAlgorithm,
		TrafficSplit:       req.TrafficSplit,
		TargetMetrics:      req.TargetMetrics,
		SegmentFilters:     req.SegmentFilters,
		Duration:           time.Duration(req.DurationHours) * time.Hour,
	}

	exp, err := h.service.CreateExperiment(c.Request().Context(), cfg)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(exp))
}

// GET /api/v1/admin/experiments
func (h *ExperimentHandler) List(c echo.Context) error {
	exps, err := h.service.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(exps))
}

// GET /api/v1/admin/experiments/:id/results
func (h *ExperimentHandler) Results(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "experiment id is required"})
	}

	analysis, err := h.service.Analyze(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(analysis))
}

// POST /api/v1/admin/experiments/:id/stop
func (h *ExperimentHandler) Stop(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "experiment id is required"})
	}

	if err := h.service.StopExperiment(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("experiment stopped"))
}
