package rest

import (
	"context"
	"net/http"

	"mealmind/domain"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	// BatchHandler exposes manual triggers for the background recompute jobs.
	// Each underlying job is a no-op when a run is already in flight.
	BatchHandler struct {
		trends     TrendRecomputer
		similarity MatrixRefresher
		model      ModelTrainer
	}

	TrendRecomputer interface {
		Recompute(ctx context.Context) error
	}

	MatrixRefresher interface {
		RefreshMatrix(ctx context.Context, method string) error
	}

	ModelTrainer interface {
		Train(ctx context.Context) error
	}
)

func NewBatchHandler(trends TrendRecomputer, similarity MatrixRefresher, model ModelTrainer) *BatchHandler {
	return &BatchHandler{
		trends:     trends,
		similarity: similarity,
		model:      model,
	}
}

// POST /api/v1/admin/batch/trends
func (h *BatchHandler) RecomputeTrends(c echo.Context) error {
	if err := h.trends.Recompute(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusAccepted, fres.Response.StatusOK("trend recompute finished"))
}

// POST /api/v1/admin/batch/similarity?method=cosine
func (h *BatchHandler) RefreshSimilarity(c echo.Context) error {
	method := c.QueryParam("method")
	if method == "" {
		method = domain.SimilarityCosine
	}

	if err := h.similarity.RefreshMatrix(c.Request().Context(), method); err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusAccepted, fres.Response.StatusOK("similarity refresh finished"))
}

// POST /api/v1/admin/batch/model
func (h *BatchHandler) TrainModel(c echo.Context) error {
	if err := h.model.Train(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusAccepted, fres.Response.StatusOK("model training finished"))
}
