package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"mealmind/domain"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	TrendHandler struct {
		service TrendService
	}

	TrendService interface {
		DailyScores(ctx context.Context) ([]domain.TrendScore, error)
		Seasonal(ctx context.Context, now time.Time, historyYears int) ([]domain.SeasonalEntry, error)
		DetectSpikes(ctx context.Context, now time.Time) ([]domain.SpikeAlert, error)
	}
)

func NewTrendHandler(svc TrendService) *TrendHandler {
	return &TrendHandler{service: svc}
}

// GET /api/v1/trends
func (h *TrendHandler) Daily(c echo.Context) error {
	scores, err := h.service.DailyScores(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(scores))
}

// GET /api/v1/trends/seasonal?years=2
func (h *TrendHandler) Seasonal(c echo.Context) error {
	years := 2
	if raw := c.QueryParam("years"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid years"})
		}
		years = parsed
	}

	entries, err := h.service.Seasonal(c.Request().Context(), time.Now(), years)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(entries))
}

// GET /api/v1/admin/trends/spikes
func (h *TrendHandler) Spikes(c echo.Context) error {
	alerts, err := h.service.DetectSpikes(c.Request().Context(), time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(alerts))
}
