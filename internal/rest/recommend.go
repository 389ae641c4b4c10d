package rest

import (
	"context"
	"net/http"
	"time"

	"mealmind/business/hybrid"
	"mealmind/business/recommend"
	"mealmind/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

type (
	RecommendationHandler struct {
		validate *validator.Validate
		service  RecommendationService
	}

	RecommendationService interface {
		GetRecommendations(ctx context.Context, userID uint, opts recommend.Options) (*domain.RecommendationSet, error)
	}

	RecommendationQuery struct {
		Limit             int     `query:"limit"`
		Algorithm         string  `query:"algorithm" validate:"omitempty,oneof=collaborative content_based trending popularity hybrid neural"`
		Strategy          string  `query:"strategy" validate:"omitempty,oneof=weighted switching cascade adaptive"`
		DiversityFactor   float64 `query:"diversity_factor" validate:"omitempty,gte=0,lte=1"`
		ExcludeInteracted bool    `query:"exclude_interacted"`
		BudgetMin         float64 `query:"budget_min"`
		BudgetMax         float64 `query:"budget_max"`
	}
)

func NewRecommendationHandler(svc RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		validate: validator.New(),
		service:  svc,
	}
}

// GET /api/v1/recommendations?limit=10&algorithm=hybrid
func (h *RecommendationHandler) Get(c echo.Context) error {
	uidVal := c.Get("user_id")
	userID, ok := uidVal.(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var q RecommendationQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	opts := recommend.Options{
		Limit:             q.Limit,
		Algorithm:         q.Algorithm,
		Strategy:          hybrid.Strategy(q.Strategy),
		DiversityFactor:   q.DiversityFactor,
		ExcludeInteracted: q.ExcludeInteracted,
		Context: hybrid.RequestContext{
			Now:       time.Now(),
			BudgetMin: q.BudgetMin,
			BudgetMax: q.BudgetMax,
		},
	}
	// the zero query value means "use the configured default", not "off"
	if c.QueryParam("diversity_factor") == "" {
		opts.DiversityFactor = -1
	}

	set, err := h.service.GetRecommendations(c.Request().Context(), userID, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(set))
}
