package rest

import (
	"context"
	"net/http"
	"time"

	"mealmind/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type (
	InteractionHandler struct {
		validate *validator.Validate
		service  InteractionService
	}

	InteractionService interface {
		ActiveExperimentFor(ctx context.Context, userID uint) (*domain.ExperimentInfo, error)
		TrackInteraction(ctx context.Context, interaction *domain.Interaction, info *domain.ExperimentInfo) error
	}

	TrackRequest struct {
		ItemID    uint64         `json:"item_id" validate:"required"`
		EventType string         `json:"event_type" validate:"required,oneof=view click cart order rate favorite share"`
		Value     float64        `json:"value" validate:"omitempty,gte=0,lte=5"`
		Duration  float64        `json:"duration" validate:"omitempty,gte=0"`
		Context   map[string]any `json:"context"`
	}
)

func NewInteractionHandler(svc InteractionService) *InteractionHandler {
	return &InteractionHandler{
		validate: validator.New(),
		service:  svc,
	}
}

// POST /api/v1/interactions
func (h *InteractionHandler) Track(c echo.Context) error {
	uidVal := c.Get("user_id")
	userID, ok := uidVal.(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req TrackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx := c.Request().Context()

	info, err := h.service.ActiveExperimentFor(ctx, userID)
	if err != nil {
		// tracking must not fail because assignment lookup did
		info = nil
	}

	interaction := domain.Interaction{
		UserID:    userID,
		ItemID:    req.ItemID,
		EventType: req.EventType,
		Value:     req.Value,
		Duration:  req.Duration,
		CreatedAt: time.Now(),
		Context:   datatypes.JSONMap(req.Context),
	}

	if err := h.service.TrackInteraction(ctx, &interaction, info); err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("interaction recorded"))
}
