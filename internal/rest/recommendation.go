package rest

import (
	"context"
	"net/http"
	"time"
	"tuvino/domain"
	"tuvino/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

type (
	RecommendationHandler struct {
		validate   *validator.Validate
		recService RecommendationService
		timeout    time.Duration
	}

	RecommendationService interface {
		GetRecommendations(ctx context.Context, userID string, limit int, filters *domain.WineFilters) ([]domain.Wine, error)
	}

	RecommendQuery struct {
		Limit   int      `query:"limit" validate:"omitempty,gt=0,lte=50"`
		Type    string   `query:"type"`
		Body    string   `query:"body"`
		Dryness string   `query:"dryness"`
		Country string   `query:"country"`
		ABV     *float64 `query:"abv"`
	}
)

func NewRecommendationHandler(svc RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		validate:   validator.New(),
		recService: svc,
		timeout:    30 * time.Second,
	}
}

// Recommend handles GET /api/v1/recommendations
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var q RecommendQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var filters *domain.WineFilters
	if f := (domain.WineFilters{
		Type:    q.Type,
		Body:    q.Body,
		Dryness: q.Dryness,
		Country: q.Country,
		ABV:     q.ABV,
	}); !f.Empty() {
		filters = &f
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	metrics.RecommendRequests.Inc()
	timer := prometheus.NewTimer(metrics.RecommendLatency)
	wines, err := h.recService.GetRecommendations(ctx, userID, q.Limit, filters)
	timer.ObserveDuration()
	if err != nil {
		return c.JSON(statusFromError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(wines))
}
