package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"
	"tuvino/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RatingHandler struct {
		validate      *validator.Validate
		ratingService RatingService
		timeout       time.Duration
	}

	RatingService interface {
		RateWine(ctx context.Context, rating *domain.WineRating) error
		GetTastedWines(ctx context.Context, userID string) ([]domain.TastedWine, error)
		GetUserRating(ctx context.Context, userID string, wineID int) (*domain.WineRating, error)
		DeleteRating(ctx context.Context, userID string, wineID int) error
	}

	RateWineRequest struct {
		WineID int     `json:"wine_id" validate:"required,gt=0"`
		Rating float64 `json:"rating" validate:"min=0,max=5"`
		Review string  `json:"review"`
		Year   int     `json:"year" validate:"omitempty,min=1900,max=2100"`
	}
)

func NewRatingHandler(svc RatingService) *RatingHandler {
	return &RatingHandler{
		validate:      validator.New(),
		ratingService: svc,
		timeout:       10 * time.Second,
	}
}

// Rate handles POST /api/v1/ratings
func (h *RatingHandler) Rate(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req RateWineRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	err := h.ratingService.RateWine(ctx, &domain.WineRating{
		UserID: userID,
		WineID: req.WineID,
		Rating: req.Rating,
		Review: req.Review,
		Year:   req.Year,
	})
	if err != nil {
		return c.JSON(statusFromError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("rating recorded"))
}

// TastedWines handles GET /api/v1/wines/status
func (h *RatingHandler) TastedWines(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	tasted, err := h.ratingService.GetTastedWines(ctx, userID)
	if err != nil {
		return c.JSON(statusFromError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(tasted))
}

func (h *RatingHandler) GetByWine(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	wineID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid wine id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rating, err := h.ratingService.GetUserRating(ctx, userID, wineID)
	if err != nil {
		return c.JSON(statusFromError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rating))
}

func (h *RatingHandler) Delete(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	wineID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid wine id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.ratingService.DeleteRating(ctx, userID, wineID); err != nil {
		return c.JSON(statusFromError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("rating deleted"))
}
