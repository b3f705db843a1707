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
	WineHandler struct {
		validate    *validator.Validate
		wineService WineService
		timeout     time.Duration
	}

	WineService interface {
		SearchWines(ctx context.Context, query domain.WineSearchQuery) (*domain.WineSearchResult, error)
		GetWineByID(ctx context.Context, wineID int) (*domain.Wine, error)
		CreateWine(ctx context.Context, wine *domain.Wine) (*domain.Wine, error)
		UpdateWine(ctx context.Context, wine *domain.Wine) error
		DeleteWine(ctx context.Context, wineID int) error
		AddFavorite(ctx context.Context, userID string, wineID int) error
		RemoveFavorite(ctx context.Context, userID string, wineID int) error
		GetFavorites(ctx context.Context, userID string) ([]domain.Wine, error)
	}

	WineSearchRequest struct {
		Name       string   `query:"name"`
		Type       string   `query:"type"`
		Body       string   `query:"body"`
		Country    string   `query:"country"`
		ABVMin     *float64 `query:"abv_min"`
		ABVMax     *float64 `query:"abv_max"`
		Page       int      `query:"page"`
		PageSize   int      `query:"page_size"`
		WithScores bool     `query:"with_scores"`
	}

	WineUpsertRequest struct {
		WineName  string  `json:"wine_name" validate:"required"`
		Type      string  `json:"type" validate:"required"`
		Elaborate string  `json:"elaborate"`
		Grapes    string  `json:"grapes"`
		Harmonize string  `json:"harmonize"`
		ABV       float64 `json:"abv" validate:"min=0,max=100"`
		Body      string  `json:"body"`
		Acidity   string  `json:"acidity"`
		Dryness   string  `json:"dryness"`
		Country   string  `json:"country"`
		Region    string  `json:"region"`
		Winery    string  `json:"winery"`
		Vintages  string  `json:"vintages"`
	}
)

func NewWineHandler(svc WineService) *WineHandler {
	return &WineHandler{
		validate:    validator.New(),
		wineService: svc,
		timeout:     10 * time.Second,
	}
}

// Search handles GET /api/v1/wines
func (h *WineHandler) Search(c echo.Context) error {
	var req WineSearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	query := domain.WineSearchQuery{
		Name:       req.Name,
		Type:       req.Type,
		Body:       req.Body,
		Country:    req.Country,
		ABVMin:     req.ABVMin,
		ABVMax:     req.ABVMax,
		Page:       req.Page,
		PageSize:   req.PageSize,
		WithScores: req.WithScores,
	}

	// scores need an identity; ignore the flag for anonymous callers
	if userID, ok := c.Get("user_id").(string); ok {
		query.UserID = userID
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.wineService.SearchWines(ctx, query)
	if err != nil {
		return c.JSON(statusFromError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// GetByID handles GET /api/v1/wines/:id
func (h *WineHandler) GetByID(c echo.Context) error {
	wineID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid wine id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	wine, err := h.wineService.GetWineByID(ctx, wineID)
	if err != nil {
		return c.JSON(statusFromError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(wine))
}

func (h *WineHandler) Create(c echo.Context) error {
	var req WineUpsertRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	wine, err := h.wineService.CreateWine(ctx, wineFromRequest(req))
	if err != nil {
		return c.JSON(statusFromError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(wine))
}

func (h *WineHandler) Update(c echo.Context) error {
	wineID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid wine id"})
	}

	var req WineUpsertRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	wine := wineFromRequest(req)
	wine.WineID = wineID

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.wineService.UpdateWine(ctx, wine); err != nil {
		return c.JSON(statusFromError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("wine updated"))
}

func (h *WineHandler) Delete(c echo.Context) error {
	wineID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid wine id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.wineService.DeleteWine(ctx, wineID); err != nil {
		return c.JSON(statusFromError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("wine deleted"))
}

func (h *WineHandler) AddFavorite(c echo.Context) error {
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

	if err := h.wineService.AddFavorite(ctx, userID, wineID); err != nil {
		return c.JSON(statusFromError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("wine favorited"))
}

func (h *WineHandler) RemoveFavorite(c echo.Context) error {
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

	if err := h.wineService.RemoveFavorite(ctx, userID, wineID); err != nil {
		return c.JSON(statusFromError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("wine unfavorited"))
}

func (h *WineHandler) GetFavorites(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	wines, err := h.wineService.GetFavorites(ctx, userID)
	if err != nil {
		return c.JSON(statusFromError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(wines))
}

func wineFromRequest(req WineUpsertRequest) *domain.Wine {
	return &domain.Wine{
		WineName:  req.WineName,
		Type:      req.Type,
		Elaborate: req.Elaborate,
		Grapes:    req.Grapes,
		Harmonize: req.Harmonize,
		ABV:       req.ABV,
		Body:      req.Body,
		Acidity:   req.Acidity,
		Dryness:   req.Dryness,
		Country:   req.Country,
		Region:    req.Region,
		Winery:    req.Winery,
		Vintages:  req.Vintages,
	}
}
