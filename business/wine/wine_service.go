package wine

import (
	"context"
	"errors"
	"fmt"
	"tuvino/domain"
	"tuvino/pkg/logger"
	"tuvino/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

// WineRepository contract interface
type WineRepository interface {
	Create(ctx context.Context, wine *domain.Wine) error
	FindByWineID(ctx context.Context, wineID int) (domain.Wine, error)
	FindByWineIDs(ctx context.Context, wineIDs []int) ([]domain.Wine, error)
	Search(ctx context.Context, query domain.WineSearchQuery) ([]domain.Wine, int64, error)
	Update(ctx context.Context, wine *domain.Wine) error
	Delete(ctx context.Context, wineID int) error
}

type FavoriteRepository interface {
	Add(ctx context.Context, fav *domain.FavoriteWine) error
	Remove(ctx context.Context, userID string, wineID int) error
	FindWinesByUserID(ctx context.Context, userID string) ([]domain.Wine, error)
}

// WineScorer rates catalog wines for a user. Implemented by the
// recommendation service; scoring failures degrade to an empty map.
type WineScorer interface {
	GetWineScores(ctx context.Context, userID string, wineIDs []int) map[int]float64
}

type wineService struct {
	wineRepo     WineRepository
	favoriteRepo FavoriteRepository
	scorer       WineScorer
}

func NewWineService(wineRepo WineRepository, favoriteRepo FavoriteRepository, scorer WineScorer) *wineService {
	return &wineService{
		wineRepo:     wineRepo,
		favoriteRepo: favoriteRepo,
		scorer:       scorer,
	}
}

// SearchWines filters and paginates the catalog. When the query asks for
// scores and carries a user, each page of results gets a compatibility
// score attached best-effort.
func (s *wineService) SearchWines(ctx context.Context, query domain.WineSearchQuery) (*domain.WineSearchResult, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when searching wines")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if query.Page <= 0 {
		query.Page = defaultPage
	}
	if query.PageSize <= 0 {
		query.PageSize = defaultPageSize
	}
	if query.PageSize > maxPageSize {
		query.PageSize = maxPageSize
	}

	timer := prometheus.NewTimer(metrics.WineSearchLatency)
	wines, total, err := s.wineRepo.Search(ctx, query)
	timer.ObserveDuration()
	if err != nil {
		logger.Error("failed to search wines", err)
		return nil, err
	}

	if query.WithScores && query.UserID != "" && len(wines) > 0 {
		ids := make([]int, 0, len(wines))
		for _, w := range wines {
			ids = append(ids, w.WineID)
		}

		scores := s.scorer.GetWineScores(ctx, query.UserID, ids)
		for i := range wines {
			if score, ok := scores[wines[i].WineID]; ok {
				v := score
				wines[i].Score = &v
			}
		}
	}

	return &domain.WineSearchResult{
		Wines:    wines,
		Page:     query.Page,
		PageSize: query.PageSize,
		Total:    total,
	}, nil
}

func (s *wineService) GetWineByID(ctx context.Context, wineID int) (*domain.Wine, error) {
	if wineID <= 0 {
		logger.Error("invalid wine id")
		return nil, domain.ErrWineNotFound
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when getting wine")
		return nil, fmt.Errorf("context error: %w", err)
	}

	wine, err := s.wineRepo.FindByWineID(ctx, wineID)
	if err != nil {
		if !errors.Is(err, domain.ErrWineNotFound) {
			logger.Error("failed to find wine by id", err)
		}
		return nil, err
	}

	return &wine, nil
}

func (s *wineService) CreateWine(ctx context.Context, wine *domain.Wine) (*domain.Wine, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when creating wine")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if wine.WineName == "" {
		return nil, errors.New("wine name is required")
	}
	if wine.Type == "" {
		return nil, errors.New("wine type is required")
	}

	if err := s.wineRepo.Create(ctx, wine); err != nil {
		logger.Error("failed to create wine", err)
		return nil, err
	}

	return wine, nil
}

func (s *wineService) UpdateWine(ctx context.Context, wine *domain.Wine) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating wine")
		return fmt.Errorf("context error: %w", err)
	}

	if err := s.wineRepo.Update(ctx, wine); err != nil {
		if !errors.Is(err, domain.ErrWineNotFound) {
			logger.Error("failed to update wine", err)
		}
		return err
	}

	return nil
}

func (s *wineService) DeleteWine(ctx context.Context, wineID int) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting wine")
		return fmt.Errorf("context error: %w", err)
	}

	if err := s.wineRepo.Delete(ctx, wineID); err != nil {
		if !errors.Is(err, domain.ErrWineNotFound) {
			logger.Error("failed to delete wine", err)
		}
		return err
	}

	return nil
}

func (s *wineService) AddFavorite(ctx context.Context, userID string, wineID int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	// reject favorites for wines that do not exist
	if _, err := s.wineRepo.FindByWineID(ctx, wineID); err != nil {
		return err
	}

	return s.favoriteRepo.Add(ctx, &domain.FavoriteWine{
		UserID: userID,
		WineID: wineID,
	})
}

func (s *wineService) RemoveFavorite(ctx context.Context, userID string, wineID int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return s.favoriteRepo.Remove(ctx, userID, wineID)
}

func (s *wineService) GetFavorites(ctx context.Context, userID string) ([]domain.Wine, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	wines, err := s.favoriteRepo.FindWinesByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to load favorite wines", err)
		return nil, err
	}

	return wines, nil
}
