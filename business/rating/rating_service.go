package rating

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"tuvino/domain"
	"tuvino/pkg/logger"
)

const summarizeTimeout = 45 * time.Second

// RatingRepository contract interface
type RatingRepository interface {
	Upsert(ctx context.Context, rating *domain.WineRating) error
	FindByUserID(ctx context.Context, userID string) ([]domain.WineRating, error)
	FindByUserAndWine(ctx context.Context, userID string, wineID int) (domain.WineRating, error)
	FindByWineID(ctx context.Context, wineID int) ([]domain.WineRating, error)
	Delete(ctx context.Context, userID string, wineID int) error
}

type WineRepository interface {
	FindByWineID(ctx context.Context, wineID int) (domain.Wine, error)
	UpdateSummary(ctx context.Context, wineID int, summary string) error
}

type SummarizerRepository interface {
	Summarize(ctx context.Context, wineName string, reviews []string) (string, error)
}

type ratingService struct {
	ratingRepo RatingRepository
	wineRepo   WineRepository
	summarizer SummarizerRepository
}

func NewRatingService(ratingRepo RatingRepository, wineRepo WineRepository, summarizer SummarizerRepository) *ratingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		wineRepo:   wineRepo,
		summarizer: summarizer,
	}
}

// RateWine stores or overwrites the user's rating for a wine. When the
// rating carries a review text, the wine's review summary is refreshed
// in the background so the request never waits on the language model.
func (s *ratingService) RateWine(ctx context.Context, rating *domain.WineRating) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when rating wine")
		return fmt.Errorf("context error: %w", err)
	}

	if rating.Rating < 0 || rating.Rating > 5 {
		return errors.New("rating must be between 0 and 5")
	}

	wine, err := s.wineRepo.FindByWineID(ctx, rating.WineID)
	if err != nil {
		return err
	}

	if rating.Date.IsZero() {
		rating.Date = time.Now()
	}
	if rating.Year == 0 {
		rating.Year = rating.Date.Year()
	}

	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		logger.Error("failed to store rating", err)
		return err
	}

	if strings.TrimSpace(rating.Review) != "" && s.summarizer != nil {
		go s.refreshSummary(wine)
	}

	return nil
}

// refreshSummary runs detached from the request that triggered it.
func (s *ratingService) refreshSummary(wine domain.Wine) {
	ctx, cancel := context.WithTimeout(context.Background(), summarizeTimeout)
	defer cancel()

	ratings, err := s.ratingRepo.FindByWineID(ctx, wine.WineID)
	if err != nil {
		logger.Warn("summary refresh: failed to load ratings", err, "wine_id", wine.WineID)
		return
	}

	reviews := make([]string, 0, len(ratings))
	for _, r := range ratings {
		if text := strings.TrimSpace(r.Review); text != "" {
			reviews = append(reviews, text)
		}
	}
	if len(reviews) == 0 {
		return
	}

	summary, err := s.summarizer.Summarize(ctx, wine.WineName, reviews)
	if err != nil {
		logger.Warn("summary refresh: summarizer failed", err, "wine_id", wine.WineID)
		return
	}

	if err := s.wineRepo.UpdateSummary(ctx, wine.WineID, summary); err != nil {
		logger.Warn("summary refresh: failed to store summary", err, "wine_id", wine.WineID)
	}
}

// GetTastedWines joins the user's ratings with the catalog rows for the
// tasting history screen.
func (s *ratingService) GetTastedWines(ctx context.Context, userID string) ([]domain.TastedWine, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	ratings, err := s.ratingRepo.FindByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to load user ratings", err)
		return nil, err
	}

	tasted := make([]domain.TastedWine, 0, len(ratings))
	for _, r := range ratings {
		wine, err := s.wineRepo.FindByWineID(ctx, r.WineID)
		if err != nil {
			if errors.Is(err, domain.ErrWineNotFound) {
				// rated wine dropped from the catalog
				continue
			}
			return nil, err
		}
		tasted = append(tasted, domain.TastedWine{
			Wine:   wine,
			Rating: r.Rating,
			Review: r.Review,
		})
	}

	return tasted, nil
}

func (s *ratingService) GetUserRating(ctx context.Context, userID string, wineID int) (*domain.WineRating, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	rating, err := s.ratingRepo.FindByUserAndWine(ctx, userID, wineID)
	if err != nil {
		return nil, err
	}

	return &rating, nil
}

func (s *ratingService) DeleteRating(ctx context.Context, userID string, wineID int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := s.ratingRepo.Delete(ctx, userID, wineID); err != nil {
		if !errors.Is(err, domain.ErrRatingNotFound) {
			logger.Error("failed to delete rating", err)
		}
		return err
	}

	return nil
}
