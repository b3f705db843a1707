package recommendation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"tuvino/domain"
	"tuvino/pkg/logger"
)

const defaultLimit = 3

// ---- Repository interfaces ----

type UserRepository interface {
	FindByUID(ctx context.Context, uid string) (domain.User, error)
}

type RatingRepository interface {
	// FindRecordsByUserID returns the user's full rating history
	// denormalized with the wine attributes feature computation needs.
	FindRecordsByUserID(ctx context.Context, userID string) ([]domain.RatingRecord, error)
}

type PreferenceRepository interface {
	FindByUserID(ctx context.Context, userID string) (*domain.UserPreference, error)
}

type WineRepository interface {
	FindByWineID(ctx context.Context, wineID int) (domain.Wine, error)
}

// ModelRepository is the outbound contract with the two-tower model.
// Recommend generates candidates; Score rates an explicit ID list.
// Both return raw dot products.
type ModelRepository interface {
	Recommend(ctx context.Context, userID string, features map[string]float64, limit int) (domain.ModelRecommendation, error)
	Score(ctx context.Context, userID string, features map[string]float64, wineIDs []int) (map[int]float64, error)
}

// ---- Usecase / Service ----

type RecommendationService struct {
	userRepo   UserRepository
	ratingRepo RatingRepository
	prefRepo   PreferenceRepository
	wineRepo   WineRepository
	modelRepo  ModelRepository
}

func NewRecommendationService(
	userRepo UserRepository,
	ratingRepo RatingRepository,
	prefRepo PreferenceRepository,
	wineRepo WineRepository,
	modelRepo ModelRepository,
) *RecommendationService {
	return &RecommendationService{
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
		prefRepo:   prefRepo,
		wineRepo:   wineRepo,
		modelRepo:  modelRepo,
	}
}

// GetRecommendations returns up to limit wines for the user, in model
// order, each carrying a transformed compatibility score. A model or
// catalog-store failure is a hard error; an individual candidate missing
// from the catalog is skipped.
func (s *RecommendationService) GetRecommendations(
	ctx context.Context,
	userID string,
	limit int,
	filters *domain.WineFilters,
) ([]domain.Wine, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	user, err := s.userRepo.FindByUID(ctx, userID)
	if err != nil {
		logger.Error("failed to load user for recommendations", err)
		return nil, err
	}
	if !user.OnboardingCompleted {
		return nil, domain.ErrOnboardingIncomplete
	}

	features, err := s.userFeatures(ctx, userID)
	if err != nil {
		return nil, err
	}

	out, err := s.modelRepo.Recommend(ctx, userID, features, limit)
	if err != nil {
		logger.Error("recommendation model call failed", err)
		RecommendationsServedTotal.WithLabelValues("model_error").Inc()
		return nil, err
	}

	scores := make(map[int]float64, len(out.DotProducts))
	for id, dp := range out.DotProducts {
		scores[id] = TransformScore(dp)
	}

	wines := make([]domain.Wine, 0, limit)
	seen := make(map[int]struct{}, len(out.WineIDs))

	for _, id := range out.WineIDs {
		if len(wines) >= limit {
			break
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		wine, err := s.wineRepo.FindByWineID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrWineNotFound) {
				logger.Warn("model recommended unknown wine", "wine_id", id)
				CatalogMissesTotal.Inc()
				continue
			}
			return nil, fmt.Errorf("load wine %d: %w", id, err)
		}

		if score, ok := scores[id]; ok {
			wine.Score = &score
		}

		if filters != nil && !matchesFilters(wine, *filters) {
			continue
		}

		wines = append(wines, wine)
	}

	RecommendationsServedTotal.WithLabelValues("ok").Inc()
	return wines, nil
}

// GetWineScores rates an explicit list of catalog wines for the user.
// Scoring is best-effort: any failure degrades to an empty map so the
// caller's primary flow never breaks because scoring broke.
func (s *RecommendationService) GetWineScores(
	ctx context.Context,
	userID string,
	wineIDs []int,
) map[int]float64 {

	if len(wineIDs) == 0 {
		return map[int]float64{}
	}

	features, err := s.userFeatures(ctx, userID)
	if err != nil {
		logger.Warn("feature computation failed, serving unscored wines", err)
		ModelScoringFailuresTotal.Inc()
		return map[int]float64{}
	}

	dotProducts, err := s.modelRepo.Score(ctx, userID, features, wineIDs)
	if err != nil {
		logger.Warn("model scoring failed, serving unscored wines", err)
		ModelScoringFailuresTotal.Inc()
		return map[int]float64{}
	}

	scores := make(map[int]float64, len(dotProducts))
	for id, dp := range dotProducts {
		scores[id] = TransformScore(dp)
	}
	return scores
}

// userFeatures loads the rating history plus optional onboarding
// preferences and builds the feature vector.
func (s *RecommendationService) userFeatures(ctx context.Context, userID string) (map[string]float64, error) {
	records, err := s.ratingRepo.FindRecordsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load rating history: %w", err)
	}

	var prefs *domain.UserPreference
	if s.prefRepo != nil {
		// preferences are optional input; a miss is not an error
		if p, err := s.prefRepo.FindByUserID(ctx, userID); err == nil {
			prefs = p
		}
	}

	return ComputeFeatures(records, prefs), nil
}

// matchesFilters applies caller-supplied attribute filters:
// case-insensitive exact match for strings, exact value for ABV.
func matchesFilters(wine domain.Wine, f domain.WineFilters) bool {
	if f.Type != "" && !strings.EqualFold(wine.Type, f.Type) {
		return false
	}
	if f.Body != "" && !strings.EqualFold(wine.Body, f.Body) {
		return false
	}
	if f.Dryness != "" && !strings.EqualFold(wine.Dryness, f.Dryness) {
		return false
	}
	if f.Country != "" && !strings.EqualFold(wine.Country, f.Country) {
		return false
	}
	if f.ABV != nil && wine.ABV != *f.ABV {
		return false
	}
	return true
}
