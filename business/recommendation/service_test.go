package recommendation

import (
	"context"
	"errors"
	"testing"
	"tuvino/domain"
)

// ---- fakes ----

type fakeUserRepo struct {
	users map[string]domain.User
}

func (f *fakeUserRepo) FindByUID(ctx context.Context, uid string) (domain.User, error) {
	u, ok := f.users[uid]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

type fakeRatingRepo struct {
	records []domain.RatingRecord
	err     error
}

func (f *fakeRatingRepo) FindRecordsByUserID(ctx context.Context, userID string) ([]domain.RatingRecord, error) {
	return f.records, f.err
}

type fakePrefRepo struct {
	pref *domain.UserPreference
}

func (f *fakePrefRepo) FindByUserID(ctx context.Context, userID string) (*domain.UserPreference, error) {
	if f.pref == nil {
		return nil, domain.ErrUserNotFound
	}
	return f.pref, nil
}

type fakeWineRepo struct {
	wines map[int]domain.Wine
}

func (f *fakeWineRepo) FindByWineID(ctx context.Context, wineID int) (domain.Wine, error) {
	w, ok := f.wines[wineID]
	if !ok {
		return domain.Wine{}, domain.ErrWineNotFound
	}
	return w, nil
}

type fakeModelRepo struct {
	rec       domain.ModelRecommendation
	recErr    error
	scores    map[int]float64
	scoresErr error
}

func (f *fakeModelRepo) Recommend(ctx context.Context, userID string, features map[string]float64, limit int) (domain.ModelRecommendation, error) {
	return f.rec, f.recErr
}

func (f *fakeModelRepo) Score(ctx context.Context, userID string, features map[string]float64, wineIDs []int) (map[int]float64, error) {
	return f.scores, f.scoresErr
}

func catalogOf(ids ...int) map[int]domain.Wine {
	wines := make(map[int]domain.Wine, len(ids))
	for _, id := range ids {
		wines[id] = domain.Wine{WineID: id, WineName: "wine", Type: "Red", Country: "France", ABV: 13}
	}
	return wines
}

func newTestService(userRepo *fakeUserRepo, ratingRepo *fakeRatingRepo, wineRepo *fakeWineRepo, modelRepo *fakeModelRepo) *RecommendationService {
	return NewRecommendationService(userRepo, ratingRepo, &fakePrefRepo{}, wineRepo, modelRepo)
}

func onboardedUser(uid string) *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{
		uid: {UID: uid, OnboardingCompleted: true},
	}}
}

// ---- GetRecommendations ----

func TestGetRecommendationsOnboardingGate(t *testing.T) {
	userRepo := &fakeUserRepo{users: map[string]domain.User{
		"u1": {UID: "u1", OnboardingCompleted: false},
	}}
	svc := newTestService(userRepo, &fakeRatingRepo{}, &fakeWineRepo{}, &fakeModelRepo{})

	_, err := svc.GetRecommendations(context.Background(), "u1", 3, nil)
	if !errors.Is(err, domain.ErrOnboardingIncomplete) {
		t.Fatalf("expected ErrOnboardingIncomplete, got %v", err)
	}
}

func TestGetRecommendationsUnknownUser(t *testing.T) {
	svc := newTestService(&fakeUserRepo{users: map[string]domain.User{}}, &fakeRatingRepo{}, &fakeWineRepo{}, &fakeModelRepo{})

	_, err := svc.GetRecommendations(context.Background(), "ghost", 3, nil)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetRecommendationsModelFailureIsHard(t *testing.T) {
	model := &fakeModelRepo{recErr: domain.ErrModelUnavailable}
	svc := newTestService(onboardedUser("u1"), &fakeRatingRepo{}, &fakeWineRepo{wines: catalogOf(1)}, model)

	_, err := svc.GetRecommendations(context.Background(), "u1", 3, nil)
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestGetRecommendationsPreservesModelOrder(t *testing.T) {
	model := &fakeModelRepo{rec: domain.ModelRecommendation{
		WineIDs:     []int{7, 2, 9},
		DotProducts: map[int]float64{7: 2.0, 2: 0.0, 9: -2.0},
	}}
	svc := newTestService(onboardedUser("u1"), &fakeRatingRepo{}, &fakeWineRepo{wines: catalogOf(2, 7, 9)}, model)

	wines, err := svc.GetRecommendations(context.Background(), "u1", 3, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wines) != 3 {
		t.Fatalf("expected 3 wines, got %d", len(wines))
	}
	for i, want := range []int{7, 2, 9} {
		if wines[i].WineID != want {
			t.Errorf("position %d = wine %d, want %d", i, wines[i].WineID, want)
		}
	}
	if wines[1].Score == nil || *wines[1].Score != 50.0 {
		t.Errorf("wine 2 score = %v, want 50.0", wines[1].Score)
	}
}

func TestGetRecommendationsSkipsCatalogMisses(t *testing.T) {
	model := &fakeModelRepo{rec: domain.ModelRecommendation{
		WineIDs:     []int{1, 404, 2},
		DotProducts: map[int]float64{1: 1, 404: 1, 2: 1},
	}}
	svc := newTestService(onboardedUser("u1"), &fakeRatingRepo{}, &fakeWineRepo{wines: catalogOf(1, 2)}, model)

	wines, err := svc.GetRecommendations(context.Background(), "u1", 3, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wines) != 2 {
		t.Fatalf("expected 2 wines after skipping the miss, got %d", len(wines))
	}
	if wines[0].WineID != 1 || wines[1].WineID != 2 {
		t.Errorf("got wines %d, %d", wines[0].WineID, wines[1].WineID)
	}
}

func TestGetRecommendationsDeduplicates(t *testing.T) {
	model := &fakeModelRepo{rec: domain.ModelRecommendation{
		WineIDs:     []int{5, 5, 5, 6},
		DotProducts: map[int]float64{5: 1, 6: 1},
	}}
	svc := newTestService(onboardedUser("u1"), &fakeRatingRepo{}, &fakeWineRepo{wines: catalogOf(5, 6)}, model)

	wines, err := svc.GetRecommendations(context.Background(), "u1", 4, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wines) != 2 {
		t.Fatalf("expected 2 unique wines, got %d", len(wines))
	}
}

func TestGetRecommendationsHonorsLimit(t *testing.T) {
	model := &fakeModelRepo{rec: domain.ModelRecommendation{
		WineIDs:     []int{1, 2, 3, 4, 5},
		DotProducts: map[int]float64{},
	}}
	svc := newTestService(onboardedUser("u1"), &fakeRatingRepo{}, &fakeWineRepo{wines: catalogOf(1, 2, 3, 4, 5)}, model)

	wines, err := svc.GetRecommendations(context.Background(), "u1", 2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wines) != 2 {
		t.Fatalf("expected 2 wines, got %d", len(wines))
	}
}

func TestGetRecommendationsAppliesFilters(t *testing.T) {
	model := &fakeModelRepo{rec: domain.ModelRecommendation{
		WineIDs:     []int{1, 2},
		DotProducts: map[int]float64{},
	}}
	wineRepo := &fakeWineRepo{wines: map[int]domain.Wine{
		1: {WineID: 1, Type: "Red", Country: "France"},
		2: {WineID: 2, Type: "White", Country: "France"},
	}}
	svc := newTestService(onboardedUser("u1"), &fakeRatingRepo{}, wineRepo, model)

	filters := &domain.WineFilters{Type: "white"}
	wines, err := svc.GetRecommendations(context.Background(), "u1", 3, filters)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wines) != 1 || wines[0].WineID != 2 {
		t.Fatalf("expected only the white wine, got %v", wines)
	}
}

func TestGetRecommendationsDefaultLimit(t *testing.T) {
	model := &fakeModelRepo{rec: domain.ModelRecommendation{
		WineIDs:     []int{1, 2, 3, 4, 5},
		DotProducts: map[int]float64{},
	}}
	svc := newTestService(onboardedUser("u1"), &fakeRatingRepo{}, &fakeWineRepo{wines: catalogOf(1, 2, 3, 4, 5)}, model)

	wines, err := svc.GetRecommendations(context.Background(), "u1", 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wines) != defaultLimit {
		t.Fatalf("expected default of %d wines, got %d", defaultLimit, len(wines))
	}
}

// ---- GetWineScores ----

func TestGetWineScoresTransformsDotProducts(t *testing.T) {
	model := &fakeModelRepo{scores: map[int]float64{1: 0.0, 2: 1000.0}}
	svc := newTestService(onboardedUser("u1"), &fakeRatingRepo{}, &fakeWineRepo{}, model)

	scores := svc.GetWineScores(context.Background(), "u1", []int{1, 2})
	if scores[1] != 50.0 {
		t.Errorf("score for wine 1 = %v, want 50.0", scores[1])
	}
	if scores[2] != 100.0 {
		t.Errorf("score for wine 2 = %v, want 100.0", scores[2])
	}
}

func TestGetWineScoresModelFailureIsSoft(t *testing.T) {
	model := &fakeModelRepo{scoresErr: domain.ErrModelUnavailable}
	svc := newTestService(onboardedUser("u1"), &fakeRatingRepo{}, &fakeWineRepo{}, model)

	scores := svc.GetWineScores(context.Background(), "u1", []int{1, 2})
	if len(scores) != 0 {
		t.Fatalf("expected empty map on model failure, got %v", scores)
	}
}

func TestGetWineScoresHistoryFailureIsSoft(t *testing.T) {
	ratingRepo := &fakeRatingRepo{err: errors.New("db down")}
	svc := newTestService(onboardedUser("u1"), ratingRepo, &fakeWineRepo{}, &fakeModelRepo{})

	scores := svc.GetWineScores(context.Background(), "u1", []int{1})
	if len(scores) != 0 {
		t.Fatalf("expected empty map when history load fails, got %v", scores)
	}
}

func TestGetWineScoresEmptyInput(t *testing.T) {
	svc := newTestService(onboardedUser("u1"), &fakeRatingRepo{}, &fakeWineRepo{}, &fakeModelRepo{})

	scores := svc.GetWineScores(context.Background(), "u1", nil)
	if len(scores) != 0 {
		t.Fatalf("expected empty map for empty input, got %v", scores)
	}
}
