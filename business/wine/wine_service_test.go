package wine

import (
	"context"
	"errors"
	"testing"
	"tuvino/domain"
)

type fakeWineRepo struct {
	wines     map[int]domain.Wine
	lastQuery domain.WineSearchQuery
}

func (f *fakeWineRepo) Create(ctx context.Context, wine *domain.Wine) error {
	f.wines[wine.WineID] = *wine
	return nil
}

func (f *fakeWineRepo) FindByWineID(ctx context.Context, wineID int) (domain.Wine, error) {
	w, ok := f.wines[wineID]
	if !ok {
		return domain.Wine{}, domain.ErrWineNotFound
	}
	return w, nil
}

func (f *fakeWineRepo) FindByWineIDs(ctx context.Context, wineIDs []int) ([]domain.Wine, error) {
	var out []domain.Wine
	for _, id := range wineIDs {
		if w, ok := f.wines[id]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWineRepo) Search(ctx context.Context, query domain.WineSearchQuery) ([]domain.Wine, int64, error) {
	f.lastQuery = query
	var out []domain.Wine
	for _, w := range f.wines {
		out = append(out, w)
	}
	return out, int64(len(out)), nil
}

func (f *fakeWineRepo) Update(ctx context.Context, wine *domain.Wine) error {
	if _, ok := f.wines[wine.WineID]; !ok {
		return domain.ErrWineNotFound
	}
	f.wines[wine.WineID] = *wine
	return nil
}

func (f *fakeWineRepo) Delete(ctx context.Context, wineID int) error {
	if _, ok := f.wines[wineID]; !ok {
		return domain.ErrWineNotFound
	}
	delete(f.wines, wineID)
	return nil
}

type fakeFavoriteRepo struct {
	favs map[string][]int
}

func (f *fakeFavoriteRepo) Add(ctx context.Context, fav *domain.FavoriteWine) error {
	f.favs[fav.UserID] = append(f.favs[fav.UserID], fav.WineID)
	return nil
}

func (f *fakeFavoriteRepo) Remove(ctx context.Context, userID string, wineID int) error {
	ids := f.favs[userID]
	for i, id := range ids {
		if id == wineID {
			f.favs[userID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return domain.ErrWineNotFound
}

func (f *fakeFavoriteRepo) FindWinesByUserID(ctx context.Context, userID string) ([]domain.Wine, error) {
	var out []domain.Wine
	for _, id := range f.favs[userID] {
		out = append(out, domain.Wine{WineID: id})
	}
	return out, nil
}

type fakeScorer struct {
	scores map[int]float64
	called bool
}

func (f *fakeScorer) GetWineScores(ctx context.Context, userID string, wineIDs []int) map[int]float64 {
	f.called = true
	if f.scores == nil {
		return map[int]float64{}
	}
	return f.scores
}

func newFakes() (*fakeWineRepo, *fakeFavoriteRepo, *fakeScorer) {
	return &fakeWineRepo{wines: map[int]domain.Wine{
			1: {WineID: 1, WineName: "Alpha", Type: "Red"},
			2: {WineID: 2, WineName: "Beta", Type: "White"},
		}},
		&fakeFavoriteRepo{favs: map[string][]int{}},
		&fakeScorer{}
}

func TestSearchWinesPaginationDefaults(t *testing.T) {
	wineRepo, favRepo, scorer := newFakes()
	svc := NewWineService(wineRepo, favRepo, scorer)

	result, err := svc.SearchWines(context.Background(), domain.WineSearchQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Page != 1 || result.PageSize != 20 {
		t.Errorf("page/pageSize = %d/%d, want 1/20", result.Page, result.PageSize)
	}
	if wineRepo.lastQuery.Page != 1 || wineRepo.lastQuery.PageSize != 20 {
		t.Errorf("repo saw page/pageSize = %d/%d", wineRepo.lastQuery.Page, wineRepo.lastQuery.PageSize)
	}
}

func TestSearchWinesPageSizeCap(t *testing.T) {
	wineRepo, favRepo, scorer := newFakes()
	svc := NewWineService(wineRepo, favRepo, scorer)

	_, err := svc.SearchWines(context.Background(), domain.WineSearchQuery{PageSize: 5000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wineRepo.lastQuery.PageSize != 100 {
		t.Errorf("page size = %d, want capped at 100", wineRepo.lastQuery.PageSize)
	}
}

func TestSearchWinesAttachesScores(t *testing.T) {
	wineRepo, favRepo, scorer := newFakes()
	scorer.scores = map[int]float64{1: 87.5}
	svc := NewWineService(wineRepo, favRepo, scorer)

	result, err := svc.SearchWines(context.Background(), domain.WineSearchQuery{
		WithScores: true,
		UserID:     "u1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !scorer.called {
		t.Fatal("expected scorer to be called")
	}

	for _, w := range result.Wines {
		if w.WineID == 1 {
			if w.Score == nil || *w.Score != 87.5 {
				t.Errorf("wine 1 score = %v, want 87.5", w.Score)
			}
		}
		if w.WineID == 2 && w.Score != nil {
			t.Errorf("wine 2 score = %v, want nil (not scored)", *w.Score)
		}
	}
}

func TestSearchWinesSkipsScoringForAnonymous(t *testing.T) {
	wineRepo, favRepo, scorer := newFakes()
	svc := NewWineService(wineRepo, favRepo, scorer)

	_, err := svc.SearchWines(context.Background(), domain.WineSearchQuery{WithScores: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scorer.called {
		t.Fatal("scorer should not run without a user")
	}
}

func TestGetWineByIDNotFound(t *testing.T) {
	wineRepo, favRepo, scorer := newFakes()
	svc := NewWineService(wineRepo, favRepo, scorer)

	_, err := svc.GetWineByID(context.Background(), 999)
	if !errors.Is(err, domain.ErrWineNotFound) {
		t.Fatalf("expected ErrWineNotFound, got %v", err)
	}
}

func TestCreateWineValidation(t *testing.T) {
	wineRepo, favRepo, scorer := newFakes()
	svc := NewWineService(wineRepo, favRepo, scorer)

	if _, err := svc.CreateWine(context.Background(), &domain.Wine{Type: "Red"}); err == nil {
		t.Error("expected error for missing wine name")
	}
	if _, err := svc.CreateWine(context.Background(), &domain.Wine{WineName: "Gamma"}); err == nil {
		t.Error("expected error for missing wine type")
	}
}

func TestAddFavoriteUnknownWine(t *testing.T) {
	wineRepo, favRepo, scorer := newFakes()
	svc := NewWineService(wineRepo, favRepo, scorer)

	err := svc.AddFavorite(context.Background(), "u1", 999)
	if !errors.Is(err, domain.ErrWineNotFound) {
		t.Fatalf("expected ErrWineNotFound, got %v", err)
	}
	if len(favRepo.favs["u1"]) != 0 {
		t.Error("favorite stored for unknown wine")
	}
}

func TestFavoriteRoundTrip(t *testing.T) {
	wineRepo, favRepo, scorer := newFakes()
	svc := NewWineService(wineRepo, favRepo, scorer)

	if err := svc.AddFavorite(context.Background(), "u1", 1); err != nil {
		t.Fatalf("add favorite: %v", err)
	}

	wines, err := svc.GetFavorites(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get favorites: %v", err)
	}
	if len(wines) != 1 || wines[0].WineID != 1 {
		t.Fatalf("favorites = %v", wines)
	}

	if err := svc.RemoveFavorite(context.Background(), "u1", 1); err != nil {
		t.Fatalf("remove favorite: %v", err)
	}
	wines, _ = svc.GetFavorites(context.Background(), "u1")
	if len(wines) != 0 {
		t.Fatalf("favorites after removal = %v", wines)
	}
}
