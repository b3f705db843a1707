package recmodel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"tuvino/domain"
)

func TestModelRepositoryRecommend(t *testing.T) {
	var gotPayload map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wines" {
			t.Errorf("path = %s, want /wines", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"wines":[1,2],"dot_products":{"1":0.5,"2":-0.5}}`))
	}))
	defer srv.Close()

	repo := NewModelRepository(ModelConfig{BaseUrl: srv.URL, TimeoutSeconds: 5})

	features := map[string]float64{"rating_mean": 4.0, "rating_count": 3.0}
	out, err := repo.Recommend(context.Background(), "u1", features, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.WineIDs) != 2 || out.WineIDs[0] != 1 {
		t.Errorf("wine ids = %v", out.WineIDs)
	}

	// features are flattened into the payload next to user_id and limit
	if gotPayload["user_id"] != "u1" {
		t.Errorf("user_id = %v", gotPayload["user_id"])
	}
	if gotPayload["limit"] != float64(2) {
		t.Errorf("limit = %v", gotPayload["limit"])
	}
	if gotPayload["rating_mean"] != 4.0 {
		t.Errorf("rating_mean = %v, want flattened feature", gotPayload["rating_mean"])
	}
}

func TestModelRepositoryRecommendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	repo := NewModelRepository(ModelConfig{BaseUrl: srv.URL, TimeoutSeconds: 5})

	_, err := repo.Recommend(context.Background(), "u1", map[string]float64{}, 3)
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestModelRepositoryRecommendUnreachable(t *testing.T) {
	repo := NewModelRepository(ModelConfig{BaseUrl: "http://127.0.0.1:1", TimeoutSeconds: 1})

	_, err := repo.Recommend(context.Background(), "u1", map[string]float64{}, 3)
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestModelRepositoryScore(t *testing.T) {
	var gotPayload struct {
		UserID   string             `json:"user_id"`
		UserData map[string]float64 `json:"user_data"`
		WineIDs  []string           `json:"wine_ids"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wines/score" {
			t.Errorf("path = %s, want /wines/score", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"dot_products":{"10":1.0,"20":2.0}}`))
	}))
	defer srv.Close()

	repo := NewModelRepository(ModelConfig{BaseUrl: srv.URL, TimeoutSeconds: 5})

	out, err := repo.Score(context.Background(), "u1", map[string]float64{"rating_mean": 3.0}, []int{10, 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[10] != 1.0 || out[20] != 2.0 {
		t.Errorf("scores = %v", out)
	}

	// wine ids go over the wire as strings
	if len(gotPayload.WineIDs) != 2 || gotPayload.WineIDs[0] != "10" {
		t.Errorf("wine_ids = %v", gotPayload.WineIDs)
	}
	if gotPayload.UserData["rating_mean"] != 3.0 {
		t.Errorf("user_data = %v", gotPayload.UserData)
	}
}

func TestModelRepositoryScoreContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dot_products":{}}`))
	}))
	defer srv.Close()

	repo := NewModelRepository(ModelConfig{BaseUrl: srv.URL, TimeoutSeconds: 5})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Score(ctx, "u1", map[string]float64{}, []int{1})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
