package recmodel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
	"tuvino/domain"
)

type ModelConfig struct {
	BaseUrl        string
	TimeoutSeconds int
}

// ModelRepository talks to the two-tower recommendation model over HTTP.
type ModelRepository struct {
	cfg    ModelConfig
	client *http.Client
}

func NewModelRepository(cfg ModelConfig) *ModelRepository {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.TimeoutSeconds <= 0 {
		timeout = 15 * time.Second
	}
	return &ModelRepository{
		cfg: cfg,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Recommend asks the model for candidate wines. The feature vector is
// flattened into the request body alongside user_id and limit, which is
// the payload shape the model expects.
func (r *ModelRepository) Recommend(ctx context.Context, userID string, features map[string]float64, limit int) (domain.ModelRecommendation, error) {

	payload := make(map[string]any, len(features)+2)
	for k, v := range features {
		payload[k] = v
	}
	payload["user_id"] = userID
	payload["limit"] = limit

	body, err := r.post(ctx, r.cfg.BaseUrl+"/wines", payload)
	if err != nil {
		return domain.ModelRecommendation{}, err
	}

	return parseRecommendation(body)
}

// Score asks the model to rate an explicit list of wines. Wine IDs go
// over the wire as strings.
func (r *ModelRepository) Score(ctx context.Context, userID string, features map[string]float64, wineIDs []int) (map[int]float64, error) {

	ids := make([]string, 0, len(wineIDs))
	for _, id := range wineIDs {
		ids = append(ids, strconv.Itoa(id))
	}

	payload := map[string]any{
		"user_id":   userID,
		"user_data": features,
		"wine_ids":  ids,
	}

	body, err := r.post(ctx, r.cfg.BaseUrl+"/wines/score", payload)
	if err != nil {
		return nil, err
	}

	return parseScores(body)
}

func (r *ModelRepository) post(ctx context.Context, url string, payload any) ([]byte, error) {

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal model request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrModelUnavailable, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrModelUnavailable, res.StatusCode)
	}

	return body, nil
}
