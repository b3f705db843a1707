package recmodel

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"tuvino/domain"
)

// recommendationBody is the current model payload. Older model builds
// sent "scores" instead of "dot_products", and the very first builds
// sent a bare comma-separated ID list, so the parser accepts all three.
type recommendationBody struct {
	Wines       []json.Number      `json:"wines"`
	DotProducts map[string]float64 `json:"dot_products"`
	Scores      map[string]float64 `json:"scores"`
}

func parseRecommendation(body []byte) (domain.ModelRecommendation, error) {

	var parsed recommendationBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return parsePlaintextIDs(body)
	}

	if len(parsed.Wines) == 0 {
		return domain.ModelRecommendation{}, fmt.Errorf("%w: no wines in payload", domain.ErrModelResponse)
	}

	out := domain.ModelRecommendation{
		WineIDs:     make([]int, 0, len(parsed.Wines)),
		DotProducts: make(map[int]float64, len(parsed.Wines)),
	}

	for _, raw := range parsed.Wines {
		id, err := strconv.Atoi(raw.String())
		if err != nil {
			return domain.ModelRecommendation{}, fmt.Errorf("%w: wine id %q", domain.ErrModelResponse, raw.String())
		}
		out.WineIDs = append(out.WineIDs, id)
	}

	products := parsed.DotProducts
	if len(products) == 0 {
		products = parsed.Scores
	}
	for key, dp := range products {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		out.DotProducts[id] = dp
	}

	return out, nil
}

// parsePlaintextIDs handles the legacy "1,2,3" body. No dot products
// means no scores get attached downstream.
func parsePlaintextIDs(body []byte) (domain.ModelRecommendation, error) {

	text := strings.Trim(strings.TrimSpace(string(body)), `"`)
	if text == "" {
		return domain.ModelRecommendation{}, fmt.Errorf("%w: empty payload", domain.ErrModelResponse)
	}

	parts := strings.Split(text, ",")
	out := domain.ModelRecommendation{
		WineIDs:     make([]int, 0, len(parts)),
		DotProducts: map[int]float64{},
	}

	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return domain.ModelRecommendation{}, fmt.Errorf("%w: unparseable payload", domain.ErrModelResponse)
		}
		out.WineIDs = append(out.WineIDs, id)
	}

	return out, nil
}

func parseScores(body []byte) (map[int]float64, error) {

	var parsed struct {
		DotProducts map[string]float64 `json:"dot_products"`
		Scores      map[string]float64 `json:"scores"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelResponse, err)
	}

	products := parsed.DotProducts
	if len(products) == 0 {
		products = parsed.Scores
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: no scores in payload", domain.ErrModelResponse)
	}

	out := make(map[int]float64, len(products))
	for key, dp := range products {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: wine id %q", domain.ErrModelResponse, key)
		}
		out[id] = dp
	}

	return out, nil
}
