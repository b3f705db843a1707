package domain

// ModelRecommendation is the parsed output of the two-tower model's
// generation endpoint: candidate wine IDs in model order plus the raw
// (untransformed) dot product per ID. Legacy responses may carry IDs
// only, in which case DotProducts is empty.
type ModelRecommendation struct {
	WineIDs     []int
	DotProducts map[int]float64
}
