package recommendation

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"tuvino/domain"
)

// The external two-tower model was trained against this exact 55-key
// schema. Keys and grouping must stay stable; renames are a breaking
// model-contract change.

const highABVThreshold = 13.5

// wine_type matching is case-sensitive against these fixed synonym
// lists (the catalog stores both capitalized and lowercase values).
var wineTypeSynonyms = map[string][]string{
	"red_wine_preference":          {"Red", "red"},
	"white_wine_preference":        {"White", "white"},
	"sparkling_wine_preference":    {"Sparkling", "sparkling"},
	"rose_wine_preference":         {"Rose", "Rosé", "rose", "rosé"},
	"dessert_wine_preference":      {"Dessert", "dessert", "Sweet", "sweet"},
	"dessert_port_wine_preference": {"Port", "port", "Dessert Port", "dessert port"},
}

// body and acidity match case-insensitively, numeric labels included.
var bodySynonyms = map[string][]string{
	"very_light_bodied_preference": {"very light", "1"},
	"light_bodied_preference":      {"light", "2"},
	"medium_bodied_preference":     {"medium", "3"},
	"full_bodied_preference":       {"full", "4"},
	"very_full_bodied_preference":  {"very full", "5"},
}

var aciditySynonyms = map[string][]string{
	"low_acidity_preference":    {"low", "1"},
	"medium_acidity_preference": {"medium", "2"},
	"high_acidity_preference":   {"high", "3"},
}

// ComputeFeatures turns a user's rating history into the model's feature
// vector. Users with no ratings get the neutral cold-start table;
// onboarding preferences do not yet seed the defaults (the model's
// baseline was trained on the constants).
//
// Records with a missing attribute simply do not contribute to that
// attribute's group; they are never an error.
func ComputeFeatures(ratings []domain.RatingRecord, prefs *domain.UserPreference) map[string]float64 {
	if len(ratings) == 0 {
		return DefaultFeatures()
	}

	values := make([]float64, len(ratings))
	for i, r := range ratings {
		values[i] = r.Rating
	}

	features := make(map[string]float64, len(featureKeys))
	basicStatistics(features, values, ratings)
	wineTypePreferences(features, ratings)
	attributePreferences(features, ratings)
	ratingPatterns(features, values)
	diversityMetrics(features, values)
	temporalPatterns(features, ratings)

	return features
}

func basicStatistics(features map[string]float64, values []float64, ratings []domain.RatingRecord) {
	uniqueWines := map[int]struct{}{}
	for _, r := range ratings {
		if r.WineID != 0 {
			uniqueWines[r.WineID] = struct{}{}
		}
	}

	m := mean(values)
	std := math.Sqrt(variance(values))

	features["rating_mean"] = m
	features["rating_std"] = std
	features["rating_count"] = float64(len(values))
	features["rating_min"] = minOf(values)
	features["rating_max"] = maxOf(values)
	features["wines_tried"] = float64(len(uniqueWines))

	if len(uniqueWines) > 0 {
		features["avg_ratings_per_wine"] = float64(len(values)) / float64(len(uniqueWines))
	} else {
		features["avg_ratings_per_wine"] = 0.0
	}

	if m > 0 {
		features["coefficient_of_variation"] = std / m
	} else {
		features["coefficient_of_variation"] = 0.0
	}
}

func wineTypePreferences(features map[string]float64, ratings []domain.RatingRecord) {
	for name, variations := range wineTypeSynonyms {
		var matched []float64
		for _, r := range ratings {
			if containsExact(variations, r.WineType) {
				matched = append(matched, r.Rating)
			}
		}
		if len(matched) > 0 {
			features[name] = mean(matched)
		} else {
			features[name] = 0.0
		}
	}
}

func attributePreferences(features map[string]float64, ratings []domain.RatingRecord) {
	abvPreferences(features, ratings)
	bucketPreferences(features, ratings, bodySynonyms, func(r domain.RatingRecord) string { return r.Body })
	bucketPreferences(features, ratings, aciditySynonyms, func(r domain.RatingRecord) string { return r.Acidity })
	topGroupPreferences(features, ratings, "country_%d_preference", func(r domain.RatingRecord) string { return r.Country })
	topGroupPreferences(features, ratings, "grape_%d_preference", func(r domain.RatingRecord) string { return r.Grape })
	complexityPreferences(features, ratings)
}

func abvPreferences(features map[string]float64, ratings []domain.RatingRecord) {
	var withABV []domain.RatingRecord
	for _, r := range ratings {
		if r.ABV != 0 {
			withABV = append(withABV, r)
		}
	}

	if len(withABV) == 0 {
		features["weighted_abv_preference"] = 0.0
		features["avg_abv_tried"] = 0.0
		features["high_vs_low_abv_preference"] = 0.0
		return
	}

	var weightedSum, weightTotal, abvSum float64
	var high, low []float64
	for _, r := range withABV {
		weightedSum += r.Rating * r.ABV
		weightTotal += r.Rating
		abvSum += r.ABV
		if r.ABV >= highABVThreshold {
			high = append(high, r.Rating)
		} else {
			low = append(low, r.Rating)
		}
	}

	if weightTotal != 0 {
		features["weighted_abv_preference"] = weightedSum / weightTotal
	} else {
		features["weighted_abv_preference"] = 0.0
	}
	features["avg_abv_tried"] = abvSum / float64(len(withABV))

	// an empty side counts as 0, so a one-sided history yields that
	// side's mean rather than being skipped
	features["high_vs_low_abv_preference"] = meanOrZero(high) - meanOrZero(low)
}

func bucketPreferences(
	features map[string]float64,
	ratings []domain.RatingRecord,
	buckets map[string][]string,
	attr func(domain.RatingRecord) string,
) {
	for name, variations := range buckets {
		var matched []float64
		for _, r := range ratings {
			if containsFold(variations, attr(r)) {
				matched = append(matched, r.Rating)
			}
		}
		if len(matched) > 0 {
			features[name] = mean(matched)
		} else {
			features[name] = 0.0
		}
	}
}

// topGroupPreferences ranks attribute values by occurrence count
// (descending) and emits the mean rating of the five biggest groups.
// Ties keep first-seen order so the vector is reproducible for a given
// history ordering.
func topGroupPreferences(
	features map[string]float64,
	ratings []domain.RatingRecord,
	keyFormat string,
	attr func(domain.RatingRecord) string,
) {
	grouped := map[string][]float64{}
	var order []string
	for _, r := range ratings {
		v := attr(r)
		if v == "" {
			continue
		}
		if _, ok := grouped[v]; !ok {
			order = append(order, v)
		}
		grouped[v] = append(grouped[v], r.Rating)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return len(grouped[order[i]]) > len(grouped[order[j]])
	})

	for i := 1; i <= 5; i++ {
		key := fmt.Sprintf(keyFormat, i)
		if i <= len(order) {
			features[key] = mean(grouped[order[i-1]])
		} else {
			features[key] = 0.0
		}
	}
}

func complexityPreferences(features map[string]float64, ratings []domain.RatingRecord) {
	var complexSide, simpleSide, complexityValues []float64
	var reserve, nonReserve, grand, nonGrand []float64

	for _, r := range ratings {
		if r.Complexity > 0 {
			complexSide = append(complexSide, r.Rating)
			complexityValues = append(complexityValues, r.Complexity)
		} else {
			simpleSide = append(simpleSide, r.Rating)
		}

		if r.IsReserve {
			reserve = append(reserve, r.Rating)
		} else {
			nonReserve = append(nonReserve, r.Rating)
		}

		if r.IsGrand {
			grand = append(grand, r.Rating)
		} else {
			nonGrand = append(nonGrand, r.Rating)
		}
	}

	features["complexity_preference"] = meanOrZero(complexSide) - meanOrZero(simpleSide)
	features["avg_complexity_tried"] = meanOrZero(complexityValues)
	features["reserve_preference"] = meanOrZero(reserve) - meanOrZero(nonReserve)
	features["grand_preference"] = meanOrZero(grand) - meanOrZero(nonGrand)
}

func ratingPatterns(features map[string]float64, values []float64) {
	total := float64(len(values))

	counts := map[float64]int{}
	for _, v := range values {
		counts[v]++
	}

	for i := 1; i <= 5; i++ {
		features["rating_"+strconv.Itoa(i)+"_proportion"] = float64(counts[float64(i)]) / total
	}

	var high, low int
	for _, v := range values {
		if v >= 4 {
			high++
		}
		if v <= 2 {
			low++
		}
	}
	features["high_rating_proportion"] = float64(high) / total
	features["low_rating_proportion"] = float64(low) / total

	entropy := 0.0
	for _, c := range counts {
		p := float64(c) / total
		entropy -= p * math.Log2(p)
	}
	features["rating_entropy"] = entropy
}

func diversityMetrics(features map[string]float64, values []float64) {
	if len(values) < 2 {
		features["rating_range"] = 0.0
		features["rating_variance"] = 0.0
		features["unique_ratings_count"] = 0.0
		features["rating_skewness"] = 0.0
		return
	}

	unique := map[float64]struct{}{}
	for _, v := range values {
		unique[v] = struct{}{}
	}

	features["rating_range"] = maxOf(values) - minOf(values)
	features["rating_variance"] = variance(values)
	features["unique_ratings_count"] = float64(len(unique))

	if len(values) > 2 {
		features["rating_skewness"] = skewness(values)
	} else {
		features["rating_skewness"] = 0.0
	}
}

func temporalPatterns(features map[string]float64, ratings []domain.RatingRecord) {
	var dates []time.Time
	for _, r := range ratings {
		if r.CreatedAt != nil {
			dates = append(dates, *r.CreatedAt)
		}
	}

	if len(dates) < 2 {
		features["date_range_days"] = 0.0
		features["avg_days_between_ratings"] = 0.0
		features["rating_trend"] = 0.0
		features["rating_frequency"] = 0.0
		return
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	// whole-day truncation, matching the stored granularity
	rangeDays := wholeDays(dates[len(dates)-1].Sub(dates[0]))

	gapSum := 0.0
	for i := 1; i < len(dates); i++ {
		gapSum += float64(wholeDays(dates[i].Sub(dates[i-1])))
	}

	features["date_range_days"] = float64(rangeDays)
	features["avg_days_between_ratings"] = gapSum / float64(len(dates)-1)
	features["rating_trend"] = ratingTrend(ratings)

	if rangeDays > 0 {
		features["rating_frequency"] = float64(len(dates)) / float64(rangeDays)
	} else {
		features["rating_frequency"] = 0.0
	}
}

// ratingTrend is the least-squares slope of rating against unix seconds;
// 0 with fewer than 3 dated ratings.
func ratingTrend(ratings []domain.RatingRecord) float64 {
	var xs, ys []float64
	for _, r := range ratings {
		if r.CreatedAt != nil {
			xs = append(xs, float64(r.CreatedAt.Unix()))
			ys = append(ys, r.Rating)
		}
	}
	if len(xs) <= 2 {
		return 0.0
	}

	xMean := mean(xs)
	yMean := mean(ys)

	var num, den float64
	for i := range xs {
		dx := xs[i] - xMean
		num += dx * (ys[i] - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0.0
	}
	return num / den
}

// ---- small numeric helpers ----

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	return mean(values)
}

// population variance
func variance(values []float64) float64 {
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}

// Fisher-Pearson skewness (population form, g1)
func skewness(values []float64) float64 {
	m := mean(values)
	var m2, m3 float64
	for _, v := range values {
		d := v - m
		m2 += d * d
		m3 += d * d * d
	}
	n := float64(len(values))
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0.0
	}
	return m3 / math.Pow(m2, 1.5)
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func wholeDays(d time.Duration) int {
	return int(d / (24 * time.Hour))
}

func containsExact(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	if v == "" {
		return false
	}
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
