package recommendation

// featureKeys is the closed 55-key schema, grouped the way the model's
// training pipeline documents it.
var featureKeys = []string{
	// basic statistics
	"rating_mean",
	"rating_std",
	"rating_count",
	"rating_min",
	"rating_max",
	"wines_tried",
	"avg_ratings_per_wine",
	"coefficient_of_variation",

	// wine type preferences
	"red_wine_preference",
	"white_wine_preference",
	"sparkling_wine_preference",
	"rose_wine_preference",
	"dessert_wine_preference",
	"dessert_port_wine_preference",

	// abv preferences
	"weighted_abv_preference",
	"avg_abv_tried",
	"high_vs_low_abv_preference",

	// body preferences
	"very_light_bodied_preference",
	"light_bodied_preference",
	"medium_bodied_preference",
	"full_bodied_preference",
	"very_full_bodied_preference",

	// acidity preferences
	"low_acidity_preference",
	"medium_acidity_preference",
	"high_acidity_preference",

	// top countries
	"country_1_preference",
	"country_2_preference",
	"country_3_preference",
	"country_4_preference",
	"country_5_preference",

	// top grapes
	"grape_1_preference",
	"grape_2_preference",
	"grape_3_preference",
	"grape_4_preference",
	"grape_5_preference",

	// complexity & quality
	"complexity_preference",
	"avg_complexity_tried",
	"reserve_preference",
	"grand_preference",

	// rating patterns
	"high_rating_proportion",
	"low_rating_proportion",
	"rating_entropy",
	"rating_1_proportion",
	"rating_2_proportion",
	"rating_3_proportion",
	"rating_4_proportion",
	"rating_5_proportion",

	// diversity metrics
	"rating_range",
	"rating_variance",
	"unique_ratings_count",
	"rating_skewness",

	// temporal patterns
	"date_range_days",
	"avg_days_between_ratings",
	"rating_trend",
	"rating_frequency",
}

// FeatureKeys returns the schema key set in documented order.
func FeatureKeys() []string {
	keys := make([]string, len(featureKeys))
	copy(keys, featureKeys)
	return keys
}

// DefaultFeatures is the cold-start vector for users with no ratings.
// The model was trained with these exact constants as its new-user
// baseline, so they must not drift: neutral 3.0 for every preference
// bucket, 12.5 for the ABV midpoint, zeros elsewhere.
func DefaultFeatures() map[string]float64 {
	return map[string]float64{
		"rating_mean":              3.0,
		"rating_std":               0.0,
		"rating_count":             0.0,
		"rating_min":               0.0,
		"rating_max":               0.0,
		"wines_tried":              0.0,
		"avg_ratings_per_wine":     0.0,
		"coefficient_of_variation": 0.0,

		"red_wine_preference":          3.0,
		"white_wine_preference":        3.0,
		"sparkling_wine_preference":    3.0,
		"rose_wine_preference":         3.0,
		"dessert_wine_preference":      3.0,
		"dessert_port_wine_preference": 3.0,

		"weighted_abv_preference":    12.5,
		"avg_abv_tried":              12.5,
		"high_vs_low_abv_preference": 0.0,

		"very_light_bodied_preference": 3.0,
		"light_bodied_preference":      3.0,
		"medium_bodied_preference":     3.0,
		"full_bodied_preference":       3.0,
		"very_full_bodied_preference":  3.0,

		"low_acidity_preference":    3.0,
		"medium_acidity_preference": 3.0,
		"high_acidity_preference":   3.0,

		"country_1_preference": 3.0,
		"country_2_preference": 3.0,
		"country_3_preference": 3.0,
		"country_4_preference": 3.0,
		"country_5_preference": 3.0,

		"grape_1_preference": 3.0,
		"grape_2_preference": 3.0,
		"grape_3_preference": 3.0,
		"grape_4_preference": 3.0,
		"grape_5_preference": 3.0,

		"complexity_preference": 0.0,
		"avg_complexity_tried":  0.0,
		"reserve_preference":    0.0,
		"grand_preference":      0.0,

		"high_rating_proportion": 0.0,
		"low_rating_proportion":  0.0,
		"rating_entropy":         0.0,
		"rating_1_proportion":    0.0,
		"rating_2_proportion":    0.0,
		"rating_3_proportion":    0.0,
		"rating_4_proportion":    0.0,
		"rating_5_proportion":    0.0,

		"rating_range":         0.0,
		"rating_variance":      0.0,
		"unique_ratings_count": 0.0,
		"rating_skewness":      0.0,

		"date_range_days":          0.0,
		"avg_days_between_ratings": 0.0,
		"rating_trend":             0.0,
		"rating_frequency":         0.0,
	}
}
