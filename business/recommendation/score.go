package recommendation

import "math"

// exponent clamp; beyond this the sigmoid saturates to exactly 0 or 1
const sigmoidClamp = 40.0

// TransformScore maps a raw model dot product onto the user-facing
// compatibility scale: sigmoid(x) * 100, rounded to 2 decimals.
// Total over all finite floats; output is always within [0, 100].
func TransformScore(dotProduct float64) float64 {
	score := sigmoid(dotProduct) * 100.0
	return math.Round(score*100) / 100
}

func sigmoid(x float64) float64 {
	if x > sigmoidClamp {
		return 1.0
	}
	if x < -sigmoidClamp {
		return 0.0
	}
	return 1.0 / (1.0 + math.Exp(-x))
}
