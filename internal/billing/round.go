package billing

import "math"

// Round2 rounds to two decimals, half away from zero. All monetary
// amounts pass through here so intermediate and stored values agree.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
