package analytics

import "math"

// safeDivide returns numerator/denominator, or 0 when the denominator is 0.
func safeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// Percentage returns part/whole*100 rounded to one decimal place, or 0 when
// whole is not positive.
func Percentage(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return round(part/whole*100, 1)
}

func round(value float64, places int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
