package climate

import "math"

// CelsiusToFahrenheit converts with F = C×9/5 + 32.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// RoundHalfUp rounds to the nearest integer, ties toward +Inf (-17.5 -> -17).
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
