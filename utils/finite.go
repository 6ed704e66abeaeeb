package utils

import "math"

// Finite はすべての値がNaNでも無限大でもないかを返す
func Finite(fs ...float64) bool {
	for _, f := range fs {
		if !isFinite(f) {
			return false
		}
	}
	return true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
