package util

import "math"

// SuccessRate returns correct/total as a percentage rounded to the nearest
// integer. Zero total yields zero.
func SuccessRate(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
