package domain

import "math"

// AverageScore returns the mean of the given review scores rounded to
// two decimal places. With no scores the rating is undefined and
// ErrNoReviews is returned.
func AverageScore(scores []int) (float64, error) {
	if len(scores) == 0 {
		return 0, ErrNoReviews
	}
	sum := 0
	for _, score := range scores {
		sum += score
	}
	mean := float64(sum) / float64(len(scores))
	return math.Round(mean*100) / 100, nil
}
