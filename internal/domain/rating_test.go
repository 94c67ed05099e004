package domain

import (
	"errors"
	"testing"
)

func TestAverageScore(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   float64
	}{
		{name: "single", scores: []int{7}, want: 7.0},
		{name: "whole mean", scores: []int{8, 6, 10}, want: 8.0},
		{name: "rounded to cents", scores: []int{1, 1, 2}, want: 1.33},
		{name: "rounds half up", scores: []int{1, 2}, want: 1.5},
		{name: "repeating third", scores: []int{3, 3, 4}, want: 3.33},
		{name: "extremes", scores: []int{1, 10}, want: 5.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AverageScore(tt.scores)
			if err != nil {
				t.Fatalf("AverageScore(%v) error = %v", tt.scores, err)
			}
			if got != tt.want {
				t.Fatalf("AverageScore(%v) = %v, want %v", tt.scores, got, tt.want)
			}
		})
	}
}

func TestAverageScoreEmpty(t *testing.T) {
	if _, err := AverageScore(nil); !errors.Is(err, ErrNoReviews) {
		t.Fatalf("AverageScore(nil) error = %v, want ErrNoReviews", err)
	}
	if _, err := AverageScore([]int{}); !errors.Is(err, ErrNoReviews) {
		t.Fatalf("AverageScore([]) error = %v, want ErrNoReviews", err)
	}
}
