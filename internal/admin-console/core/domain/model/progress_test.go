package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPercent(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"inside range", 42.5, 42.5},
		{"lower bound", 0, 0},
		{"upper bound", 100, 100},
		{"above range", 250, 100},
		{"negative", -5, 0},
		{"not a number", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 100},
		{"negative infinity", math.Inf(-1), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClampPercent(tc.in))
		})
	}
}

func TestDriverOverallProgress(t *testing.T) {
	all := func(v float64) LevelProgress {
		return LevelProgress{Earnings: v, Trips: v, Rating: v, Reviews: v, Goals: v}
	}
	cases := []struct {
		name   string
		driver DriverWithLevel
		want   float64
	}{
		{"mean of ratios", DriverWithLevel{CurrentLevel: 1, Progress: LevelProgress{Earnings: 10, Trips: 20, Rating: 30, Reviews: 40, Goals: 50}}, 30},
		{"ratios above 100", DriverWithLevel{CurrentLevel: 1, Progress: all(250)}, 100},
		{"one ratio above 100", DriverWithLevel{CurrentLevel: 2, Progress: LevelProgress{Earnings: 500}}, 20},
		{"negative ratios", DriverWithLevel{CurrentLevel: 1, Progress: all(-5)}, 0},
		{"not a number", DriverWithLevel{CurrentLevel: 1, Progress: all(math.NaN())}, 0},
		{"top tier", DriverWithLevel{CurrentLevel: MaxDriverLevel, Progress: all(10)}, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.driver.OverallProgress()
			assert.InDelta(t, tc.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestPromotionOverallClamped(t *testing.T) {
	cases := []struct {
		name string
		in   PromotionProgress
		want float64
	}{
		{"every component above 100", PromotionProgress{RequestsProgress: 250, RatingProgress: 250, ReviewsProgress: 250, RevenueProgress: 250, ExperienceProgress: 250}, 100},
		{"server overall above 100", PromotionProgress{OverallProgress: 180}, 100},
		{"negative components", PromotionProgress{RequestsProgress: -40, RatingProgress: -1}, 0},
		{"weighted mean", PromotionProgress{RequestsProgress: 100, RatingProgress: 100}, 55},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Overall()
			assert.InDelta(t, tc.want, got, 1e-9)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestAgentWorkloadPercent(t *testing.T) {
	assert.Equal(t, 0.0, Agent{MaxActiveRequests: 0, CurrentActiveRequests: 3}.WorkloadPercent())
	assert.Equal(t, 50.0, Agent{MaxActiveRequests: 4, CurrentActiveRequests: 2}.WorkloadPercent())
	assert.Equal(t, 100.0, Agent{MaxActiveRequests: 2, CurrentActiveRequests: 5}.WorkloadPercent())
}
