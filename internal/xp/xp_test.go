package xp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateLevel(t *testing.T) {
	cases := map[int64]int{
		0:     1,
		99:    1,
		100:   2,
		399:   2,
		400:   3,
		899:   3,
		900:   4,
		10000: 11,
	}
	for in, want := range cases {
		assert.Equalf(t, want, CalculateLevel(in), "CalculateLevel(%d)", in)
	}
}

func TestCalculateLevelNegativeClamps(t *testing.T) {
	assert.Equal(t, 1, CalculateLevel(-50))
}

func TestCalculateNextLevelXP(t *testing.T) {
	assert.Equal(t, int64(100), CalculateNextLevelXP(1))
	assert.Equal(t, int64(400), CalculateNextLevelXP(2))
	assert.Equal(t, int64(10000), CalculateNextLevelXP(10))
}

func TestThresholdBoundaries(t *testing.T) {
	for level := 1; level <= 500; level++ {
		threshold := CalculateNextLevelXP(level)
		assert.Equalf(t, level+1, CalculateLevel(threshold), "level at threshold of %d", level)
		assert.Equalf(t, level, CalculateLevel(threshold-1), "level just below threshold of %d", level)
	}
}

func TestCalculateLevelMatchesFloatFormula(t *testing.T) {
	for x := int64(0); x < 50000; x += 37 {
		want := int(math.Floor(math.Sqrt(float64(x)/100))) + 1
		assert.Equalf(t, want, CalculateLevel(x), "xp=%d", x)
	}
}

func TestCalculateLevelLargeValues(t *testing.T) {
	// 10^12 xp -> sqrt(10^10) = 10^5
	assert.Equal(t, 100001, CalculateLevel(1_000_000_000_000))
}

func TestXPToNextLevel(t *testing.T) {
	assert.Equal(t, int64(100), XPToNextLevel(0))
	assert.Equal(t, int64(1), XPToNextLevel(99))
	assert.Equal(t, int64(300), XPToNextLevel(100))
}

func TestLevelProgress(t *testing.T) {
	assert.InDelta(t, 0.0, LevelProgress(0), 1e-9)
	assert.InDelta(t, 0.5, LevelProgress(50), 1e-9)
	assert.InDelta(t, 0.0, LevelProgress(100), 1e-9)
	assert.InDelta(t, 0.5, LevelProgress(250), 1e-9)
}

func TestRewardTable(t *testing.T) {
	cases := map[Action]int64{
		ActionLogFood:         10,
		ActionHabitCompletion: 5,
		ActionMaintainStreak:  20,
		ActionCompleteGoal:    50,
	}
	for action, want := range cases {
		got, ok := RewardFor(action)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := RewardFor("jump")
	assert.False(t, ok)
}
