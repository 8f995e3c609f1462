// Package xp maps experience points to levels and defines the reward table.
package xp

// Action identifies something a user did that earns XP.
type Action string

const (
	ActionLogFood         Action = "log_food"
	ActionHabitCompletion Action = "habit_completion"
	ActionMaintainStreak  Action = "maintain_streak"
	ActionCompleteGoal    Action = "complete_goal"
)

// Reward table. Not configurable at runtime.
const (
	LogFood         int64 = 10
	HabitCompletion int64 = 5
	MaintainStreak  int64 = 20
	CompleteGoal    int64 = 50
)

// RewardFor returns the XP granted for an action.
func RewardFor(a Action) (int64, bool) {
	switch a {
	case ActionLogFood:
		return LogFood, true
	case ActionHabitCompletion:
		return HabitCompletion, true
	case ActionMaintainStreak:
		return MaintainStreak, true
	case ActionCompleteGoal:
		return CompleteGoal, true
	}
	return 0, false
}

// CalculateLevel returns floor(sqrt(xp/100)) + 1.
//
//	0..99 -> 1, 100..399 -> 2, 400..899 -> 3, 10000 -> 11
func CalculateLevel(xp int64) int {
	if xp < 0 {
		return 1
	}
	// floor(sqrt(x/100)) == isqrt(floor(x/100)) for x >= 0
	return int(isqrt(xp/100)) + 1
}

// CalculateNextLevelXP returns level^2 * 100, the XP total at which a profile
// sitting at level moves on to level+1. Callers wanting "XP remaining" must
// subtract the current XP themselves.
func CalculateNextLevelXP(level int) int64 {
	if level < 1 {
		level = 1
	}
	l := int64(level)
	return l * l * 100
}

// XPToNextLevel is the remaining XP before the next level-up.
func XPToNextLevel(xp int64) int64 {
	if xp < 0 {
		xp = 0
	}
	return CalculateNextLevelXP(CalculateLevel(xp)) - xp
}

// LevelProgress reports how far through the current level xp is, in [0, 1).
func LevelProgress(xp int64) float64 {
	if xp < 0 {
		xp = 0
	}
	level := CalculateLevel(xp)
	floor := int64(0)
	if level > 1 {
		floor = CalculateNextLevelXP(level - 1)
	}
	ceil := CalculateNextLevelXP(level)
	return float64(xp-floor) / float64(ceil-floor)
}

func isqrt(n int64) int64 {
	if n < 2 {
		return n
	}
	// Newton's method on integers; converges from above
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
