package services

import "math"

// BaseXPPerLevel anchors the leveling curve: reaching level L+1 takes
// L² × BaseXPPerLevel total XP.
const BaseXPPerLevel = 100

// LevelForXP derives the level from total XP. Level is never stored as
// ground truth; every XP mutation recomputes it through this function.
// level(xp) = floor(sqrt(xp/100)) + 1, so level >= 1 for all xp >= 0.
func LevelForXP(xp int64) int {
	if xp < 0 {
		xp = 0
	}
	return int(math.Sqrt(float64(xp)/float64(BaseXPPerLevel))) + 1
}

// XPForLevel returns the cumulative XP at which the given level ends,
// i.e. the total XP required to reach level+1.
func XPForLevel(level int) int64 {
	if level < 0 {
		level = 0
	}
	return int64(level) * int64(level) * BaseXPPerLevel
}

// ProgressPercent is the percentage toward the next level, clamped to
// [0,100] so stale xp/level pairs from the client can never render a
// broken XP bar.
func ProgressPercent(xp int64, level int) float64 {
	if level < 1 {
		level = 1
	}
	floor := XPForLevel(level - 1)
	ceil := XPForLevel(level)
	progress := float64(xp-floor) / float64(ceil-floor) * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
