package services

// levelThresholds[i] is the cumulative XP required to reach level i+1.
// The curve is super-linear: each level costs more than the last.
var levelThresholds = []int{
	0,     // level 1
	100,   // level 2
	250,   // level 3
	450,   // level 4
	700,   // level 5
	1000,  // level 6
	1400,  // level 7
	1900,  // level 8
	2500,  // level 9
	3200,  // level 10
	4000,  // level 11
	4900,  // level 12
	5900,  // level 13
	7000,  // level 14
	8200,  // level 15
	9500,  // level 16
	10900, // level 17
	12400, // level 18
	14000, // level 19
	15700, // level 20
}

// xpPerLevelBeyondTable is the flat cost per level past the table.
const xpPerLevelBeyondTable = 2000

// LevelFromXP returns the level reached at the given cumulative XP.
// Monotonic; negative XP clamps to level 1.
func LevelFromXP(xp int) int {
	if xp < 0 {
		return 1
	}
	last := len(levelThresholds) - 1
	if xp >= levelThresholds[last] {
		return len(levelThresholds) + (xp-levelThresholds[last])/xpPerLevelBeyondTable
	}
	level := 1
	for i, threshold := range levelThresholds {
		if xp < threshold {
			break
		}
		level = i + 1
	}
	return level
}

// xpForLevel returns the cumulative XP threshold for a level.
func xpForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level <= len(levelThresholds) {
		return levelThresholds[level-1]
	}
	last := len(levelThresholds) - 1
	return levelThresholds[last] + (level-len(levelThresholds))*xpPerLevelBeyondTable
}

// LevelUpResult reports a level transition between two XP totals.
type LevelUpResult struct {
	LeveledUp bool `json:"leveledUp"`
	OldLevel  int  `json:"oldLevel"`
	NewLevel  int  `json:"newLevel"`
}

// CheckLevelUp compares the level at two XP totals. A single large
// award may cross several thresholds; NewLevel is the final level, not
// OldLevel+1.
func CheckLevelUp(oldXP, newXP int) LevelUpResult {
	oldLevel := LevelFromXP(oldXP)
	newLevel := LevelFromXP(newXP)
	return LevelUpResult{
		LeveledUp: newLevel > oldLevel,
		OldLevel:  oldLevel,
		NewLevel:  newLevel,
	}
}

// LevelInfo is the progress-bar view of a cumulative XP total.
type LevelInfo struct {
	Level       int     `json:"level"`
	XP          int     `json:"xp"`
	LevelXP     int     `json:"levelXP"`     // threshold of the current level
	NextLevelXP int     `json:"nextLevelXP"` // threshold of the next level
	XPToNext    int     `json:"xpToNext"`
	Progress    float64 `json:"progress"` // 0.0-1.0 within the current level
}

// LevelInfoFromXP reports level, XP remaining to the next threshold,
// and fractional progress within the current level.
func LevelInfoFromXP(xp int) LevelInfo {
	if xp < 0 {
		xp = 0
	}
	level := LevelFromXP(xp)
	cur := xpForLevel(level)
	next := xpForLevel(level + 1)

	progress := float64(xp-cur) / float64(next-cur)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	return LevelInfo{
		Level:       level,
		XP:          xp,
		LevelXP:     cur,
		NextLevelXP: next,
		XPToNext:    next - xp,
		Progress:    progress,
	}
}
