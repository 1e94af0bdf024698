package services

// Experience awards for the two durable XP sources.
const (
	ChapterXP       = 100 // completing a story chapter for the first time
	CorrectAnswerXP = 20  // each correct quiz answer
)

// LevelThreshold returns the experience needed to advance from level to
// level+1. It grows linearly and must be recomputed after every level gain.
func LevelThreshold(level int) int { return level * 200 }

// ApplyExperience adds delta to the experience balance and rolls any overflow
// into level-ups. A single large delta may cross several thresholds. Negative
// deltas (narrative penalties) bottom out at zero experience and never lower
// the level. The returned pair always satisfies 0 <= experience <
// LevelThreshold(level).
func ApplyExperience(level, experience, delta int) (int, int, error) {
	if level < 1 {
		return 0, 0, NewInvalidError("level must be at least 1")
	}
	if experience < 0 {
		return 0, 0, NewInvalidError("experience must not be negative")
	}
	experience += delta
	if experience < 0 {
		return level, 0, nil
	}
	for experience >= LevelThreshold(level) {
		experience -= LevelThreshold(level)
		level++
	}
	return level, experience, nil
}
