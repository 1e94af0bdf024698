package services

import "time"

// UpdateStreak computes the login streak after a login at now. The first
// login ever starts the streak at 1; logging in on the next calendar day
// extends it; a gap of two or more days resets it to 1. A repeat login on
// the same day leaves the streak untouched so it cannot be inflated.
// The caller supplies now, which keeps the function deterministic.
func UpdateStreak(lastLogin *time.Time, now time.Time, streak int) int {
	if lastLogin == nil {
		return 1
	}
	switch days := daysBetween(*lastLogin, now); {
	case days == 1:
		return streak + 1
	case days > 1:
		return 1
	}
	return streak
}

// daysBetween counts whole UTC calendar days from a to b.
func daysBetween(a, b time.Time) int {
	ad := a.UTC().Truncate(24 * time.Hour)
	bd := b.UTC().Truncate(24 * time.Hour)
	return int(bd.Sub(ad).Hours() / 24)
}
