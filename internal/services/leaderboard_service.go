package services

import "github.com/novalabs/nova/internal/models"

// LeaderboardSize caps the public ranking.
const LeaderboardSize = 20

type LeaderboardStore interface {
	ListTopUsers(limit int) ([]*models.User, error)
}

// LeaderboardEntry exposes only the public fields of a ranked user.
type LeaderboardEntry struct {
	Username   string `json:"username"`
	Avatar     string `json:"avatar,omitempty"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`
	Streak     int    `json:"streak"`
}

type LeaderboardService struct {
	store LeaderboardStore
}

func NewLeaderboardService(store LeaderboardStore) *LeaderboardService {
	return &LeaderboardService{store: store}
}

// Top returns up to LeaderboardSize users ordered by level, then experience.
// It is a read-only snapshot and needs no coordination with writers.
func (s *LeaderboardService) Top() ([]LeaderboardEntry, error) {
	users, err := s.store.ListTopUsers(LeaderboardSize)
	if err != nil {
		return nil, err
	}
	out := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		out = append(out, LeaderboardEntry{
			Username:   u.Username,
			Avatar:     u.Avatar,
			Level:      u.Level,
			Experience: u.Experience,
			Streak:     u.Streak,
		})
	}
	return out, nil
}
