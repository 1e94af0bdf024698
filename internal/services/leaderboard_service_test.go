package services

import (
	"testing"

	"github.com/novalabs/nova/internal/models"
)

type leaderboardStubStore struct {
	users    []*models.User
	gotLimit int
}

func (s *leaderboardStubStore) ListTopUsers(limit int) ([]*models.User, error) {
	s.gotLimit = limit
	return s.users, nil
}

func TestLeaderboardTop(t *testing.T) {
	store := &leaderboardStubStore{users: []*models.User{
		{Username: "ada", Email: "ada@example.com", Avatar: "a.png", Level: 5, Experience: 120, Streak: 9},
		{Username: "bob", Email: "bob@example.com", Level: 5, Experience: 80, Streak: 2},
	}}
	svc := NewLeaderboardService(store)

	entries, err := svc.Top()
	if err != nil {
		t.Fatalf("Top returned error: %v", err)
	}
	if store.gotLimit != LeaderboardSize {
		t.Fatalf("expected limit %d, got %d", LeaderboardSize, store.gotLimit)
	}
	if len(entries) != 2 || entries[0].Username != "ada" || entries[1].Username != "bob" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if entries[0].Level != 5 || entries[0].Experience != 120 || entries[0].Streak != 9 {
		t.Fatalf("public fields not mapped: %+v", entries[0])
	}
}
