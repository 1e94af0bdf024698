package services

import (
	"testing"

	"github.com/novalabs/nova/internal/models"
)

func newProfileStub() *authStubStore {
	store := newAuthStubStore()
	store.users["u1"] = &models.User{ID: "u1", Username: "ada", Email: "ada@example.com", Language: "english", Level: 1}
	store.users["u2"] = &models.User{ID: "u2", Username: "bob", Email: "bob@example.com", Language: "english", Level: 1}
	return store
}

func (s *authStubStore) GetUser(id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func TestUpdateProfile(t *testing.T) {
	store := newProfileStub()
	svc := NewProfileService(store)

	u, err := svc.UpdateProfile("u1", "ada2", "hindi")
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if u.Username != "ada2" || u.Language != "hindi" {
		t.Fatalf("unexpected profile: %+v", u)
	}
	if stored := store.users["u1"]; stored.Username != "ada2" || stored.Language != "hindi" {
		t.Fatalf("profile change not persisted: %+v", stored)
	}
}

func TestUpdateProfileEmptyFieldsKeepValues(t *testing.T) {
	store := newProfileStub()
	svc := NewProfileService(store)

	u, err := svc.UpdateProfile("u1", "", "")
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if u.Username != "ada" || u.Language != "english" {
		t.Fatalf("empty update must keep existing values: %+v", u)
	}
}

func TestUpdateProfileUsernameTaken(t *testing.T) {
	store := newProfileStub()
	svc := NewProfileService(store)

	_, err := svc.UpdateProfile("u1", "bob", "")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("expected conflict for taken username, got %v", err)
	}
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	svc := NewProfileService(newAuthStubStore())
	_, err := svc.UpdateProfile("missing", "x", "")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
