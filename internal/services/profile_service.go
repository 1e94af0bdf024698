package services

import (
	"strings"

	"github.com/novalabs/nova/internal/models"
)

type ProfileStore interface {
	GetUser(id string) (*models.User, error)
	FindUserByUsername(username string) (*models.User, error)
	UpdateUser(u *models.User) (bool, error)
}

type ProfileService struct {
	store ProfileStore
}

func NewProfileService(store ProfileStore) *ProfileService {
	return &ProfileService{store: store}
}

// UpdateProfile changes the username and/or preferred language. Empty fields
// are left as they are. A username move to one already taken by another user
// is a conflict.
func (s *ProfileService) UpdateProfile(userID, username, language string) (*models.User, error) {
	username = strings.TrimSpace(username)
	language = strings.TrimSpace(language)
	for attempt := 0; attempt < 2; attempt++ {
		user, err := s.store.GetUser(userID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, NewNotFoundError("user not found")
		}
		if username != "" && username != user.Username {
			taken, err := s.store.FindUserByUsername(username)
			if err != nil {
				return nil, err
			}
			if taken != nil && taken.ID != userID {
				return nil, NewConflictError("username exists")
			}
			user.Username = username
		}
		if language != "" {
			user.Language = language
		}
		ok, err := s.store.UpdateUser(user)
		if err != nil {
			return nil, err
		}
		if ok {
			return user, nil
		}
	}
	return nil, NewConflictError("profile raced another update")
}
