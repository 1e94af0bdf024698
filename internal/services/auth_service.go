package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/novalabs/nova/internal/models"
)

type AuthStore interface {
	FindUserByEmail(email string) (*models.User, error)
	FindUserByUsername(username string) (*models.User, error)
	AddUser(u *models.User) error
	AddProgress(p *models.Progress) error
	UpdateUser(u *models.User) (bool, error)
}

type TokenSigner func(uid string, ttl time.Duration) (string, error)

type AuthService struct {
	store     AuthStore
	now       func() time.Time
	idGen     func(prefix string, n int) string
	signToken TokenSigner
	tokenTTL  time.Duration
}

type AuthResult struct {
	Token string
	User  *models.User
}

func NewAuthService(store AuthStore, signer TokenSigner) *AuthService {
	return &AuthService{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		idGen:     func(prefix string, n int) string { return prefix + shortID(n) },
		signToken: signer,
		tokenTTL:  24 * time.Hour,
	}
}

// Register creates the account and its story progress together; neither is
// ever created without the other.
func (s *AuthService) Register(username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("username/email/password required")
	}
	if existing, err := s.store.FindUserByEmail(email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, NewConflictError("email exists")
	}
	if existing, err := s.store.FindUserByUsername(username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, NewConflictError("username exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:        s.idGen("u", 7),
		Username:  username,
		Email:     email,
		PassHash:  hash,
		Avatar:    "default-avatar.png",
		Level:     1,
		Language:  "english",
		CreatedAt: s.now(),
	}
	if err := s.store.AddUser(user); err != nil {
		return nil, err
	}
	if err := s.store.AddProgress(&models.Progress{UserID: user.ID, Chapter: 1}); err != nil {
		return nil, err
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(user.ID, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials, advances the login streak, and records the
// login time before issuing a token.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	var user *models.User
	for attempt := 0; attempt < 2; attempt++ {
		u, err := s.store.FindUserByEmail(email)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, NewUnauthorizedError("invalid credentials")
		}
		if err := bcrypt.CompareHashAndPassword(u.PassHash, []byte(password)); err != nil {
			return nil, NewUnauthorizedError("invalid credentials")
		}
		now := s.now()
		u.Streak = UpdateStreak(u.LastLogin, now, u.Streak)
		u.LastLogin = &now
		ok, err := s.store.UpdateUser(u)
		if err != nil {
			return nil, err
		}
		if ok {
			user = u
			break
		}
	}
	if user == nil {
		return nil, NewConflictError("login raced another update")
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(user.ID, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
