package api

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/novalabs/nova/internal/models"
)

// memoryStore keeps everything behind one RWMutex and hands out copies, so
// callers can never mutate stored state without going through an update.
type memoryStore struct {
	mu           sync.RWMutex
	users        map[string]*models.User
	usersByEmail map[string]string
	usersByName  map[string]string
	progress     map[string]*models.Progress
	quizzes      map[string]*models.Quiz
}

// NewMemoryStore returns an empty in-process store. It backs tests and
// deployments that run without a database file.
func NewMemoryStore() Store { return newMemoryStore() }

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:        map[string]*models.User{},
		usersByEmail: map[string]string{},
		usersByName:  map[string]string{},
		progress:     map[string]*models.Progress{},
		quizzes:      map[string]*models.Quiz{},
	}
}

func (s *memoryStore) AddUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; ok {
		return errors.New("duplicate user id")
	}
	if _, ok := s.usersByEmail[strings.ToLower(u.Email)]; ok {
		return errors.New("duplicate email")
	}
	if _, ok := s.usersByName[strings.ToLower(u.Username)]; ok {
		return errors.New("duplicate username")
	}
	cp := copyUser(u)
	s.users[cp.ID] = cp
	s.usersByEmail[strings.ToLower(cp.Email)] = cp.ID
	s.usersByName[strings.ToLower(cp.Username)] = cp.ID
	return nil
}

func (s *memoryStore) GetUser(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, nil
}

func (s *memoryStore) FindUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.usersByEmail[strings.ToLower(email)]; ok {
		return copyUser(s.users[id]), nil
	}
	return nil, nil
}

func (s *memoryStore) FindUserByUsername(username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.usersByName[strings.ToLower(username)]; ok {
		return copyUser(s.users[id]), nil
	}
	return nil, nil
}

func (s *memoryStore) UpdateUser(u *models.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateUserLocked(u)
}

func (s *memoryStore) updateUserLocked(u *models.User) (bool, error) {
	cur, ok := s.users[u.ID]
	if !ok || cur.Version != u.Version {
		return false, nil
	}
	cp := copyUser(u)
	cp.Version++
	if cur.Username != cp.Username {
		delete(s.usersByName, strings.ToLower(cur.Username))
		s.usersByName[strings.ToLower(cp.Username)] = cp.ID
	}
	if cur.Email != cp.Email {
		delete(s.usersByEmail, strings.ToLower(cur.Email))
		s.usersByEmail[strings.ToLower(cp.Email)] = cp.ID
	}
	s.users[cp.ID] = cp
	u.Version = cp.Version
	return true, nil
}

func (s *memoryStore) ListTopUsers(limit int) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, copyUser(u))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level > out[j].Level
		}
		if out[i].Experience != out[j].Experience {
			return out[i].Experience > out[j].Experience
		}
		return out[i].Username < out[j].Username
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memoryStore) AddProgress(p *models.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.progress[p.UserID]; ok {
		return errors.New("duplicate progress")
	}
	s.progress[p.UserID] = copyProgress(p)
	return nil
}

func (s *memoryStore) GetProgress(userID string) (*models.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.progress[userID]; ok {
		return copyProgress(p), nil
	}
	return nil, nil
}

// SaveUserAndProgress applies both versioned writes inside one critical
// section; either both land or neither does.
func (s *memoryStore) SaveUserAndProgress(u *models.User, p *models.Progress) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	curP, ok := s.progress[p.UserID]
	if !ok || curP.Version != p.Version {
		return false, nil
	}
	curU, ok := s.users[u.ID]
	if !ok || curU.Version != u.Version {
		return false, nil
	}
	if ok, err := s.updateUserLocked(u); err != nil || !ok {
		return ok, err
	}
	cp := copyProgress(p)
	cp.Version++
	s.progress[cp.UserID] = cp
	p.Version = cp.Version
	return true, nil
}

func (s *memoryStore) AddQuiz(q *models.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[q.ID] = copyQuiz(q)
	return nil
}

func (s *memoryStore) GetQuiz(id string) (*models.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if q, ok := s.quizzes[id]; ok {
		return copyQuiz(q), nil
	}
	return nil, nil
}

func (s *memoryStore) ListQuizzes(category, language string) ([]*models.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Quiz{}
	for _, q := range s.quizzes {
		if category != "" && q.Category != category {
			continue
		}
		if language != "" && q.Language != language {
			continue
		}
		out = append(out, copyQuiz(q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryStore) ReplaceQuizzes(qs []*models.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes = make(map[string]*models.Quiz, len(qs))
	for _, q := range qs {
		s.quizzes[q.ID] = copyQuiz(q)
	}
	return nil
}

func copyUser(u *models.User) *models.User {
	cp := *u
	cp.PassHash = append([]byte(nil), u.PassHash...)
	if u.LastLogin != nil {
		t := *u.LastLogin
		cp.LastLogin = &t
	}
	return &cp
}

func copyProgress(p *models.Progress) *models.Progress {
	cp := *p
	cp.CompletedChapters = append([]int(nil), p.CompletedChapters...)
	if p.Choices != nil {
		cp.Choices = make(map[string]string, len(p.Choices))
		for k, v := range p.Choices {
			cp.Choices[k] = v
		}
	}
	cp.Achievements = append([]string(nil), p.Achievements...)
	return &cp
}

func copyQuiz(q *models.Quiz) *models.Quiz {
	cp := *q
	cp.Questions = make([]models.Question, len(q.Questions))
	for i, question := range q.Questions {
		question.Options = append([]string(nil), question.Options...)
		cp.Questions[i] = question
	}
	return &cp
}
