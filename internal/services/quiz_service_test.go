package services

import (
	"testing"

	"github.com/novalabs/nova/internal/models"
)

type quizStubStore struct {
	quizzes     map[string]*models.Quiz
	users       map[string]*models.User
	failUpdates int
}

func newQuizStubStore() *quizStubStore {
	return &quizStubStore{quizzes: map[string]*models.Quiz{}, users: map[string]*models.User{}}
}

func (s *quizStubStore) GetQuiz(id string) (*models.Quiz, error) {
	if q, ok := s.quizzes[id]; ok {
		return q, nil
	}
	return nil, nil
}

func (s *quizStubStore) ListQuizzes(category, language string) ([]*models.Quiz, error) {
	out := []*models.Quiz{}
	for _, q := range s.quizzes {
		if category != "" && q.Category != category {
			continue
		}
		if language != "" && q.Language != language {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *quizStubStore) ReplaceQuizzes(qs []*models.Quiz) error {
	s.quizzes = map[string]*models.Quiz{}
	for _, q := range qs {
		s.quizzes[q.ID] = q
	}
	return nil
}

func (s *quizStubStore) GetUser(id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *quizStubStore) UpdateUser(u *models.User) (bool, error) {
	if s.failUpdates > 0 {
		s.failUpdates--
		return false, nil
	}
	cp := *u
	s.users[u.ID] = &cp
	return true, nil
}

func seedQuizStub(s *quizStubStore) {
	s.users["u1"] = &models.User{ID: "u1", Username: "ada", Level: 1, Experience: 150}
	s.quizzes["q1"] = &models.Quiz{
		ID:       "q1",
		Title:    "Basics",
		Language: "english",
		Questions: []models.Question{
			{Question: "First?", Options: []string{"a", "b"}, CorrectAnswer: 0, Explanation: "a"},
			{Question: "Second?", Options: []string{"x", "y", "z"}, CorrectAnswer: 2, Explanation: "z"},
		},
	}
}

func TestSubmitAttemptAwardsExperience(t *testing.T) {
	store := newQuizStubStore()
	seedQuizStub(store)
	svc := NewQuizService(store)

	res, err := svc.SubmitAttempt("u1", "q1", []int{0, 2})
	if err != nil {
		t.Fatalf("SubmitAttempt returned error: %v", err)
	}
	if res.Score != 2 || res.Total != 2 || res.Percentage != 100 {
		t.Fatalf("unexpected result: %+v", res)
	}
	// 150 + 2*20 = 190, still below the level-1 threshold.
	if u := store.users["u1"]; u.Level != 1 || u.Experience != 190 {
		t.Fatalf("unexpected user after attempt: level=%d xp=%d", u.Level, u.Experience)
	}

	// One more correct answer pushes the balance over 200.
	if _, err := svc.SubmitAttempt("u1", "q1", []int{0}); err != nil {
		t.Fatalf("SubmitAttempt returned error: %v", err)
	}
	if u := store.users["u1"]; u.Level != 2 || u.Experience != 10 {
		t.Fatalf("expected level-up to (2,10), got (%d,%d)", u.Level, u.Experience)
	}
}

func TestSubmitAttemptQuizNotFound(t *testing.T) {
	store := newQuizStubStore()
	seedQuizStub(store)
	svc := NewQuizService(store)

	_, err := svc.SubmitAttempt("u1", "missing", []int{0})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmitAttemptRetriesOnceOnConflict(t *testing.T) {
	store := newQuizStubStore()
	seedQuizStub(store)
	svc := NewQuizService(store)

	store.failUpdates = 1
	if _, err := svc.SubmitAttempt("u1", "q1", []int{0, 2}); err != nil {
		t.Fatalf("SubmitAttempt should succeed after one retry: %v", err)
	}

	store.failUpdates = 2
	_, err := svc.SubmitAttempt("u1", "q1", []int{0, 2})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("expected conflict after exhausted retry, got %v", err)
	}
}

func TestSeedReplacesQuizzes(t *testing.T) {
	store := newQuizStubStore()
	seedQuizStub(store)
	svc := NewQuizService(store)

	if err := svc.Seed(); err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	if _, ok := store.quizzes["q1"]; ok {
		t.Fatalf("seeding must replace existing quiz content")
	}
	if len(store.quizzes) != len(SampleQuizzes()) {
		t.Fatalf("expected %d sample quizzes, got %d", len(SampleQuizzes()), len(store.quizzes))
	}
	for _, q := range store.quizzes {
		for _, question := range q.Questions {
			if question.CorrectAnswer < 0 || question.CorrectAnswer >= len(question.Options) {
				t.Fatalf("sample quiz %q has invalid answer index", q.ID)
			}
		}
	}
}
