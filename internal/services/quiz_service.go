package services

import "github.com/novalabs/nova/internal/models"

type QuizStore interface {
	GetQuiz(id string) (*models.Quiz, error)
	ListQuizzes(category, language string) ([]*models.Quiz, error)
	ReplaceQuizzes(qs []*models.Quiz) error
	GetUser(id string) (*models.User, error)
	UpdateUser(u *models.User) (bool, error)
}

type QuizService struct {
	store QuizStore
}

func NewQuizService(store QuizStore) *QuizService {
	return &QuizService{store: store}
}

// List returns quizzes, optionally filtered by category and language tag.
func (s *QuizService) List(category, language string) ([]*models.Quiz, error) {
	return s.store.ListQuizzes(category, language)
}

func (s *QuizService) Get(id string) (*models.Quiz, error) {
	q, err := s.store.GetQuiz(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, NewNotFoundError("quiz not found")
	}
	return q, nil
}

// SubmitAttempt grades the answers and credits CorrectAnswerXP per correct
// answer before the result is returned, so the response and the persisted
// level/experience can never disagree. The experience write is retried once
// on a version conflict.
func (s *QuizService) SubmitAttempt(userID, quizID string, answers []int) (*AttemptResult, error) {
	quiz, err := s.Get(quizID)
	if err != nil {
		return nil, err
	}
	result, err := ScoreAttempt(quiz.Questions, answers)
	if err != nil {
		return nil, err
	}
	for attempt := 0; attempt < 2; attempt++ {
		user, err := s.store.GetUser(userID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, NewNotFoundError("user not found")
		}
		level, xp, err := ApplyExperience(user.Level, user.Experience, result.Score*CorrectAnswerXP)
		if err != nil {
			return nil, err
		}
		user.Level, user.Experience = level, xp
		ok, err := s.store.UpdateUser(user)
		if err != nil {
			return nil, err
		}
		if ok {
			return result, nil
		}
	}
	return nil, NewConflictError("attempt raced another update")
}

// Seed replaces all quiz content with the built-in sample quizzes.
func (s *QuizService) Seed() error {
	return s.store.ReplaceQuizzes(SampleQuizzes())
}
