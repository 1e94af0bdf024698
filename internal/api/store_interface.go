package api

import "github.com/novalabs/nova/internal/models"

// Store is the persistence capability behind the API. Records are
// independent documents keyed by identity; update methods are
// compare-and-swap on the record's version and report false on a mismatch.
// SaveUserAndProgress writes both documents atomically or not at all.
type Store interface {
	AddUser(u *models.User) error
	GetUser(id string) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	FindUserByUsername(username string) (*models.User, error)
	UpdateUser(u *models.User) (bool, error)
	ListTopUsers(limit int) ([]*models.User, error)

	AddProgress(p *models.Progress) error
	GetProgress(userID string) (*models.Progress, error)
	SaveUserAndProgress(u *models.User, p *models.Progress) (bool, error)

	AddQuiz(q *models.Quiz) error
	GetQuiz(id string) (*models.Quiz, error)
	ListQuizzes(category, language string) ([]*models.Quiz, error)
	ReplaceQuizzes(qs []*models.Quiz) error
}

var _ Store = (*memoryStore)(nil)
