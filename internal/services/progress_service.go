package services

import "github.com/novalabs/nova/internal/models"

type ProgressStore interface {
	GetUser(id string) (*models.User, error)
	GetProgress(userID string) (*models.Progress, error)
	SaveUserAndProgress(u *models.User, p *models.Progress) (bool, error)
}

// ProgressUpdate carries one orchestrated update. Chapter 0 means no chapter
// was completed; an empty Achievement means none was earned.
type ProgressUpdate struct {
	Chapter     int               `json:"chapter"`
	Choices     map[string]string `json:"choices"`
	Achievement string            `json:"achievement"`
}

type ProgressService struct {
	store ProgressStore
}

func NewProgressService(store ProgressStore) *ProgressService {
	return &ProgressService{store: store}
}

// ApplyProgressUpdate merges upd into fresh copies of progress and user.
// Completing a chapter is idempotent: the chapter joins the completed set at
// most once and awards ChapterXP only on first completion. Choice updates are
// last-write-wins per key; achievements are a set in first-insertion order.
// The inputs are never mutated, so a failed save can retry from clean state.
func ApplyProgressUpdate(progress *models.Progress, user *models.User, upd ProgressUpdate) (*models.Progress, *models.User, error) {
	if progress == nil || user == nil {
		return nil, nil, NewInvalidError("progress and user required")
	}
	if upd.Chapter < 0 {
		return nil, nil, NewInvalidError("chapter must be positive")
	}
	np := cloneProgress(progress)
	nu := *user

	if upd.Chapter > 0 && !containsInt(np.CompletedChapters, upd.Chapter) {
		np.CompletedChapters = append(np.CompletedChapters, upd.Chapter)
		level, xp, err := ApplyExperience(nu.Level, nu.Experience, ChapterXP)
		if err != nil {
			return nil, nil, err
		}
		nu.Level, nu.Experience = level, xp
	}
	if len(upd.Choices) > 0 {
		if np.Choices == nil {
			np.Choices = make(map[string]string, len(upd.Choices))
		}
		for k, v := range upd.Choices {
			np.Choices[k] = v
		}
	}
	if upd.Achievement != "" && !containsString(np.Achievements, upd.Achievement) {
		np.Achievements = append(np.Achievements, upd.Achievement)
	}
	return np, &nu, nil
}

// Get returns the user's progress record.
func (s *ProgressService) Get(userID string) (*models.Progress, error) {
	p, err := s.store.GetProgress(userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NewNotFoundError("progress not found")
	}
	return p, nil
}

// Update loads the user's records, applies upd, and saves user and progress
// as a single versioned unit. If a concurrent request won the write, the
// whole read-compute-write is retried once with fresh state before the
// conflict is surfaced.
func (s *ProgressService) Update(userID string, upd ProgressUpdate) (*models.Progress, error) {
	for attempt := 0; attempt < 2; attempt++ {
		user, err := s.store.GetUser(userID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, NewNotFoundError("user not found")
		}
		progress, err := s.store.GetProgress(userID)
		if err != nil {
			return nil, err
		}
		if progress == nil {
			return nil, NewNotFoundError("progress not found")
		}
		np, nu, err := ApplyProgressUpdate(progress, user, upd)
		if err != nil {
			return nil, err
		}
		ok, err := s.store.SaveUserAndProgress(nu, np)
		if err != nil {
			return nil, err
		}
		if ok {
			return np, nil
		}
	}
	return nil, NewConflictError("progress was updated concurrently")
}

func cloneProgress(p *models.Progress) *models.Progress {
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

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
