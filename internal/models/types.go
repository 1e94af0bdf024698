package models

import "time"

// User is a learner account. The password is stored only as a bcrypt hash.
// Version is bumped by the store on every successful write and is used for
// optimistic concurrency; it never appears on the wire.
type User struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	PassHash   []byte     `json:"-"`
	Avatar     string     `json:"avatar,omitempty"`
	Level      int        `json:"level"`
	Experience int        `json:"experience"`
	Streak     int        `json:"streak"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	Language   string     `json:"language"`
	CreatedAt  time.Time  `json:"createdAt"`
	Version    int64      `json:"-"`
}

// Progress tracks one user's position in the interactive story. Completed
// chapters and achievements have set semantics; Choices remembers branching
// decisions with last-write-wins per key.
type Progress struct {
	UserID            string            `json:"userId"`
	Chapter           int               `json:"chapter"`
	CompletedChapters []int             `json:"completedChapters"`
	Choices           map[string]string `json:"choices,omitempty"`
	Achievements      []string          `json:"achievements"`
	Version           int64             `json:"-"`
}

// Quiz is static reference content. Question order matters: the position of
// a question is the addressing scheme for submitted answers.
type Quiz struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Category   string     `json:"category,omitempty"`
	Difficulty string     `json:"difficulty,omitempty"`
	Language   string     `json:"language"`
	Questions  []Question `json:"questions"`
}

// Question is a single multiple-choice item. CorrectAnswer is a 0-based
// index into Options.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}
