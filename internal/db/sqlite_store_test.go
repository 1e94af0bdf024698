package db

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/novalabs/nova/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	conn, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	conn.SetMaxOpenConns(1)
	require.NoError(t, RunMigrations(conn, ""))
	store, err := NewSQLiteStore(conn)
	require.NoError(t, err)
	return store
}

func testUser(id, username, email string) *models.User {
	return &models.User{
		ID:        id,
		Username:  username,
		Email:     email,
		PassHash:  []byte("hash"),
		Avatar:    "default-avatar.png",
		Level:     1,
		Language:  "english",
		CreatedAt: time.Now().UTC(),
	}
}

func TestSQLiteUserRoundTrip(t *testing.T) {
	store := newTestStore(t)
	login := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	u := testUser("u1", "ada", "ada@example.com")
	u.Streak = 3
	u.LastLogin = &login
	require.NoError(t, store.AddUser(u))

	got, err := store.GetUser("u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "ada", got.Username)
	require.Equal(t, 3, got.Streak)
	require.NotNil(t, got.LastLogin)
	require.True(t, got.LastLogin.Equal(login))

	byEmail, err := store.FindUserByEmail("ADA@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)

	byName, err := store.FindUserByUsername("Ada")
	require.NoError(t, err)
	require.NotNil(t, byName)

	missing, err := store.GetUser("nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestSQLiteUpdateUserCAS(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.AddUser(testUser("u1", "ada", "ada@example.com")))

	fresh, err := store.GetUser("u1")
	require.NoError(t, err)
	stale, err := store.GetUser("u1")
	require.NoError(t, err)

	fresh.Experience = 100
	ok, err := store.UpdateUser(fresh)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), fresh.Version)

	stale.Experience = 999
	ok, err = store.UpdateUser(stale)
	require.NoError(t, err)
	require.False(t, ok)

	cur, err := store.GetUser("u1")
	require.NoError(t, err)
	require.Equal(t, 100, cur.Experience)
}

func TestSQLiteProgressRoundTrip(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.AddUser(testUser("u1", "ada", "ada@example.com")))
	require.NoError(t, store.AddProgress(&models.Progress{UserID: "u1", Chapter: 1}))

	p, err := store.GetProgress("u1")
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, 1, p.Chapter)
	require.Empty(t, p.CompletedChapters)

	p.CompletedChapters = []int{1, 2}
	p.Choices = map[string]string{"c1-scene2": "walked-away"}
	p.Achievements = []string{"first-chapter"}
	u, err := store.GetUser("u1")
	require.NoError(t, err)
	ok, err := store.SaveUserAndProgress(u, p)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := store.GetProgress("u1")
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, got.CompletedChapters)
	require.Equal(t, "walked-away", got.Choices["c1-scene2"])
	require.Equal(t, []string{"first-chapter"}, got.Achievements)
	require.Equal(t, int64(1), got.Version)
}

func TestSQLiteSaveUserAndProgressRollsBack(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.AddUser(testUser("u1", "ada", "ada@example.com")))
	require.NoError(t, store.AddProgress(&models.Progress{UserID: "u1", Chapter: 1}))

	u, err := store.GetUser("u1")
	require.NoError(t, err)
	p, err := store.GetProgress("u1")
	require.NoError(t, err)

	// A concurrent writer bumps the user version first.
	racer, err := store.GetUser("u1")
	require.NoError(t, err)
	racer.Streak = 2
	ok, err := store.UpdateUser(racer)
	require.NoError(t, err)
	require.True(t, ok)

	u.Experience = 100
	p.CompletedChapters = []int{1}
	ok, err = store.SaveUserAndProgress(u, p)
	require.NoError(t, err)
	require.False(t, ok)

	cur, err := store.GetProgress("u1")
	require.NoError(t, err)
	require.Empty(t, cur.CompletedChapters, "progress write must roll back with the user write")
}

func TestSQLiteQuizzes(t *testing.T) {
	store := newTestStore(t)
	quiz := &models.Quiz{
		ID:         "q1",
		Title:      "Basics",
		Category:   "Education",
		Difficulty: "Beginner",
		Language:   "english",
		Questions: []models.Question{
			{Question: "First?", Options: []string{"a", "b"}, CorrectAnswer: 1, Explanation: "b"},
		},
	}
	require.NoError(t, store.AddQuiz(quiz))
	require.NoError(t, store.AddQuiz(&models.Quiz{ID: "q2", Title: "Hindi", Language: "hindi"}))

	got, err := store.GetQuiz("q1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Questions, 1)
	require.Equal(t, 1, got.Questions[0].CorrectAnswer)

	english, err := store.ListQuizzes("", "english")
	require.NoError(t, err)
	require.Len(t, english, 1)

	education, err := store.ListQuizzes("Education", "")
	require.NoError(t, err)
	require.Len(t, education, 1)

	require.NoError(t, store.ReplaceQuizzes([]*models.Quiz{{ID: "q3", Title: "New", Language: "english"}}))
	all, err := store.ListQuizzes("", "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "q3", all[0].ID)
}
