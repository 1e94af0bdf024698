package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/novalabs/nova/internal/api"
	"github.com/novalabs/nova/internal/models"
)

// SQLiteStore persists records in a single sqlite file. Set and map fields
// are JSON-encoded columns, keeping each record a self-contained document.
// Every update is compare-and-swap on the row's version column.
type SQLiteStore struct {
	db *sqlx.DB
}

// Open connects to the sqlite file at path with a busy timeout. The pool is
// capped at one connection since sqlite allows a single writer.
func Open(path string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", path)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

func NewSQLiteStore(db *sqlx.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func NewStore(db *sqlx.DB) (api.Store, error) {
	return NewSQLiteStore(db)
}

var _ api.Store = (*SQLiteStore)(nil)

type userRow struct {
	ID         string       `db:"id"`
	Username   string       `db:"username"`
	Email      string       `db:"email"`
	PassHash   []byte       `db:"pass_hash"`
	Avatar     string       `db:"avatar"`
	Level      int          `db:"level"`
	Experience int          `db:"experience"`
	Streak     int          `db:"streak"`
	LastLogin  sql.NullTime `db:"last_login"`
	Language   string       `db:"language"`
	CreatedAt  time.Time    `db:"created_at"`
	Version    int64        `db:"version"`
}

func toUserRow(u *models.User) userRow {
	row := userRow{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		PassHash:   u.PassHash,
		Avatar:     u.Avatar,
		Level:      u.Level,
		Experience: u.Experience,
		Streak:     u.Streak,
		Language:   u.Language,
		CreatedAt:  u.CreatedAt,
		Version:    u.Version,
	}
	if u.LastLogin != nil {
		row.LastLogin = sql.NullTime{Time: *u.LastLogin, Valid: true}
	}
	return row
}

func fromUserRow(row *userRow) *models.User {
	u := &models.User{
		ID:         row.ID,
		Username:   row.Username,
		Email:      row.Email,
		PassHash:   row.PassHash,
		Avatar:     row.Avatar,
		Level:      row.Level,
		Experience: row.Experience,
		Streak:     row.Streak,
		Language:   row.Language,
		CreatedAt:  row.CreatedAt,
		Version:    row.Version,
	}
	if row.LastLogin.Valid {
		t := row.LastLogin.Time
		u.LastLogin = &t
	}
	return u
}

const insertUserSQL = `INSERT INTO users
(id, username, email, pass_hash, avatar, level, experience, streak, last_login, language, created_at, version)
VALUES (:id, :username, :email, :pass_hash, :avatar, :level, :experience, :streak, :last_login, :language, :created_at, :version)`

const updateUserSQL = `UPDATE users SET
username = :username, email = :email, pass_hash = :pass_hash, avatar = :avatar,
level = :level, experience = :experience, streak = :streak, last_login = :last_login,
language = :language, version = version + 1
WHERE id = :id AND version = :version`

func (s *SQLiteStore) AddUser(u *models.User) error {
	if _, err := s.db.NamedExec(insertUserSQL, toUserRow(u)); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetUser(id string) (*models.User, error) {
	return s.getUserWhere("id = ?", id)
}

func (s *SQLiteStore) FindUserByEmail(email string) (*models.User, error) {
	return s.getUserWhere("lower(email) = lower(?)", email)
}

func (s *SQLiteStore) FindUserByUsername(username string) (*models.User, error) {
	return s.getUserWhere("lower(username) = lower(?)", username)
}

func (s *SQLiteStore) getUserWhere(cond string, arg any) (*models.User, error) {
	var row userRow
	err := s.db.Get(&row, "SELECT * FROM users WHERE "+cond, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return fromUserRow(&row), nil
}

func (s *SQLiteStore) UpdateUser(u *models.User) (bool, error) {
	res, err := s.db.NamedExec(updateUserSQL, toUserRow(u))
	if err != nil {
		return false, fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	u.Version++
	return true, nil
}

func (s *SQLiteStore) ListTopUsers(limit int) ([]*models.User, error) {
	var rows []userRow
	err := s.db.Select(&rows, `SELECT * FROM users ORDER BY level DESC, experience DESC, username ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list top users: %w", err)
	}
	out := make([]*models.User, 0, len(rows))
	for i := range rows {
		out = append(out, fromUserRow(&rows[i]))
	}
	return out, nil
}

type progressRow struct {
	UserID            string         `db:"user_id"`
	Chapter           int            `db:"chapter"`
	CompletedChapters sql.NullString `db:"completed_chapters"`
	Choices           sql.NullString `db:"choices"`
	Achievements      sql.NullString `db:"achievements"`
	Version           int64          `db:"version"`
}

func toProgressRow(p *models.Progress) (progressRow, error) {
	chapters, err := encodeJSON(p.CompletedChapters)
	if err != nil {
		return progressRow{}, err
	}
	choices, err := encodeJSON(p.Choices)
	if err != nil {
		return progressRow{}, err
	}
	achievements, err := encodeJSON(p.Achievements)
	if err != nil {
		return progressRow{}, err
	}
	return progressRow{
		UserID:            p.UserID,
		Chapter:           p.Chapter,
		CompletedChapters: chapters,
		Choices:           choices,
		Achievements:      achievements,
		Version:           p.Version,
	}, nil
}

func fromProgressRow(row *progressRow) *models.Progress {
	return &models.Progress{
		UserID:            row.UserID,
		Chapter:           row.Chapter,
		CompletedChapters: decodeIntSlice(row.CompletedChapters),
		Choices:           decodeStringMap(row.Choices),
		Achievements:      decodeStringSlice(row.Achievements),
		Version:           row.Version,
	}
}

const insertProgressSQL = `INSERT INTO progress
(user_id, chapter, completed_chapters, choices, achievements, version)
VALUES (:user_id, :chapter, :completed_chapters, :choices, :achievements, :version)`

const updateProgressSQL = `UPDATE progress SET
chapter = :chapter, completed_chapters = :completed_chapters, choices = :choices,
achievements = :achievements, version = version + 1
WHERE user_id = :user_id AND version = :version`

func (s *SQLiteStore) AddProgress(p *models.Progress) error {
	row, err := toProgressRow(p)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if _, err := s.db.NamedExec(insertProgressSQL, row); err != nil {
		return fmt.Errorf("insert progress: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetProgress(userID string) (*models.Progress, error) {
	var row progressRow
	err := s.db.Get(&row, "SELECT * FROM progress WHERE user_id = ?", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return fromProgressRow(&row), nil
}

// SaveUserAndProgress applies both versioned updates in one transaction;
// if either version check fails the transaction rolls back and neither
// document changes.
func (s *SQLiteStore) SaveUserAndProgress(u *models.User, p *models.Progress) (bool, error) {
	row, err := toProgressRow(p)
	if err != nil {
		return false, fmt.Errorf("encode progress: %w", err)
	}
	tx, err := s.db.Beginx()
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.NamedExec(updateUserSQL, toUserRow(u))
	if err != nil {
		return false, fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return false, err
	}
	res, err = tx.NamedExec(updateProgressSQL, row)
	if err != nil {
		return false, fmt.Errorf("update progress: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	u.Version++
	p.Version++
	return true, nil
}

type quizRow struct {
	ID         string         `db:"id"`
	Title      string         `db:"title"`
	Category   sql.NullString `db:"category"`
	Difficulty sql.NullString `db:"difficulty"`
	Language   string         `db:"language"`
	Questions  string         `db:"questions"`
}

func toQuizRow(q *models.Quiz) (quizRow, error) {
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return quizRow{}, err
	}
	return quizRow{
		ID:         q.ID,
		Title:      q.Title,
		Category:   toNullString(q.Category),
		Difficulty: toNullString(q.Difficulty),
		Language:   q.Language,
		Questions:  string(questions),
	}, nil
}

func fromQuizRow(row *quizRow) (*models.Quiz, error) {
	q := &models.Quiz{
		ID:         row.ID,
		Title:      row.Title,
		Category:   row.Category.String,
		Difficulty: row.Difficulty.String,
		Language:   row.Language,
	}
	if err := json.Unmarshal([]byte(row.Questions), &q.Questions); err != nil {
		return nil, fmt.Errorf("decode quiz questions: %w", err)
	}
	return q, nil
}

const insertQuizSQL = `INSERT INTO quizzes (id, title, category, difficulty, language, questions)
VALUES (:id, :title, :category, :difficulty, :language, :questions)`

func (s *SQLiteStore) AddQuiz(q *models.Quiz) error {
	row, err := toQuizRow(q)
	if err != nil {
		return fmt.Errorf("encode quiz: %w", err)
	}
	if _, err := s.db.NamedExec(insertQuizSQL, row); err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetQuiz(id string) (*models.Quiz, error) {
	var row quizRow
	err := s.db.Get(&row, "SELECT * FROM quizzes WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return fromQuizRow(&row)
}

func (s *SQLiteStore) ListQuizzes(category, language string) ([]*models.Quiz, error) {
	query := "SELECT * FROM quizzes"
	var conds []string
	var args []any
	if category != "" {
		conds = append(conds, "category = ?")
		args = append(args, category)
	}
	if language != "" {
		conds = append(conds, "language = ?")
		args = append(args, language)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"
	var rows []quizRow
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	out := make([]*models.Quiz, 0, len(rows))
	for i := range rows {
		q, err := fromQuizRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *SQLiteStore) ReplaceQuizzes(qs []*models.Quiz) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec("DELETE FROM quizzes"); err != nil {
		return fmt.Errorf("clear quizzes: %w", err)
	}
	for _, q := range qs {
		row, err := toQuizRow(q)
		if err != nil {
			return fmt.Errorf("encode quiz: %w", err)
		}
		if _, err := tx.NamedExec(insertQuizSQL, row); err != nil {
			return fmt.Errorf("insert quiz: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func toNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func encodeJSON(v any) (sql.NullString, error) {
	switch x := v.(type) {
	case []int:
		if len(x) == 0 {
			return sql.NullString{}, nil
		}
	case []string:
		if len(x) == 0 {
			return sql.NullString{}, nil
		}
	case map[string]string:
		if len(x) == 0 {
			return sql.NullString{}, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeIntSlice(ns sql.NullString) []int {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil
	}
	var out []int
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		return nil
	}
	return out
}

func decodeStringSlice(ns sql.NullString) []string {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		return nil
	}
	return out
}

func decodeStringMap(ns sql.NullString) map[string]string {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		return nil
	}
	return out
}
