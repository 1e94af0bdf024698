package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/novalabs/nova/internal/middleware"
	"github.com/novalabs/nova/internal/models"
	"github.com/novalabs/nova/internal/services"
)

type Router struct {
	auth        *services.AuthService
	progress    *services.ProgressService
	quizzes     *services.QuizService
	leaderboard *services.LeaderboardService
	profile     *services.ProfileService
}

func NewRouter(store Store) *Router {
	return &Router{
		auth:        services.NewAuthService(store, middleware.SignToken),
		progress:    services.NewProgressService(store),
		quizzes:     services.NewQuizService(store),
		leaderboard: services.NewLeaderboardService(store),
		profile:     services.NewProfileService(store),
	}
}

// Register mounts all API routes. Protected routes rely on WithAuth having
// populated the request context (wired around the mux in main).
func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/register", rt.handleRegister)                                         // POST
	mux.HandleFunc("/api/login", rt.handleLogin)                                               // POST
	mux.Handle("/api/progress", middleware.RequireAuth(http.HandlerFunc(rt.handleProgress)))   // GET/POST
	mux.HandleFunc("/api/quizzes", rt.handleQuizzes)                                           // GET
	mux.Handle("/api/quizzes/", middleware.RequireAuth(http.HandlerFunc(rt.handleQuizScoped))) // POST /api/quizzes/{id}/attempt
	mux.HandleFunc("/api/leaderboard", rt.handleLeaderboard)                                   // GET
	mux.Handle("/api/profile", middleware.RequireAuth(http.HandlerFunc(rt.handleProfile)))     // PUT
	mux.HandleFunc("/api/seed-data", rt.handleSeed)                                            // GET/POST
}

type userView struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar,omitempty"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`
	Streak     int    `json:"streak"`
	Language   string `json:"language,omitempty"`
}

func viewUser(u *models.User) userView {
	return userView{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Avatar:     u.Avatar,
		Level:      u.Level,
		Experience: u.Experience,
		Streak:     u.Streak,
		Language:   u.Language,
	}
}

func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Register(req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"token": res.Token, "user": viewUser(res.User)})
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": res.Token, "user": viewUser(res.User)})
}

func (rt *Router) handleProgress(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserIDFromContext(r.Context())
	switch r.Method {
	case http.MethodGet:
		p, err := rt.progress.Get(uid)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodPost:
		var upd services.ProgressUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p, err := rt.progress.Update(uid, upd)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (rt *Router) handleQuizzes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	category := r.URL.Query().Get("category")
	language := r.URL.Query().Get("language")
	if language == "" {
		language = middleware.LanguageFromContext(r.Context())
	}
	quizzes, err := rt.quizzes.List(category, language)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

// POST /api/quizzes/{id}/attempt
func (rt *Router) handleQuizScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/quizzes/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "attempt" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Answers []int `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	uid, _ := middleware.UserIDFromContext(r.Context())
	result, err := rt.quizzes.SubmitAttempt(uid, parts[0], req.Answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	entries, err := rt.leaderboard.Top()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (rt *Router) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Username string `json:"username"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	uid, _ := middleware.UserIDFromContext(r.Context())
	user, err := rt.profile.UpdateProfile(uid, req.Username, req.Language)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewUser(user))
}

func (rt *Router) handleSeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := rt.quizzes.Seed(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "sample quizzes loaded"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		status := http.StatusInternalServerError
		switch se.Code {
		case services.ErrorInvalid:
			status = http.StatusBadRequest
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		case services.ErrorNotFound:
			status = http.StatusNotFound
		case services.ErrorConflict:
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"message": se.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "server error"})
}
