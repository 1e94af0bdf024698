package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/novalabs/nova/internal/api"
	"github.com/novalabs/nova/internal/db"
	"github.com/novalabs/nova/internal/middleware"
	"github.com/novalabs/nova/internal/utils"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Printf("loaded environment from .env")
	}

	addr := utils.SafeEnv("NOVA_ADDR", ":8080")
	commit := os.Getenv("NOVA_COMMIT")
	buildTime := os.Getenv("NOVA_BUILD_TIME")

	store, err := openStore()
	if err != nil {
		log.Fatalf("store init: %v", err)
	}

	mux := http.NewServeMux()
	api.NewRouter(store).Register(mux)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "NOVA API",
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	// Serve the built frontend when bundled into the same image.
	if staticDir := os.Getenv("NOVA_STATIC_DIR"); staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}

	handler := middleware.CORS(middleware.SecureHeaders(middleware.NoStore(middleware.Language(middleware.WithAuth(mux)))))

	log.Printf("NOVA server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// openStore picks sqlite when NOVA_DB_PATH is set, otherwise an in-memory
// store that loses state on restart (fine for local development).
func openStore() (api.Store, error) {
	dbPath := os.Getenv("NOVA_DB_PATH")
	if dbPath == "" {
		log.Printf("NOVA_DB_PATH not set; using in-memory store")
		return api.NewMemoryStore(), nil
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(sqlDB, os.Getenv("NOVA_MIGRATIONS_DIR")); err != nil {
		return nil, err
	}
	return db.NewStore(sqlDB)
}
