package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/matchengine-go/internal/api/handler"
	apimiddleware "github.com/mcoot/matchengine-go/internal/api/middleware"
	"github.com/mcoot/matchengine-go/internal/engine"
	basemiddleware "github.com/mcoot/matchengine-go/internal/middleware"
	"github.com/mcoot/matchengine-go/internal/rules"
	"github.com/mcoot/matchengine-go/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger  *slog.Logger
	Engine  *engine.Engine
	Rules   *rules.Registry
	Storage storage.Storage

	// WSHandler serves the realtime protocol at /ws
	WSHandler http.Handler
}

// NewRouter creates a new router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.Storage)
	matchHandler := handler.NewMatchHandler(cfg.Storage)
	statusHandler := handler.NewStatusHandler(cfg.Engine, cfg.Rules, cfg.Storage)

	loggingMiddleware := basemiddleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/status", statusHandler.Status).Methods(http.MethodGet)
	api.HandleFunc("/games", statusHandler.Games).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}", matchHandler.Get).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// The websocket endpoint sits outside the API middleware so the
	// upgrade path stays free of response wrapping.
	if cfg.WSHandler != nil {
		r.Handle("/ws", cfg.WSHandler)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
