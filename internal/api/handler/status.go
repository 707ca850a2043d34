package handler

import (
	"net/http"

	"github.com/mcoot/matchengine-go/internal/api/response"
	"github.com/mcoot/matchengine-go/internal/engine"
	"github.com/mcoot/matchengine-go/internal/rules"
	"github.com/mcoot/matchengine-go/internal/storage"
)

// StatusHandler handles live status endpoints
type StatusHandler struct {
	engine *engine.Engine
	rules  *rules.Registry
	store  storage.Storage
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(eng *engine.Engine, registry *rules.Registry, store storage.Storage) *StatusHandler {
	return &StatusHandler{
		engine: eng,
		rules:  registry,
		store:  store,
	}
}

// Status handles GET /api/v1/status
// Combines the live engine snapshot with the durable player count.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.CurrentStats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	totalPlayers, err := h.store.CountPlayers(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatusFromStats(stats, totalPlayers))
}

// Games handles GET /api/v1/games
func (h *StatusHandler) Games(w http.ResponseWriter, r *http.Request) {
	gameTypes := h.rules.GameTypes()
	out := response.GameTypes{GameTypes: make([]string, len(gameTypes))}
	for i, gameType := range gameTypes {
		out.GameTypes[i] = string(gameType)
	}

	response.JSON(w, http.StatusOK, out)
}
