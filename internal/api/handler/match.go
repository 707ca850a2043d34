package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/matchengine-go/internal/api/response"
	"github.com/mcoot/matchengine-go/internal/model"
	"github.com/mcoot/matchengine-go/internal/storage"
)

// MatchHandler handles match record endpoints
type MatchHandler struct {
	store storage.Storage
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(store storage.Storage) *MatchHandler {
	return &MatchHandler{
		store: store,
	}
}

// Get handles GET /api/v1/matches/{id}
// Returns the match record together with its full turn history.
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["id"])

	match, err := h.store.GetMatch(r.Context(), matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	turns, err := h.store.GetTurnsForMatch(r.Context(), matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	detail := response.MatchDetail{
		Match: response.MatchFromModel(match),
		Turns: make([]response.Turn, len(turns)),
	}
	for i, turn := range turns {
		detail.Turns[i] = response.TurnFromModel(turn)
	}

	response.JSON(w, http.StatusOK, detail)
}
