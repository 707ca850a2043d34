package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/matchengine-go/internal/api/response"
	"github.com/mcoot/matchengine-go/internal/model"
	"github.com/mcoot/matchengine-go/internal/storage"
)

// PlayerHandler handles player record endpoints
type PlayerHandler struct {
	store storage.Storage
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(store storage.Storage) *PlayerHandler {
	return &PlayerHandler{
		store: store,
	}
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["id"])

	player, err := h.store.GetPlayer(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}
