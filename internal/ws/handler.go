package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mcoot/matchengine-go/internal/engine"
)

// Handler upgrades HTTP requests to websocket sessions and hands each
// connection to the engine.
type Handler struct {
	engine   *engine.Engine
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewHandler(eng *engine.Engine, logger *slog.Logger) *Handler {
	return &Handler{
		engine: eng,
		logger: logger.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Clients are standalone game programs, not browsers
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := newClient(conn, h.engine, h.logger)
	go client.writePump()
	go client.readPump()
}
