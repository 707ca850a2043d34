package engine

import "github.com/mcoot/matchengine-go/internal/model"

// Conn is the live connection handle the engine notifies. Send must not
// block: implementations buffer and drop rather than stall the event loop.
type Conn interface {
	Send(event model.EventType, payload any)
}

// sessionRegistry maps player identity to live connection and back.
// Exactly one connection is tracked per player at a time; it is owned by
// the engine's event loop and needs no locking.
type sessionRegistry struct {
	byPlayer map[model.PlayerID]Conn
	byConn   map[Conn]model.PlayerID
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		byPlayer: make(map[model.PlayerID]Conn),
		byConn:   make(map[Conn]model.PlayerID),
	}
}

// register binds a connection to a player, silently superseding any prior
// connection for that player. The superseded connection is not closed
// here; that is the transport's concern.
func (r *sessionRegistry) register(playerID model.PlayerID, conn Conn) {
	if prev, ok := r.byPlayer[playerID]; ok && prev != conn {
		delete(r.byConn, prev)
	}
	if prevPlayer, ok := r.byConn[conn]; ok && prevPlayer != playerID {
		delete(r.byPlayer, prevPlayer)
	}
	r.byPlayer[playerID] = conn
	r.byConn[conn] = playerID
}

// unregister removes a connection binding, returning the owning player.
// A connection superseded by a re-registration no longer owns a player
// and unbinds as a no-op.
func (r *sessionRegistry) unregister(conn Conn) (model.PlayerID, bool) {
	playerID, ok := r.byConn[conn]
	if !ok {
		return "", false
	}
	delete(r.byConn, conn)
	if r.byPlayer[playerID] == conn {
		delete(r.byPlayer, playerID)
	}
	return playerID, true
}

// conn returns the live connection for a player, if any
func (r *sessionRegistry) conn(playerID model.PlayerID) (Conn, bool) {
	conn, ok := r.byPlayer[playerID]
	return conn, ok
}

// count returns the number of live sessions
func (r *sessionRegistry) count() int {
	return len(r.byConn)
}
