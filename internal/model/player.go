package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a registered participant.
// Identity is owned by the persistence layer; the engine only ever holds
// the ID plus a live connection handle.
type Player struct {
	ID         PlayerID
	Username   string // unique per store
	CreatedAt  time.Time
	LastActive time.Time
}
