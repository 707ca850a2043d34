package model

import (
	"encoding/json"
	"time"
)

// MatchID uniquely identifies a match
type MatchID string

// GameType selects which rules oracle and waiting queue a player targets
type GameType string

const (
	GameTypeTicTacToe   GameType = "tic-tac-toe"
	GameTypeConnectFour GameType = "connect-four"
)

// GameState is the opaque game state produced and consumed by the rules
// oracle. The engine persists and relays it but never interprets it.
type GameState = json.RawMessage

// Move is an opaque move payload, interpreted only by the rules oracle.
type Move = json.RawMessage

// Slot is the positional designation (1 or 2) used inside a match and by
// the rules oracle, distinct from global player identity.
type Slot int

const (
	SlotNone Slot = 0
	Slot1    Slot = 1
	Slot2    Slot = 2
)

// MatchStatus represents the lifecycle phase of a match
type MatchStatus string

const (
	MatchStatusActive   MatchStatus = "active"
	MatchStatusFinished MatchStatus = "finished"
)

// OutcomeKind distinguishes the terminal paths of a match
type OutcomeKind string

const (
	OutcomeNone        OutcomeKind = "none"
	OutcomeWin         OutcomeKind = "win"
	OutcomeDraw        OutcomeKind = "draw"
	OutcomeResignation OutcomeKind = "resignation"
)

// Outcome records how a match ended. Set at most once.
type Outcome struct {
	Kind     OutcomeKind
	WinnerID PlayerID // set for win and resignation outcomes
}

// Match represents a two-party game session. The slot <-> identity mapping
// (Player1ID = slot 1, Player2ID = slot 2) is fixed at creation and never
// changes.
type Match struct {
	ID          MatchID
	Player1ID   PlayerID
	Player2ID   PlayerID
	GameType    GameType
	State       GameState
	CurrentSlot Slot
	Status      MatchStatus
	Outcome     Outcome
	StartTime   time.Time
	EndTime     time.Time
}

// SlotOf maps a player identity to its positional slot, or SlotNone if the
// player is not a participant.
func (m *Match) SlotOf(playerID PlayerID) Slot {
	switch playerID {
	case m.Player1ID:
		return Slot1
	case m.Player2ID:
		return Slot2
	default:
		return SlotNone
	}
}

// PlayerAt maps a positional slot back to the player identity fixed at
// match creation. Returns the empty PlayerID for SlotNone.
func (m *Match) PlayerAt(slot Slot) PlayerID {
	switch slot {
	case Slot1:
		return m.Player1ID
	case Slot2:
		return m.Player2ID
	default:
		return ""
	}
}

// Opponent returns the other participant's identity.
func (m *Match) Opponent(playerID PlayerID) PlayerID {
	if playerID == m.Player1ID {
		return m.Player2ID
	}
	return m.Player1ID
}

// IsFinished reports whether the match has reached its terminal state.
func (m *Match) IsFinished() bool {
	return m.Status == MatchStatusFinished
}

// Turn is an append-only record of a single applied move.
type Turn struct {
	ID         string
	MatchID    MatchID
	PlayerID   PlayerID
	Move       Move
	TurnNumber int // strictly increasing per match, starting at 1
	CreatedAt  time.Time
}
