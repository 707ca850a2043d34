package model

// EventType identifies a wire event on the real-time channel
type EventType string

// Inbound events (client -> server)
const (
	EventRegister    EventType = "register"
	EventJoinQueue   EventType = "join_queue"
	EventMakeMove    EventType = "make_move"
	EventResignMatch EventType = "resign_match"
)

// Outbound events (server -> client)
const (
	EventRegistered           EventType = "registered"
	EventQueueJoined          EventType = "queue_joined"
	EventMatchFound           EventType = "match_found"
	EventGameUpdate           EventType = "game_update"
	EventOpponentDisconnected EventType = "opponent_disconnected"
	EventError                EventType = "error"
)

// RegisterPayload is the inbound register event body
type RegisterPayload struct {
	Username string `json:"username"`
}

// JoinQueuePayload is the inbound join_queue event body
// The username is advisory; the stored record for player_id is
// authoritative.
type JoinQueuePayload struct {
	PlayerID PlayerID `json:"player_id"`
	Username string   `json:"username,omitempty"`
	GameType GameType `json:"game_type"`
}

// MakeMovePayload is the inbound make_move event body
type MakeMovePayload struct {
	MatchID  MatchID  `json:"match_id"`
	PlayerID PlayerID `json:"player_id"`
	Move     Move     `json:"move"`
}

// ResignMatchPayload is the inbound resign_match event body
type ResignMatchPayload struct {
	MatchID  MatchID  `json:"match_id"`
	PlayerID PlayerID `json:"player_id"`
}

// RegisteredPayload confirms a registration
type RegisteredPayload struct {
	PlayerID PlayerID `json:"player_id"`
	Username string   `json:"username"`
}

// QueueJoinedPayload confirms queue entry with the player's position
type QueueJoinedPayload struct {
	Position int      `json:"position"`
	GameType GameType `json:"game_type"`
}

// MatchFoundPayload announces a new match to one participant.
// Exactly one of the two participants receives YourTurn=true.
type MatchFoundPayload struct {
	MatchID  MatchID   `json:"match_id"`
	Opponent string    `json:"opponent"`
	State    GameState `json:"state"`
	YourTurn bool      `json:"your_turn"`
	GameType GameType  `json:"game_type"`
}

// GameUpdatePayload carries the latest match state to one participant,
// possibly including the terminal outcome.
type GameUpdatePayload struct {
	MatchID        MatchID   `json:"match_id"`
	State          GameState `json:"state"`
	YourTurn       bool      `json:"your_turn"`
	Winner         PlayerID  `json:"winner,omitempty"`
	GameOver       bool      `json:"game_over"`
	IsDraw         bool      `json:"is_draw"`
	Resignation    bool      `json:"resignation,omitempty"`
	ResignedPlayer PlayerID  `json:"resigned_player,omitempty"`
}

// OpponentDisconnectedPayload informs the surviving participant of a forfeit
type OpponentDisconnectedPayload struct {
	MatchID MatchID `json:"match_id"`
}

// ErrorPayload reports a non-fatal error to the originating connection
type ErrorPayload struct {
	Message string `json:"message"`
}
