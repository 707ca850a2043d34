package response

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/mcoot/matchengine-go/internal/engine"
	"github.com/mcoot/matchengine-go/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:         string(p.ID),
		Username:   p.Username,
		CreatedAt:  p.CreatedAt,
		LastActive: p.LastActive,
	}
}

// Outcome represents a match outcome
type Outcome struct {
	Kind   string  `json:"kind"`
	Winner *string `json:"winner,omitempty"`
}

// Match represents a match record in API responses
type Match struct {
	ID        string          `json:"id"`
	GameType  string          `json:"game_type"`
	Player1   string          `json:"player1"`
	Player2   string          `json:"player2"`
	State     json.RawMessage `json:"state"`
	Status    string          `json:"status"`
	Outcome   *Outcome        `json:"outcome,omitempty"`
	StartTime time.Time       `json:"start_time"`
	EndTime   *time.Time      `json:"end_time,omitempty"`
}

// MatchFromModel converts a model.Match to a response Match
func MatchFromModel(m *model.Match) Match {
	out := Match{
		ID:        string(m.ID),
		GameType:  string(m.GameType),
		Player1:   string(m.Player1ID),
		Player2:   string(m.Player2ID),
		State:     json.RawMessage(m.State),
		Status:    string(m.Status),
		StartTime: m.StartTime,
	}
	if m.Outcome.Kind != model.OutcomeNone {
		outcome := &Outcome{Kind: string(m.Outcome.Kind)}
		if m.Outcome.WinnerID != "" {
			w := string(m.Outcome.WinnerID)
			outcome.Winner = &w
		}
		out.Outcome = outcome
	}
	if !m.EndTime.IsZero() {
		end := m.EndTime
		out.EndTime = &end
	}
	return out
}

// Turn represents one recorded turn
type Turn struct {
	TurnNumber int             `json:"turn_number"`
	PlayerID   string          `json:"player_id"`
	Move       json.RawMessage `json:"move"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TurnFromModel converts a model.Turn to a response Turn
func TurnFromModel(t *model.Turn) Turn {
	return Turn{
		TurnNumber: t.TurnNumber,
		PlayerID:   string(t.PlayerID),
		Move:       json.RawMessage(t.Move),
		CreatedAt:  t.CreatedAt,
	}
}

// MatchDetail is a match record together with its turn history
type MatchDetail struct {
	Match Match  `json:"match"`
	Turns []Turn `json:"turns"`
}

// Status is the live engine status snapshot plus the durable player count.
// On the wire it is a flat document: one "<type>_queue" count per game type
// alongside the aggregate counters.
type Status struct {
	Queues        map[string]int
	ActiveMatches int
	Sessions      int
	TotalPlayers  int
}

// MarshalJSON implements json.Marshaler
func (s Status) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, len(s.Queues)+3)
	for gameType, n := range s.Queues {
		out[gameType+"_queue"] = n
	}
	out["active_matches"] = s.ActiveMatches
	out["sessions"] = s.Sessions
	out["total_players"] = s.TotalPlayers
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Queues = make(map[string]int)
	for key, n := range raw {
		switch key {
		case "active_matches":
			s.ActiveMatches = n
		case "sessions":
			s.Sessions = n
		case "total_players":
			s.TotalPlayers = n
		default:
			s.Queues[strings.TrimSuffix(key, "_queue")] = n
		}
	}
	return nil
}

// StatusFromStats converts engine.Stats to a response Status
func StatusFromStats(s engine.Stats, totalPlayers int) Status {
	queues := make(map[string]int, len(s.Queues))
	for gameType, n := range s.Queues {
		queues[string(gameType)] = n
	}
	return Status{
		Queues:        queues,
		ActiveMatches: s.ActiveMatches,
		Sessions:      s.Sessions,
		TotalPlayers:  totalPlayers,
	}
}

// GameTypes lists the game types the server can arbitrate
type GameTypes struct {
	GameTypes []string `json:"game_types"`
}
