package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case Status:
		o.printStatus(v)
	case GameTypes:
		o.printGameTypes(v)
	case MatchDetail:
		o.printMatchDetail(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// Status response type. The server sends a flat document with one
// "<type>_queue" count per game type alongside the aggregate counters.
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

// GameTypes response type
type GameTypes struct {
	GameTypes []string `json:"game_types"`
}

// Outcome response type
type Outcome struct {
	Kind   string  `json:"kind"`
	Winner *string `json:"winner,omitempty"`
}

// Match response type
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

// Turn response type
type Turn struct {
	TurnNumber int             `json:"turn_number"`
	PlayerID   string          `json:"player_id"`
	Move       json.RawMessage `json:"move"`
	CreatedAt  time.Time       `json:"created_at"`
}

// MatchDetail response type
type MatchDetail struct {
	Match Match  `json:"match"`
	Turns []Turn `json:"turns"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.Username, p.ID)
	fmt.Printf("Created: %s\n", p.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Last Active: %s\n", p.LastActive.Format(time.RFC3339))
}

func (o *Output) printStatus(s Status) {
	fmt.Printf("Active Matches: %d\n", s.ActiveMatches)
	fmt.Printf("Connected Sessions: %d\n", s.Sessions)
	fmt.Printf("Total Players: %d\n", s.TotalPlayers)
	if len(s.Queues) == 0 {
		fmt.Println("Queues: empty")
		return
	}
	fmt.Println("Queues:")
	gameTypes := make([]string, 0, len(s.Queues))
	for gameType := range s.Queues {
		gameTypes = append(gameTypes, gameType)
	}
	sort.Strings(gameTypes)
	for _, gameType := range gameTypes {
		fmt.Printf("  %s: %d waiting\n", gameType, s.Queues[gameType])
	}
}

func (o *Output) printGameTypes(g GameTypes) {
	fmt.Printf("Supported game types (%d):\n", len(g.GameTypes))
	for _, gameType := range g.GameTypes {
		fmt.Printf("  - %s\n", gameType)
	}
}

func (o *Output) printMatchDetail(d MatchDetail) {
	m := d.Match
	fmt.Printf("Match: %s\n", m.ID)
	fmt.Printf("Game Type: %s\n", m.GameType)
	fmt.Printf("Players: %s vs %s\n", m.Player1, m.Player2)
	fmt.Printf("Status: %s\n", m.Status)
	if m.Outcome != nil {
		fmt.Printf("Outcome: %s", m.Outcome.Kind)
		if m.Outcome.Winner != nil {
			fmt.Printf(" (winner: %s)", *m.Outcome.Winner)
		}
		fmt.Println()
	}
	fmt.Printf("Started: %s\n", m.StartTime.Format(time.RFC3339))
	if m.EndTime != nil {
		fmt.Printf("Ended: %s\n", m.EndTime.Format(time.RFC3339))
	}

	fmt.Printf("Turns (%d):\n", len(d.Turns))
	for _, turn := range d.Turns {
		fmt.Printf("  %3d. %s %s\n", turn.TurnNumber, turn.PlayerID, string(turn.Move))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
