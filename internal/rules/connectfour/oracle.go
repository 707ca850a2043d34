package connectfour

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcoot/matchengine-go/internal/model"
	"github.com/mcoot/matchengine-go/internal/rules"
)

const (
	rows    = 6
	cols    = 7
	winLen  = 4
	maxMove = rows * cols
)

// gameState is the oracle-private state representation. Cells hold 0 for
// empty or the slot number of the disc.
type gameState struct {
	Board         [rows][cols]int `json:"board"`
	CurrentPlayer int             `json:"current_player"`
	MovesCount    int             `json:"moves_count"`
}

// move is the oracle-private move representation
type move struct {
	Column *int `json:"column"`
}

// Oracle implements 6x7 connect-four rules with gravity drops
type Oracle struct{}

// New creates a connect-four oracle
func New() *Oracle {
	return &Oracle{}
}

var _ rules.Oracle = (*Oracle)(nil)

// Initialize returns an empty board with slot 1 to move
func (o *Oracle) Initialize(ctx context.Context) (model.GameState, error) {
	return marshalState(&gameState{CurrentPlayer: 1})
}

// Validate reports whether the move targets a non-full in-range column on
// the moving slot's turn
func (o *Oracle) Validate(ctx context.Context, state model.GameState, mv model.Move, slot model.Slot) (bool, error) {
	gs, err := unmarshalState(state)
	if err != nil {
		return false, err
	}
	m, err := unmarshalMove(mv)
	if err != nil {
		return false, err
	}

	if gs.CurrentPlayer != int(slot) {
		return false, nil
	}
	if m.Column == nil || *m.Column < 0 || *m.Column >= cols {
		return false, nil
	}
	return gs.Board[0][*m.Column] == 0, nil
}

// Apply drops the disc into the column and hands the turn to the other slot
func (o *Oracle) Apply(ctx context.Context, state model.GameState, mv model.Move, slot model.Slot) (model.GameState, error) {
	gs, err := unmarshalState(state)
	if err != nil {
		return nil, err
	}
	m, err := unmarshalMove(mv)
	if err != nil {
		return nil, err
	}
	if m.Column == nil || *m.Column < 0 || *m.Column >= cols {
		return nil, fmt.Errorf("column out of range")
	}

	row := dropRow(gs, *m.Column)
	if row < 0 {
		return nil, fmt.Errorf("column %d is full", *m.Column)
	}

	gs.Board[row][*m.Column] = int(slot)
	gs.MovesCount++
	if slot == model.Slot1 {
		gs.CurrentPlayer = 2
	} else {
		gs.CurrentPlayer = 1
	}

	return marshalState(gs)
}

// Winner returns the slot holding four in a row, or SlotNone
func (o *Oracle) Winner(ctx context.Context, state model.GameState) (model.Slot, error) {
	gs, err := unmarshalState(state)
	if err != nil {
		return model.SlotNone, err
	}
	return winner(gs), nil
}

// IsOver reports a win or a full board
func (o *Oracle) IsOver(ctx context.Context, state model.GameState) (bool, error) {
	gs, err := unmarshalState(state)
	if err != nil {
		return false, err
	}
	return winner(gs) != model.SlotNone || gs.MovesCount >= maxMove, nil
}

// IsDraw reports a full board with no winner
func (o *Oracle) IsDraw(ctx context.Context, state model.GameState) (bool, error) {
	gs, err := unmarshalState(state)
	if err != nil {
		return false, err
	}
	return gs.MovesCount >= maxMove && winner(gs) == model.SlotNone, nil
}

// CurrentSlot returns the slot the state designates to move next
func (o *Oracle) CurrentSlot(ctx context.Context, state model.GameState) (model.Slot, error) {
	gs, err := unmarshalState(state)
	if err != nil {
		return model.SlotNone, err
	}
	return model.Slot(gs.CurrentPlayer), nil
}

// dropRow returns the lowest empty row in the column, or -1 if full
func dropRow(gs *gameState, col int) int {
	for r := rows - 1; r >= 0; r-- {
		if gs.Board[r][col] == 0 {
			return r
		}
	}
	return -1
}

// directions for line checks: vertical, horizontal, both diagonals
var directions = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

func winner(gs *gameState) model.Slot {
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			mark := gs.Board[r][c]
			if mark == 0 {
				continue
			}
			for _, d := range directions {
				count := 1
				nr, nc := r+d[0], c+d[1]
				for nr >= 0 && nr < rows && nc >= 0 && nc < cols && gs.Board[nr][nc] == mark {
					count++
					if count >= winLen {
						return model.Slot(mark)
					}
					nr += d[0]
					nc += d[1]
				}
			}
		}
	}
	return model.SlotNone
}

func marshalState(gs *gameState) (model.GameState, error) {
	data, err := json.Marshal(gs)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return data, nil
}

func unmarshalState(state model.GameState) (*gameState, error) {
	var gs gameState
	if err := json.Unmarshal(state, &gs); err != nil {
		return nil, fmt.Errorf("malformed game state: %w", err)
	}
	return &gs, nil
}

func unmarshalMove(mv model.Move) (*move, error) {
	var m move
	if err := json.Unmarshal(mv, &m); err != nil {
		return nil, fmt.Errorf("malformed move: %w", err)
	}
	return &m, nil
}
