package tictactoe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcoot/matchengine-go/internal/model"
	"github.com/mcoot/matchengine-go/internal/rules"
)

const boardCells = 9

// gameState is the oracle-private state representation. Empty cells
// serialize as null so clients can distinguish them from slot marks.
type gameState struct {
	Board         [boardCells]*int `json:"board"`
	CurrentPlayer int              `json:"current_player"`
	MovesCount    int              `json:"moves_count"`
}

// move is the oracle-private move representation
type move struct {
	Position *int `json:"position"`
}

// Oracle implements the classic 3x3 tic-tac-toe rules
type Oracle struct{}

// New creates a tic-tac-toe oracle
func New() *Oracle {
	return &Oracle{}
}

var _ rules.Oracle = (*Oracle)(nil)

// Initialize returns an empty board with slot 1 to move
func (o *Oracle) Initialize(ctx context.Context) (model.GameState, error) {
	return marshalState(&gameState{CurrentPlayer: 1})
}

// Validate reports whether the move targets an empty in-range cell on the
// moving slot's turn
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
	if m.Position == nil || *m.Position < 0 || *m.Position >= boardCells {
		return false, nil
	}
	return gs.Board[*m.Position] == nil, nil
}

// Apply places the mark and hands the turn to the other slot
func (o *Oracle) Apply(ctx context.Context, state model.GameState, mv model.Move, slot model.Slot) (model.GameState, error) {
	gs, err := unmarshalState(state)
	if err != nil {
		return nil, err
	}
	m, err := unmarshalMove(mv)
	if err != nil {
		return nil, err
	}
	if m.Position == nil || *m.Position < 0 || *m.Position >= boardCells {
		return nil, fmt.Errorf("position out of range")
	}

	mark := int(slot)
	gs.Board[*m.Position] = &mark
	gs.MovesCount++
	if slot == model.Slot1 {
		gs.CurrentPlayer = 2
	} else {
		gs.CurrentPlayer = 1
	}

	return marshalState(gs)
}

// winningLines are the eight three-in-a-row cell index triples
var winningLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Winner returns the slot holding a completed line, or SlotNone
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
	return winner(gs) != model.SlotNone || gs.MovesCount >= boardCells, nil
}

// IsDraw reports a full board with no winner
func (o *Oracle) IsDraw(ctx context.Context, state model.GameState) (bool, error) {
	gs, err := unmarshalState(state)
	if err != nil {
		return false, err
	}
	return gs.MovesCount >= boardCells && winner(gs) == model.SlotNone, nil
}

// CurrentSlot returns the slot the state designates to move next
func (o *Oracle) CurrentSlot(ctx context.Context, state model.GameState) (model.Slot, error) {
	gs, err := unmarshalState(state)
	if err != nil {
		return model.SlotNone, err
	}
	return model.Slot(gs.CurrentPlayer), nil
}

func winner(gs *gameState) model.Slot {
	for _, line := range winningLines {
		a, b, c := gs.Board[line[0]], gs.Board[line[1]], gs.Board[line[2]]
		if a != nil && b != nil && c != nil && *a == *b && *b == *c {
			return model.Slot(*a)
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
