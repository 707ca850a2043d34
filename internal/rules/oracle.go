package rules

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/matchengine-go/internal/model"
)

// Oracle is the rule-evaluation contract consumed by the match engine.
// Implementations own the opaque game state entirely; the engine never
// inspects it beyond the CurrentSlot read. Every call may fail
// independently (an oracle can be backed by a separate process), so each
// takes a context with a bounded deadline.
type Oracle interface {
	// Initialize produces the opaque state for a fresh game.
	Initialize(ctx context.Context) (model.GameState, error)

	// Validate reports whether the move is legal for the given slot.
	Validate(ctx context.Context, state model.GameState, move model.Move, slot model.Slot) (bool, error)

	// Apply returns the state after the move. The returned state carries
	// its own updated current-player designation.
	Apply(ctx context.Context, state model.GameState, move model.Move, slot model.Slot) (model.GameState, error)

	// Winner returns the winning slot, or SlotNone if there is none.
	Winner(ctx context.Context, state model.GameState) (model.Slot, error)

	// IsOver reports whether the game has ended (win or draw).
	IsOver(ctx context.Context, state model.GameState) (bool, error)

	// IsDraw reports whether the game ended without a winner.
	IsDraw(ctx context.Context, state model.GameState) (bool, error)

	// CurrentSlot is the single documented read the engine performs on the
	// opaque state: whose turn the state designates.
	CurrentSlot(ctx context.Context, state model.GameState) (model.Slot, error)
}

// Registry maps game types to their oracle implementations.
// Game-type dispatch is always by explicit tag, never by state shape.
type Registry struct {
	mu      sync.RWMutex
	oracles map[model.GameType]Oracle
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		oracles: make(map[model.GameType]Oracle),
	}
}

// Register adds an oracle for a game type, replacing any existing one
func (r *Registry) Register(gameType model.GameType, oracle Oracle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.oracles[gameType] = oracle
}

// Oracle returns the oracle for a game type
func (r *Registry) Oracle(gameType model.GameType) (Oracle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	oracle, ok := r.oracles[gameType]
	if !ok {
		return nil, model.ErrUnknownGameType
	}
	return oracle, nil
}

// GameTypes returns the registered game types in stable order
func (r *Registry) GameTypes() []model.GameType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]model.GameType, 0, len(r.oracles))
	for gt := range r.oracles {
		types = append(types, gt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
