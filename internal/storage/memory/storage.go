package memory

import (
	"context"
	"sync"

	"github.com/mcoot/matchengine-go/internal/model"
	"github.com/mcoot/matchengine-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players       map[model.PlayerID]*model.Player
	usernameIndex map[string]model.PlayerID
	queueEntries  map[string]*model.QueueEntry
	matches       map[model.MatchID]*model.Match
	turns         map[model.MatchID][]*model.Turn
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:       make(map[model.PlayerID]*model.Player),
		usernameIndex: make(map[string]model.PlayerID),
		queueEntries:  make(map[string]*model.QueueEntry),
		matches:       make(map[model.MatchID]*model.Match),
		turns:         make(map[model.MatchID][]*model.Turn),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *player
	s.players[player.ID] = &copied
	s.usernameIndex[player.Username] = player.ID
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (s *Storage) CountPlayers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players), nil
}

// Queue entry operations

func (s *Storage) AppendQueueEntry(ctx context.Context, entry *model.QueueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *entry
	s.queueEntries[entry.ID] = &copied
	return nil
}

func (s *Storage) GetQueueEntry(ctx context.Context, id string) (*model.QueueEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.queueEntries[id]
	if !ok {
		return nil, model.ErrPersistenceFailure
	}
	copied := *entry
	return &copied, nil
}

func (s *Storage) UpdateQueueEntryStatus(ctx context.Context, id string, status model.QueueEntryStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.queueEntries[id]
	if !ok {
		return model.ErrPersistenceFailure
	}
	entry.Status = status
	return nil
}

// Match operations

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *match
	s.matches[match.ID] = &copied
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (s *Storage) ListActiveMatches(ctx context.Context) ([]*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var active []*model.Match
	for _, match := range s.matches {
		if match.Status == model.MatchStatusActive {
			copied := *match
			active = append(active, &copied)
		}
	}
	return active, nil
}

// Turn operations

func (s *Storage) AppendTurn(ctx context.Context, turn *model.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *turn
	s.turns[turn.MatchID] = append(s.turns[turn.MatchID], &copied)
	return nil
}

func (s *Storage) GetTurnsForMatch(ctx context.Context, matchID model.MatchID) ([]*model.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.turns[matchID]
	out := make([]*model.Turn, len(turns))
	for i, turn := range turns {
		copied := *turn
		out[i] = &copied
	}
	return out, nil
}

func (s *Storage) CountTurnsForMatch(ctx context.Context, matchID model.MatchID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns[matchID]), nil
}
