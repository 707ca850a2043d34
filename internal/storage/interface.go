package storage

import (
	"context"

	"github.com/mcoot/matchengine-go/internal/model"
)

// Storage is the persistence gateway consumed by the match engine.
// The engine's in-memory queues and active-match set are the source of
// truth for orchestration; these records are the durable history and the
// recovery source after a restart.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error)
	CountPlayers(ctx context.Context) (int, error)

	// Queue entry operations. This is a historical log of queue
	// membership, not the live queue.
	AppendQueueEntry(ctx context.Context, entry *model.QueueEntry) error
	GetQueueEntry(ctx context.Context, id string) (*model.QueueEntry, error)
	UpdateQueueEntryStatus(ctx context.Context, id string, status model.QueueEntryStatus) error

	// Match operations. Match rows are never deleted.
	SaveMatch(ctx context.Context, match *model.Match) error
	GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error)
	ListActiveMatches(ctx context.Context) ([]*model.Match, error)

	// Turn operations. Turn rows are immutable once written.
	AppendTurn(ctx context.Context, turn *model.Turn) error
	GetTurnsForMatch(ctx context.Context, matchID model.MatchID) ([]*model.Turn, error)
	CountTurnsForMatch(ctx context.Context, matchID model.MatchID) (int, error)
}
