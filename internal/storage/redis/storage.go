package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/matchengine-go/internal/model"
	"github.com/mcoot/matchengine-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + index updates
	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(player.ID), data, 0)
	pipe.Set(ctx, usernameIndexKey(player.Username), string(player.ID), 0)
	pipe.SAdd(ctx, playersIndexKey(), string(player.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetPlayer(ctx, model.PlayerID(playerIDStr))
}

func (s *Storage) CountPlayers(ctx context.Context) (int, error) {
	count, err := s.client.SCard(ctx, playersIndexKey()).Result()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Queue entry operations

func (s *Storage) AppendQueueEntry(ctx context.Context, entry *model.QueueEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, queueEntryKey(entry.ID), data, s.cfg.QueueEntryTTL).Err()
}

func (s *Storage) GetQueueEntry(ctx context.Context, id string) (*model.QueueEntry, error) {
	data, err := s.client.Get(ctx, queueEntryKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPersistenceFailure
		}
		return nil, err
	}

	var entry model.QueueEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Storage) UpdateQueueEntryStatus(ctx context.Context, id string, status model.QueueEntryStatus) error {
	entry, err := s.GetQueueEntry(ctx, id)
	if err != nil {
		return err
	}

	entry.Status = status
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, queueEntryKey(id), data, redis.KeepTTL).Err()
}

// Match operations

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return err
	}

	// Pipeline keeps the active-match index in step with the row
	pipe := s.client.Pipeline()
	pipe.Set(ctx, matchKey(match.ID), data, 0)
	if match.Status == model.MatchStatusActive {
		pipe.SAdd(ctx, activeMatchesIndexKey(), string(match.ID))
	} else {
		pipe.SRem(ctx, activeMatchesIndexKey(), string(match.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	data, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}

	var match model.Match
	if err := json.Unmarshal(data, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *Storage) ListActiveMatches(ctx context.Context) ([]*model.Match, error) {
	ids, err := s.client.SMembers(ctx, activeMatchesIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	var active []*model.Match
	for _, id := range ids {
		match, err := s.GetMatch(ctx, model.MatchID(id))
		if err != nil {
			if errors.Is(err, model.ErrMatchNotFound) {
				continue
			}
			return nil, err
		}
		active = append(active, match)
	}
	return active, nil
}

// Turn operations

func (s *Storage) AppendTurn(ctx context.Context, turn *model.Turn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return err
	}

	return s.client.RPush(ctx, turnsKey(turn.MatchID), data).Err()
}

func (s *Storage) GetTurnsForMatch(ctx context.Context, matchID model.MatchID) ([]*model.Turn, error) {
	items, err := s.client.LRange(ctx, turnsKey(matchID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	turns := make([]*model.Turn, 0, len(items))
	for _, item := range items {
		var turn model.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, err
		}
		turns = append(turns, &turn)
	}
	return turns, nil
}

func (s *Storage) CountTurnsForMatch(ctx context.Context, matchID model.MatchID) (int, error) {
	count, err := s.client.LLen(ctx, turnsKey(matchID)).Result()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
