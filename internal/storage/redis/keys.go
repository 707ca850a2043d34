package redis

import (
	"fmt"

	"github.com/mcoot/matchengine-go/internal/model"
)

// Key prefix for all engine data
const keyPrefix = "matchengine"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// playersIndexKey returns the Redis key for the SET of all player ids
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// queueEntryKey returns the Redis key for a QueueEntry log record
func queueEntryKey(id string) string {
	return fmt.Sprintf("%s:queue_entry:%s", keyPrefix, id)
}

// matchKey returns the Redis key for a Match
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// activeMatchesIndexKey returns the Redis key for the SET of active match ids
func activeMatchesIndexKey() string {
	return fmt.Sprintf("%s:idx:active_matches", keyPrefix)
}

// turnsKey returns the Redis key for the LIST of turns for a match
func turnsKey(matchID model.MatchID) string {
	return fmt.Sprintf("%s:turns:%s", keyPrefix, matchID)
}
