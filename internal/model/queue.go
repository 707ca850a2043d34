package model

import "time"

// QueueEntryStatus tracks the final disposition of a queue entry in the
// durable historical log. The live queue itself is in-memory only.
type QueueEntryStatus string

const (
	QueueEntryWaiting QueueEntryStatus = "waiting"
	QueueEntryMatched QueueEntryStatus = "matched"
	QueueEntryRemoved QueueEntryStatus = "removed"
)

// QueueEntry is one player's membership in a game-type waiting queue.
// A player holds at most one active entry across all queues at any instant.
type QueueEntry struct {
	ID       string
	PlayerID PlayerID
	GameType GameType
	JoinedAt time.Time
	Status   QueueEntryStatus
}
