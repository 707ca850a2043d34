package engine

import (
	"time"

	"github.com/mcoot/matchengine-go/internal/model"
)

// waiter is one player's live membership in a waiting queue. The durable
// queue_entries log references it by entry ID.
type waiter struct {
	entryID  string
	playerID model.PlayerID
	username string
	joinedAt time.Time
}

// queueSet holds one FIFO waiting list per game type. It is owned by the
// engine's event loop and is never accessed concurrently, so it carries
// no locking.
type queueSet struct {
	queues map[model.GameType][]*waiter
}

func newQueueSet() *queueSet {
	return &queueSet{
		queues: make(map[model.GameType][]*waiter),
	}
}

// join removes the player from every queue, then appends them to the
// queue for the given game type. Returns the 1-based queue position and
// the entries removed from other queues.
func (q *queueSet) join(w *waiter, gameType model.GameType) (int, []*waiter) {
	removed := q.leave(w.playerID)
	q.queues[gameType] = append(q.queues[gameType], w)
	return len(q.queues[gameType]), removed
}

// leave removes the player from all queues and returns the removed entries
func (q *queueSet) leave(playerID model.PlayerID) []*waiter {
	var removed []*waiter
	for gameType, queue := range q.queues {
		kept := queue[:0]
		for _, w := range queue {
			if w.playerID == playerID {
				removed = append(removed, w)
			} else {
				kept = append(kept, w)
			}
		}
		q.queues[gameType] = kept
	}
	return removed
}

// pop removes and returns the two earliest waiters when the queue holds at
// least two, preserving FIFO order by join time.
func (q *queueSet) pop(gameType model.GameType) (first, second *waiter, ok bool) {
	queue := q.queues[gameType]
	if len(queue) < 2 {
		return nil, nil, false
	}
	first, second = queue[0], queue[1]
	q.queues[gameType] = queue[2:]
	return first, second, true
}

// pushFront returns two waiters to the head of their queue in original
// order, used when match creation fails after a pair was popped.
func (q *queueSet) pushFront(gameType model.GameType, first, second *waiter) {
	q.queues[gameType] = append([]*waiter{first, second}, q.queues[gameType]...)
}

// size returns the current length of one queue
func (q *queueSet) size(gameType model.GameType) int {
	return len(q.queues[gameType])
}

// counts returns the current length of every non-empty queue
func (q *queueSet) counts() map[model.GameType]int {
	counts := make(map[model.GameType]int)
	for gameType, queue := range q.queues {
		if len(queue) > 0 {
			counts[gameType] = len(queue)
		}
	}
	return counts
}
