package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/matchengine-go/internal/model"
)

func testWaiter(id string) *waiter {
	return &waiter{
		entryID:  "entry-" + id,
		playerID: model.PlayerID(id),
		username: id,
	}
}

func TestQueueSetPopIsFIFO(t *testing.T) {
	q := newQueueSet()
	q.join(testWaiter("a"), model.GameTypeTicTacToe)
	q.join(testWaiter("b"), model.GameTypeTicTacToe)
	q.join(testWaiter("c"), model.GameTypeTicTacToe)

	first, second, ok := q.pop(model.GameTypeTicTacToe)
	require.True(t, ok)
	assert.Equal(t, model.PlayerID("a"), first.playerID)
	assert.Equal(t, model.PlayerID("b"), second.playerID)

	_, _, ok = q.pop(model.GameTypeTicTacToe)
	assert.False(t, ok)
	assert.Equal(t, 1, q.size(model.GameTypeTicTacToe))
}

func TestQueueSetPopNeedsTwo(t *testing.T) {
	q := newQueueSet()
	q.join(testWaiter("a"), model.GameTypeTicTacToe)

	_, _, ok := q.pop(model.GameTypeTicTacToe)
	assert.False(t, ok)
	assert.Equal(t, 1, q.size(model.GameTypeTicTacToe))
}

func TestQueueSetJoinMovesPlayerBetweenQueues(t *testing.T) {
	q := newQueueSet()
	w := testWaiter("a")
	q.join(w, model.GameTypeTicTacToe)

	moved := testWaiter("a")
	position, removed := q.join(moved, model.GameTypeConnectFour)

	assert.Equal(t, 1, position)
	require.Len(t, removed, 1)
	assert.Equal(t, w.entryID, removed[0].entryID)
	assert.Equal(t, 0, q.size(model.GameTypeTicTacToe))
	assert.Equal(t, 1, q.size(model.GameTypeConnectFour))
}

func TestQueueSetRejoinSameQueueResetsPosition(t *testing.T) {
	q := newQueueSet()
	q.join(testWaiter("a"), model.GameTypeTicTacToe)
	q.join(testWaiter("b"), model.GameTypeTicTacToe)

	position, removed := q.join(testWaiter("a"), model.GameTypeTicTacToe)

	assert.Equal(t, 2, position)
	assert.Len(t, removed, 1)

	first, second, ok := q.pop(model.GameTypeTicTacToe)
	require.True(t, ok)
	assert.Equal(t, model.PlayerID("b"), first.playerID)
	assert.Equal(t, model.PlayerID("a"), second.playerID)
}

func TestQueueSetPushFrontRestoresOrder(t *testing.T) {
	q := newQueueSet()
	q.join(testWaiter("a"), model.GameTypeTicTacToe)
	q.join(testWaiter("b"), model.GameTypeTicTacToe)
	q.join(testWaiter("c"), model.GameTypeTicTacToe)
	q.join(testWaiter("d"), model.GameTypeTicTacToe)

	first, second, ok := q.pop(model.GameTypeTicTacToe)
	require.True(t, ok)
	q.pushFront(model.GameTypeTicTacToe, first, second)

	again1, again2, ok := q.pop(model.GameTypeTicTacToe)
	require.True(t, ok)
	assert.Equal(t, model.PlayerID("a"), again1.playerID)
	assert.Equal(t, model.PlayerID("b"), again2.playerID)
}

func TestQueueSetCountsSkipEmptyQueues(t *testing.T) {
	q := newQueueSet()
	q.join(testWaiter("a"), model.GameTypeTicTacToe)
	q.join(testWaiter("b"), model.GameTypeConnectFour)
	q.leave("a")

	counts := q.counts()
	assert.Equal(t, map[model.GameType]int{model.GameTypeConnectFour: 1}, counts)
}
