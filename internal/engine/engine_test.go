package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/matchengine-go/internal/dependencies/mocks"
	"github.com/mcoot/matchengine-go/internal/dependencies/random"
	"github.com/mcoot/matchengine-go/internal/model"
	"github.com/mcoot/matchengine-go/internal/rules"
	"github.com/mcoot/matchengine-go/internal/rules/connectfour"
	"github.com/mcoot/matchengine-go/internal/rules/tictactoe"
	"github.com/mcoot/matchengine-go/internal/storage"
	"github.com/mcoot/matchengine-go/internal/storage/memory"
	"github.com/mcoot/matchengine-go/internal/testutil"
)

// sentEvent records one outbound event on a fake connection
type sentEvent struct {
	event   model.EventType
	payload any
}

// fakeConn implements Conn and captures everything sent to it
type fakeConn struct {
	name   string
	events []sentEvent
}

func newFakeConn(name string) *fakeConn {
	return &fakeConn{name: name}
}

func (c *fakeConn) Send(event model.EventType, payload any) {
	c.events = append(c.events, sentEvent{event: event, payload: payload})
}

func (c *fakeConn) last(event model.EventType) (any, bool) {
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].event == event {
			return c.events[i].payload, true
		}
	}
	return nil, false
}

func (c *fakeConn) count(event model.EventType) int {
	n := 0
	for _, e := range c.events {
		if e.event == event {
			n++
		}
	}
	return n
}

func (c *fakeConn) reset() {
	c.events = nil
}

// flakyStore wraps a storage implementation with fault injection
type flakyStore struct {
	storage.Storage
	failSaveMatch  int
	failAppendTurn int
}

func (f *flakyStore) SaveMatch(ctx context.Context, match *model.Match) error {
	if f.failSaveMatch > 0 {
		f.failSaveMatch--
		return errors.New("injected save failure")
	}
	return f.Storage.SaveMatch(ctx, match)
}

func (f *flakyStore) AppendTurn(ctx context.Context, turn *model.Turn) error {
	if f.failAppendTurn > 0 {
		f.failAppendTurn--
		return errors.New("injected append failure")
	}
	return f.Storage.AppendTurn(ctx, turn)
}

type EngineSuite struct {
	suite.Suite
	store  *flakyStore
	mem    *memory.Storage
	clock  *mocks.MockClock
	engine *Engine
	ctx    context.Context
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.mem = memory.New()
	s.store = &flakyStore{Storage: s.mem}
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	registry := rules.NewRegistry()
	registry.Register(model.GameTypeTicTacToe, tictactoe.New())
	registry.Register(model.GameTypeConnectFour, connectfour.New())

	s.engine = New(s.store, registry, s.clock, random.New(), testutil.NopLogger(), DefaultConfig())
	s.ctx = context.Background()
}

// register runs the register handler and returns the assigned player id
func (s *EngineSuite) register(conn *fakeConn, username string) model.PlayerID {
	s.engine.handleRegister(s.ctx, conn, model.RegisterPayload{Username: username})
	payload, ok := conn.last(model.EventRegistered)
	s.Require().True(ok, "expected a registered event for %s", username)
	return payload.(model.RegisteredPayload).PlayerID
}

func (s *EngineSuite) join(conn *fakeConn, playerID model.PlayerID, gameType model.GameType) {
	s.engine.handleJoinQueue(s.ctx, conn, model.JoinQueuePayload{
		PlayerID: playerID,
		GameType: gameType,
	})
}

// pair registers two players and queues them into a tic-tac-toe match.
// Returns the match id; conn1 is slot 1 and moves first.
func (s *EngineSuite) pair(conn1, conn2 *fakeConn) (model.MatchID, model.PlayerID, model.PlayerID) {
	p1 := s.register(conn1, conn1.name)
	p2 := s.register(conn2, conn2.name)
	s.join(conn1, p1, model.GameTypeTicTacToe)
	s.join(conn2, p2, model.GameTypeTicTacToe)

	payload, ok := conn1.last(model.EventMatchFound)
	s.Require().True(ok, "expected a match_found event")
	return payload.(model.MatchFoundPayload).MatchID, p1, p2
}

func (s *EngineSuite) move(conn *fakeConn, matchID model.MatchID, playerID model.PlayerID, position int) {
	s.engine.handleMove(s.ctx, conn, model.MakeMovePayload{
		MatchID:  matchID,
		PlayerID: playerID,
		Move:     model.Move(fmt.Sprintf(`{"position":%d}`, position)),
	})
}

func (s *EngineSuite) lastError(conn *fakeConn) string {
	payload, ok := conn.last(model.EventError)
	s.Require().True(ok, "expected an error event")
	return payload.(model.ErrorPayload).Message
}

// Registration

func (s *EngineSuite) TestRegisterCreatesPlayer() {
	conn := newFakeConn("alice")
	playerID := s.register(conn, "alice")

	stored, err := s.mem.GetPlayer(s.ctx, playerID)
	s.Require().NoError(err)
	s.Equal("alice", stored.Username)
	s.Equal(s.clock.CurrentTime, stored.LastActive)
}

func (s *EngineSuite) TestRegisterSameUsernameKeepsIdentity() {
	conn1 := newFakeConn("alice")
	first := s.register(conn1, "alice")

	conn2 := newFakeConn("alice-again")
	second := s.register(conn2, "alice")

	s.Equal(first, second)
}

func (s *EngineSuite) TestRegisterRejectsEmptyUsername() {
	conn := newFakeConn("anon")
	s.engine.handleRegister(s.ctx, conn, model.RegisterPayload{Username: "   "})

	s.Equal(1, conn.count(model.EventError))
	_, registered := conn.last(model.EventRegistered)
	s.False(registered)
}

func (s *EngineSuite) TestReRegisterSupersedesConnection() {
	conn1 := newFakeConn("alice-1")
	playerID := s.register(conn1, "alice")

	conn2 := newFakeConn("alice-2")
	s.register(conn2, "alice")

	// Notifications now reach only the new connection
	s.engine.dispatch.send(playerID, model.EventQueueJoined, model.QueueJoinedPayload{Position: 1})
	s.Equal(0, conn1.count(model.EventQueueJoined))
	s.Equal(1, conn2.count(model.EventQueueJoined))
}

// Queueing and pairing

func (s *EngineSuite) TestJoinQueueReportsPosition() {
	conn1 := newFakeConn("alice")
	p1 := s.register(conn1, "alice")
	s.join(conn1, p1, model.GameTypeConnectFour)

	payload, ok := conn1.last(model.EventQueueJoined)
	s.Require().True(ok)
	joined := payload.(model.QueueJoinedPayload)
	s.Equal(1, joined.Position)
	s.Equal(model.GameTypeConnectFour, joined.GameType)
}

func (s *EngineSuite) TestJoinQueueRejectsUnknownGameType() {
	conn := newFakeConn("alice")
	p1 := s.register(conn, "alice")
	s.join(conn, p1, model.GameType("backgammon"))

	s.Equal("unknown game type", s.lastError(conn))
}

func (s *EngineSuite) TestJoinQueueRejectsUnknownPlayer() {
	conn := newFakeConn("ghost")
	s.join(conn, "no-such-player", model.GameTypeTicTacToe)

	s.Equal("player not found", s.lastError(conn))
}

func (s *EngineSuite) TestTwoJoinersAreMatched() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	s.pair(conn1, conn2)

	payload1, ok := conn1.last(model.EventMatchFound)
	s.Require().True(ok)
	payload2, ok := conn2.last(model.EventMatchFound)
	s.Require().True(ok)

	found1 := payload1.(model.MatchFoundPayload)
	found2 := payload2.(model.MatchFoundPayload)

	s.Equal(found1.MatchID, found2.MatchID)
	s.Equal("bob", found1.Opponent)
	s.Equal("alice", found2.Opponent)
	s.JSONEq(string(found1.State), string(found2.State))
	// Exactly one side starts
	s.True(found1.YourTurn != found2.YourTurn)
}

func (s *EngineSuite) TestPairingIsFIFO() {
	conns := make([]*fakeConn, 4)
	ids := make([]model.PlayerID, 4)
	for i := range conns {
		conns[i] = newFakeConn(fmt.Sprintf("player-%d", i))
		ids[i] = s.register(conns[i], conns[i].name)
	}

	// Joins arrive in order; each join advances the mock clock
	for i := range conns {
		s.clock.Advance(time.Second)
		s.join(conns[i], ids[i], model.GameTypeTicTacToe)
	}

	// 0+1 matched first, then 2+3
	m01, _ := conns[0].last(model.EventMatchFound)
	m11, _ := conns[1].last(model.EventMatchFound)
	m21, _ := conns[2].last(model.EventMatchFound)
	m31, _ := conns[3].last(model.EventMatchFound)

	s.Equal(m01.(model.MatchFoundPayload).MatchID, m11.(model.MatchFoundPayload).MatchID)
	s.Equal(m21.(model.MatchFoundPayload).MatchID, m31.(model.MatchFoundPayload).MatchID)
	s.NotEqual(m01.(model.MatchFoundPayload).MatchID, m21.(model.MatchFoundPayload).MatchID)

	s.Equal("player-1", m01.(model.MatchFoundPayload).Opponent)
	s.Equal("player-3", m21.(model.MatchFoundPayload).Opponent)
}

func (s *EngineSuite) TestJoiningSecondQueueLeavesFirst() {
	conn1 := newFakeConn("alice")
	p1 := s.register(conn1, "alice")
	s.join(conn1, p1, model.GameTypeTicTacToe)
	s.join(conn1, p1, model.GameTypeConnectFour)

	s.Equal(0, s.engine.queues.size(model.GameTypeTicTacToe))
	s.Equal(1, s.engine.queues.size(model.GameTypeConnectFour))

	// A tic-tac-toe joiner now has nobody to pair with
	conn2 := newFakeConn("bob")
	p2 := s.register(conn2, "bob")
	s.join(conn2, p2, model.GameTypeTicTacToe)
	_, matched := conn2.last(model.EventMatchFound)
	s.False(matched)
}

func (s *EngineSuite) TestTimerSweepPairsWaiters() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	p1 := s.register(conn1, "alice")
	p2 := s.register(conn2, "bob")

	// Seed the queue directly, bypassing the per-join sweep, to model a
	// pair that a join-time sweep missed.
	w1 := &waiter{entryID: "e1", playerID: p1, username: "alice", joinedAt: s.clock.Now()}
	w2 := &waiter{entryID: "e2", playerID: p2, username: "bob", joinedAt: s.clock.Now()}
	s.engine.queues.join(w1, model.GameTypeTicTacToe)
	s.engine.queues.join(w2, model.GameTypeTicTacToe)

	s.engine.sweep(s.ctx, model.GameTypeTicTacToe)

	s.Equal(1, conn1.count(model.EventMatchFound))
	s.Equal(1, conn2.count(model.EventMatchFound))
}

func (s *EngineSuite) TestFailedMatchCreationRequeuesPairInOrder() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	p1 := s.register(conn1, "alice")
	p2 := s.register(conn2, "bob")

	s.join(conn1, p1, model.GameTypeTicTacToe)
	s.store.failSaveMatch = 1
	s.join(conn2, p2, model.GameTypeTicTacToe)

	// Both reported the failure, both back in the queue
	s.Equal(1, conn1.count(model.EventError))
	s.Equal(1, conn2.count(model.EventError))
	s.Equal(2, s.engine.queues.size(model.GameTypeTicTacToe))

	// The next sweep retries the same pair in the original order
	s.engine.sweep(s.ctx, model.GameTypeTicTacToe)

	payload, ok := conn1.last(model.EventMatchFound)
	s.Require().True(ok)
	s.Equal("bob", payload.(model.MatchFoundPayload).Opponent)
	s.True(payload.(model.MatchFoundPayload).YourTurn)
}

// Moves

func (s *EngineSuite) TestMoveAppliesAndNotifiesBoth() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	matchID, p1, _ := s.pair(conn1, conn2)

	s.move(conn1, matchID, p1, 4)

	payload1, ok := conn1.last(model.EventGameUpdate)
	s.Require().True(ok)
	payload2, ok := conn2.last(model.EventGameUpdate)
	s.Require().True(ok)

	update1 := payload1.(model.GameUpdatePayload)
	update2 := payload2.(model.GameUpdatePayload)
	s.False(update1.YourTurn)
	s.True(update2.YourTurn)
	s.False(update1.GameOver)

	turns, err := s.mem.GetTurnsForMatch(s.ctx, matchID)
	s.Require().NoError(err)
	s.Require().Len(turns, 1)
	s.Equal(1, turns[0].TurnNumber)
	s.Equal(p1, turns[0].PlayerID)
}

func (s *EngineSuite) TestMoveOutOfTurnIsRejected() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	matchID, _, p2 := s.pair(conn1, conn2)

	s.move(conn2, matchID, p2, 0)

	s.Equal("it is not your turn", s.lastError(conn2))

	// Persisted state unchanged: no turn row, match still at slot 1
	count, err := s.mem.CountTurnsForMatch(s.ctx, matchID)
	s.Require().NoError(err)
	s.Equal(0, count)
	stored, err := s.mem.GetMatch(s.ctx, matchID)
	s.Require().NoError(err)
	s.Equal(model.Slot1, stored.CurrentSlot)
}

func (s *EngineSuite) TestIllegalMoveIsRejected() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	matchID, p1, p2 := s.pair(conn1, conn2)

	s.move(conn1, matchID, p1, 4)
	// Bob tries the occupied cell
	s.move(conn2, matchID, p2, 4)

	s.Equal("illegal move", s.lastError(conn2))

	count, err := s.mem.CountTurnsForMatch(s.ctx, matchID)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *EngineSuite) TestMoveByNonParticipantIsRejected() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	matchID, _, _ := s.pair(conn1, conn2)

	conn3 := newFakeConn("carol")
	p3 := s.register(conn3, "carol")
	s.move(conn3, matchID, p3, 0)

	s.Equal("you are not a participant in this match", s.lastError(conn3))
}

func (s *EngineSuite) TestMoveOnUnknownMatchIsRejected() {
	conn := newFakeConn("alice")
	p1 := s.register(conn, "alice")
	s.move(conn, "no-such-match", p1, 0)

	s.Equal("no active match with that id", s.lastError(conn))
}

func (s *EngineSuite) TestWinFinishesMatch() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	matchID, p1, p2 := s.pair(conn1, conn2)

	// Alice takes the top row
	s.move(conn1, matchID, p1, 0)
	s.move(conn2, matchID, p2, 3)
	s.move(conn1, matchID, p1, 1)
	s.move(conn2, matchID, p2, 4)
	s.move(conn1, matchID, p1, 2)

	payload, ok := conn2.last(model.EventGameUpdate)
	s.Require().True(ok)
	update := payload.(model.GameUpdatePayload)
	s.True(update.GameOver)
	s.False(update.IsDraw)
	s.Equal(p1, update.Winner)
	s.False(update.YourTurn)

	stored, err := s.mem.GetMatch(s.ctx, matchID)
	s.Require().NoError(err)
	s.Equal(model.MatchStatusFinished, stored.Status)
	s.Equal(model.OutcomeWin, stored.Outcome.Kind)
	s.Equal(p1, stored.Outcome.WinnerID)
	s.False(stored.EndTime.IsZero())
}

func (s *EngineSuite) TestTurnNumbersHaveNoGaps() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	matchID, p1, p2 := s.pair(conn1, conn2)

	s.move(conn1, matchID, p1, 0)
	s.move(conn2, matchID, p2, 3)
	s.move(conn1, matchID, p1, 1)
	s.move(conn2, matchID, p2, 4)
	s.move(conn1, matchID, p1, 2)

	turns, err := s.mem.GetTurnsForMatch(s.ctx, matchID)
	s.Require().NoError(err)
	s.Require().Len(turns, 5)
	for i, turn := range turns {
		s.Equal(i+1, turn.TurnNumber)
	}
}

func (s *EngineSuite) TestMoveAfterFinishIsRejected() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	matchID, p1, p2 := s.pair(conn1, conn2)

	s.move(conn1, matchID, p1, 0)
	s.move(conn2, matchID, p2, 3)
	s.move(conn1, matchID, p1, 1)
	s.move(conn2, matchID, p2, 4)
	s.move(conn1, matchID, p1, 2)

	s.move(conn2, matchID, p2, 5)
	s.Equal("this match is already finished", s.lastError(conn2))
}

func (s *EngineSuite) TestDrawGame() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	matchID, p1, p2 := s.pair(conn1, conn2)

	// Fills the board with no line for either side
	positions := []struct {
		player model.PlayerID
		conn   *fakeConn
		pos    int
	}{
		{p1, conn1, 0}, {p2, conn2, 1}, {p1, conn1, 2},
		{p2, conn2, 4}, {p1, conn1, 3}, {p2, conn2, 5},
		{p1, conn1, 7}, {p2, conn2, 6}, {p1, conn1, 8},
	}
	for _, m := range positions {
		s.move(m.conn, matchID, m.player, m.pos)
	}

	payload, ok := conn1.last(model.EventGameUpdate)
	s.Require().True(ok)
	update := payload.(model.GameUpdatePayload)
	s.True(update.GameOver)
	s.True(update.IsDraw)
	s.Empty(update.Winner)

	stored, err := s.mem.GetMatch(s.ctx, matchID)
	s.Require().NoError(err)
	s.Equal(model.OutcomeDraw, stored.Outcome.Kind)
}

func (s *EngineSuite) TestMovePersistenceFailureLeavesMatchRetryable() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	matchID, p1, _ := s.pair(conn1, conn2)

	s.store.failAppendTurn = 1
	s.move(conn1, matchID, p1, 4)
	s.Equal("could not save your action, try again", s.lastError(conn1))

	// In-memory state unchanged: the retry succeeds and is turn 1
	s.move(conn1, matchID, p1, 4)
	turns, err := s.mem.GetTurnsForMatch(s.ctx, matchID)
	s.Require().NoError(err)
	s.Require().Len(turns, 1)
	s.Equal(1, turns[0].TurnNumber)
}

// Resignation

func (s *EngineSuite) TestResignFinishesWithOpponentAsWinner() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	matchID, p1, p2 := s.pair(conn1, conn2)

	// Bob resigns out of turn; that is allowed
	s.engine.handleResign(s.ctx, conn2, model.ResignMatchPayload{MatchID: matchID, PlayerID: p2})

	for _, conn := range []*fakeConn{conn1, conn2} {
		payload, ok := conn.last(model.EventGameUpdate)
		s.Require().True(ok)
		update := payload.(model.GameUpdatePayload)
		s.True(update.Resignation)
		s.Equal(p2, update.ResignedPlayer)
		s.Equal(p1, update.Winner)
		s.True(update.GameOver)
	}

	stored, err := s.mem.GetMatch(s.ctx, matchID)
	s.Require().NoError(err)
	s.Equal(model.OutcomeResignation, stored.Outcome.Kind)
	s.Equal(p1, stored.Outcome.WinnerID)
}

func (s *EngineSuite) TestResignTwiceIsANoOp() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	matchID, _, p2 := s.pair(conn1, conn2)

	s.engine.handleResign(s.ctx, conn2, model.ResignMatchPayload{MatchID: matchID, PlayerID: p2})
	conn2.reset()
	s.engine.handleResign(s.ctx, conn2, model.ResignMatchPayload{MatchID: matchID, PlayerID: p2})

	s.Equal(0, conn2.count(model.EventError))
}

func (s *EngineSuite) TestResignByNonParticipantIsRejected() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	matchID, _, _ := s.pair(conn1, conn2)

	conn3 := newFakeConn("carol")
	p3 := s.register(conn3, "carol")
	s.engine.handleResign(s.ctx, conn3, model.ResignMatchPayload{MatchID: matchID, PlayerID: p3})

	s.Equal("you are not a participant in this match", s.lastError(conn3))
}

// Disconnects

func (s *EngineSuite) TestDisconnectForfeitsMatch() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	matchID, p1, _ := s.pair(conn1, conn2)

	s.engine.handleDisconnect(s.ctx, conn2)

	payload, ok := conn1.last(model.EventOpponentDisconnected)
	s.Require().True(ok)
	s.Equal(matchID, payload.(model.OpponentDisconnectedPayload).MatchID)

	stored, err := s.mem.GetMatch(s.ctx, matchID)
	s.Require().NoError(err)
	s.Equal(model.MatchStatusFinished, stored.Status)
	s.Equal(model.OutcomeWin, stored.Outcome.Kind)
	s.Equal(p1, stored.Outcome.WinnerID)
}

func (s *EngineSuite) TestDisconnectLeavesQueues() {
	conn := newFakeConn("alice")
	p1 := s.register(conn, "alice")
	s.join(conn, p1, model.GameTypeTicTacToe)

	s.engine.handleDisconnect(s.ctx, conn)

	s.Equal(0, s.engine.queues.size(model.GameTypeTicTacToe))
}

func (s *EngineSuite) TestDisconnectOfUnknownConnectionIsANoOp() {
	conn := newFakeConn("stranger")
	s.engine.handleDisconnect(s.ctx, conn)
	s.Empty(conn.events)
}

func (s *EngineSuite) TestSupersededConnectionDisconnectDoesNotForfeit() {
	conn1 := newFakeConn("alice-old")
	p1 := s.register(conn1, "alice")
	conn2 := newFakeConn("bob")
	p2 := s.register(conn2, "bob")
	s.join(conn1, p1, model.GameTypeTicTacToe)
	s.join(conn2, p2, model.GameTypeTicTacToe)

	// Alice reconnects, then the stale connection drops
	conn3 := newFakeConn("alice-new")
	s.register(conn3, "alice")
	s.engine.handleDisconnect(s.ctx, conn1)

	// The match is still live and Bob heard nothing
	s.Len(s.engine.matches, 1)
	s.Equal(0, conn2.count(model.EventOpponentDisconnected))
}

// Reconnection handshake

func (s *EngineSuite) TestReRegisterReissuesGameUpdate() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	matchID, _, _ := s.pair(conn1, conn2)

	conn3 := newFakeConn("alice-reconnect")
	s.register(conn3, "alice")

	payload, ok := conn3.last(model.EventGameUpdate)
	s.Require().True(ok)
	update := payload.(model.GameUpdatePayload)
	s.Equal(matchID, update.MatchID)
	s.True(update.YourTurn)
}

// Restart recovery

func (s *EngineSuite) TestRestoreReloadsActiveMatches() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	matchID, p1, _ := s.pair(conn1, conn2)

	registry := rules.NewRegistry()
	registry.Register(model.GameTypeTicTacToe, tictactoe.New())
	fresh := New(s.store, registry, s.clock, random.New(), testutil.NopLogger(), DefaultConfig())
	s.Require().NoError(fresh.Restore(s.ctx))

	// The restored engine accepts moves on the recovered match
	conn3 := newFakeConn("alice-back")
	fresh.sessions.register(p1, conn3)
	fresh.handleMove(s.ctx, conn3, model.MakeMovePayload{
		MatchID:  matchID,
		PlayerID: p1,
		Move:     model.Move(`{"position":4}`),
	})

	payload, ok := conn3.last(model.EventGameUpdate)
	s.Require().True(ok)
	s.Equal(matchID, payload.(model.GameUpdatePayload).MatchID)
}

// Stats

func (s *EngineSuite) TestCurrentStats() {
	conn1 := newFakeConn("alice")
	conn2 := newFakeConn("bob")
	conn3 := newFakeConn("carol")
	p1 := s.register(conn1, "alice")
	p2 := s.register(conn2, "bob")
	p3 := s.register(conn3, "carol")

	s.join(conn1, p1, model.GameTypeTicTacToe)
	s.join(conn2, p2, model.GameTypeTicTacToe)
	s.join(conn3, p3, model.GameTypeConnectFour)

	go s.engine.Run(s.ctx)

	ctx, cancel := context.WithTimeout(s.ctx, time.Second)
	defer cancel()
	stats, err := s.engine.CurrentStats(ctx)
	s.Require().NoError(err)

	s.Equal(1, stats.ActiveMatches)
	s.Equal(1, stats.Queues[model.GameTypeConnectFour])
	s.Equal(0, stats.Queues[model.GameTypeTicTacToe])
	s.Equal(3, stats.Sessions)
}
