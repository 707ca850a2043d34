package factory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/matchengine-go/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app    *TestApp
	ctx    context.Context
	cancel context.CancelFunc
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	app, err := NewTestApp()
	s.Require().NoError(err)
	s.app = app

	s.ctx, s.cancel = context.WithCancel(context.Background())
	go s.app.Engine.Run(s.ctx)
}

func (s *IntegrationSuite) TearDownTest() {
	s.cancel()
}

// wireConn is a connection backed by a channel so tests can wait for
// notifications from the engine loop.
type wireConn struct {
	events chan wireEvent
}

type wireEvent struct {
	event   model.EventType
	payload any
}

func newWireConn() *wireConn {
	return &wireConn{events: make(chan wireEvent, 64)}
}

func (c *wireConn) Send(event model.EventType, payload any) {
	c.events <- wireEvent{event: event, payload: payload}
}

// await blocks until the connection receives the wanted event type
func (s *IntegrationSuite) await(conn *wireConn, want model.EventType) any {
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-conn.events:
			if ev.event == want {
				return ev.payload
			}
		case <-timeout:
			s.Require().FailNowf("timed out", "waiting for event %s", want)
			return nil
		}
	}
}

func (s *IntegrationSuite) register(conn *wireConn, username string) model.PlayerID {
	s.app.Engine.Register(conn, model.RegisterPayload{Username: username})
	payload := s.await(conn, model.EventRegistered).(model.RegisteredPayload)
	return payload.PlayerID
}

// Test: complete match flow from registration through a decided game
func (s *IntegrationSuite) TestCompleteMatchFlow() {
	conn1 := newWireConn()
	conn2 := newWireConn()
	p1 := s.register(conn1, "alice")
	p2 := s.register(conn2, "bob")

	// Both players queue for the same game
	s.app.Engine.JoinQueue(conn1, model.JoinQueuePayload{PlayerID: p1, GameType: model.GameTypeTicTacToe})
	s.await(conn1, model.EventQueueJoined)
	s.app.Engine.JoinQueue(conn2, model.JoinQueuePayload{PlayerID: p2, GameType: model.GameTypeTicTacToe})

	found1 := s.await(conn1, model.EventMatchFound).(model.MatchFoundPayload)
	found2 := s.await(conn2, model.EventMatchFound).(model.MatchFoundPayload)
	s.Equal(found1.MatchID, found2.MatchID)
	s.Require().True(found1.YourTurn != found2.YourTurn)

	// Order the players by who moves first
	first, firstID, second, secondID := conn1, p1, conn2, p2
	if found2.YourTurn {
		first, firstID, second, secondID = conn2, p2, conn1, p1
	}

	// Every applied move notifies both sides; consume both updates to
	// keep the channels in lockstep.
	move := func(conn *wireConn, playerID model.PlayerID, position int) model.GameUpdatePayload {
		s.app.Engine.MakeMove(conn, model.MakeMovePayload{
			MatchID:  found1.MatchID,
			PlayerID: playerID,
			Move:     model.Move(fmt.Sprintf(`{"position":%d}`, position)),
		})
		update1 := s.await(first, model.EventGameUpdate).(model.GameUpdatePayload)
		update2 := s.await(second, model.EventGameUpdate).(model.GameUpdatePayload)
		if conn == first {
			return update1
		}
		return update2
	}

	// First player takes the top row while the second fills the middle
	move(first, firstID, 0)
	move(second, secondID, 3)
	move(first, firstID, 1)
	move(second, secondID, 4)
	final := move(first, firstID, 2)

	s.True(final.GameOver)
	s.False(final.IsDraw)
	s.Equal(firstID, final.Winner)

	// Durable records reflect the finished match
	stored, err := s.app.Storage.GetMatch(s.ctx, found1.MatchID)
	s.Require().NoError(err)
	s.Equal(model.MatchStatusFinished, stored.Status)
	s.Equal(model.OutcomeWin, stored.Outcome.Kind)
	s.Equal(firstID, stored.Outcome.WinnerID)

	turns, err := s.app.Storage.GetTurnsForMatch(s.ctx, found1.MatchID)
	s.Require().NoError(err)
	s.Len(turns, 5)

	// Nothing left in the live state
	stats, err := s.app.Engine.CurrentStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, stats.ActiveMatches)
	s.Empty(stats.Queues)
}

// Test: resignation over the exported event surface
func (s *IntegrationSuite) TestResignationFlow() {
	conn1 := newWireConn()
	conn2 := newWireConn()
	p1 := s.register(conn1, "alice")
	p2 := s.register(conn2, "bob")

	s.app.Engine.JoinQueue(conn1, model.JoinQueuePayload{PlayerID: p1, GameType: model.GameTypeConnectFour})
	s.app.Engine.JoinQueue(conn2, model.JoinQueuePayload{PlayerID: p2, GameType: model.GameTypeConnectFour})

	found := s.await(conn1, model.EventMatchFound).(model.MatchFoundPayload)
	s.await(conn2, model.EventMatchFound)

	s.app.Engine.Resign(conn2, model.ResignMatchPayload{MatchID: found.MatchID, PlayerID: p2})

	update := s.await(conn1, model.EventGameUpdate).(model.GameUpdatePayload)
	s.True(update.Resignation)
	s.Equal(p2, update.ResignedPlayer)
	s.Equal(p1, update.Winner)

	stored, err := s.app.Storage.GetMatch(s.ctx, found.MatchID)
	s.Require().NoError(err)
	s.Equal(model.OutcomeResignation, stored.Outcome.Kind)
}
