package engine

import (
	"errors"
	"log/slog"

	"github.com/mcoot/matchengine-go/internal/model"
)

// updateDelta is the outcome-bearing portion of a state change, carried
// alongside the match when building game_update payloads.
type updateDelta struct {
	resignation    bool
	resignedPlayer model.PlayerID
}

// buildGameUpdates derives the pair of per-recipient game_update payloads
// from a match and its outcome delta. Pure: it never mutates state.
func buildGameUpdates(match *model.Match, delta updateDelta) (p1, p2 model.GameUpdatePayload) {
	base := model.GameUpdatePayload{
		MatchID:        match.ID,
		State:          match.State,
		GameOver:       match.IsFinished(),
		IsDraw:         match.Outcome.Kind == model.OutcomeDraw,
		Resignation:    delta.resignation,
		ResignedPlayer: delta.resignedPlayer,
	}
	switch match.Outcome.Kind {
	case model.OutcomeWin, model.OutcomeResignation:
		base.Winner = match.Outcome.WinnerID
	}

	p1, p2 = base, base
	if !match.IsFinished() {
		p1.YourTurn = match.CurrentSlot == model.Slot1
		p2.YourTurn = match.CurrentSlot == model.Slot2
	}
	return p1, p2
}

// buildMatchFound derives the pair of per-recipient match_found payloads.
// Exactly one recipient sees your_turn=true; both see identical state.
func buildMatchFound(match *model.Match, username1, username2 string) (p1, p2 model.MatchFoundPayload) {
	p1 = model.MatchFoundPayload{
		MatchID:  match.ID,
		Opponent: username2,
		State:    match.State,
		YourTurn: match.CurrentSlot == model.Slot1,
		GameType: match.GameType,
	}
	p2 = model.MatchFoundPayload{
		MatchID:  match.ID,
		Opponent: username1,
		State:    match.State,
		YourTurn: match.CurrentSlot == model.Slot2,
		GameType: match.GameType,
	}
	return p1, p2
}

// dispatcher serializes engine state changes into outbound events per
// recipient. A missing connection is a silent no-op: the latest state is
// always persisted first, so the next event carries it anyway.
type dispatcher struct {
	sessions *sessionRegistry
	logger   *slog.Logger
}

func newDispatcher(sessions *sessionRegistry, logger *slog.Logger) *dispatcher {
	return &dispatcher{
		sessions: sessions,
		logger:   logger.With(slog.String("component", "dispatcher")),
	}
}

// send delivers one event to one player if a connection is live
func (d *dispatcher) send(playerID model.PlayerID, event model.EventType, payload any) {
	conn, ok := d.sessions.conn(playerID)
	if !ok {
		d.logger.Debug("no live connection for recipient",
			slog.String("player_id", string(playerID)),
			slog.String("event", string(event)))
		return
	}
	conn.Send(event, payload)
}

// gameUpdate sends a state update to both participants
func (d *dispatcher) gameUpdate(match *model.Match, delta updateDelta) {
	p1, p2 := buildGameUpdates(match, delta)
	d.send(match.Player1ID, model.EventGameUpdate, p1)
	d.send(match.Player2ID, model.EventGameUpdate, p2)
}

// gameUpdateTo sends the current state of a match to a single player,
// used by the reconnection handshake.
func (d *dispatcher) gameUpdateTo(playerID model.PlayerID, match *model.Match) {
	p1, p2 := buildGameUpdates(match, updateDelta{})
	if playerID == match.Player1ID {
		d.send(playerID, model.EventGameUpdate, p1)
	} else {
		d.send(playerID, model.EventGameUpdate, p2)
	}
}

// matchFound announces a fresh match to both participants
func (d *dispatcher) matchFound(match *model.Match, username1, username2 string) {
	p1, p2 := buildMatchFound(match, username1, username2)
	d.send(match.Player1ID, model.EventMatchFound, p1)
	d.send(match.Player2ID, model.EventMatchFound, p2)
}

// opponentDisconnected informs the surviving participant of a forfeit
func (d *dispatcher) opponentDisconnected(playerID model.PlayerID, matchID model.MatchID) {
	d.send(playerID, model.EventOpponentDisconnected, model.OpponentDisconnectedPayload{
		MatchID: matchID,
	})
}

// errorMessage renders an error as the human-readable message carried by
// an error event.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return "invalid or missing input"
	case errors.Is(err, model.ErrUnknownGameType):
		return "unknown game type"
	case errors.Is(err, model.ErrPlayerNotFound):
		return "player not found"
	case errors.Is(err, model.ErrMatchNotFound):
		return "no active match with that id"
	case errors.Is(err, model.ErrNotParticipant):
		return "you are not a participant in this match"
	case errors.Is(err, model.ErrWrongTurn):
		return "it is not your turn"
	case errors.Is(err, model.ErrIllegalMove):
		return "illegal move"
	case errors.Is(err, model.ErrAlreadyFinished):
		return "this match is already finished"
	case errors.Is(err, model.ErrMoveInFlight):
		return "a move is already being processed for this match"
	case errors.Is(err, model.ErrOracleFailure):
		return "the rules engine is unavailable, try again"
	case errors.Is(err, model.ErrPersistenceFailure):
		return "could not save your action, try again"
	default:
		return err.Error()
	}
}
