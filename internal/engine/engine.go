package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/matchengine-go/internal/dependencies/clock"
	"github.com/mcoot/matchengine-go/internal/dependencies/random"
	"github.com/mcoot/matchengine-go/internal/model"
	"github.com/mcoot/matchengine-go/internal/rules"
	"github.com/mcoot/matchengine-go/internal/storage"
)

const commandBuffer = 256

// Config holds engine tuning knobs
type Config struct {
	// CallTimeout bounds every rules-oracle and persistence call
	CallTimeout time.Duration
}

// DefaultConfig returns sensible engine defaults
func DefaultConfig() Config {
	return Config{
		CallTimeout: 5 * time.Second,
	}
}

// Engine owns all mutable matchmaking state: waiting queues, live
// sessions and active matches. Every inbound event and timer tick funnels
// through one command channel processed by a single goroutine, so no two
// mutations of the same queue or match ever interleave.
type Engine struct {
	store  storage.Storage
	rules  *rules.Registry
	clock  clock.Clock
	random random.Random
	logger *slog.Logger

	callTimeout time.Duration

	commands chan func(context.Context)

	// State below is touched only from the command loop
	queues   *queueSet
	sessions *sessionRegistry
	dispatch *dispatcher
	matches  map[model.MatchID]*model.Match
	inFlight map[model.MatchID]bool
}

// New creates an Engine with the given collaborators
func New(
	store storage.Storage,
	registry *rules.Registry,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
	cfg Config,
) *Engine {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultConfig().CallTimeout
	}

	sessions := newSessionRegistry()
	return &Engine{
		store:       store,
		rules:       registry,
		clock:       clk,
		random:      rnd,
		logger:      logger.With(slog.String("component", "engine")),
		callTimeout: cfg.CallTimeout,
		commands:    make(chan func(context.Context), commandBuffer),
		queues:      newQueueSet(),
		sessions:    sessions,
		dispatch:    newDispatcher(sessions, logger),
		matches:     make(map[model.MatchID]*model.Match),
		inFlight:    make(map[model.MatchID]bool),
	}
}

// Restore reloads unfinished matches from the store into the active set.
// Call before Run when recovering from a restart.
func (e *Engine) Restore(ctx context.Context) error {
	active, err := e.store.ListActiveMatches(ctx)
	if err != nil {
		return fmt.Errorf("restore active matches: %w", err)
	}
	for _, match := range active {
		e.matches[match.ID] = match
	}
	if len(active) > 0 {
		e.logger.Info("restored active matches", slog.Int("count", len(active)))
	}
	return nil
}

// Run processes commands until the context is cancelled
func (e *Engine) Run(ctx context.Context) {
	e.logger.Info("engine started")
	for {
		select {
		case cmd := <-e.commands:
			cmd(ctx)
		case <-ctx.Done():
			e.logger.Info("engine stopped")
			return
		}
	}
}

// submit queues a command for the event loop
func (e *Engine) submit(cmd func(context.Context)) {
	e.commands <- cmd
}

// Register handles an inbound register event
func (e *Engine) Register(conn Conn, payload model.RegisterPayload) {
	e.submit(func(ctx context.Context) {
		e.handleRegister(ctx, conn, payload)
	})
}

// JoinQueue handles an inbound join_queue event
func (e *Engine) JoinQueue(conn Conn, payload model.JoinQueuePayload) {
	e.submit(func(ctx context.Context) {
		e.handleJoinQueue(ctx, conn, payload)
	})
}

// MakeMove handles an inbound make_move event
func (e *Engine) MakeMove(conn Conn, payload model.MakeMovePayload) {
	e.submit(func(ctx context.Context) {
		e.handleMove(ctx, conn, payload)
	})
}

// Resign handles an inbound resign_match event
func (e *Engine) Resign(conn Conn, payload model.ResignMatchPayload) {
	e.submit(func(ctx context.Context) {
		e.handleResign(ctx, conn, payload)
	})
}

// Disconnect handles the loss of a connection
func (e *Engine) Disconnect(conn Conn) {
	e.submit(func(ctx context.Context) {
		e.handleDisconnect(ctx, conn)
	})
}

// SweepQueues triggers a pairing sweep over every registered game type.
// The timer tick and the per-join sweep funnel through the same pairing
// logic inside the command loop.
func (e *Engine) SweepQueues() {
	e.submit(func(ctx context.Context) {
		for _, gameType := range e.rules.GameTypes() {
			e.sweep(ctx, gameType)
		}
	})
}

// Stats is a point-in-time snapshot of live engine state
type Stats struct {
	Queues        map[model.GameType]int
	ActiveMatches int
	Sessions      int
}

// CurrentStats answers the status query interface. It runs through the
// command loop so the snapshot is never half-updated.
func (e *Engine) CurrentStats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	e.submit(func(context.Context) {
		reply <- Stats{
			Queues:        e.queues.counts(),
			ActiveMatches: len(e.matches),
			Sessions:      e.sessions.count(),
		}
	})
	select {
	case stats := <-reply:
		return stats, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

// Handlers below run only on the command loop.

func (e *Engine) handleRegister(ctx context.Context, conn Conn, payload model.RegisterPayload) {
	username := strings.TrimSpace(payload.Username)
	if username == "" {
		e.sendError(conn, model.ErrInvalidInput)
		return
	}

	cctx, cancel := e.callCtx(ctx)
	defer cancel()

	now := e.clock.Now()
	player, err := e.store.GetPlayerByUsername(cctx, username)
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		player = &model.Player{
			ID:         model.PlayerID(e.random.UUID()),
			Username:   username,
			CreatedAt:  now,
			LastActive: now,
		}
	case err != nil:
		e.sendError(conn, persistErr(err))
		return
	default:
		player.LastActive = now
	}

	if err := e.store.SavePlayer(cctx, player); err != nil {
		e.sendError(conn, persistErr(err))
		return
	}

	e.sessions.register(player.ID, conn)
	conn.Send(model.EventRegistered, model.RegisteredPayload{
		PlayerID: player.ID,
		Username: player.Username,
	})

	// Reconnection handshake: reissue the latest state of every live
	// match so a returning player resyncs immediately.
	for _, match := range e.matchesOf(player.ID) {
		e.dispatch.gameUpdateTo(player.ID, match)
	}

	e.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("username", player.Username))
}

func (e *Engine) handleJoinQueue(ctx context.Context, conn Conn, payload model.JoinQueuePayload) {
	if payload.PlayerID == "" || payload.GameType == "" {
		e.sendError(conn, model.ErrInvalidInput)
		return
	}
	if _, err := e.rules.Oracle(payload.GameType); err != nil {
		e.sendError(conn, err)
		return
	}

	cctx, cancel := e.callCtx(ctx)
	defer cancel()

	player, err := e.store.GetPlayer(cctx, payload.PlayerID)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			e.sendError(conn, err)
		} else {
			e.sendError(conn, persistErr(err))
		}
		return
	}

	now := e.clock.Now()
	player.LastActive = now
	if err := e.store.SavePlayer(cctx, player); err != nil {
		e.logger.Warn("failed to touch player liveness",
			slog.String("player_id", string(player.ID)),
			slog.String("error", err.Error()))
	}

	w := &waiter{
		entryID:  e.random.UUID(),
		playerID: player.ID,
		username: player.Username,
		joinedAt: now,
	}
	position, removed := e.queues.join(w, payload.GameType)
	for _, old := range removed {
		e.markQueueEntry(cctx, old.entryID, model.QueueEntryRemoved)
	}

	// The durable log trails the live queue; a failed append never
	// blocks matchmaking.
	if err := e.store.AppendQueueEntry(cctx, &model.QueueEntry{
		ID:       w.entryID,
		PlayerID: w.playerID,
		GameType: payload.GameType,
		JoinedAt: now,
		Status:   model.QueueEntryWaiting,
	}); err != nil {
		e.logger.Warn("failed to log queue entry",
			slog.String("player_id", string(player.ID)),
			slog.String("error", err.Error()))
	}

	conn.Send(model.EventQueueJoined, model.QueueJoinedPayload{
		Position: position,
		GameType: payload.GameType,
	})

	e.logger.Info("player joined queue",
		slog.String("player_id", string(player.ID)),
		slog.String("game_type", string(payload.GameType)),
		slog.Int("position", position))

	e.sweep(ctx, payload.GameType)
}

// sweep pairs the earliest waiters two at a time. On match-creation
// failure the popped pair returns to the front of the queue in original
// order so fairness is preserved.
func (e *Engine) sweep(ctx context.Context, gameType model.GameType) {
	for {
		first, second, ok := e.queues.pop(gameType)
		if !ok {
			return
		}

		match, err := e.createMatch(ctx, gameType, first, second)
		if err != nil {
			e.queues.pushFront(gameType, first, second)
			e.logger.Error("match creation failed, pair returned to queue",
				slog.String("game_type", string(gameType)),
				slog.String("error", err.Error()))
			e.dispatch.send(first.playerID, model.EventError, model.ErrorPayload{Message: errorMessage(err)})
			e.dispatch.send(second.playerID, model.EventError, model.ErrorPayload{Message: errorMessage(err)})
			return
		}

		cctx, cancel := e.callCtx(ctx)
		e.markQueueEntry(cctx, first.entryID, model.QueueEntryMatched)
		e.markQueueEntry(cctx, second.entryID, model.QueueEntryMatched)
		cancel()

		e.dispatch.matchFound(match, first.username, second.username)
	}
}

func (e *Engine) createMatch(ctx context.Context, gameType model.GameType, first, second *waiter) (*model.Match, error) {
	oracle, err := e.rules.Oracle(gameType)
	if err != nil {
		return nil, err
	}

	cctx, cancel := e.callCtx(ctx)
	defer cancel()

	state, err := oracle.Initialize(cctx)
	if err != nil {
		return nil, oracleErr(err)
	}
	currentSlot, err := oracle.CurrentSlot(cctx, state)
	if err != nil {
		return nil, oracleErr(err)
	}

	match := &model.Match{
		ID:          model.MatchID(e.random.UUID()),
		Player1ID:   first.playerID,
		Player2ID:   second.playerID,
		GameType:    gameType,
		State:       state,
		CurrentSlot: currentSlot,
		Status:      model.MatchStatusActive,
		Outcome:     model.Outcome{Kind: model.OutcomeNone},
		StartTime:   e.clock.Now(),
	}

	if err := e.store.SaveMatch(cctx, match); err != nil {
		return nil, persistErr(err)
	}

	e.matches[match.ID] = match

	e.logger.Info("match created",
		slog.String("match_id", string(match.ID)),
		slog.String("game_type", string(gameType)),
		slog.String("player1", string(first.playerID)),
		slog.String("player2", string(second.playerID)))

	return match, nil
}

func (e *Engine) handleMove(ctx context.Context, conn Conn, payload model.MakeMovePayload) {
	if payload.MatchID == "" || payload.PlayerID == "" || len(payload.Move) == 0 {
		e.sendError(conn, model.ErrInvalidInput)
		return
	}

	match, ok := e.matches[payload.MatchID]
	if !ok {
		e.sendError(conn, e.finishedOrNotFound(ctx, payload.MatchID))
		return
	}

	slot := match.SlotOf(payload.PlayerID)
	if slot == model.SlotNone {
		e.sendError(conn, model.ErrNotParticipant)
		return
	}

	if e.inFlight[match.ID] {
		e.sendError(conn, model.ErrMoveInFlight)
		return
	}

	if match.CurrentSlot != slot {
		e.sendError(conn, model.ErrWrongTurn)
		return
	}

	e.inFlight[match.ID] = true
	defer delete(e.inFlight, match.ID)

	oracle, err := e.rules.Oracle(match.GameType)
	if err != nil {
		e.sendError(conn, err)
		return
	}

	cctx, cancel := e.callCtx(ctx)
	defer cancel()

	valid, err := oracle.Validate(cctx, match.State, payload.Move, slot)
	if err != nil {
		e.sendError(conn, oracleErr(err))
		return
	}
	if !valid {
		e.sendError(conn, model.ErrIllegalMove)
		return
	}

	newState, err := oracle.Apply(cctx, match.State, payload.Move, slot)
	if err != nil {
		e.sendError(conn, oracleErr(err))
		return
	}

	over, err := oracle.IsOver(cctx, newState)
	if err != nil {
		e.sendError(conn, oracleErr(err))
		return
	}

	updated := *match
	updated.State = newState

	if over {
		winnerSlot, err := oracle.Winner(cctx, newState)
		if err != nil {
			e.sendError(conn, oracleErr(err))
			return
		}
		draw, err := oracle.IsDraw(cctx, newState)
		if err != nil {
			e.sendError(conn, oracleErr(err))
			return
		}

		updated.Status = model.MatchStatusFinished
		updated.EndTime = e.clock.Now()
		if winnerSlot != model.SlotNone {
			updated.Outcome = model.Outcome{
				Kind:     model.OutcomeWin,
				WinnerID: updated.PlayerAt(winnerSlot),
			}
		} else if draw {
			updated.Outcome = model.Outcome{Kind: model.OutcomeDraw}
		}
	} else {
		nextSlot, err := oracle.CurrentSlot(cctx, newState)
		if err != nil {
			e.sendError(conn, oracleErr(err))
			return
		}
		updated.CurrentSlot = nextSlot
	}

	// Persistence comes before any in-memory mutation: on failure the
	// live match is untouched so the player can retry.
	count, err := e.store.CountTurnsForMatch(cctx, match.ID)
	if err != nil {
		e.sendError(conn, persistErr(err))
		return
	}
	turn := &model.Turn{
		ID:         e.random.UUID(),
		MatchID:    match.ID,
		PlayerID:   payload.PlayerID,
		Move:       payload.Move,
		TurnNumber: count + 1,
		CreatedAt:  e.clock.Now(),
	}
	if err := e.store.AppendTurn(cctx, turn); err != nil {
		e.sendError(conn, persistErr(err))
		return
	}
	if err := e.store.SaveMatch(cctx, &updated); err != nil {
		e.sendError(conn, persistErr(err))
		return
	}

	if over {
		delete(e.matches, match.ID)
	} else {
		e.matches[match.ID] = &updated
	}

	e.dispatch.gameUpdate(&updated, updateDelta{})

	e.logger.Info("move applied",
		slog.String("match_id", string(match.ID)),
		slog.String("player_id", string(payload.PlayerID)),
		slog.Int("turn_number", turn.TurnNumber),
		slog.Bool("game_over", over))
}

func (e *Engine) handleResign(ctx context.Context, conn Conn, payload model.ResignMatchPayload) {
	if payload.MatchID == "" || payload.PlayerID == "" {
		e.sendError(conn, model.ErrInvalidInput)
		return
	}

	match, ok := e.matches[payload.MatchID]
	if !ok {
		// Resignation is idempotent: a resign on an already-finished
		// match the player took part in is a no-op.
		err := e.finishedOrNotFound(ctx, payload.MatchID)
		if errors.Is(err, model.ErrAlreadyFinished) {
			return
		}
		e.sendError(conn, err)
		return
	}

	if match.SlotOf(payload.PlayerID) == model.SlotNone {
		e.sendError(conn, model.ErrNotParticipant)
		return
	}

	updated := *match
	updated.Status = model.MatchStatusFinished
	updated.EndTime = e.clock.Now()
	updated.Outcome = model.Outcome{
		Kind:     model.OutcomeResignation,
		WinnerID: match.Opponent(payload.PlayerID),
	}

	cctx, cancel := e.callCtx(ctx)
	defer cancel()
	if err := e.store.SaveMatch(cctx, &updated); err != nil {
		e.sendError(conn, persistErr(err))
		return
	}

	delete(e.matches, match.ID)
	e.dispatch.gameUpdate(&updated, updateDelta{
		resignation:    true,
		resignedPlayer: payload.PlayerID,
	})

	e.logger.Info("player resigned",
		slog.String("match_id", string(match.ID)),
		slog.String("player_id", string(payload.PlayerID)))
}

func (e *Engine) handleDisconnect(ctx context.Context, conn Conn) {
	playerID, ok := e.sessions.unregister(conn)
	if !ok {
		// Superseded or never-registered connection
		return
	}

	cctx, cancel := e.callCtx(ctx)
	defer cancel()

	for _, old := range e.queues.leave(playerID) {
		e.markQueueEntry(cctx, old.entryID, model.QueueEntryRemoved)
	}

	// Hard forfeit: every live match of the player finishes with the
	// opponent as winner. No grace period, so match lifetime stays
	// bounded.
	for _, match := range e.matchesOf(playerID) {
		opponent := match.Opponent(playerID)

		updated := *match
		updated.Status = model.MatchStatusFinished
		updated.EndTime = e.clock.Now()
		updated.Outcome = model.Outcome{
			Kind:     model.OutcomeWin,
			WinnerID: opponent,
		}

		if err := e.store.SaveMatch(cctx, &updated); err != nil {
			e.logger.Error("failed to persist disconnect forfeit",
				slog.String("match_id", string(match.ID)),
				slog.String("error", err.Error()))
		}

		delete(e.matches, match.ID)
		e.dispatch.opponentDisconnected(opponent, match.ID)
	}

	e.logger.Info("player disconnected",
		slog.String("player_id", string(playerID)))
}

// matchesOf returns the live matches the player participates in
func (e *Engine) matchesOf(playerID model.PlayerID) []*model.Match {
	var out []*model.Match
	for _, match := range e.matches {
		if match.SlotOf(playerID) != model.SlotNone {
			out = append(out, match)
		}
	}
	return out
}

// finishedOrNotFound distinguishes a move/resign against a finished match
// from one against an unknown match id.
func (e *Engine) finishedOrNotFound(ctx context.Context, matchID model.MatchID) error {
	cctx, cancel := e.callCtx(ctx)
	defer cancel()
	stored, err := e.store.GetMatch(cctx, matchID)
	if err == nil && stored.IsFinished() {
		return model.ErrAlreadyFinished
	}
	return model.ErrMatchNotFound
}

// markQueueEntry updates the durable queue log, best-effort
func (e *Engine) markQueueEntry(ctx context.Context, entryID string, status model.QueueEntryStatus) {
	if err := e.store.UpdateQueueEntryStatus(ctx, entryID, status); err != nil {
		e.logger.Warn("failed to update queue log entry",
			slog.String("entry_id", entryID),
			slog.String("error", err.Error()))
	}
}

// sendError reports a non-fatal error to the originating connection
func (e *Engine) sendError(conn Conn, err error) {
	e.logger.Debug("rejected event", slog.String("error", err.Error()))
	conn.Send(model.EventError, model.ErrorPayload{Message: errorMessage(err)})
}

func (e *Engine) callCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, e.callTimeout)
}

func oracleErr(err error) error {
	return fmt.Errorf("%w: %v", model.ErrOracleFailure, err)
}

func persistErr(err error) error {
	return fmt.Errorf("%w: %v", model.ErrPersistenceFailure, err)
}
