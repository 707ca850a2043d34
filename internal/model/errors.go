package model

import "errors"

// Common errors used across the application
var (
	// Input errors
	ErrInvalidInput    = errors.New("invalid or missing input")
	ErrUnknownGameType = errors.New("unknown game type")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Match errors
	ErrMatchNotFound   = errors.New("match not found")
	ErrNotParticipant  = errors.New("player is not a participant in this match")
	ErrWrongTurn       = errors.New("not this player's turn")
	ErrIllegalMove     = errors.New("illegal move")
	ErrAlreadyFinished = errors.New("match is already finished")
	ErrMoveInFlight    = errors.New("a move is already being processed for this match")

	// External collaborator errors
	ErrOracleFailure      = errors.New("rules oracle failure")
	ErrPersistenceFailure = errors.New("persistence failure")
)
