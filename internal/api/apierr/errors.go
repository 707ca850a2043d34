package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/matchengine-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeUnknownGameType  = "UNKNOWN_GAME_TYPE"
	CodePlayerNotFound   = "PLAYER_NOT_FOUND"
	CodeMatchNotFound    = "MATCH_NOT_FOUND"
	CodeNotParticipant   = "NOT_PARTICIPANT"
	CodeNotYourTurn      = "NOT_YOUR_TURN"
	CodeIllegalMove      = "ILLEGAL_MOVE"
	CodeMatchFinished    = "MATCH_FINISHED"
	CodeMoveInFlight     = "MOVE_IN_FLIGHT"
	CodeRulesUnavailable = "RULES_UNAVAILABLE"
	CodeStorageError     = "STORAGE_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Invalid request"}}
	case errors.Is(err, model.ErrUnknownGameType):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownGameType, "Unknown game type"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrMatchNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMatchNotFound, "Match not found"}}
	case errors.Is(err, model.ErrNotParticipant):
		return &httpError{http.StatusForbidden, APIError{CodeNotParticipant, "Not a participant in this match"}}
	case errors.Is(err, model.ErrWrongTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrIllegalMove):
		return &httpError{http.StatusConflict, APIError{CodeIllegalMove, "Illegal move"}}
	case errors.Is(err, model.ErrAlreadyFinished):
		return &httpError{http.StatusConflict, APIError{CodeMatchFinished, "Match is already finished"}}
	case errors.Is(err, model.ErrMoveInFlight):
		return &httpError{http.StatusConflict, APIError{CodeMoveInFlight, "A move is already being processed"}}
	case errors.Is(err, model.ErrOracleFailure):
		return &httpError{http.StatusBadGateway, APIError{CodeRulesUnavailable, "Rules engine unavailable"}}
	case errors.Is(err, model.ErrPersistenceFailure):
		return &httpError{http.StatusInternalServerError, APIError{CodeStorageError, "Storage error"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
