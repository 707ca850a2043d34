package handler

import (
	"net/http"

	"github.com/mcoot/matchengine-go/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest   = apierr.CodeInvalidRequest
	CodeUnknownGameType  = apierr.CodeUnknownGameType
	CodePlayerNotFound   = apierr.CodePlayerNotFound
	CodeMatchNotFound    = apierr.CodeMatchNotFound
	CodeNotParticipant   = apierr.CodeNotParticipant
	CodeNotYourTurn      = apierr.CodeNotYourTurn
	CodeIllegalMove      = apierr.CodeIllegalMove
	CodeMatchFinished    = apierr.CodeMatchFinished
	CodeMoveInFlight     = apierr.CodeMoveInFlight
	CodeRulesUnavailable = apierr.CodeRulesUnavailable
	CodeStorageError     = apierr.CodeStorageError
	CodeInternalError    = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
