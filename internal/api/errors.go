package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
)

// Client-facing messages for request problems caught before the service runs.
const (
	msgInvalidBody   = "Invalid request body"
	msgInvalidTaskID = "Invalid task id"
	msgUnexpected    = "An unexpected error occurred"
)

// MapErrorToStatusCode maps service failures to HTTP status codes.
// Anything without a known kind is a server error.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidOperation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message a client may see for err.
// Only failures with a known kind expose their service message.
func GetSafeErrorMessage(err error) string {
	if err == nil || MapErrorToStatusCode(err) == http.StatusInternalServerError {
		return msgUnexpected
	}
	if msg, ok := service.ClientMessage(err); ok {
		return msg
	}
	return msgUnexpected
}

// HandleAPIError writes the response for an error returned by the service.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// respondBadRequest writes a 400 for a request rejected before reaching the service.
func respondBadRequest(w http.ResponseWriter, r *http.Request, message string, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, message, err)
}

// fieldMessages holds the client message for each field and failed rule.
var fieldMessages = map[string]map[string]string{
	"title": {
		"notblank": "title is required",
		"trimmax":  "title must be at most 100 characters",
	},
	"priority": {
		"required": domain.ErrInvalidPriority.Error(),
	},
	"status": {
		"required": domain.ErrInvalidStatus.Error(),
	},
}

// validationMessage turns validator output into a "; "-joined client message.
func validationMessage(err error) string {
	fieldErrs := shared.FieldErrors(err)
	if len(fieldErrs) == 0 {
		return "Validation error"
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.Field][fe.Tag]
		if !ok {
			msg = fe.Field + " is invalid"
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}

// decodeErrorMessage explains a body that could not be decoded. Unknown enum
// values get their field message.
func decodeErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidPriority):
		return domain.ErrInvalidPriority.Error()
	case errors.Is(err, domain.ErrInvalidStatus):
		return domain.ErrInvalidStatus.Error()
	default:
		return msgInvalidBody
	}
}
