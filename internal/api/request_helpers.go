package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// getPathID extracts a positive task ID from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "must be a positive integer", domain.ErrInvalidID)
	}
	return id, nil
}

// decodeAndValidate reads the JSON body into req and validates it. On failure
// it writes a 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		respondBadRequest(w, r, decodeErrorMessage(err), err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		respondBadRequest(w, r, validationMessage(err), err)
		return false
	}
	return true
}

// parseTaskID reads the {id} path parameter. On failure it writes a 400
// response and returns false.
func parseTaskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := getPathID(r, "id")
	if err != nil {
		respondBadRequest(w, r, msgInvalidTaskID, err)
		return 0, false
	}
	return id, true
}
