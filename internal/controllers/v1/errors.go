package v1

import (
	"errors"
	"net/http"

	"github.com/pe-program/backend/internal/allocation"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate HTTP status for an error
func status(err error) int {
	switch allocation.Kind(err) {
	case allocation.KindBudgetExceeded, allocation.KindConflict:
		return http.StatusConflict
	case allocation.KindNotFound:
		return http.StatusNotFound
	case allocation.KindTransientStore:
		return http.StatusServiceUnavailable
	}

	return http.StatusBadRequest
}

// invalidRequest marks an error in the request itself, e.g. a body that
// cannot be parsed, as a validation error
func invalidRequest(err error) error {
	return &allocation.ValidationError{Reason: err.Error()}
}

var (
	errCleanupConfirmation = errors.New("the confirmation for the cleanup API call was incorrect")
	errExcludeIncomplete   = errors.New("excludeCategory and excludeId must be specified together")
)
