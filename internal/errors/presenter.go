package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"animeapi/internal/domain"
)

const notFoundMessage = "A NotFound exception happened"

// Present writes the structured error body for a failed request. It is the
// only place in the application that produces an error response: handlers
// and middleware hand any failure here and the mapping below decides the
// status code and developer message. Unclassified errors fall through to a
// generic 500 rather than leaking internal detail.
func Present(w http.ResponseWriter, err error) {
	status, msg := statusAndMessage(err)

	body := domain.ErrorResponse{
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		Status:           status,
		DeveloperMessage: msg,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// statusAndMessage is the total mapping from failure cause to wire outcome.
func statusAndMessage(err error) (int, string) {
	var (
		notFound     *NotFoundError
		validation   *ValidationError
		unauthorized *UnauthorizedError
		forbidden    *ForbiddenError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFoundMessage
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Msg
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized, unauthorized.Msg
	case errors.As(err, &forbidden):
		return http.StatusForbidden, forbidden.Msg
	default:
		return http.StatusInternalServerError, "an unexpected internal error happened"
	}
}
