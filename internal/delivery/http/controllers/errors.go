package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/domain"
)

// failure holds the route-specific messages for errors whose wording depends on the route.
type failure struct {
	notFound string
	internal string
}

// writeError maps service errors to status codes. Unexpected errors are logged and the
// client sees only f.internal.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, f failure) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		helpers.WriteJSONError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, domain.ErrDuplicateEmail):
		helpers.WriteJSONError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, domain.ErrInsufficientCapacity):
		helpers.WriteJSONError(w, http.StatusBadRequest, "Not enough seats available")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, domain.ErrInvalidCredentials):
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, domain.ErrUnauthenticated):
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, f.notFound)
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, f.internal)
	}
}
