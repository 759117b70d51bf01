package http

import (
	"errors"
	"net/http"

	"github.com/crewlink/identity/internal/identity/service"
	"github.com/crewlink/identity/pkg/httpx"
	"github.com/crewlink/identity/pkg/slogx"
)

// writeServiceError maps AuthService failure kinds onto status codes and a
// user-visible message. Account-not-found and wrong-password deliberately
// share one message so login cannot be used to enumerate accounts.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteMessage(w, http.StatusConflict, "Email is already registered.")
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteMessage(w, http.StatusBadRequest, "Email or password is incorrect.")
	case errors.Is(err, service.ErrAlreadyVerified):
		httpx.WriteMessage(w, http.StatusBadRequest, "Email is already verified.")
	case errors.Is(err, service.ErrCodeExpired):
		httpx.WriteMessage(w, http.StatusBadRequest, "Verification token expired.")
	case errors.Is(err, service.ErrCodeMismatch):
		httpx.WriteMessage(w, http.StatusBadRequest, "Verification token failed.")
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Internal server error.")
	}
}
