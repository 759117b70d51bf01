package http

import (
	"net/http"
	"net/mail"

	"github.com/crewlink/identity/internal/identity/service"
	"github.com/crewlink/identity/pkg/httpx"
)

// ResetHandler serves the password reset pair. Both routes are unsecured:
// the caller has by definition lost the ability to authenticate.
type ResetHandler struct {
	AuthService *service.AuthService
}

func (h *ResetHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if _, err := mail.ParseAddress(email); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "A valid email is required.")
		return
	}

	if err := h.AuthService.SendPasswordResetCode(r.Context(), email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "Password reset token sent successfully.")
}

func (h *ResetHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	email := q.Get("email")
	token := q.Get("token")
	newPassword := q.Get("newPassword")

	if _, err := mail.ParseAddress(email); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "A valid email is required.")
		return
	}
	if token == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "A reset token is required.")
		return
	}
	if newPassword == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "A new password is required.")
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), email, newPassword, token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "Password reset successfully.")
}
