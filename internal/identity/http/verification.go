package http

import (
	"net/http"

	"github.com/crewlink/identity/internal/identity/service"
	"github.com/crewlink/identity/pkg/httpx"
)

// VerificationHandler serves the email verification pair: issuing a code to
// the authenticated account and validating the code it sends back.
type VerificationHandler struct {
	AuthService *service.AuthService
}

func (h *VerificationHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	acct, ok := AccountFromContext(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, gateDeniedMessage)
		return
	}

	if err := h.AuthService.SendEmailVerificationCode(r.Context(), acct.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "Email verification token sent successfully.")
}

func (h *VerificationHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	acct, ok := AccountFromContext(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, gateDeniedMessage)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "A verification token is required.")
		return
	}

	if err := h.AuthService.ValidateEmailVerificationCode(r.Context(), acct.Email, token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "Email verified successfully.")
}
