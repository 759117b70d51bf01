package http

import (
	"net/http"
	"time"

	"github.com/crewlink/identity/internal/identity/service"
	"github.com/crewlink/identity/pkg/httpx"
	"github.com/crewlink/identity/pkg/slogx"
)

// accountResponse is the authenticated account's profile. Hashes and
// pending-code state never leave the service.
type accountResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type UserHandler struct {
	AuthService *service.AuthService
}

func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	acct, ok := AccountFromContext(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, gateDeniedMessage)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, accountResponse{
		ID:            acct.ID,
		Email:         acct.Email,
		EmailVerified: acct.EmailVerified,
		CreatedAt:     acct.CreatedAt,
		UpdatedAt:     acct.UpdatedAt,
	})
}

func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	acct, ok := AccountFromContext(ctx)
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, gateDeniedMessage)
		return
	}

	if err := h.AuthService.DeleteAccount(ctx, acct.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(ctx).Info("account deleted", "account_id", acct.ID)
	httpx.WriteMessage(w, http.StatusOK, "Account deleted successfully.")
}
