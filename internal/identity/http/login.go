package http

import (
	"net/http"

	"github.com/crewlink/identity/internal/identity/service"
	"github.com/crewlink/identity/pkg/httpx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, msg := decodeCredentials(r)
	if msg != "" {
		httpx.WriteMessage(w, http.StatusBadRequest, msg)
		return
	}

	sess, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{
		Token:   sess.Token,
		Message: sess.Message,
	})
}
