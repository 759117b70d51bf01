package http

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"github.com/crewlink/identity/internal/identity/service"
	"github.com/crewlink/identity/pkg/httpx"
)

// credentialsRequest is the body of both register and login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse carries a fresh bearer token.
type sessionResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// decodeCredentials parses and validates a credentials body. The returned
// message is empty when the request is well-formed.
func decodeCredentials(r *http.Request) (credentialsRequest, string) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, "Request body must be valid JSON."
	}
	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return req, "A valid email is required."
	}
	if req.Password == "" {
		return req, "A password is required."
	}
	return req, ""
}

type RegisterHandler struct {
	AuthService *service.AuthService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, msg := decodeCredentials(r)
	if msg != "" {
		httpx.WriteMessage(w, http.StatusBadRequest, msg)
		return
	}

	sess, err := h.AuthService.Register(r.Context(), req.Email, req.Password)
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
