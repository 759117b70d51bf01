package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/crewlink/identity/internal/identity/domain"
	"github.com/crewlink/identity/pkg/httpx"
	"github.com/crewlink/identity/pkg/slogx"
)

// gateDeniedMessage is the single body returned for every authentication
// failure. Sub-kinds (missing header, bad signature, expired, deleted
// account) are logged but never distinguished in the response, so the gate
// cannot be used as a token oracle.
const gateDeniedMessage = "Invalid authentication token, or token missing."

// unsecuredPaths bypass the session gate entirely. Credential bootstrap
// routes by necessity, health probes by convention.
var unsecuredPaths = map[string]bool{
	"/api/auth/login":                     true,
	"/api/auth/register":                  true,
	"/api/auth/send-password-reset-token": true,
	"/api/auth/reset-password":            true,
	"/livez":                              true,
	"/readyz":                             true,
}

type ctxKey int

const ctxAccountKey ctxKey = iota

// AccountFromContext returns the account the session gate resolved for this
// request. The second return is false on unsecured routes.
func AccountFromContext(ctx context.Context) (domain.Account, bool) {
	acct, ok := ctx.Value(ctxAccountKey).(domain.Account)
	return acct, ok
}

// sessionGate verifies the bearer token on every secured route and attaches
// the resolved account to the request context.
func (r *Router) sessionGate() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if unsecuredPaths[req.URL.Path] {
				next.ServeHTTP(w, req)
				return
			}

			ctx := req.Context()
			log := slogx.FromContext(ctx)

			auth := req.Header.Get("Authorization")
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || token == "" {
				log.Debug("session gate: missing bearer token", "path", req.URL.Path)
				httpx.WriteMessage(w, http.StatusUnauthorized, gateDeniedMessage)
				return
			}

			claims, err := r.verifier.Verify(token)
			if err != nil {
				log.Debug("session gate: token rejected", "path", req.URL.Path, "err", err)
				httpx.WriteMessage(w, http.StatusUnauthorized, gateDeniedMessage)
				return
			}

			// A token can outlive its account. Resolution failure is the
			// same as an invalid token.
			acct, err := r.AuthService.GetAccount(ctx, claims.Subject)
			if err != nil {
				log.Debug("session gate: account resolution failed", "subject", claims.Subject, "err", err)
				httpx.WriteMessage(w, http.StatusUnauthorized, gateDeniedMessage)
				return
			}

			next.ServeHTTP(w, req.WithContext(context.WithValue(ctx, ctxAccountKey, acct)))
		})
	}
}
