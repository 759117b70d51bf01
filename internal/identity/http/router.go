package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/crewlink/identity/internal/identity/service"
	"github.com/crewlink/identity/internal/identity/store"
	"github.com/crewlink/identity/pkg/httpx"
	"github.com/crewlink/identity/pkg/jwtx"
	"github.com/crewlink/identity/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Global chain. Order matters: the CORS layer answers preflights before
	// the session gate can reject them, and the gate consults its route
	// allow-list before demanding a bearer token.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.PermissiveCORS(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.middlewares = append(r.middlewares, r.sessionGate())

	r.registerAuth()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	r.Mux.Handle("POST /api/auth/register", &RegisterHandler{
		AuthService: r.AuthService,
	})

	r.Mux.Handle("POST /api/auth/login", &LoginHandler{
		AuthService: r.AuthService,
	})

	userHandler := &UserHandler{AuthService: r.AuthService}
	r.Mux.Handle("GET /api/auth/user", http.HandlerFunc(userHandler.HandleGet))
	r.Mux.Handle("DELETE /api/auth/user", http.HandlerFunc(userHandler.HandleDelete))

	verificationHandler := &VerificationHandler{AuthService: r.AuthService}
	r.Mux.Handle("GET /api/auth/send-email-verification-token",
		http.HandlerFunc(verificationHandler.HandleSend))
	r.Mux.Handle("PUT /api/auth/validate-email-verification-token",
		http.HandlerFunc(verificationHandler.HandleValidate))

	resetHandler := &ResetHandler{AuthService: r.AuthService}
	r.Mux.Handle("PUT /api/auth/send-password-reset-token",
		http.HandlerFunc(resetHandler.HandleSend))
	r.Mux.Handle("PUT /api/auth/reset-password",
		http.HandlerFunc(resetHandler.HandleReset))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.store))
}
