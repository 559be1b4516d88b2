package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/loomchat/loom/internal/auth/service"
	"github.com/loomchat/loom/internal/auth/store"
	"github.com/loomchat/loom/pkg/httpx"
	"github.com/loomchat/loom/pkg/jwtx"
	"github.com/loomchat/loom/pkg/slogx"

	_ "github.com/loomchat/loom/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
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

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerTwoFactor()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Loom Authentication Service API
//	@version		0.1.0
//	@description	Credential and token lifecycle service: password login, JWT access
//	@description	tokens, rotating refresh tokens, one-time reset/verification tokens
//	@description	and TOTP two-factor authentication.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	r.Mux.HandleFunc("POST /v1/auth/register", h.HandleRegister)
	r.Mux.HandleFunc("POST /v1/auth/login", h.HandleLogin)
	r.Mux.HandleFunc("POST /v1/auth/login/2fa", h.HandleLoginWith2FA)
	r.Mux.HandleFunc("POST /v1/auth/refresh", h.HandleRefresh)
	r.Mux.HandleFunc("POST /v1/auth/logout", h.HandleLogout)
	r.Mux.HandleFunc("POST /v1/auth/password-reset/request", h.HandlePasswordResetRequest)
	r.Mux.HandleFunc("POST /v1/auth/password-reset/complete", h.HandlePasswordResetComplete)
	r.Mux.HandleFunc("POST /v1/auth/email/verify", h.HandleVerifyEmail)
	r.Mux.HandleFunc("POST /v1/auth/email/resend", h.HandleResendVerification)
}

func (r *Router) registerTwoFactor() {
	h := &TwoFactorHandler{AuthService: r.AuthService}
	authn := httpx.AuthnMiddleware(r.verifier)

	r.Mux.Handle("POST /v1/2fa/generate",
		httpx.Chain(http.HandlerFunc(h.HandleGenerate), authn))
	r.Mux.Handle("POST /v1/2fa/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify), authn))

	// Disabling demands proof of the second factor twice over: a
	// 2FA-verified access token and a current code in the body.
	r.Mux.Handle("POST /v1/2fa/disable",
		httpx.Chain(http.HandlerFunc(h.HandleDisable), authn, httpx.RequireTwoFactor()))
}

func (r *Router) registerSystem() {
	r.Mux.HandleFunc("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.HandleFunc("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
