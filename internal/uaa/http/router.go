package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/uaa/internal/uaa/domain"
	"github.com/aussiebroadwan/uaa/internal/uaa/service"
	"github.com/aussiebroadwan/uaa/internal/uaa/store"
	"github.com/aussiebroadwan/uaa/pkg/httpx"
	"github.com/aussiebroadwan/uaa/pkg/jwtx"
	"github.com/aussiebroadwan/uaa/pkg/slogx"

	_ "github.com/aussiebroadwan/uaa/api/uaa" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// RateLimits are the per route profiles. Zero values fall back to the httpx
// defaults.
type RateLimits struct {
	Strict   httpx.RateLimit
	Moderate httpx.RateLimit
	Lenient  httpx.RateLimit
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeyManager
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	ClientService *service.ClientService
	TokenService  *service.TokenService
	UserService   *service.UserService

	// Metrics serves /metrics when set.
	Metrics http.Handler

	// AllowedBaseURLs restricts the base_url accepted in account request
	// bodies. Empty accepts any absolute http(s) URL.
	AllowedBaseURLs []string

	Limits RateLimits
}

func NewRouter(
	keys *jwtx.KeyManager,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Limits: RateLimits{
			Strict:   httpx.StrictLimit,
			Moderate: httpx.ModerateLimit,
			Lenient:  httpx.LenientLimit,
		},
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOAuth2()
	r.registerClients()
	r.registerUsers()
	r.registerAccount()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			UAA Service API
//	@version		0.1.0
//	@description	OAuth2 client registry, token issuance and account management.
//	@description
//	@description				Access tokens are JWTs that can be verified with the keys published at /.well-known/jwks.json.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/uaa
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
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

// admin chains a handler behind bearer authentication, ROLE_ADMIN and a
// per subject rate limit.
func (r *Router) admin(h http.HandlerFunc, limit httpx.RateLimit) http.Handler {
	return httpx.Chain(h,
		httpx.Authenticate(r.keys.Verifier()),
		httpx.RequireAuthority(domain.AuthorityAdmin),
		httpx.RateLimitBy(limit, httpx.Subject),
	)
}

func (r *Router) registerOAuth2() {
	tokenHandler := &TokenHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /v1/oauth2/token",
		httpx.Chain(tokenHandler,
			httpx.RateLimitBy(r.Limits.Strict, tokenRateKey),
		),
	)

	revokeHandler := &RevokeHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /v1/oauth2/revoke",
		httpx.Chain(revokeHandler,
			httpx.RateLimitBy(r.Limits.Moderate, httpx.ClientIP),
		),
	)

	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys.KeySet()),
			httpx.RateLimitBy(r.Limits.Lenient, httpx.ClientIP),
		),
	)
}

func (r *Router) registerClients() {
	h := &ClientsHandler{ClientService: r.ClientService}

	r.Mux.Handle("POST /v1/clients", r.admin(h.HandleCreate, r.Limits.Moderate))
	r.Mux.Handle("PUT /v1/clients", r.admin(h.HandleUpdate, r.Limits.Moderate))
	r.Mux.Handle("GET /v1/clients", r.admin(h.HandleList, r.Limits.Lenient))
	r.Mux.Handle("GET /v1/clients/{id}", r.admin(h.HandleGet, r.Limits.Lenient))
	r.Mux.Handle("DELETE /v1/clients/{id}", r.admin(h.HandleDelete, r.Limits.Moderate))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService, AllowedBaseURLs: r.AllowedBaseURLs}

	r.Mux.Handle("POST /v1/users", r.admin(h.HandleCreate, r.Limits.Moderate))
}

func (r *Router) registerAccount() {
	h := &UsersHandler{UserService: r.UserService, AllowedBaseURLs: r.AllowedBaseURLs}

	r.Mux.Handle("GET /v1/account",
		httpx.Chain(http.HandlerFunc(h.HandleAccount),
			httpx.Authenticate(r.keys.Verifier()),
			httpx.RequireUser(),
			httpx.RateLimitBy(r.Limits.Lenient, httpx.Subject),
		),
	)

	// Anonymous account flows send mail, so they get the strict profile.
	public := func(h http.HandlerFunc) http.Handler {
		return httpx.Chain(h, httpx.RateLimitBy(r.Limits.Strict, httpx.ClientIP))
	}
	r.Mux.Handle("POST /v1/account/register", public(h.HandleRegister))
	r.Mux.Handle("GET /v1/account/activate", public(h.HandleActivate))
	r.Mux.Handle("POST /v1/account/reset-password/init", public(h.HandleResetInit))
	r.Mux.Handle("POST /v1/account/reset-password/finish", public(h.HandleResetFinish))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitBy(r.Limits.Lenient, httpx.ClientIP),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitBy(r.Limits.Lenient, httpx.ClientIP),
		),
	)
	if r.Metrics != nil {
		r.Mux.Handle("GET /metrics", r.Metrics)
	}
}
