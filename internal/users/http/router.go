package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/userdir/internal/users/domain"
	"github.com/aussiebroadwan/userdir/internal/users/service"
	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/aussiebroadwan/userdir/pkg/httpx"
	"github.com/aussiebroadwan/userdir/pkg/slogx"
	"github.com/aussiebroadwan/userdir/pkg/usersdk"

	_ "github.com/aussiebroadwan/userdir/api/users" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	limits       httpx.RateLimits

	store        store.Store
	TokenService *service.TokenService
	UserService  *service.UserService
}

func NewRouter(buildVersion string, st store.Store, limits httpx.RateLimits, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		limits:       limits,
		store:        st,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerTokens()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			User Directory API
//	@version		0.1.0
//	@description	Creates accounts, exchanges credentials for an opaque bearer token and serves paginated user listings.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/userdir
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.basic	BasicAuth
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Opaque token from POST /api/tokens. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(bearerAuthenticator{tokens: r.TokenService})
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	// POST /api/users - public signup, strict by IP
	r.Mux.Handle("POST /api/users",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)

	// Reads are lenient per user, writes moderate per user.
	r.Mux.Handle("GET /api/users",
		httpx.Chain(withUser(h.HandleList),
			r.authn(),
			httpx.RateLimitByUser(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /api/users/{id}",
		httpx.Chain(withUser(h.HandleGet),
			r.authn(),
			httpx.RateLimitByUser(r.limits.Lenient),
		),
	)
	r.Mux.Handle("PUT /api/users/{id}",
		httpx.Chain(withUser(h.HandleUpdate),
			r.authn(),
			httpx.RateLimitByUser(r.limits.Moderate),
		),
	)
	r.Mux.Handle("DELETE /api/users/{id}",
		httpx.Chain(withUser(h.HandleDelete),
			r.authn(),
			httpx.RateLimitByUser(r.limits.Moderate),
		),
	)
}

func (r *Router) registerTokens() {
	h := &TokensHandler{TokenService: r.TokenService}

	// POST /api/tokens - credential check, strict by IP and username
	r.Mux.Handle("POST /api/tokens",
		httpx.Chain(http.HandlerFunc(h.HandleIssue),
			httpx.RateLimitByIPAndBasicUser(r.limits.Strict),
		),
	)

	r.Mux.Handle("DELETE /api/tokens",
		httpx.Chain(withUser(h.HandleRevoke),
			r.authn(),
			httpx.RateLimitByUser(r.limits.Moderate),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
}

// bearerAuthenticator adapts the token service to httpx.AuthnMiddleware.
// The principal it returns is the domain.User itself.
type bearerAuthenticator struct {
	tokens *service.TokenService
}

func (a bearerAuthenticator) AuthenticateBearer(ctx context.Context, token string) (httpx.Principal, error) {
	user, err := a.tokens.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// userHandlerFunc is a handler for routes behind AuthnMiddleware. It receives
// the authenticated caller explicitly.
type userHandlerFunc func(w http.ResponseWriter, r *http.Request, caller domain.User)

func withUser(fn userHandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := httpx.PrincipalFromContext(r.Context())
		caller, ok := p.(domain.User)
		if !ok {
			usersdk.ErrInvalidToken.WriteError(w)
			return
		}
		fn(w, r, caller)
	})
}
