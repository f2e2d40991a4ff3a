package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/soapbox/internal/api/service"
	"github.com/aussiebroadwan/soapbox/internal/api/store"
	"github.com/aussiebroadwan/soapbox/internal/metrics"
	"github.com/aussiebroadwan/soapbox/pkg/authz"
	"github.com/aussiebroadwan/soapbox/pkg/httpx"
	"github.com/aussiebroadwan/soapbox/pkg/jwtx"
	"github.com/aussiebroadwan/soapbox/pkg/slogx"

	_ "github.com/aussiebroadwan/soapbox/api/docs" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// ExemptPaths pass the authentication stage without a token. Token
// maintenance endpoints are listed so an expired access token can still be
// refreshed or logged out.
var ExemptPaths = []string{
	"/login",
	"/register",
	"/refresh-token",
	"/logout",
	"/livez",
	"/readyz",
	"/metrics",
	"/swagger/",
}

type Options struct {
	Verifier     jwtx.Verifier
	Store        store.Store
	Logger       *slog.Logger
	Metrics      metrics.Recorder
	BuildVersion string
	Cookies      httpx.CookieConfig
	CORSOrigins  []string
	TrustProxy   bool
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      metrics.Recorder
	cookies      httpx.CookieConfig
	trustProxy   bool

	store          store.Store
	SessionService *service.SessionService
	UserService    *service.UserService
	PostService    *service.PostService
	CommentService *service.CommentService
}

func NewRouter(opts Options) *Router {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNoopMetrics()
	}

	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     opts.Verifier,
		buildVersion: opts.BuildVersion,
		startTime:    time.Now(),
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		cookies:      opts.Cookies,
		trustProxy:   opts.TrustProxy,
		store:        opts.Store,
	}

	// Global chain: logging, metrics, CORS, then the authentication stage.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		metrics.HTTPMiddleware(r.metrics, r.routePattern),
		httpx.CORS(opts.CORSOrigins),
		httpx.GateWith(r.observeRejection, httpx.Authenticate(r.verifier, ExemptPaths...)),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerUsers()
	r.registerPosts()
	r.registerComments()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						Soapbox API
//	@version					0.1.0
//	@description				A small social API: users, posts, comments and likes.
//	@description
//	@description				Access tokens are HS256 JWTs valid for 15 minutes, refresh tokens for 1 day.
//	@description				Every response can be rendered as JSON, XML, YAML or plain text through the Accept header.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/soapbox
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:3000
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}". The access_token cookie works too.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// routePattern resolves the mux pattern for metric labels.
func (r *Router) routePattern(req *http.Request) string {
	_, pattern := r.Mux.Handler(req)
	return pattern
}

func (r *Router) observeRejection(_ *http.Request, rej *httpx.Rejection) {
	r.metrics.RecordGateRejection(rej.Stage, rej.Reason)
}

// gate builds the per-route stages that run after authentication.
func (r *Router) gate(h http.HandlerFunc, stages ...httpx.Stage) http.Handler {
	return httpx.Chain(h, httpx.GateWith(r.observeRejection, stages...))
}

func (r *Router) registerSession() {
	h := &AuthHandler{Sessions: r.SessionService, Cookies: r.cookies, TrustProxy: r.trustProxy}

	r.Mux.HandleFunc("POST /login", h.HandleLogin)
	r.Mux.HandleFunc("POST /refresh-token", h.HandleRefresh)
	r.Mux.HandleFunc("POST /logout", h.HandleLogout)
	r.Mux.Handle("GET /me", r.gate(h.HandleMe, httpx.RequireRole()))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Users: r.UserService}

	r.Mux.HandleFunc("POST /register", h.HandleRegister)

	r.Mux.Handle("GET /users", r.gate(h.HandleList, httpx.RequireRole()))
	r.Mux.Handle("POST /users", r.gate(h.HandleCreate, httpx.RequireRole(authz.RoleAdmin)))
	// Ownership is checked by the service: self or admin.
	r.Mux.Handle("PUT /users/{id}", r.gate(h.HandleUpdate, httpx.RequireRole()))
	r.Mux.Handle("DELETE /users/{id}", r.gate(h.HandleDelete, httpx.RequireRole(authz.RoleAdmin)))

	r.Mux.Handle("GET /profile", r.gate(h.HandleProfile, httpx.RequireScope(authz.ScopeProfileRead)))
	r.Mux.Handle("PUT /profile", r.gate(h.HandleUpdateProfile, httpx.RequireScope(authz.ScopeProfileWrite)))
}

func (r *Router) registerPosts() {
	h := &PostsHandler{Posts: r.PostService}

	r.Mux.Handle("GET /posts", r.gate(h.HandleList, httpx.RequireScope(authz.ScopePostsRead)))
	r.Mux.Handle("GET /posts/{id}", r.gate(h.HandleGet, httpx.RequireScope(authz.ScopePostsRead)))

	r.Mux.Handle("POST /user/posts", r.gate(h.HandleCreate, httpx.RequireScope(authz.ScopePostsWrite)))
	r.Mux.Handle("PUT /user/posts/{id}", r.gate(h.HandleUpdate, httpx.RequireScope(authz.ScopePostsWrite)))
	r.Mux.Handle("DELETE /user/posts/{id}", r.gate(h.HandleDelete, httpx.RequireScope(authz.ScopePostsWrite)))
	r.Mux.Handle("PUT /user/posts/{id}/like", r.gate(h.HandleLike, httpx.RequireScope(authz.ScopePostsWrite)))
}

func (r *Router) registerComments() {
	h := &CommentsHandler{Comments: r.CommentService}

	r.Mux.Handle("GET /posts/{postId}/comments", r.gate(h.HandleList, httpx.RequireScope(authz.ScopeCommentsRead)))
	r.Mux.Handle("GET /posts/{postId}/comments/{id}", r.gate(h.HandleGet, httpx.RequireScope(authz.ScopeCommentsRead)))

	r.Mux.Handle("POST /user/posts/{postId}/comments", r.gate(h.HandleCreate, httpx.RequireScope(authz.ScopeCommentsWrite)))
	r.Mux.Handle("PUT /user/posts/{postId}/comments/{id}", r.gate(h.HandleUpdate, httpx.RequireScope(authz.ScopeCommentsWrite)))
	r.Mux.Handle("DELETE /user/posts/{postId}/comments/{id}", r.gate(h.HandleDelete, httpx.RequireScope(authz.ScopeCommentsWrite)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /{$}", r.gate(RootHandler(), httpx.RequireRole()))
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))

	if m, ok := r.metrics.(*metrics.Metrics); ok {
		r.Mux.Handle("GET /metrics", m.Handler())
	}
}
