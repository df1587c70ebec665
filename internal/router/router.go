package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/epicgamers652-droid/IN-APP/internal/handlers"
	"github.com/epicgamers652-droid/IN-APP/internal/middleware"
	"github.com/epicgamers652-droid/IN-APP/internal/observability"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Posts    *handlers.PostHandler
	Users    *handlers.UserHandler
	Stories  *handlers.StoryHandler
	Messages *handlers.MessageHandler
	Search   *handlers.SearchHandler
	Health   *handlers.HealthHandler
	// Realtime serves the WebSocket upgrade. Nil leaves /ws unrouted.
	Realtime http.Handler
}

// DefaultRequestTimeout stays below the server's 10s write timeout.
const DefaultRequestTimeout = 8 * time.Second

type Options struct {
	ServiceName         string
	AuthRateLimitPerMin int
	RequestTimeout      time.Duration
}

func NewRouter(h Handlers, verifier middleware.TokenVerifier, opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(observability.MetricsMiddleware(opts.ServiceName))
	r.Use(middleware.Recovery())

	if h.Realtime != nil {
		r.Handle("/ws", h.Realtime)
	}

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(opts.RequestTimeout))

		api.Get("/api/health", h.Health.Health)

		api.With(middleware.RateLimit(opts.AuthRateLimitPerMin, time.Minute)).
			Post("/api/auth", h.Auth.Authenticate)

		api.Get("/api/posts", h.Posts.Feed)
		api.Get("/api/trending", h.Posts.Trending)
		api.Get("/api/search", h.Search.Search)
		api.Get("/api/stories", h.Stories.Active)

		// {user} is a username on the bare lookup and a user id below it.
		api.Get("/api/users", h.Users.List)
		api.Get("/api/users/{user}", h.Users.GetByUsername)
		api.Get("/api/users/{user}/posts", h.Users.Posts)

		api.Group(func(p chi.Router) {
			p.Use(middleware.JWT(verifier))

			p.Post("/api/posts", h.Posts.Create)
			p.Post("/api/posts/{id}/like", h.Posts.ToggleLike)
			p.Post("/api/posts/{id}/comments", h.Posts.AddComment)

			p.Put("/api/users/profile", h.Users.UpdateProfile)
			p.Post("/api/users/{user}/follow", h.Users.ToggleFollow)

			p.Post("/api/stories", h.Stories.Create)
			p.Post("/api/stories/{id}/view", h.Stories.View)

			msgPath := "/api/messages"
			p.Get(msgPath, h.Messages.Thread)
			p.Post(msgPath, h.Messages.Send)
			p.Post(msgPath+"/read", h.Messages.MarkRead)
			p.Get("/api/conversations", h.Messages.Conversations)
		})
	})

	return otelhttp.NewHandler(r, opts.ServiceName)
}
