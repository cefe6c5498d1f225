package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"socialite/internal/handler"
	"socialite/internal/httputil"
	authmw "socialite/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	PostHandler         *handler.PostHandler
	FeedHandler         *handler.FeedHandler
	MessageHandler      *handler.MessageHandler
	NotificationHandler *handler.NotificationHandler
	MediaHandler        *handler.MediaHandler // nil when media storage is not configured
	JWTSecret           string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", cfg.UserHandler.List)
		r.Get("/search", cfg.UserHandler.Search)
		r.Get("/{id}", cfg.UserHandler.Get)
		r.Get("/{id}/followers", cfg.UserHandler.Followers)
		r.Get("/{id}/following", cfg.UserHandler.Following)
		r.Get("/{id}/posts", cfg.PostHandler.ListByAuthor)
	})

	r.Get("/posts", cfg.PostHandler.List)

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.Auth(cfg.JWTSecret))

		r.Get("/me", cfg.UserHandler.Me)
		r.Put("/me/profile", cfg.UserHandler.UpdateProfile)

		r.Post("/users/{id}/follow", cfg.UserHandler.Follow)
		r.Delete("/users/{id}/follow", cfg.UserHandler.Unfollow)

		r.Post("/posts", cfg.PostHandler.Create)
		r.Put("/posts/{id}", cfg.PostHandler.Edit)
		r.Delete("/posts/{id}", cfg.PostHandler.Delete)
		r.Post("/posts/{id}/like", cfg.PostHandler.Like)
		r.Post("/posts/{id}/comments", cfg.PostHandler.Comment)
		r.Post("/posts/{id}/repost", cfg.PostHandler.Repost)

		r.Get("/feed", cfg.FeedHandler.Get)

		r.Get("/inbox", cfg.MessageHandler.Inbox)
		r.Route("/messages/{peer}", func(r chi.Router) {
			r.Get("/", cfg.MessageHandler.Conversation)
			r.Post("/", cfg.MessageHandler.Send)
			r.Post("/seen", cfg.MessageHandler.MarkSeen)
			r.Get("/allowed", cfg.MessageHandler.Allowed)
		})

		r.Get("/notifications", cfg.NotificationHandler.List)
		r.Post("/notifications/{id}/read", cfg.NotificationHandler.MarkRead)

		if cfg.MediaHandler != nil {
			r.Post("/media/avatar", cfg.MediaHandler.UploadAvatar)
			r.Post("/media/post", cfg.MediaHandler.UploadPostImage)
		}
	})

	return r
}
