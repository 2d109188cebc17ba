package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter mounts the API. The auth routes are reachable both under /api
// and at the root.
func NewRouter(h *Handler, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", common.AuthorizationHeaderName},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authRoutes := func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	}
	r.Route("/api/auth", authRoutes)
	r.Route("/auth", authRoutes)

	r.Route("/api/posts", func(r chi.Router) {
		r.Use(h.authenticate)
		r.Get("/", h.ListPosts)
		r.Post("/", h.CreatePost)
		r.Get("/mine", h.ListMyPosts)
		r.Get("/{id}", h.GetPost)
		r.Put("/{id}", h.UpdatePost)
		r.Delete("/{id}", h.DeletePost)
		r.Post("/{id}/attachment", h.UploadAttachment)
		r.Get("/{id}/attachment", h.DownloadAttachment)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: CodeNotFound, Message: "Route not found"})
	})

	return r
}
