package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func NewRouter(h *APIHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	r.Get("/", h.RootHandler)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/health", h.HealthHandler)
		r.Post("/chat", h.ChatHandler)
		r.Post("/summarize/youtube", h.SummarizeYouTubeHandler)
		r.Post("/summarize/document", h.SummarizeDocumentHandler)
		r.Get("/shared/{shareToken}", h.SharedChatHandler)

		// User-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.Post("/chats/save", h.SaveChatHandler)
			r.Get("/chats", h.ListChatsHandler)
			r.Get("/chats/{chatID}", h.GetChatHandler)
			r.Delete("/chats/{chatID}", h.DeleteChatHandler)
			r.Post("/chats/{chatID}/share", h.ShareChatHandler)
		})
	})

	return r
}
