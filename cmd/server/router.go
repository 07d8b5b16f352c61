package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/jungle/notifications-service/internal/api"
	apiMiddleware "github.com/jungle/notifications-service/internal/api/middleware"
)

// setupRouter creates the router for the read API, the health check and the
// realtime endpoint.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	notificationHandler := api.NewNotificationHandler(app.notificationService, app.logger)
	healthHandler := api.NewHealthHandler()

	r.Get("/health", healthHandler.Health)

	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Get("/", notificationHandler.ListUnread)
		r.Put("/read-all", notificationHandler.MarkAllRead)
		r.Put("/{id}/read", notificationHandler.MarkRead)
	})

	r.Handle(app.config.Realtime.Path, app.gateway)

	// Websocket upgrades on any other path reach the gateway so the client
	// receives the invalid-path close code instead of a bare 404.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if websocket.IsWebSocketUpgrade(req) {
			app.gateway.ServeHTTP(w, req)
			return
		}
		http.NotFound(w, req)
	})

	return r
}
