package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jungle/notifications-service/internal/config"
	"github.com/jungle/notifications-service/internal/platform/logger"
	"github.com/jungle/notifications-service/internal/service/auth"
)

// Close codes sent to clients whose connection is refused.
const (
	CloseUnauthorized = 4000
	CloseMissingToken = 4001
	CloseInvalidToken = 4002
	CloseInvalidPath  = 4003
)

// DefaultWriteTimeout bounds a single frame write when none is configured.
const DefaultWriteTimeout = 10 * time.Second

// Frame is the message shape sent to realtime clients.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// EmitResult summarizes one EmitToUsers call.
type EmitResult struct {
	// Recipients counts users that had at least one live connection.
	Recipients int
	Delivered  int
	Failed     int
}

// Gateway accepts authenticated websocket connections and pushes frames to them.
type Gateway struct {
	path         string
	jwtService   auth.JWTService
	registry     *Registry
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	logger       *slog.Logger
}

// NewGateway creates a gateway serving cfg.Path.
func NewGateway(cfg config.RealtimeConfig, jwtService auth.JWTService, registry *Registry, logger *slog.Logger) *Gateway {
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}

	return &Gateway{
		path:         cfg.Path,
		jwtService:   jwtService,
		registry:     registry,
		writeTimeout: writeTimeout,
		logger:       logger.With("component", "realtime_gateway"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
	}
}

// originChecker allows every origin when none are configured.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.TrimSpace(o)] = struct{}{}
	}
	return func(r *http.Request) bool {
		_, ok := set[r.Header.Get("Origin")]
		return ok
	}
}

// Registry returns the connection registry backing the gateway.
func (g *Gateway) Registry() *Registry {
	return g.registry
}

// ServeHTTP upgrades the request, authenticates it and keeps the connection
// registered until the client goes away.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), g.logger).With("remote_addr", r.RemoteAddr)

	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}
	conn := newWSConnection(ws, g.writeTimeout)

	if r.URL.Path != g.path {
		log.Warn("websocket connection refused", "reason", "invalid path", "path", r.URL.Path)
		_ = conn.closeWith(CloseInvalidPath, "Invalid path")
		return
	}

	token := tokenFromRequest(r)
	if token == "" {
		log.Warn("websocket connection refused", "reason", "missing token")
		_ = conn.closeWith(CloseMissingToken, "Missing token")
		return
	}

	claims, err := g.jwtService.ValidateToken(r.Context(), token)
	if err != nil {
		log.Warn("websocket connection refused", "reason", "token verification failed", "error", err)
		_ = conn.closeWith(CloseUnauthorized, "Unauthorized")
		return
	}
	if claims.Subject == "" {
		log.Warn("websocket connection refused", "reason", "token has no subject")
		_ = conn.closeWith(CloseInvalidToken, "Invalid token")
		return
	}

	userID := claims.Subject
	g.registry.Register(userID, conn)
	log.Info("websocket client connected", "user_id", userID, "connection_id", conn.ID())

	g.readUntilClosed(ws)

	g.registry.Unregister(userID, conn)
	_ = ws.Close()
	log.Info("websocket client disconnected", "user_id", userID, "connection_id", conn.ID())
}

// readUntilClosed discards client frames (heartbeats) until the connection
// fails or is closed.
func (g *Gateway) readUntilClosed(ws *websocket.Conn) {
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

func tokenFromRequest(r *http.Request) string {
	if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// EmitToUsers sends {event, data} to every live connection of each recipient.
// The frame is serialized once. Per-connection failures are logged and counted;
// only a serialization failure is returned.
func (g *Gateway) EmitToUsers(ctx context.Context, event string, data any, recipients []string) (EmitResult, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	var result EmitResult
	if len(recipients) == 0 {
		return result, nil
	}

	frame, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		return result, fmt.Errorf("failed to serialize %s frame: %w", event, err)
	}

	seen := make(map[string]struct{}, len(recipients))
	for _, userID := range recipients {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}

		conns := g.registry.Connections(userID)
		if len(conns) == 0 {
			continue
		}
		result.Recipients++

		for _, c := range conns {
			if err := c.Send(frame); err != nil {
				result.Failed++
				derr := &DeliveryError{UserID: userID, ConnectionID: c.ID(), Event: event, Err: err}
				log.Warn("realtime delivery failed", "error", derr)
				continue
			}
			result.Delivered++
		}
	}

	log.Debug("realtime event emitted",
		"event", event,
		"recipients", len(seen),
		"connected_recipients", result.Recipients,
		"delivered", result.Delivered,
		"failed", result.Failed)
	return result, nil
}

// Close closes all live connections with a going-away frame.
func (g *Gateway) Close() {
	n := g.registry.CloseAll()
	g.logger.Info("closed realtime connections", "count", n)
}
