package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
)

// TokenValidator validates access tokens presented on upgrade.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
}

// Handler upgrades authenticated requests to relay connections.
type Handler struct {
	hub      *Hub
	tokens   TokenValidator
	access   AccessChecker
	cfg      config.RealtimeConfig
	clock    clockwork.Clock
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates the /ws handler. Browser origins are checked against
// allowedOrigins.
func NewHandler(
	hub *Hub,
	tokens TokenValidator,
	access AccessChecker,
	cfg config.RealtimeConfig,
	allowedOrigins []string,
	clock clockwork.Clock,
	log *slog.Logger,
) (*Handler, error) {
	if hub == nil {
		return nil, domain.NewValidationError("hub", "cannot be nil", domain.ErrValidation)
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil", domain.ErrValidation)
	}
	if access == nil {
		return nil, domain.NewValidationError("access", "cannot be nil", domain.ErrValidation)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = slog.Default()
	}

	return &Handler{
		hub:    hub,
		tokens: tokens,
		access: access,
		cfg:    cfg,
		clock:  clock,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     newCheckOrigin(allowedOrigins),
		},
		logger: log.With(slog.String("component", "realtime_handler")),
	}, nil
}

// ServeHTTP authenticates before upgrading; a missing or invalid token
// gets a 401 JSON response and no upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	token := tokenFromRequest(r)
	if token == "" {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	claims, err := h.tokens.ValidateToken(r.Context(), token)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "invalid token", err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response.
		log.Debug("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := newClient(conn, claims.UserID, h.hub, h.access, h.cfg, h.clock, log)
	if err := h.hub.Register(client); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "server shutting down"))
		_ = conn.Close()
		return
	}
	client.logger.Info("websocket connected")

	go client.writePump()
	client.readPump(r.Context())
	client.logger.Info("websocket disconnected")
}

// tokenFromRequest reads a Bearer token, falling back to the token query
// parameter used by browser WebSocket clients.
func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}
