package realtime

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"golang.org/x/time/rate"
)

const errTooManyMessages = "too many messages, slow down"

// AccessChecker decides whether a user may join a board room.
type AccessChecker interface {
	CanAccess(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
}

// Client is one authenticated WebSocket connection.
type Client struct {
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte

	hub     *Hub
	access  AccessChecker
	cfg     config.RealtimeConfig
	clock   clockwork.Clock
	limiter *rate.Limiter // nil means unlimited
	logger  *slog.Logger
}

func newClient(
	conn *websocket.Conn,
	userID uuid.UUID,
	hub *Hub,
	access AccessChecker,
	cfg config.RealtimeConfig,
	clock clockwork.Clock,
	log *slog.Logger,
) *Client {
	return &Client{
		userID:  userID,
		conn:    conn,
		send:    make(chan []byte, cfg.SendBufferSize),
		hub:     hub,
		access:  access,
		cfg:     cfg,
		clock:   clock,
		limiter: newMessageLimiter(cfg),
		logger:  log.With(slog.String("user_id", userID.String())),
	}
}

func newMessageLimiter(cfg config.RealtimeConfig) *rate.Limiter {
	if cfg.MessagesPerSecond <= 0 {
		return nil
	}
	burst := cfg.MessageBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.MessagesPerSecond), burst)
}

// UserID returns the authenticated user behind the connection.
func (c *Client) UserID() uuid.UUID {
	return c.userID
}

// readPump handles incoming frames until the connection fails, then
// unregisters the client.
func (c *Client) readPump(ctx context.Context) {
	defer c.hub.Unregister(c)

	pongWait := c.cfg.PongWait()
	c.conn.SetReadLimit(c.cfg.MaxMessageBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx = logger.WithLogger(ctx, c.logger)
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket closed unexpectedly", slog.String("error", err.Error()))
			}
			return
		}
		c.handle(ctx, raw)
	}
}

// writePump is the only writer on the connection. It exits when the hub
// closes the send channel or a write fails.
func (c *Client) writePump() {
	ticker := c.clock.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.Chan():
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handle(ctx context.Context, raw []byte) {
	if c.limiter != nil && !c.limiter.AllowN(c.clock.Now(), 1) {
		c.hub.Send(c, errorFrame(errTooManyMessages))
		return
	}

	msg, err := decodeMessage(raw)
	if err != nil {
		c.hub.Send(c, errorFrame(err.Error()))
		return
	}

	switch {
	case msg.Event == EventJoinBoard:
		c.join(ctx, msg.Data)

	case msg.Event == EventLeaveBoard:
		boardID, err := boardIDFrom(msg.Data, true)
		if err != nil {
			c.hub.Send(c, errorFrame(err.Error()))
			return
		}
		c.hub.Leave(c, boardID)

	case IsRelayable(msg.Event):
		boardID, err := boardIDFrom(msg.Data, false)
		if err != nil {
			c.hub.Send(c, errorFrame(err.Error()))
			return
		}
		c.hub.Relay(c, boardID, raw)

	default:
		c.hub.Send(c, errorFrame("unknown event: "+msg.Event))
	}
}

func (c *Client) join(ctx context.Context, data []byte) {
	boardID, err := boardIDFrom(data, true)
	if err != nil {
		c.hub.Send(c, errorFrame(err.Error()))
		return
	}

	ok, err := c.access.CanAccess(ctx, boardID, c.userID)
	if err != nil {
		c.logger.Error("failed to check board access",
			slog.String("board_id", boardID.String()),
			slog.String("error", err.Error()))
		c.hub.Send(c, errorFrame("failed to join board"))
		return
	}
	if !ok {
		c.hub.Send(c, errorFrame("board not found or access denied"))
		return
	}

	if err := c.hub.Join(c, boardID); err != nil {
		if errors.Is(err, ErrRoomFull) {
			c.hub.Send(c, errorFrame(err.Error()))
		}
		return
	}
	c.logger.Info("user joined board", slog.String("board_id", boardID.String()))
}
