package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ErrRoomFull is returned by Join when the board room is at capacity.
	ErrRoomFull = errors.New("board room is full")

	// ErrHubStopped is returned by synchronous calls after the hub has shut down.
	ErrHubStopped = errors.New("realtime hub stopped")

	errNotRegistered = errors.New("client is not registered")
)

// RoomOp names an operation applied to a board room.
type RoomOp string

const (
	// OpRelay delivers Frame to every member of the room except the sender.
	OpRelay RoomOp = "relay"
	// OpCloseRoom notifies every member that the board is gone and empties the room.
	OpCloseRoom RoomOp = "close"
	// OpEvictUser removes UserID's connections from the room.
	OpEvictUser RoomOp = "evict"
)

// RoomMessage is a room operation that any instance can apply.
type RoomMessage struct {
	Op      RoomOp          `json:"op"`
	BoardID uuid.UUID       `json:"boardId"`
	UserID  uuid.UUID       `json:"userId"`
	Frame   json.RawMessage `json:"frame,omitempty"`
}

// Forwarder receives room operations that originated on this instance so
// they can be replayed elsewhere. Forward is called from the hub goroutine
// and must not block.
type Forwarder interface {
	Forward(msg RoomMessage)
}

// --- Command types ---

type hubCmd interface{ hubCmd() }

type cmdRegister struct {
	client *Client
	done   chan struct{}
}

type cmdUnregister struct{ client *Client }

type cmdJoin struct {
	client  *Client
	boardID uuid.UUID
	errCh   chan error
}

type cmdLeave struct {
	client  *Client
	boardID uuid.UUID
}

type cmdSend struct {
	client *Client
	frame  []byte
}

type cmdApply struct {
	msg    RoomMessage
	sender *Client
	remote bool
}

type cmdRoomSize struct {
	boardID uuid.UUID
	replyCh chan int
}

func (cmdRegister) hubCmd()   {}
func (cmdUnregister) hubCmd() {}
func (cmdJoin) hubCmd()       {}
func (cmdLeave) hubCmd()      {}
func (cmdSend) hubCmd()       {}
func (cmdApply) hubCmd()      {}
func (cmdRoomSize) hubCmd()   {}

// --- Hub ---

// Hub owns the board rooms. Run must be started before any other method
// is used.
type Hub struct {
	cmdCh chan hubCmd
	done  chan struct{}

	rooms   map[uuid.UUID]map[*Client]struct{}
	clients map[*Client]map[uuid.UUID]struct{}

	maxPerRoom int
	forwarder  Forwarder
	metrics    *metrics.RealtimeMetrics
	logger     *slog.Logger
}

// HubOption customizes a Hub.
type HubOption func(*Hub)

// WithForwarder sends locally originated room operations to f.
func WithForwarder(f Forwarder) HubOption {
	return func(h *Hub) {
		h.forwarder = f
	}
}

// NewHub creates a hub that admits at most maxPerRoom clients to a room.
// A nil m registers the relay metrics on a private registry.
func NewHub(maxPerRoom int, m *metrics.RealtimeMetrics, logger *slog.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewRealtimeMetrics(prometheus.NewRegistry())
	}
	h := &Hub{
		cmdCh:      make(chan hubCmd, 256),
		done:       make(chan struct{}),
		rooms:      make(map[uuid.UUID]map[*Client]struct{}),
		clients:    make(map[*Client]map[uuid.UUID]struct{}),
		maxPerRoom: maxPerRoom,
		metrics:    m,
		logger:     logger.With(slog.String("component", "realtime_hub")),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run processes commands until ctx is cancelled, then disconnects every
// client. It always returns nil so it can run under an errgroup.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.stop()
			return nil
		case cmd := <-h.cmdCh:
			h.handle(cmd)
		}
	}
}

func (h *Hub) handle(cmd hubCmd) {
	switch c := cmd.(type) {
	case cmdRegister:
		h.clients[c.client] = make(map[uuid.UUID]struct{})
		h.metrics.ActiveConnections.Inc()
		close(c.done)
	case cmdUnregister:
		h.drop(c.client)
	case cmdJoin:
		c.errCh <- h.handleJoin(c.client, c.boardID)
	case cmdLeave:
		h.handleLeave(c.client, c.boardID)
	case cmdSend:
		if _, ok := h.clients[c.client]; ok {
			h.deliver([]*Client{c.client}, c.frame)
		}
	case cmdApply:
		h.handleApply(c)
	case cmdRoomSize:
		c.replyCh <- len(h.rooms[c.boardID])
	}
}

func (h *Hub) handleJoin(c *Client, boardID uuid.UUID) error {
	joined, ok := h.clients[c]
	if !ok {
		return errNotRegistered
	}

	room := h.rooms[boardID]
	if _, already := joined[boardID]; !already {
		if len(room) >= h.maxPerRoom {
			h.logger.Warn("rejecting join: room is full",
				slog.String("board_id", boardID.String()),
				slog.Int("max_clients", h.maxPerRoom))
			return ErrRoomFull
		}
		if room == nil {
			room = make(map[*Client]struct{})
			h.rooms[boardID] = room
			h.metrics.ActiveRooms.Inc()
		}
		room[c] = struct{}{}
		joined[boardID] = struct{}{}
	}

	h.logger.Debug("client joined board",
		slog.String("board_id", boardID.String()),
		slog.String("user_id", c.userID.String()),
		slog.Int("room_size", len(room)))
	h.deliver([]*Client{c}, boardFrame(EventJoinedBoard, boardID))
	return nil
}

func (h *Hub) handleLeave(c *Client, boardID uuid.UUID) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	h.removeFromRoom(c, boardID)
	h.deliver([]*Client{c}, boardFrame(EventLeftBoard, boardID))
}

func (h *Hub) handleApply(c cmdApply) {
	msg := c.msg
	room := h.rooms[msg.BoardID]

	switch msg.Op {
	case OpRelay:
		if c.sender != nil {
			if _, joined := room[c.sender]; !joined {
				h.deliver([]*Client{c.sender}, errorFrame("join the board before sending events to it"))
				return
			}
		}
		targets := make([]*Client, 0, len(room))
		for client := range room {
			if client != c.sender {
				targets = append(targets, client)
			}
		}
		h.deliver(targets, msg.Frame)
		origin := "local"
		if c.remote {
			origin = "remote"
		}
		h.metrics.MessagesRelayed.WithLabelValues(origin).Inc()

	case OpCloseRoom:
		members := make([]*Client, 0, len(room))
		for client := range room {
			members = append(members, client)
		}
		for _, client := range members {
			h.removeFromRoom(client, msg.BoardID)
		}
		h.deliver(members, boardFrame(EventBoardDeleted, msg.BoardID))
		if len(members) > 0 {
			h.logger.Info("closed board room",
				slog.String("board_id", msg.BoardID.String()),
				slog.Int("clients", len(members)))
		}

	case OpEvictUser:
		var evicted []*Client
		for client := range room {
			if client.userID == msg.UserID {
				evicted = append(evicted, client)
			}
		}
		for _, client := range evicted {
			h.removeFromRoom(client, msg.BoardID)
		}
		h.deliver(evicted, boardFrame(EventRemovedFromBoard, msg.BoardID))

	default:
		h.logger.Warn("ignoring unknown room operation", slog.String("op", string(msg.Op)))
		return
	}

	if !c.remote && h.forwarder != nil {
		h.forwarder.Forward(msg)
	}
}

// deliver queues frame for each target. Clients whose buffer is full are
// disconnected.
func (h *Hub) deliver(targets []*Client, frame []byte) {
	var slow []*Client
	for _, c := range targets {
		select {
		case c.send <- frame:
		default:
			slow = append(slow, c)
		}
	}

	for _, c := range slow {
		h.logger.Warn("disconnecting slow client", slog.String("user_id", c.userID.String()))
		h.metrics.SlowClients.Inc()
		h.drop(c)
	}
}

func (h *Hub) removeFromRoom(c *Client, boardID uuid.UUID) {
	if joined, ok := h.clients[c]; ok {
		delete(joined, boardID)
	}
	room, ok := h.rooms[boardID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, boardID)
		h.metrics.ActiveRooms.Dec()
	}
}

// drop removes c from every room and closes its send channel, which makes
// the write pump close the connection.
func (h *Hub) drop(c *Client) {
	joined, ok := h.clients[c]
	if !ok {
		return
	}
	for boardID := range joined {
		h.removeFromRoom(c, boardID)
	}
	delete(h.clients, c)
	close(c.send)
	h.metrics.ActiveConnections.Dec()
}

func (h *Hub) stop() {
	close(h.done)
	for c := range h.clients {
		h.drop(c)
	}
	h.logger.Info("realtime hub stopped")
}

// --- Public API ---

func (h *Hub) submit(cmd hubCmd) bool {
	select {
	case h.cmdCh <- cmd:
		return true
	case <-h.done:
		return false
	}
}

// Register admits a connected client. Its send channel is closed by the
// hub when the client is dropped.
func (h *Hub) Register(c *Client) error {
	done := make(chan struct{})
	if !h.submit(cmdRegister{client: c, done: done}) {
		return ErrHubStopped
	}
	select {
	case <-done:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

// Unregister drops a client. It is safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.submit(cmdUnregister{client: c})
}

// Join adds c to the board room and queues a joined-board frame.
func (h *Hub) Join(c *Client, boardID uuid.UUID) error {
	errCh := make(chan error, 1)
	if !h.submit(cmdJoin{client: c, boardID: boardID, errCh: errCh}) {
		return ErrHubStopped
	}
	select {
	case err := <-errCh:
		return err
	case <-h.done:
		return ErrHubStopped
	}
}

// Leave removes c from the board room and queues a left-board frame.
func (h *Hub) Leave(c *Client, boardID uuid.UUID) {
	h.submit(cmdLeave{client: c, boardID: boardID})
}

// Send queues a frame for a single client.
func (h *Hub) Send(c *Client, frame []byte) {
	h.submit(cmdSend{client: c, frame: frame})
}

// Relay broadcasts frame to the other members of the board room. The
// sender must have joined the room.
func (h *Hub) Relay(sender *Client, boardID uuid.UUID, frame []byte) {
	h.submit(cmdApply{
		msg:    RoomMessage{Op: OpRelay, BoardID: boardID, Frame: frame},
		sender: sender,
	})
}

// CloseRoom tells every member the board was deleted and empties the room.
func (h *Hub) CloseRoom(boardID uuid.UUID) {
	h.submit(cmdApply{msg: RoomMessage{Op: OpCloseRoom, BoardID: boardID}})
}

// EvictUser removes userID's connections from the board room.
func (h *Hub) EvictUser(boardID, userID uuid.UUID) {
	h.submit(cmdApply{msg: RoomMessage{Op: OpEvictUser, BoardID: boardID, UserID: userID}})
}

// Apply replays a room operation received from another instance. It is
// not forwarded again.
func (h *Hub) Apply(msg RoomMessage) {
	h.submit(cmdApply{msg: msg, remote: true})
}

// RoomSize returns the number of local clients in the board room.
func (h *Hub) RoomSize(boardID uuid.UUID) int {
	replyCh := make(chan int, 1)
	if !h.submit(cmdRoomSize{boardID: boardID, replyCh: replyCh}) {
		return 0
	}
	select {
	case n := <-replyCh:
		return n
	case <-h.done:
		return 0
	}
}
