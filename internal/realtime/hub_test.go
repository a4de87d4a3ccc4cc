package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingForwarder struct {
	mu   sync.Mutex
	msgs []RoomMessage
}

func (f *recordingForwarder) Forward(msg RoomMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
}

func (f *recordingForwarder) ops() []RoomOp {
	f.mu.Lock()
	defer f.mu.Unlock()
	ops := make([]RoomOp, len(f.msgs))
	for i, m := range f.msgs {
		ops[i] = m.Op
	}
	return ops
}

// startHub runs a hub for the duration of the test.
func startHub(t *testing.T, maxPerRoom int, opts ...HubOption) (*Hub, *metrics.RealtimeMetrics) {
	t.Helper()
	m := metrics.NewRealtimeMetrics(prometheus.NewRegistry())
	hub := NewHub(maxPerRoom, m, slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = hub.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return hub, m
}

// bareClient is a registered client without a socket; frames queue on send.
func bareClient(t *testing.T, hub *Hub, buffer int) *Client {
	t.Helper()
	c := &Client{userID: uuid.New(), send: make(chan []byte, buffer), hub: hub}
	require.NoError(t, hub.Register(c))
	return c
}

func nextFrame(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case raw, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no frame queued")
		return Message{}
	}
}

func waitClosed(t *testing.T, c *Client) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-c.send:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("send channel was not closed")
		}
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub, m := startHub(t, 10)
	boardID := uuid.New()

	slow := bareClient(t, hub, 1)
	require.NoError(t, hub.Join(slow, boardID))

	// The joined-board frame fills the buffer, so the relay cannot be queued.
	hub.Apply(RoomMessage{Op: OpRelay, BoardID: boardID, Frame: []byte(`{"event":"card-moved"}`)})

	// Commands are handled in order, so the relay has run once RoomSize answers.
	assert.Equal(t, 0, hub.RoomSize(boardID))
	assert.Equal(t, EventJoinedBoard, nextFrame(t, slow).Event)
	waitClosed(t, slow)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SlowClients))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveConnections))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveRooms))
}

func TestHub_ForwardsLocalOperationsOnly(t *testing.T) {
	fwd := &recordingForwarder{}
	hub, m := startHub(t, 10, WithForwarder(fwd))
	boardID := uuid.New()

	sender := bareClient(t, hub, 8)
	peer := bareClient(t, hub, 8)
	require.NoError(t, hub.Join(sender, boardID))
	require.NoError(t, hub.Join(peer, boardID))
	nextFrame(t, sender)
	nextFrame(t, peer)

	hub.Relay(sender, boardID, []byte(`{"event":"list-updated"}`))
	assert.Equal(t, "list-updated", nextFrame(t, peer).Event)

	hub.Apply(RoomMessage{Op: OpRelay, BoardID: boardID, Frame: []byte(`{"event":"card-created"}`)})
	assert.Equal(t, "card-created", nextFrame(t, sender).Event)
	assert.Equal(t, "card-created", nextFrame(t, peer).Event)

	hub.CloseRoom(boardID)
	assert.Equal(t, EventBoardDeleted, nextFrame(t, peer).Event)
	assert.Equal(t, 0, hub.RoomSize(boardID))

	assert.Equal(t, []RoomOp{OpRelay, OpCloseRoom}, fwd.ops())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesRelayed.WithLabelValues("local")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesRelayed.WithLabelValues("remote")))
}

func TestHub_RejectedRelayIsNotForwarded(t *testing.T) {
	fwd := &recordingForwarder{}
	hub, _ := startHub(t, 10, WithForwarder(fwd))

	outsider := bareClient(t, hub, 4)
	hub.Relay(outsider, uuid.New(), []byte(`{"event":"board-updated"}`))

	assert.Equal(t, EventError, nextFrame(t, outsider).Event)
	assert.Empty(t, fwd.ops())
}

func TestHub_EvictUserAcrossConnections(t *testing.T) {
	hub, _ := startHub(t, 10)
	boardID := uuid.New()

	first := bareClient(t, hub, 4)
	second := bareClient(t, hub, 4)
	second.userID = first.userID
	other := bareClient(t, hub, 4)
	for _, c := range []*Client{first, second, other} {
		require.NoError(t, hub.Join(c, boardID))
		nextFrame(t, c)
	}

	hub.EvictUser(boardID, first.userID)

	assert.Equal(t, EventRemovedFromBoard, nextFrame(t, first).Event)
	assert.Equal(t, EventRemovedFromBoard, nextFrame(t, second).Event)
	assert.Equal(t, 1, hub.RoomSize(boardID))
}

func TestHub_JoinIsIdempotent(t *testing.T) {
	hub, _ := startHub(t, 1)
	boardID := uuid.New()

	c := bareClient(t, hub, 4)
	require.NoError(t, hub.Join(c, boardID))
	require.NoError(t, hub.Join(c, boardID))
	assert.Equal(t, 1, hub.RoomSize(boardID))
}

func TestHub_StoppedHub(t *testing.T) {
	m := metrics.NewRealtimeMetrics(prometheus.NewRegistry())
	hub := NewHub(1, m, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, hub.Run(ctx))

	c := &Client{userID: uuid.New(), send: make(chan []byte, 1)}
	assert.ErrorIs(t, hub.Register(c), ErrHubStopped)
	assert.ErrorIs(t, hub.Join(c, uuid.New()), ErrHubStopped)
	assert.Equal(t, 0, hub.RoomSize(uuid.New()))
	hub.Unregister(c)
}

func TestClient_InboundMessagesAreThrottled(t *testing.T) {
	hub, _ := startHub(t, 10)
	clock := clockwork.NewFakeClock()

	c := bareClient(t, hub, 8)
	c.clock = clock
	c.limiter = newMessageLimiter(config.RealtimeConfig{MessagesPerSecond: 1, MessageBurst: 2})

	frame := []byte(`{"event":"list-updated","data":{"boardId":"` + uuid.NewString() + `"}}`)
	ctx := context.Background()

	c.handle(ctx, frame)
	c.handle(ctx, frame)
	c.handle(ctx, frame)

	notJoined := nextFrame(t, c)
	assert.Equal(t, EventError, notJoined.Event)
	assert.NotContains(t, string(notJoined.Data), errTooManyMessages)
	assert.Equal(t, EventError, nextFrame(t, c).Event)

	throttled := nextFrame(t, c)
	assert.Equal(t, EventError, throttled.Event)
	assert.Contains(t, string(throttled.Data), errTooManyMessages)

	clock.Advance(time.Second)
	c.handle(ctx, frame)
	assert.NotContains(t, string(nextFrame(t, c).Data), errTooManyMessages)
}

func TestNewMessageLimiter_Disabled(t *testing.T) {
	assert.Nil(t, newMessageLimiter(config.RealtimeConfig{}))
	l := newMessageLimiter(config.RealtimeConfig{MessagesPerSecond: 5})
	require.NotNil(t, l)
	assert.Equal(t, 1, l.Burst())
}
