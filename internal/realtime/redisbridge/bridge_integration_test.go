//go:build integration

package redisbridge_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/realtime"
	"github.com/phrazzld/taskboard-api/internal/realtime/redisbridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/redis"
)

type collector struct {
	mu  sync.Mutex
	got []realtime.RoomMessage
}

func (c *collector) Apply(msg realtime.RoomMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, msg)
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.got)
}

func (c *collector) first() realtime.RoomMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.got[0]
}

func setupRedis(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	container, err := redis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return "redis://" + endpoint
}

func TestBridge_DeliversAcrossInstances(t *testing.T) {
	url := setupRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdbA, err := redisbridge.NewClient(ctx, url)
	require.NoError(t, err)
	defer rdbA.Close()
	rdbB, err := redisbridge.NewClient(ctx, url)
	require.NoError(t, err)
	defer rdbB.Close()

	a := redisbridge.New(rdbA, "taskboard", nil, nil)
	b := redisbridge.New(rdbB, "taskboard", nil, nil)
	gotA, gotB := &collector{}, &collector{}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); _ = a.Run(ctx, gotA) }()
	go func() { defer wg.Done(); _ = b.Run(ctx, gotB) }()

	// PSUBSCRIBE confirmation is asynchronous relative to the goroutines above.
	time.Sleep(200 * time.Millisecond)

	boardID := uuid.New()
	a.Forward(realtime.RoomMessage{
		Op:      realtime.OpRelay,
		BoardID: boardID,
		Frame:   []byte(`{"event":"list-created","data":{"boardId":"` + boardID.String() + `"}}`),
	})

	require.Eventually(t, func() bool { return gotB.count() == 1 }, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, 0, gotA.count())
	got := gotB.first()
	assert.Equal(t, boardID, got.BoardID)
	assert.JSONEq(t, `{"event":"list-created","data":{"boardId":"`+boardID.String()+`"}}`, string(got.Frame))

	cancel()
	wg.Wait()
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := redisbridge.NewClient(context.Background(), "://nope")
	assert.Error(t, err)
}
