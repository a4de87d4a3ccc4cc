package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/taskboard-api/internal/platform/logger"
)

// InMemoryEventEmitter fans every event out to the registered handlers on
// the caller's goroutine.
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter creates an emitter with no handlers. A nil logger
// falls back to slog.Default().
func NewInMemoryEventEmitter(log *slog.Logger) *InMemoryEventEmitter {
	if log == nil {
		log = slog.Default()
	}
	return &InMemoryEventEmitter{logger: log.With(slog.String("component", "event_emitter"))}
}

// RegisterHandler adds handler after those already registered.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	e.handlers = append(e.handlers, handler)
	n := len(e.handlers)
	e.mu.Unlock()

	e.logger.Debug("registered event handler", slog.Int("handler_count", n))
}

func (e *InMemoryEventEmitter) snapshot() []EventHandler {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]EventHandler(nil), e.handlers...)
}

// EmitEvent delivers event to each handler in registration order. A failing
// handler does not stop delivery; the first error is returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *BoardEvent) error {
	log := logger.FromContextOrDefault(ctx, e.logger).With(
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.String("board_id", event.BoardID.String()))

	handlers := e.snapshot()
	log.Debug("emitting event", slog.Int("handler_count", len(handlers)))

	var firstErr error
	for i, h := range handlers {
		err := h.HandleEvent(ctx, event)
		if err == nil {
			continue
		}
		log.Error("event handler failed",
			slog.Int("handler_index", i),
			slog.String("error", err.Error()))
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
