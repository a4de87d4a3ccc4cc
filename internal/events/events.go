package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Board event types.
const (
	TypeBoardUpdated   = "board.updated"
	TypeBoardDeleted   = "board.deleted"
	TypeMemberAdded    = "member.added"
	TypeMemberRemoved  = "member.removed"
	TypeListCreated    = "list.created"
	TypeListUpdated    = "list.updated"
	TypeListDeleted    = "list.deleted"
	TypeListsReordered = "lists.reordered"
)

// BoardEvent records a committed change to a board.
type BoardEvent struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	BoardID   uuid.UUID       `json:"boardId"`
	ActorID   uuid.UUID       `json:"actorId"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// MemberPayload identifies the member affected by member.added and member.removed.
type MemberPayload struct {
	UserID uuid.UUID `json:"userId"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *BoardEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewBoardEvent creates a BoardEvent with payload serialized as JSON.
// A nil payload leaves Payload empty.
func NewBoardEvent(eventType string, boardID, actorID uuid.UUID, payload interface{}) (*BoardEvent, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	return &BoardEvent{
		ID:        uuid.New(),
		Type:      eventType,
		BoardID:   boardID,
		ActorID:   actorID,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event. Handlers ignore types they don't know.
	HandleEvent(ctx context.Context, event *BoardEvent) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *BoardEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *BoardEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *BoardEvent) error
}
