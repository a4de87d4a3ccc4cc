package realtime

import (
	"context"
	"fmt"

	"github.com/phrazzld/taskboard-api/internal/events"
)

// EventRelay applies board lifecycle events to the hub's rooms.
type EventRelay struct {
	hub *Hub
}

var _ events.EventHandler = (*EventRelay)(nil)

// NewEventRelay creates an EventRelay for hub.
func NewEventRelay(hub *Hub) *EventRelay {
	return &EventRelay{hub: hub}
}

// HandleEvent closes the room of a deleted board and evicts removed
// members. Other events are left to client relays.
func (r *EventRelay) HandleEvent(ctx context.Context, event *events.BoardEvent) error {
	switch event.Type {
	case events.TypeBoardDeleted:
		r.hub.CloseRoom(event.BoardID)
	case events.TypeMemberRemoved:
		var payload events.MemberPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
		r.hub.EvictUser(event.BoardID, payload.UserID)
	}
	return nil
}
