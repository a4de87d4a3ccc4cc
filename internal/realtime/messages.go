package realtime

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Client → server events.
const (
	EventJoinBoard  = "join-board"
	EventLeaveBoard = "leave-board"
)

// Server → client events.
const (
	EventJoinedBoard      = "joined-board"
	EventLeftBoard        = "left-board"
	EventError            = "error"
	EventBoardDeleted     = "board-deleted"
	EventRemovedFromBoard = "removed-from-board"
)

// relayable lists the events a member may broadcast to its room. They are
// forwarded verbatim.
var relayable = map[string]struct{}{
	"board-updated":   {},
	"list-created":    {},
	"list-updated":    {},
	"list-deleted":    {},
	"lists-reordered": {},
	"card-created":    {},
	"card-updated":    {},
	"card-moved":      {},
}

// IsRelayable reports whether event may be broadcast by a client.
func IsRelayable(event string) bool {
	_, ok := relayable[event]
	return ok
}

var (
	errMalformedMessage = errors.New("malformed message")
	errMissingBoardID   = errors.New("a valid boardId is required")
)

// Message is the frame exchanged in both directions.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type boardRef struct {
	BoardID string `json:"boardId"`
}

type errorData struct {
	Message string `json:"message"`
}

// decodeMessage parses a client frame.
func decodeMessage(raw []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Event == "" {
		return Message{}, errMalformedMessage
	}
	return msg, nil
}

// boardIDFrom extracts the board id from event data. join-board and
// leave-board accept either a bare JSON string or an object with a boardId
// field; relayed events must use the object form.
func boardIDFrom(data json.RawMessage, allowBare bool) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return uuid.Nil, errMissingBoardID
	}

	var raw string
	if allowBare && strings.HasPrefix(trimmed, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return uuid.Nil, errMissingBoardID
		}
	} else {
		var ref boardRef
		if err := json.Unmarshal(data, &ref); err != nil {
			return uuid.Nil, errMissingBoardID
		}
		raw = ref.BoardID
	}

	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errMissingBoardID
	}
	return id, nil
}

// encode builds an outgoing frame. Payloads are plain structs, so a
// marshal failure is a programming error and yields an error frame.
func encode(event string, data interface{}) []byte {
	payload, err := json.Marshal(data)
	if err != nil {
		payload, _ = json.Marshal(errorData{Message: "internal error"})
		event = EventError
	}
	frame, _ := json.Marshal(Message{Event: event, Data: payload})
	return frame
}

func boardFrame(event string, boardID uuid.UUID) []byte {
	return encode(event, boardRef{BoardID: boardID.String()})
}

func errorFrame(message string) []byte {
	return encode(EventError, errorData{Message: message})
}
