package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardEvent(t *testing.T) {
	boardID, actorID, removed := uuid.New(), uuid.New(), uuid.New()

	event, err := NewBoardEvent(TypeMemberRemoved, boardID, actorID, MemberPayload{UserID: removed})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeMemberRemoved, event.Type)
	assert.Equal(t, boardID, event.BoardID)
	assert.Equal(t, actorID, event.ActorID)
	assert.False(t, event.CreatedAt.IsZero())

	var payload MemberPayload
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, removed, payload.UserID)
}

func TestNewBoardEvent_NilPayload(t *testing.T) {
	event, err := NewBoardEvent(TypeBoardDeleted, uuid.New(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, event.Payload)
}

func TestNewBoardEvent_UnmarshalablePayload(t *testing.T) {
	_, err := NewBoardEvent(TypeListCreated, uuid.New(), uuid.New(), make(chan int))
	assert.Error(t, err)
}
