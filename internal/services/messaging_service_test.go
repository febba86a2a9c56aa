package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/campus-social/backend/internal/dbtest"
	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

func TestMessagingService_Send_StrictlyIncreasing(t *testing.T) {
	frozen := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	s := newTestServices(t, frozenClock(frozen))
	users := dbtest.CreateUsers(t, s.store, 2)

	c, _, err := s.conversations.Start(ctx, users[0].ID, []uint{users[1].ID})
	require.NoError(t, err)

	var sent []*models.Message
	for i, text := range []string{"hi", "hey", "how are you", "fine"} {
		m, err := s.messaging.Send(ctx, c.ID, users[i%2].ID, text)
		require.NoError(t, err)
		sent = append(sent, m)
	}
	assert.True(t, sent[0].CreatedAt.Equal(frozen))
	for i := 1; i < len(sent); i++ {
		assert.True(t, sent[i].CreatedAt.After(sent[i-1].CreatedAt))
	}

	messages, err := s.messaging.ListMessages(ctx, c.ID, users[0].ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, messages, 4)
	for i := range messages {
		assert.Equal(t, sent[i].ID, messages[i].ID)
		if i > 0 {
			assert.False(t, messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
		}
	}

	older, err := s.messaging.ListMessages(ctx, c.ID, users[1].ID, sent[3].ID, 2)
	require.NoError(t, err)
	require.Len(t, older, 2)
	assert.Equal(t, sent[1].ID, older[0].ID)
	assert.Equal(t, sent[2].ID, older[1].ID)

	stored, err := s.store.Conversations.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, stored.UpdatedAt.Equal(sent[3].CreatedAt))
}

func TestMessagingService_Send_Errors(t *testing.T) {
	s := newTestServices(t, nil)
	users := dbtest.CreateUsers(t, s.store, 3)
	c, _, err := s.conversations.Start(ctx, users[0].ID, []uint{users[1].ID})
	require.NoError(t, err)

	_, err = s.messaging.Send(ctx, c.ID, users[2].ID, "let me in")
	assert.ErrorIs(t, err, appErrors.ErrNotParticipant)
	assert.Equal(t, appErrors.CodePermissionDenied, appErrors.CodeOf(err))

	_, err = s.messaging.Send(ctx, c.ID, users[0].ID, "   ")
	assert.ErrorIs(t, err, appErrors.ErrEmptyContent)

	_, err = s.messaging.Send(ctx, c.ID, users[0].ID, strings.Repeat("a", models.MaxMessageLength+1))
	assert.ErrorIs(t, err, appErrors.ErrContentTooLong)

	_, err = s.messaging.Send(ctx, 999, users[0].ID, "hello")
	assert.ErrorIs(t, err, appErrors.ErrConversationNotFound)

	_, err = s.messaging.ListMessages(ctx, c.ID, users[2].ID, 0, 10)
	assert.ErrorIs(t, err, appErrors.ErrNotParticipant)
}

func TestMessagingService_ListConversationsFor(t *testing.T) {
	// ahead of the store clock, so touched conversations sort before untouched ones
	base := repositories.Now().Add(time.Hour)
	now := base
	clock := func() time.Time { return now }
	s := newTestServices(t, clock)
	users := dbtest.CreateUsers(t, s.store, 3)
	me, bob, carol := users[0], users[1], users[2]

	withBob, _, err := s.conversations.Start(ctx, me.ID, []uint{bob.ID})
	require.NoError(t, err)
	withCarol, _, err := s.conversations.Start(ctx, me.ID, []uint{carol.ID})
	require.NoError(t, err)
	empty, _, err := s.conversations.Start(ctx, bob.ID, []uint{carol.ID, me.ID})
	require.NoError(t, err)

	_, err = s.messaging.Send(ctx, withBob.ID, me.ID, "first to bob")
	require.NoError(t, err)
	now = base.Add(time.Minute)
	_, err = s.messaging.Send(ctx, withCarol.ID, carol.ID, "hi from carol")
	require.NoError(t, err)
	now = base.Add(2 * time.Minute)
	long := strings.Repeat("b", 150)
	last, err := s.messaging.Send(ctx, withBob.ID, bob.ID, long)
	require.NoError(t, err)

	views, err := s.messaging.ListConversationsFor(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, withBob.ID, views[0].ID)
	require.NotNil(t, views[0].LastMessage)
	assert.Equal(t, last.ID, views[0].LastMessage.ID)
	assert.Equal(t, strings.Repeat("b", previewLength)+"...", views[0].LastMessage.Content)
	assert.Equal(t, "user2", views[0].LastMessage.Sender.Handle)
	assert.Len(t, views[0].Participants, 2)

	assert.Equal(t, withCarol.ID, views[1].ID)
	assert.Equal(t, "hi from carol", views[1].LastMessage.Content)

	assert.Equal(t, empty.ID, views[2].ID)
	assert.Nil(t, views[2].LastMessage)
	assert.Len(t, views[2].Participants, 3)

	// the preview follows the newest remaining message
	require.NoError(t, s.messaging.DeleteMessage(ctx, last.ID, bob.ID))
	views, err = s.messaging.ListConversationsFor(ctx, me.ID)
	require.NoError(t, err)
	for _, v := range views {
		if v.ID == withBob.ID {
			assert.Equal(t, "first to bob", v.LastMessage.Content)
		}
	}
}

func TestMessagingService_DeleteMessage(t *testing.T) {
	s := newTestServices(t, nil)
	users := dbtest.CreateUsers(t, s.store, 2)
	c, _, err := s.conversations.Start(ctx, users[0].ID, []uint{users[1].ID})
	require.NoError(t, err)
	m, err := s.messaging.Send(ctx, c.ID, users[0].ID, "oops")
	require.NoError(t, err)

	assert.ErrorIs(t, s.messaging.DeleteMessage(ctx, m.ID, users[1].ID), appErrors.ErrNotMessageSender)
	require.NoError(t, s.messaging.DeleteMessage(ctx, m.ID, users[0].ID))
	assert.ErrorIs(t, s.messaging.DeleteMessage(ctx, m.ID, users[0].ID), appErrors.ErrMessageNotFound)
}
