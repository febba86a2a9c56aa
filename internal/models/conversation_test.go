package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParticipantKey(t *testing.T) {
	assert.Equal(t, "1,2", ParticipantKey([]uint{2, 1}))
	assert.Equal(t, ParticipantKey([]uint{3, 10, 2}), ParticipantKey([]uint{10, 2, 3, 3}))
	assert.Equal(t, "2,10", ParticipantKey([]uint{10, 0, 2}))
	assert.Equal(t, "", ParticipantKey(nil))
}

func TestConversation_Participants(t *testing.T) {
	c := Conversation{Participants: []ConversationParticipant{{UserID: 7}, {UserID: 3}}}
	assert.Equal(t, []uint{3, 7}, c.ParticipantIDs())
	assert.True(t, c.HasParticipant(7))
	assert.False(t, c.HasParticipant(4))
}
