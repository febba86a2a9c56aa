package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

func TestNewPoll(t *testing.T) {
	tt := []struct {
		name     string
		question string
		options  []string
		wantErr  bool
	}{
		{"ok", "q", []string{"a", "b"}, false},
		{"ten options", "q", []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, false},
		{"blank question", "  ", []string{"a", "b"}, true},
		{"one option", "q", []string{"a"}, true},
		{"eleven options", "q", []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"}, true},
		{"blank option", "q", []string{"a", " "}, true},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			poll, err := NewPoll(tc.question, tc.options)
			if tc.wantErr {
				assert.ErrorIs(t, err, appErrors.ErrInvalidPoll)
				return
			}
			require.NoError(t, err)
			assert.Len(t, poll.Options, len(tc.options))
			assert.True(t, poll.Exists())
			assert.Zero(t, poll.TotalVotes())
		})
	}
}

func TestPoll_VoteCancel(t *testing.T) {
	poll, err := NewPoll("q", []string{"A", "B"})
	require.NoError(t, err)

	require.NoError(t, poll.Vote(1, 0))
	assert.Equal(t, 1, poll.Options[0].Votes)
	assert.Equal(t, []uint{1}, poll.Options[0].VoterIDs)
	assert.Equal(t, 0, poll.SelectedOption(1))

	assert.ErrorIs(t, poll.Vote(1, 1), appErrors.ErrAlreadyVoted)
	assert.ErrorIs(t, poll.Vote(1, 0), appErrors.ErrAlreadyVoted)
	assert.ErrorIs(t, poll.Vote(2, 2), appErrors.ErrOptionOutOfRange)
	assert.ErrorIs(t, poll.Vote(2, -1), appErrors.ErrOptionOutOfRange)

	require.NoError(t, poll.Vote(2, 0))
	require.NoError(t, poll.CancelVote(1))
	assert.Equal(t, []uint{2}, poll.Options[0].VoterIDs)
	assert.Equal(t, 1, poll.Options[0].Votes)
	assert.Equal(t, -1, poll.SelectedOption(1))

	assert.ErrorIs(t, poll.CancelVote(1), appErrors.ErrNotVoted)

	require.NoError(t, poll.Vote(1, 1))
	assert.Equal(t, 1, poll.Options[1].Votes)
	assert.Equal(t, 2, poll.TotalVotes())
}

func TestPoll_NoPoll(t *testing.T) {
	var poll Poll
	assert.False(t, poll.Exists())
	assert.ErrorIs(t, poll.Vote(1, 0), appErrors.ErrPollNotFound)
	assert.ErrorIs(t, poll.CancelVote(1), appErrors.ErrPollNotFound)
	assert.Empty(t, poll.Percentages())
}

func TestPoll_Percentages(t *testing.T) {
	poll, err := NewPoll("q", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0}, poll.Percentages())

	require.NoError(t, poll.Vote(1, 0))
	require.NoError(t, poll.Vote(2, 1))
	require.NoError(t, poll.Vote(3, 1))
	assert.Equal(t, []int{33, 67, 0}, poll.Percentages())
}
