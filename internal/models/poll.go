package models

import (
	"math"
	"strings"

	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

const (
	MinPollOptions = 2
	MaxPollOptions = 10
)

// PollOption is one choice of a poll together with the users who picked it
type PollOption struct {
	Text     string `json:"text"`
	Votes    int    `json:"votes"`
	VoterIDs []uint `json:"voter_ids"`
}

// Poll is embedded in its Post and only changed through Vote and CancelVote.
// A user id is present in at most one option's VoterIDs.
type Poll struct {
	Question string       `json:"question"`
	Options  []PollOption `json:"options"`
}

func NewPoll(question string, options []string) (Poll, error) {
	question = strings.TrimSpace(question)
	if question == "" || len(options) < MinPollOptions || len(options) > MaxPollOptions {
		return Poll{}, appErrors.ErrInvalidPoll
	}

	poll := Poll{Question: question, Options: make([]PollOption, 0, len(options))}
	for _, text := range options {
		text = strings.TrimSpace(text)
		if text == "" {
			return Poll{}, appErrors.ErrInvalidPoll
		}
		poll.Options = append(poll.Options, PollOption{Text: text, VoterIDs: []uint{}})
	}
	return poll, nil
}

// Exists reports whether the post actually carries a poll
func (p Poll) Exists() bool {
	return len(p.Options) > 0
}

// SelectedOption returns the first option voted by userID, or -1.
func (p Poll) SelectedOption(userID uint) int {
	for i, o := range p.Options {
		for _, id := range o.VoterIDs {
			if id == userID {
				return i
			}
		}
	}
	return -1
}

func (p Poll) TotalVotes() int {
	total := 0
	for _, o := range p.Options {
		total += o.Votes
	}
	return total
}

// Percentages are rounded to the nearest integer; an empty poll yields zeros.
func (p Poll) Percentages() []int {
	out := make([]int, len(p.Options))
	total := p.TotalVotes()
	if total == 0 {
		return out
	}
	for i, o := range p.Options {
		out[i] = int(math.Round(float64(o.Votes) * 100 / float64(total)))
	}
	return out
}

// Vote records userID for the option at index. Switching options requires a
// CancelVote first.
func (p *Poll) Vote(userID uint, index int) error {
	if !p.Exists() {
		return appErrors.ErrPollNotFound
	}
	if index < 0 || index >= len(p.Options) {
		return appErrors.ErrOptionOutOfRange
	}
	if p.SelectedOption(userID) >= 0 {
		return appErrors.ErrAlreadyVoted
	}

	opt := &p.Options[index]
	opt.VoterIDs = append(opt.VoterIDs, userID)
	opt.Votes = len(opt.VoterIDs)
	return nil
}

// CancelVote removes userID from whichever option holds it.
func (p *Poll) CancelVote(userID uint) error {
	if !p.Exists() {
		return appErrors.ErrPollNotFound
	}
	if p.SelectedOption(userID) < 0 {
		return appErrors.ErrNotVoted
	}

	for i := range p.Options {
		opt := &p.Options[i]
		kept := opt.VoterIDs[:0]
		for _, id := range opt.VoterIDs {
			if id != userID {
				kept = append(kept, id)
			}
		}
		opt.VoterIDs = kept
		opt.Votes = len(kept)
	}
	return nil
}

// VoteRequest defines the request body for voting in a poll
type VoteRequest struct {
	OptionIndex *int `json:"option_index" validate:"required,min=0"`
}
