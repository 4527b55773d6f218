package statemachine

import (
	"errors"
	"fmt"

	"github.com/emilythestrangee/elden-builds/backend/internal/models"
)

// VoteState is the state of one (comment, user) pair.
type VoteState int

const (
	NoVote VoteState = iota
	Upvoted
	Downvoted
)

var ErrUnknownVoteType = errors.New("unknown vote type")

func (s VoteState) String() string {
	switch s {
	case Upvoted:
		return string(models.Upvote)
	case Downvoted:
		return string(models.Downvote)
	default:
		return "none"
	}
}

// VoteType returns the stored vote type for s, or nil for NoVote.
func (s VoteState) VoteType() *models.VoteType {
	var t models.VoteType
	switch s {
	case Upvoted:
		t = models.Upvote
	case Downvoted:
		t = models.Downvote
	default:
		return nil
	}
	return &t
}

// StateOf maps a persisted row (or its absence) to a VoteState.
func StateOf(v *models.CommentVote) VoteState {
	if v == nil {
		return NoVote
	}
	switch v.VoteType {
	case models.Upvote:
		return Upvoted
	case models.Downvote:
		return Downvoted
	default:
		return NoVote
	}
}

func stateFor(t models.VoteType) (VoteState, error) {
	switch t {
	case models.Upvote:
		return Upvoted, nil
	case models.Downvote:
		return Downvoted, nil
	default:
		return NoVote, fmt.Errorf("%w: %q", ErrUnknownVoteType, t)
	}
}

// Transition applies a vote of type cast to the current state.
//
//	NoVote   --vote(t)--> Voted(t)   added
//	Voted(t) --vote(t)--> NoVote     removed
//	Voted(t) --vote(u)--> Voted(u)   changed
func Transition(current VoteState, cast models.VoteType) (VoteState, models.VoteAction, error) {
	target, err := stateFor(cast)
	if err != nil {
		return current, "", err
	}

	switch current {
	case NoVote:
		return target, models.VoteAdded, nil
	case target:
		return NoVote, models.VoteRemoved, nil
	default:
		return target, models.VoteChanged, nil
	}
}

// Converge resolves a lost insert race: another request created the row
// first. The caller's intent is kept, so the result is never a removal.
func Converge(current VoteState, cast models.VoteType) (VoteState, models.VoteAction, error) {
	target, err := stateFor(cast)
	if err != nil {
		return current, "", err
	}

	switch current {
	case target, NoVote:
		return target, models.VoteAdded, nil
	default:
		return target, models.VoteChanged, nil
	}
}
