package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/elden-builds/backend/internal/models"
)

func TestTransition(t *testing.T) {
	cases := []struct {
		name       string
		current    VoteState
		cast       models.VoteType
		wantState  VoteState
		wantAction models.VoteAction
	}{
		{"first upvote is added", NoVote, models.Upvote, Upvoted, models.VoteAdded},
		{"first downvote is added", NoVote, models.Downvote, Downvoted, models.VoteAdded},
		{"repeated upvote toggles off", Upvoted, models.Upvote, NoVote, models.VoteRemoved},
		{"repeated downvote toggles off", Downvoted, models.Downvote, NoVote, models.VoteRemoved},
		{"upvote to downvote changes", Upvoted, models.Downvote, Downvoted, models.VoteChanged},
		{"downvote to upvote changes", Downvoted, models.Upvote, Upvoted, models.VoteChanged},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, action, err := Transition(tc.current, tc.cast)
			require.NoError(t, err)
			assert.Equal(t, tc.wantState, next)
			assert.Equal(t, tc.wantAction, action)
		})
	}

	t.Run("should reject an unknown vote type without changing state", func(t *testing.T) {
		next, action, err := Transition(Upvoted, models.VoteType("sideways"))
		assert.ErrorIs(t, err, ErrUnknownVoteType)
		assert.Equal(t, Upvoted, next)
		assert.Empty(t, action)
	})

	t.Run("should return to NoVote after voting twice with the same type", func(t *testing.T) {
		state := NoVote
		var err error
		state, _, err = Transition(state, models.Upvote)
		require.NoError(t, err)
		state, _, err = Transition(state, models.Upvote)
		require.NoError(t, err)
		assert.Equal(t, NoVote, state)
	})
}

func TestConverge(t *testing.T) {
	t.Run("should keep an existing vote of the same type as added", func(t *testing.T) {
		next, action, err := Converge(Upvoted, models.Upvote)
		require.NoError(t, err)
		assert.Equal(t, Upvoted, next)
		assert.Equal(t, models.VoteAdded, action)
	})

	t.Run("should flip an opposite vote as changed", func(t *testing.T) {
		next, action, err := Converge(Upvoted, models.Downvote)
		require.NoError(t, err)
		assert.Equal(t, Downvoted, next)
		assert.Equal(t, models.VoteChanged, action)
	})

	t.Run("should add when the racing row is gone again", func(t *testing.T) {
		next, action, err := Converge(NoVote, models.Downvote)
		require.NoError(t, err)
		assert.Equal(t, Downvoted, next)
		assert.Equal(t, models.VoteAdded, action)
	})
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, NoVote, StateOf(nil))
	assert.Equal(t, Upvoted, StateOf(&models.CommentVote{VoteType: models.Upvote}))
	assert.Equal(t, Downvoted, StateOf(&models.CommentVote{VoteType: models.Downvote}))

	assert.Nil(t, NoVote.VoteType())
	require.NotNil(t, Downvoted.VoteType())
	assert.Equal(t, models.Downvote, *Downvoted.VoteType())
	assert.Equal(t, "none", NoVote.String())
	assert.Equal(t, "upvote", Upvoted.String())
}
