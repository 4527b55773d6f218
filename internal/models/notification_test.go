package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultNotificationPreferences(t *testing.T) {
	p := DefaultNotificationPreferences()

	assert.True(t, p.Enabled(NotificationBuildLike))
	assert.True(t, p.Enabled(NotificationBuildComment))
	assert.True(t, p.Enabled(NotificationCommentReply))
	assert.False(t, p.Enabled(NotificationCommentVote))
	assert.False(t, p.Enabled(NotificationType("mention")))
}

func TestNotificationPreferencesApply(t *testing.T) {
	off, on := false, true
	p := DefaultNotificationPreferences().Apply(UpdatePreferencesRequest{
		BuildComment: &off,
		CommentVote:  &on,
	})

	assert.True(t, p.BuildLike, "untouched flags keep their value")
	assert.False(t, p.BuildComment)
	assert.True(t, p.CommentReply)
	assert.True(t, p.CommentVote)
}

func TestParseVoteType(t *testing.T) {
	v, ok := ParseVoteType("upvote")
	assert.True(t, ok)
	assert.Equal(t, Upvote, v)

	_, ok = ParseVoteType("sideways")
	assert.False(t, ok)

	_, ok = ParseVoteType("Upvote")
	assert.False(t, ok)
}

func TestUserDisplayName(t *testing.T) {
	u := &User{Username: "tarnished"}
	assert.Equal(t, "tarnished", u.DisplayName())

	u.Profile = &UserProfile{}
	assert.Equal(t, "tarnished", u.DisplayName())

	u.Profile.DisplayName = "Malenia Fan"
	assert.Equal(t, "Malenia Fan", u.DisplayName())
}

func TestVoteCountsScore(t *testing.T) {
	assert.Equal(t, int64(-1), VoteCounts{Upvotes: 0, Downvotes: 1}.Score())
	assert.Equal(t, int64(3), VoteCounts{Upvotes: 5, Downvotes: 2}.Score())
}
