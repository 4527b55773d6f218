package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/elden-builds/backend/internal/models"
	"github.com/emilythestrangee/elden-builds/backend/internal/testutil"
)

func TestDedupKey(t *testing.T) {
	assert.Equal(t, "build_like:1:2:build:3", dedupKey(models.NotificationBuildLike, 1, 2, "build", 3))
	assert.NotEqual(t,
		dedupKey(models.NotificationBuildLike, 1, 2, "build", 3),
		dedupKey(models.NotificationBuildLike, 1, 2, "build", 4),
	)
}

func TestCreateBuildLikeNotification(t *testing.T) {
	ctx := context.Background()

	t.Run("should not notify owners liking their own build", func(t *testing.T) {
		db, svc := setup(t)
		owner := testutil.CreateUser(t, db, "owner", "")
		build := testutil.CreateBuild(t, db, owner, "Bleed")

		created, err := svc.notifications.CreateBuildLikeNotification(ctx, build, owner)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Zero(t, testutil.CountNotifications(t, db, ""))
	})

	t.Run("should notify once per liker and build", func(t *testing.T) {
		db, svc := setup(t)
		owner := testutil.CreateUser(t, db, "owner", "")
		liker := testutil.CreateUser(t, db, "liker", "Ranni")
		first := testutil.CreateBuild(t, db, owner, "Bleed")
		second := testutil.CreateBuild(t, db, owner, "Frost")

		created, err := svc.notifications.CreateBuildLikeNotification(ctx, first, liker)
		require.NoError(t, err)
		assert.True(t, created)

		created, err = svc.notifications.CreateBuildLikeNotification(ctx, first, liker)
		require.NoError(t, err)
		assert.False(t, created)
		assert.EqualValues(t, 1, testutil.CountNotifications(t, db, ""))

		created, err = svc.notifications.CreateBuildLikeNotification(ctx, second, liker)
		require.NoError(t, err)
		assert.True(t, created)
		assert.EqualValues(t, 2, testutil.CountNotifications(t, db, "recipient_id = ?", owner.ID))

		var n models.Notification
		require.NoError(t, db.Where("build_id = ?", first.ID).Take(&n).Error)
		assert.Equal(t, "Ranni liked your build 'Bleed'", n.Message)
		assert.Equal(t, models.NotificationBuildLike, n.Type)
		assert.False(t, n.IsRead)
	})

	t.Run("should fall back to the username without a display name", func(t *testing.T) {
		db, svc := setup(t)
		owner := testutil.CreateUser(t, db, "owner", "")
		liker := testutil.CreateUser(t, db, "blaidd", "")
		build := testutil.CreateBuild(t, db, owner, "Bleed")

		_, err := svc.notifications.CreateBuildLikeNotification(ctx, build, liker)
		require.NoError(t, err)

		var n models.Notification
		require.NoError(t, db.Take(&n).Error)
		assert.Equal(t, "blaidd liked your build 'Bleed'", n.Message)
	})

	t.Run("should notify even when the recipient has no profile", func(t *testing.T) {
		db, svc := setup(t)
		owner := testutil.CreateUser(t, db, "owner", "")
		liker := testutil.CreateUser(t, db, "liker", "")
		build := testutil.CreateBuild(t, db, owner, "Bleed")
		require.NoError(t, db.Where("user_id = ?", owner.ID).Delete(&models.UserProfile{}).Error)

		created, err := svc.notifications.CreateBuildLikeNotification(ctx, build, liker)
		require.NoError(t, err)
		assert.True(t, created)
	})
}

func TestCreateBuildCommentNotification(t *testing.T) {
	ctx := context.Background()

	t.Run("should notify for every comment", func(t *testing.T) {
		db, svc := setup(t)
		owner := testutil.CreateUser(t, db, "owner", "")
		commenter := testutil.CreateUser(t, db, "commenter", "Patches")
		build := testutil.CreateBuild(t, db, owner, "Bleed")

		for _, text := range []string{"first", "second"} {
			comment := testutil.CreateComment(t, db, commenter, build, text)
			created, err := svc.notifications.CreateBuildCommentNotification(ctx, build, commenter, comment)
			require.NoError(t, err)
			assert.True(t, created)
		}

		assert.EqualValues(t, 2, testutil.CountNotifications(t, db, "notification_type = ?", models.NotificationBuildComment))

		var n models.Notification
		require.NoError(t, db.First(&n).Error)
		assert.Equal(t, "Patches commented on your build 'Bleed'", n.Message)
		require.NotNil(t, n.CommentID)
	})

	t.Run("should respect a disabled preference without affecting other types", func(t *testing.T) {
		db, svc := setup(t)
		owner := testutil.CreateUser(t, db, "owner", "")
		other := testutil.CreateUser(t, db, "other", "")
		build := testutil.CreateBuild(t, db, owner, "Bleed")
		comment := testutil.CreateComment(t, db, other, build, "hi")

		off := false
		_, err := svc.users.UpdatePreferences(ctx, owner.ID, models.UpdatePreferencesRequest{BuildComment: &off})
		require.NoError(t, err)

		created, err := svc.notifications.CreateBuildCommentNotification(ctx, build, other, comment)
		require.NoError(t, err)
		assert.False(t, created)

		created, err = svc.notifications.CreateBuildLikeNotification(ctx, build, other)
		require.NoError(t, err)
		assert.True(t, created)

		assert.EqualValues(t, 1, testutil.CountNotifications(t, db, ""))
	})
}

func TestCreateCommentVoteNotification(t *testing.T) {
	ctx := context.Background()
	db, svc := setup(t)
	author := testutil.CreateUser(t, db, "author", "")
	voter := testutil.CreateUser(t, db, "voter", "")
	build := testutil.CreateBuild(t, db, author, "Bleed")
	comment := testutil.CreateComment(t, db, author, build, "nice")

	on := true
	_, err := svc.users.UpdatePreferences(ctx, author.ID, models.UpdatePreferencesRequest{CommentVote: &on})
	require.NoError(t, err)

	created, err := svc.notifications.CreateCommentVoteNotification(ctx, comment, voter, models.Downvote)
	require.NoError(t, err)
	assert.False(t, created)

	created, err = svc.notifications.CreateCommentVoteNotification(ctx, comment, voter, models.Upvote)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.notifications.CreateCommentVoteNotification(ctx, comment, voter, models.Upvote)
	require.NoError(t, err)
	assert.False(t, created)

	assert.EqualValues(t, 1, testutil.CountNotifications(t, db, ""))
}

func TestNotificationLifecycle(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*services, *models.User, *models.User, []int) {
		db, svc := setup(t)
		owner := testutil.CreateUser(t, db, "owner", "")
		stranger := testutil.CreateUser(t, db, "stranger", "")

		var ids []int
		for _, title := range []string{"a", "b", "c"} {
			build := testutil.CreateBuild(t, db, owner, title)
			_, err := svc.notifications.CreateBuildLikeNotification(ctx, build, stranger)
			require.NoError(t, err)
			var n models.Notification
			require.NoError(t, db.Where("build_id = ?", build.ID).Take(&n).Error)
			ids = append(ids, n.ID)
		}

		// one notification addressed to the stranger
		theirs := testutil.CreateBuild(t, db, stranger, "theirs")
		_, err := svc.notifications.CreateBuildLikeNotification(ctx, theirs, owner)
		require.NoError(t, err)

		return svc, owner, stranger, ids
	}

	t.Run("should keep unread count in step with a partial mark read", func(t *testing.T) {
		svc, owner, _, ids := seed(t)

		count, err := svc.notifications.UnreadCount(ctx, owner.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 3, count)

		marked, err := svc.notifications.MarkRead(ctx, owner.ID, ids[:2])
		require.NoError(t, err)
		assert.EqualValues(t, 2, marked)

		count, err = svc.notifications.UnreadCount(ctx, owner.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("should ignore ids owned by someone else", func(t *testing.T) {
		svc, owner, stranger, ids := seed(t)

		marked, err := svc.notifications.MarkRead(ctx, stranger.ID, ids)
		require.NoError(t, err)
		assert.Zero(t, marked)

		count, err := svc.notifications.UnreadCount(ctx, owner.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 3, count)
	})

	t.Run("should do nothing for an empty id list", func(t *testing.T) {
		svc, owner, _, _ := seed(t)

		marked, err := svc.notifications.MarkRead(ctx, owner.ID, []int{})
		require.NoError(t, err)
		assert.Zero(t, marked)
	})

	t.Run("should mark everything when ids are omitted", func(t *testing.T) {
		svc, owner, stranger, _ := seed(t)

		marked, err := svc.notifications.MarkRead(ctx, owner.ID, nil)
		require.NoError(t, err)
		assert.EqualValues(t, 3, marked)

		count, err := svc.notifications.UnreadCount(ctx, stranger.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("should mark a single notification only for its recipient", func(t *testing.T) {
		svc, owner, stranger, ids := seed(t)

		ok, err := svc.notifications.MarkOneRead(ctx, stranger.ID, ids[0])
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = svc.notifications.MarkOneRead(ctx, owner.ID, ids[0])
		require.NoError(t, err)
		assert.True(t, ok)

		count, err := svc.notifications.UnreadCount(ctx, owner.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})

	t.Run("should delete only the caller's own notification", func(t *testing.T) {
		svc, owner, stranger, ids := seed(t)

		deleted, err := svc.notifications.DeleteNotification(ctx, ids[0], stranger.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		deleted, err = svc.notifications.DeleteNotification(ctx, 9999, owner.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		deleted, err = svc.notifications.DeleteNotification(ctx, ids[0], owner.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		list, err := svc.notifications.List(ctx, owner.ID, 20, 0)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("should list newest first with the sender loaded", func(t *testing.T) {
		svc, owner, stranger, ids := seed(t)

		list, err := svc.notifications.List(ctx, owner.ID, 20, 0)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, ids[2], list[0].ID)
		require.NotNil(t, list[0].Sender)
		assert.Equal(t, stranger.Username, list[0].Sender.Username)
	})
}

func TestNotificationCascade(t *testing.T) {
	ctx := context.Background()
	db, svc := setup(t)
	owner := testutil.CreateUser(t, db, "owner", "")
	liker := testutil.CreateUser(t, db, "liker", "")
	build := testutil.CreateBuild(t, db, owner, "Bleed")

	_, err := svc.notifications.CreateBuildLikeNotification(ctx, build, liker)
	require.NoError(t, err)

	require.NoError(t, svc.builds.Delete(ctx, build.ID, owner.ID))
	assert.Zero(t, testutil.CountNotifications(t, db, ""))
}
