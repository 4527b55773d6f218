package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/elden-builds/backend/internal/auth"
	"github.com/emilythestrangee/elden-builds/backend/internal/models"
	"github.com/emilythestrangee/elden-builds/backend/internal/testutil"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	_, svc := setup(t)

	resp, err := svc.users.Register(ctx, models.RegisterRequest{
		Username:    "tarnished",
		Email:       "Tarnished@Example.com",
		Password:    "erdtree-lord",
		DisplayName: "The Tarnished",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "tarnished@example.com", resp.User.Email)
	require.NotNil(t, resp.User.Profile)
	assert.Equal(t, models.DefaultNotificationPreferences(), resp.User.Profile.Preferences)

	claims, err := auth.ParseAccessToken(svc.users.jwt, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	_, err = svc.users.Register(ctx, models.RegisterRequest{
		Username: "tarnished",
		Email:    "other@example.com",
		Password: "erdtree-lord",
	})
	assert.ErrorIs(t, err, ErrUserExists)

	login, err := svc.users.Login(ctx, models.LoginRequest{Email: "tarnished@example.com", Password: "erdtree-lord"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.users.Login(ctx, models.LoginRequest{Email: "tarnished@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.users.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProfileAndPreferences(t *testing.T) {
	ctx := context.Background()
	db, svc := setup(t)
	user := testutil.CreateUser(t, db, "melina", "")
	other := testutil.CreateUser(t, db, "other", "")
	build := testutil.CreateBuild(t, db, user, "Bleed")
	testutil.CreateComment(t, db, user, build, "hi")
	_, err := svc.builds.ToggleLike(ctx, build.ID, other.ID)
	require.NoError(t, err)
	otherBuild := testutil.CreateBuild(t, db, other, "Frost")
	_, err = svc.builds.ToggleLike(ctx, otherBuild.ID, user.ID)
	require.NoError(t, err)

	name, bio := "Melina", "Kindling maiden"
	profile, err := svc.users.UpdateProfile(ctx, user.ID, models.UpdateProfileRequest{DisplayName: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Melina", profile.DisplayName)

	view, err := svc.users.GetProfile(ctx, "melina")
	require.NoError(t, err)
	assert.Equal(t, "Melina", view.DisplayName)
	assert.Equal(t, "Kindling maiden", view.Profile.Bio)
	assert.EqualValues(t, 1, view.TotalBuilds)
	assert.EqualValues(t, 1, view.TotalLikedBuilds)
	assert.EqualValues(t, 1, view.TotalComments)

	_, err = svc.users.GetProfile(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	off := false
	prefs, err := svc.users.UpdatePreferences(ctx, user.ID, models.UpdatePreferencesRequest{BuildLike: &off})
	require.NoError(t, err)
	assert.False(t, prefs.BuildLike)
	assert.True(t, prefs.BuildComment)

	stored, err := svc.users.GetPreferences(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, prefs, stored)

	// profile edits leave preferences alone
	_, err = svc.users.UpdateProfile(ctx, user.ID, models.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	stored, err = svc.users.GetPreferences(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.BuildLike)
}

func TestPreferencesWithoutProfile(t *testing.T) {
	ctx := context.Background()
	db, svc := setup(t)
	user := testutil.CreateUser(t, db, "legacy", "")
	require.NoError(t, db.Where("user_id = ?", user.ID).Delete(&models.UserProfile{}).Error)

	prefs, err := svc.users.GetPreferences(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultNotificationPreferences(), prefs)

	on := true
	prefs, err = svc.users.UpdatePreferences(ctx, user.ID, models.UpdatePreferencesRequest{CommentVote: &on})
	require.NoError(t, err)
	assert.True(t, prefs.CommentVote)

	var n int64
	require.NoError(t, db.Model(&models.UserProfile{}).Where("user_id = ?", user.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}
