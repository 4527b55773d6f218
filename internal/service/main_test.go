package service

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/elden-builds/backend/internal/config"
	"github.com/emilythestrangee/elden-builds/backend/internal/repository"
	"github.com/emilythestrangee/elden-builds/backend/internal/testutil"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	container, err := testutil.StartPostgres(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	db, err := container.Connect(ctx, "pgx")
	if err != nil {
		container.Terminate()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	testDB = db.GetDB()

	code := m.Run()

	_ = db.Close()
	container.Terminate()
	os.Exit(code)
}

type services struct {
	notifications *NotificationService
	votes         *VoteService
	builds        *BuildService
	comments      *CommentService
	users         *UserService

	voteRepo *repository.VoteRepository
}

// setup skips in -short mode, wipes the database and wires every service.
func setup(t *testing.T) (*gorm.DB, *services) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	require.NoError(t, testutil.Reset(testDB))

	users := repository.NewUserRepository(testDB)
	builds := repository.NewBuildRepository(testDB)
	comments := repository.NewCommentRepository(testDB)
	votes := repository.NewVoteRepository(testDB)
	notifications := NewNotificationService(repository.NewNotificationRepository(testDB), users)

	return testDB, &services{
		notifications: notifications,
		votes:         NewVoteService(votes, comments, users, notifications),
		builds:        NewBuildService(builds, users, notifications),
		comments:      NewCommentService(comments, builds, votes, users, notifications),
		users: NewUserService(users, config.JWTConfig{
			Secret: "test-secret",
			Expiry: time.Hour,
			Issuer: "elden-builds",
		}),
		voteRepo: votes,
	}
}
