package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/emilythestrangee/elden-builds/backend/internal/config"
	"github.com/emilythestrangee/elden-builds/backend/internal/database"
	"github.com/emilythestrangee/elden-builds/backend/internal/handlers"
	"github.com/emilythestrangee/elden-builds/backend/internal/logging"
	"github.com/emilythestrangee/elden-builds/backend/internal/repository"
	"github.com/emilythestrangee/elden-builds/backend/internal/server"
	"github.com/emilythestrangee/elden-builds/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.ContextWithLogger(ctx, logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.ErrorContext(ctx, "shutting down due to error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db.GetDB()); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	gormDB := db.GetDB()
	users := repository.NewUserRepository(gormDB)
	builds := repository.NewBuildRepository(gormDB)
	comments := repository.NewCommentRepository(gormDB)
	votes := repository.NewVoteRepository(gormDB)
	notificationRepo := repository.NewNotificationRepository(gormDB)

	notifications := service.NewNotificationService(notificationRepo, users)
	handler := handlers.NewHandler(
		service.NewUserService(users, cfg.JWT),
		service.NewBuildService(builds, users, notifications),
		service.NewCommentService(comments, builds, votes, users, notifications),
		service.NewVoteService(votes, comments, users, notifications),
		notifications,
	)

	srv := server.NewServer(cfg, db, handler, logger)

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		logger.InfoContext(grpCtx, "server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	grp.Go(func() error {
		<-grpCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(grpCtx), cfg.Server.ShutdownTimeout)
		defer cancel()

		logger.InfoContext(shutdownCtx, "server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return grp.Wait()
}
