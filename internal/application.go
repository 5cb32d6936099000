package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/bullscows-backend/internal/bullscows"
	"github.com/rocketscienceinc/bullscows-backend/internal/config"
	"github.com/rocketscienceinc/bullscows-backend/internal/entity"
	"github.com/rocketscienceinc/bullscows-backend/internal/repository"
	"github.com/rocketscienceinc/bullscows-backend/internal/repository/storage"
	"github.com/rocketscienceinc/bullscows-backend/internal/usecase"
	"github.com/rocketscienceinc/bullscows-backend/transport/rest"
	"github.com/rocketscienceinc/bullscows-backend/transport/websocket"
)

const shutdownTimeout = 10 * time.Second

// RunApp - runs the application until ctx is cancelled or a signal arrives.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mode, err := entity.ParseMode(conf.Mode)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	policy, err := bullscows.ParsePolicy(conf.Scoring)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	roomRepo, closeRepo, err := newRoomRepository(ctx, conf)
	if err != nil {
		return err
	}
	defer closeRepo(log)

	hub := websocket.NewHub(logger)
	roomManager := usecase.NewRoomManager(logger, roomRepo, hub, bullscows.NewDealer(policy),
		usecase.WithMode(mode),
		usecase.WithIDGenerator(usecase.NewRoomIDGenerator(conf.RoomIDLength)),
		usecase.WithTurnTimeout(conf.TurnTimeout),
	)
	wsServer := websocket.New(logger, hub, roomManager)
	restServer := rest.New(logger, roomRepo, wsServer, conf.PublicURL)

	srv := rest.NewHTTPServer(conf.HTTPPort, restServer.Handler())

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort, "mode", mode, "scoring", policy)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
		return nil
	})

	if err = group.Wait(); err != nil {
		return err
	}

	log.Info("Application stopped", "rooms", roomManager.RoomCount(), "connections", hub.ConnectionCount())

	return nil
}

func newRoomRepository(ctx context.Context, conf *config.Config) (repository.RoomRepository, func(*slog.Logger), error) {
	if conf.Storage.Driver != config.StorageRedis {
		return repository.NewMemoryRoomRepository(), func(*slog.Logger) {}, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeRepo := func(log *slog.Logger) {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewRoomRepository(redisStorage.Connection), closeRepo, nil
}
