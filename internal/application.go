package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/rocketscienceinc/tictactoe-local/internal/config"
	"github.com/rocketscienceinc/tictactoe-local/internal/cue"
	"github.com/rocketscienceinc/tictactoe-local/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-local/internal/service"
	"github.com/rocketscienceinc/tictactoe-local/internal/terminal"
	"github.com/rocketscienceinc/tictactoe-local/transport/rest"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrUnknownStorage = errors.New("unknown storage backend")
)

// RunApp - runs the HTTP server until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signalContext(log)
	defer cancel()

	sessionRepo, closeRepo, err := newSessionRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeRepo(); err != nil {
			log.Error("could not close session storage", "error", err)
		}
	}()

	dispatcher := cue.NewDispatcher(logger, cue.LogSink{Logger: logger}, cue.Options{
		Enabled:     conf.Presentation.SoundEnabled,
		SwitchDelay: conf.Presentation.SwitchCueDelay,
	})
	defer dispatcher.Close()

	gameMetrics := metrics.New()
	sessionService := service.NewSessionService(logger, sessionRepo, dispatcher, gameMetrics, conf.Presentation)

	router := rest.NewRouter(logger, sessionService, conf.Presentation, gameMetrics.Registry())
	server := rest.New(logger, conf.HTTPPort, router)

	if err = server.Start(ctx); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// RunTerminal - plays a local game in the terminal until the players quit.
func RunTerminal(logger *slog.Logger, conf *config.Config, zeroBased bool) error {
	log := logger.With("component", "app")

	ctx, cancel := signalContext(log)
	defer cancel()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("could not open terminal screen: %w", err)
	}

	return runTerminal(ctx, logger, conf, screen, zeroBased)
}

func runTerminal(ctx context.Context, logger *slog.Logger, conf *config.Config, screen tcell.Screen, zeroBased bool) error {
	dispatcher := cue.NewDispatcher(logger, cue.NewBellSink(logger, screen), cue.Options{
		Enabled:     conf.Presentation.SoundEnabled,
		SwitchDelay: conf.Presentation.SwitchCueDelay,
	})
	defer dispatcher.Close()

	game := terminal.New(logger, dispatcher, terminal.Options{
		ZeroBased:    zeroBased,
		Presentation: conf.Presentation,
	})

	if err := game.Run(ctx, screen); err != nil {
		return fmt.Errorf("terminal game failed: %w", err)
	}

	return nil
}

func signalContext(log *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()

	return ctx, cancel
}

func newSessionRepository(ctx context.Context, conf *config.Config) (repository.SessionRepository, func() error, error) {
	switch conf.Storage {
	case config.StorageMemory, "":
		return repository.NewMemorySessionRepository(), func() error { return nil }, nil
	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewSessionRepository(redisStorage, conf.Redis.SessionTTL), redisStorage.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownStorage, conf.Storage)
	}
}
