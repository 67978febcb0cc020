package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/micapu/market-made-web/internal/api"
	"github.com/micapu/market-made-web/internal/config"
	"github.com/micapu/market-made-web/internal/connection"
	"github.com/micapu/market-made-web/internal/identity"
	"github.com/micapu/market-made-web/internal/session"
	"github.com/micapu/market-made-web/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/client.yaml", "path to config file")
	gameID := flag.String("game", "", "game id to join (overrides config)")
	playerName := flag.String("name", "", "display name to join under (overrides config)")
	createGame := flag.Bool("create", false, "create a new game instead of joining one")
	gameName := flag.String("game-name", "", "name for the created game")
	gameMinutes := flag.Int("minutes", 5, "duration of the created game")
	marketValue := flag.String("value", "", "settlement value for the created game (optional)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting market client",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *gameID != "" {
		cfg.Session.GameID = *gameID
	}
	if *playerName != "" {
		cfg.Session.PlayerName = *playerName
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Load the persistent client identity
	token, err := identity.LoadOrCreate(cfg.Identity.TokenPath)
	if err != nil {
		logger.Error("failed to load identity token", "error", err)
		os.Exit(1)
	}

	// Optionally create the game first
	if *createGame {
		apiClient := api.NewClient(
			cfg.Server.APIURL,
			api.WithLogger(logger),
			api.WithTimeout(30*time.Second),
			api.WithRetries(3, time.Second),
		)
		resp, err := apiClient.CreateGame(ctx, api.CreateGameRequest{
			GameName:    *gameName,
			GameMinutes: *gameMinutes,
			MarketValue: *marketValue,
		})
		if err != nil {
			logger.Error("failed to create game", "error", err)
			os.Exit(1)
		}
		cfg.Session.GameID = resp.GameID
	}

	if cfg.Session.GameID == "" {
		logger.Error("no game id: pass -game, set session.game_id, or use -create")
		os.Exit(1)
	}

	// Connect to the authority
	client := connection.NewClient(connection.ClientConfig{
		URL:          cfg.Server.WSURL,
		PingTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Second,
		BufferSize:   4096,
	}, logger)

	if err := client.Connect(ctx); err != nil {
		logger.Error("failed to connect", "error", err, "url", cfg.Server.WSURL)
		os.Exit(1)
	}
	defer client.Close()

	sess := session.New(session.Config{
		GameID:      cfg.Session.GameID,
		MaxPosition: cfg.Session.MaxPosition,
		QueueSize:   cfg.Session.QueueSize,
	}, token, client, logger)

	g, gctx := errgroup.WithContext(ctx)

	// Apply events single-threaded.
	g.Go(func() error {
		return sess.Run(gctx)
	})

	// Pump raw messages from the socket into the session.
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case msg, ok := <-client.Messages():
				if !ok {
					return fmt.Errorf("connection closed")
				}
				sess.IntakeRaw(msg.Data)
			case err := <-client.Errors():
				return fmt.Errorf("connection error: %w", err)
			}
		}
	})

	// Request the current view, then join if a name is configured.
	if err := sess.ViewGame(); err != nil {
		logger.Error("failed to request game view", "error", err)
		os.Exit(1)
	}
	if cfg.Session.PlayerName != "" {
		if err := sess.JoinGame(cfg.Session.PlayerName); err != nil {
			logger.Error("failed to join game", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("client running",
		"game_id", cfg.Session.GameID,
		"player", cfg.Session.PlayerName,
	)

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("client exited", "error", err)
		os.Exit(1)
	}

	stats := sess.Stats()
	logger.Info("client stopped",
		"events_applied", stats.EventsApplied,
		"parse_errors", stats.ParseErrors,
		"unknown_events", stats.UnknownEvents,
		"duplicate_ticks", stats.DuplicateTicks,
	)
}
