package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/micapu/market-made-web/internal/model"
	"github.com/micapu/market-made-web/internal/replay"
	"github.com/micapu/market-made-web/internal/session"
	"github.com/micapu/market-made-web/internal/version"
)

func main() {
	logPath := flag.String("log", "", "path to the replay log (JSON array of [kind, payload] pairs)")
	interval := flag.Duration("interval", replay.DefaultInterval, "delay between replayed events (0 = no pacing)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *logPath == "" {
		logger.Error("no replay log: pass -log")
		os.Exit(1)
	}

	logger.Info("starting replay",
		"version", version.Version,
		"log", *logPath,
		"interval", *interval,
	)

	log, err := replay.Load(*logPath, logger)
	if err != nil {
		logger.Error("failed to load replay log", "error", err)
		os.Exit(1)
	}
	logger.Info("replay log loaded",
		"events", len(log.Events),
		"skipped_unknown", log.SkippedUnknown,
		"skipped_malformed", log.SkippedMalformed,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Replay needs no transport: commands are no-ops.
	sess := session.New(session.DefaultConfig(), "", nil, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sess.Run(gctx)
	})

	driver := replay.NewDriver(replay.Config{Interval: *interval}, log, sess, logger)
	if err := driver.Start(ctx); err != nil {
		logger.Error("failed to start replay", "error", err)
		os.Exit(1)
	}

	driver.Wait()

	// The log is fully enqueued; closing the intake lets Run apply what is
	// left and return on its own.
	sess.CloseIntake()

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("replay exited", "error", err)
		os.Exit(1)
	}

	printSummary(sess, logger)
}

// printSummary reports the final state the replay arrived at.
func printSummary(sess *session.Session, logger *slog.Logger) {
	stats := sess.Stats()
	game := sess.GameState()

	logger.Info("replay finished",
		"game", game.GameName,
		"events_applied", stats.EventsApplied,
		"duplicate_ticks", stats.DuplicateTicks,
		"bids", len(sess.Bids()),
		"asks", len(sess.Asks()),
		"ticks", len(sess.Ticks()),
		"players", len(sess.Players()),
		"phase", sess.Phase(),
	)

	if results := sess.Results(nil); results != nil {
		for _, r := range results {
			logger.Info("final standing",
				"rank", r.Rank,
				"player", r.Player.Name,
				"code", model.ShortName(r.Player.Name),
				"profit", fmt.Sprintf("%.2f", r.Profit),
			)
		}
	}
}
