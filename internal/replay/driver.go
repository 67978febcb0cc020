package replay

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/micapu/market-made-web/internal/event"
	"github.com/micapu/market-made-web/internal/model"
)

// DefaultInterval is the recorded clients' playback cadence.
const DefaultInterval = 700 * time.Millisecond

// Sink accepts decoded events for application. Enqueue returns false once the
// receiver shuts down, which ends the replay early.
type Sink interface {
	Enqueue(ev event.Event) bool
}

// Config holds driver configuration.
type Config struct {
	Interval time.Duration // Delay between events; <= 0 replays without pacing
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{Interval: DefaultInterval}
}

// Driver plays a Log into a Sink, one event per interval.
type Driver struct {
	cfg    Config
	log    *Log
	sink   Sink
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDriver creates a new replay Driver.
func NewDriver(cfg Config, log *Log, sink Sink, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		cfg:    cfg,
		log:    log,
		sink:   sink,
		logger: logger,
	}
}

// Start begins playback. A synthetic join confirmation goes in first so the
// session behaves as a spectator of the recorded market.
func (d *Driver) Start(ctx context.Context) error {
	d.ctx, d.cancel = context.WithCancel(ctx)

	d.sink.Enqueue(event.Event{
		Kind:    event.KindYouJoined,
		Payload: event.YouJoinedPayload{Player: model.PlayerData{}},
	})

	d.wg.Add(1)
	go d.run()

	d.logger.Info("replay started",
		"events", len(d.log.Events),
		"interval", d.cfg.Interval,
	)

	return nil
}

// Stop halts playback and waits for the run loop to exit.
func (d *Driver) Stop(ctx context.Context) error {
	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("replay stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until playback finishes or is stopped.
func (d *Driver) Wait() {
	d.wg.Wait()
}

// run is the playback loop.
func (d *Driver) run() {
	defer d.wg.Done()

	if d.cfg.Interval <= 0 {
		for _, ev := range d.log.Events {
			if d.ctx.Err() != nil || !d.sink.Enqueue(ev) {
				return
			}
		}
		d.logger.Info("replay complete", "events", len(d.log.Events))
		return
	}

	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()

	for i, ev := range d.log.Events {
		select {
		case <-d.ctx.Done():
			d.logger.Debug("replay cancelled", "delivered", i)
			return
		case <-ticker.C:
			if !d.sink.Enqueue(ev) {
				d.logger.Debug("replay sink closed", "delivered", i)
				return
			}
		}
	}
	d.logger.Info("replay complete", "events", len(d.log.Events))
}
