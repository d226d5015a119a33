// Package supervisor runs catalogcore's background services (the
// periodic library-sync ticker, the analytics flush loop, the
// cross-process event bus forwarder) under a suture supervision tree so
// a panic or returned error in one restarts just that service rather
// than taking the whole host process down.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	FailureThreshold float64
	FailureDecay     float64
	FailureBackoff   time.Duration
	ShutdownTimeout  time.Duration
}

// DefaultTreeConfig returns suture's own recommended defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Tree is catalogcore's two-layer supervision tree: background
// (periodic, time-driven work like LibrarySync/analytics flush) and bus
// (the RuntimeEvent forwarder, isolated so a broker hiccup doesn't
// disturb the ticker loop).
type Tree struct {
	root       *suture.Supervisor
	background *suture.Supervisor
	bus        *suture.Supervisor
}

// New builds a Tree. logger receives suture's lifecycle events
// (service start/stop/panic) via sutureslog.
func New(logger *slog.Logger, cfg TreeConfig) *Tree {
	cfg = withDefaults(cfg)

	hook := (&sutureslog.Handler{Logger: logger}).MustHook()
	rootSpec := suture.Spec{
		EventHook:        hook,
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}
	childSpec := suture.Spec{
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}

	root := suture.New("catalogcore", rootSpec)
	background := suture.New("background", childSpec)
	bus := suture.New("bus", childSpec)
	root.Add(background)
	root.Add(bus)

	return &Tree{root: root, background: background, bus: bus}
}

func withDefaults(cfg TreeConfig) TreeConfig {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5.0
	}
	if cfg.FailureDecay == 0 {
		cfg.FailureDecay = 30.0
	}
	if cfg.FailureBackoff == 0 {
		cfg.FailureBackoff = 15 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return cfg
}

// AddBackground registers a periodic/background suture.Service (library
// sync ticker, analytics flush loop).
func (t *Tree) AddBackground(svc suture.Service) suture.ServiceToken {
	return t.background.Add(svc)
}

// AddBus registers a suture.Service belonging to the event-forwarding
// layer (internal/bus.Forwarder wrapped as a Service).
func (t *Tree) AddBus(svc suture.Service) suture.ServiceToken {
	return t.bus.Add(svc)
}

// Serve starts the tree and blocks until ctx is canceled.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}
