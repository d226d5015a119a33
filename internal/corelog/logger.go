// Package corelog provides the process-wide zerolog logger for the
// catalogcore host binary. The core packages (pkg/...) never import this
// package directly — they are wire-format/state-machine code with no
// logging opinions of their own — corelog is only used by cmd/corectl
// and the internal/ ambient packages that sit around the core.
package corelog

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Config controls the global logger.
type Config struct {
	// Level is one of trace/debug/info/warn/error/fatal/panic.
	Level string
	// Format is "json" (production) or "console" (human-readable, local dev).
	Format string
	Caller bool
	Output io.Writer
}

// DefaultConfig is the production default: JSON to stderr at info.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json", Output: os.Stderr}
}

var (
	logger zerolog.Logger
	mu     sync.RWMutex
)

func init() {
	apply(DefaultConfig())
}

// Init (re)configures the global logger. Safe to call more than once;
// cmd/corectl calls it exactly once at startup with the resolved config.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	apply(cfg)
}

func apply(cfg Config) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimestampFieldName = "time"
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"
	zerolog.ErrorFieldName = "error"

	out := cfg.Output
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	b := zerolog.New(out).With().Timestamp()
	if cfg.Caller {
		b = b.Caller()
	}
	logger = b.Logger()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// L returns the current global logger.
func L() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// ctxKey is the context key a request/dispatch-correlation id is stored
// under by WithCorrelationID.
type ctxKey struct{}

// WithCorrelationID attaches id (e.g. an Action's dispatch sequence
// number) to ctx so Ctx(ctx) log lines can be joined across an effect's
// async lifetime.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Ctx returns a logger carrying ctx's correlation id, if any.
func Ctx(ctx context.Context) zerolog.Logger {
	l := L()
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return l.With().Str("correlation_id", id).Logger()
	}
	return l
}

func Debug() *zerolog.Event { return L().Debug() }
func Info() *zerolog.Event  { return L().Info() }
func Warn() *zerolog.Event  { return L().Warn() }
func Error() *zerolog.Event { return L().Error() }
