package corrfunc

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/cosmodesi/Corrfunc/resource"
)

// Logger wraps slog.Logger with pair-counting specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRun tags the logger with the run kind ("auto" or "cross").
func (l *Logger) WithRun(kind string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", kind),
	}
}

// WithResources adds the memory limit and worker slot fields of rc.
func (l *Logger) WithResources(rc *resource.Controller) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			"memory_limit", rc.MemoryLimit(),
			"worker_slots", rc.MaxWorkers(),
		),
	}
}

// WithWorkers adds a workers field to the logger.
func (l *Logger) WithWorkers(workers int) *Logger {
	return &Logger{
		Logger: l.Logger.With("workers", workers),
	}
}

// LogIndexBuild logs the construction of one point set's cell grid.
func (l *Logger) LogIndexBuild(ctx context.Context, set, points, cells, occupied int, d time.Duration) {
	l.DebugContext(ctx, "cell grid built",
		"set", set,
		"points", points,
		"cells", cells,
		"occupied", occupied,
		"duration", d,
	)
}

// LogRunStart logs the dispatch of a pair-counting run.
func (l *Logger) LogRunStart(ctx context.Context, device, scheme string, periodic bool, cellPairs int) {
	l.InfoContext(ctx, "pair counting started",
		"device", device,
		"weighting", scheme,
		"periodic", periodic,
		"cell_pairs", cellPairs,
	)
}

// LogProgress logs the number of finished work items.
func (l *Logger) LogProgress(ctx context.Context, done, total int64) {
	l.DebugContext(ctx, "pair counting progress",
		"done", done,
		"total", total,
	)
}

// LogCount logs the outcome of a pair-counting run.
func (l *Logger) LogCount(ctx context.Context, pairs uint64, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "pair counting failed",
			"duration", d,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "pair counting completed",
			"pairs", pairs,
			"duration", d,
		)
	}
}
