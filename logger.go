package ballmap

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with ballmap-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithBuildID tags the logger with a build identifier.
func (l *Logger) WithBuildID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("build_id", id),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// WithRadius adds the ball radius to the logger.
func (l *Logger) WithRadius(radius float64) *Logger {
	return &Logger{
		Logger: l.Logger.With("radius", radius),
	}
}

// LogRadius logs the outcome of an automatic radius selection.
func (l *Logger) LogRadius(ctx context.Context, points int, knee float64, radius float64) {
	l.DebugContext(ctx, "radius selected",
		"points", points,
		"knee", knee,
		"radius", radius,
	)
}

// LogBuild logs a graph build.
func (l *Logger) LogBuild(ctx context.Context, res *Result, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "build completed",
		"points", res.Points,
		"radius", res.Radius,
		"raw_nodes", res.RawNodes,
		"raw_edges", res.RawEdges,
		"nodes", len(res.Graph.Nodes),
		"edges", len(res.Graph.Edges),
		"passes", res.Stats.Passes,
		"merges", res.Stats.Merges,
	)
}

// LogNearest logs a nearest-neighbor lookup.
func (l *Logger) LogNearest(ctx context.Context, k, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "nearest lookup failed",
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "nearest lookup completed",
			"k", k,
			"results", resultsFound,
		)
	}
}
