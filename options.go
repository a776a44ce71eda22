package ballmap

import (
	"log/slog"
)

// DefaultMaxOverlap is the overlap cap used when a request leaves MaxOverlap at zero.
const DefaultMaxOverlap = 3

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	maxOverlap       int
	workers          int
}

// Option configures a Mapper.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &ballmap.BasicMetricsCollector{}
//	m := ballmap.New(ballmap.WithMetricsCollector(metrics))
//	// ... use m ...
//	stats := metrics.GetStats()
//	fmt.Printf("Builds: %d, Avg latency: %dns\n", stats.BuildCount, stats.BuildAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := ballmap.NewJSONLogger(slog.LevelInfo)
//	m := ballmap.New(ballmap.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithDefaultMaxOverlap sets the overlap cap applied to requests that leave
// MaxOverlap at zero. Values below 1 keep DefaultMaxOverlap.
func WithDefaultMaxOverlap(m int) Option {
	return func(o *options) {
		if m >= 1 {
			o.maxOverlap = m
		}
	}
}

// WithWorkers bounds the goroutines used for the quadratic distance passes.
// If workers <= 0, runtime.GOMAXPROCS(0) is used.
func WithWorkers(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		maxOverlap:       DefaultMaxOverlap,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
