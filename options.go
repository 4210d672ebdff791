package emit

import "log/slog"

// DefaultMaxHandlers is the per-key handler limit used when WithMaxHandlers
// is not given.
const DefaultMaxHandlers = 10

// Option configures a Dispatcher.
type Option func(*config)

type config struct {
	maxHandlers int
	logger      *slog.Logger
}

func defaultConfig() config {
	return config{
		maxHandlers: DefaultMaxHandlers,
		logger:      slog.New(slog.DiscardHandler),
	}
}

// WithMaxHandlers bounds how many handlers On accepts for a single key.
// Values below 1 are ignored.
func WithMaxHandlers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxHandlers = n
		}
	}
}

// WithLogger sets the logger used for debug output. By default nothing is
// logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Mode selects how EmitAsync runs the handlers of a key.
type Mode int

const (
	// Concurrent starts every handler at once, waits for all of them and
	// reports every failure in an *AggregateError.
	Concurrent Mode = iota
	// Sequential runs handlers one after another in registration order and
	// stops at the first failure, returning it unwrapped.
	Sequential
)

func (m Mode) String() string {
	switch m {
	case Concurrent:
		return "concurrent"
	case Sequential:
		return "sequential"
	}
	return "unknown"
}

// EmitOption configures a single EmitAsync call.
type EmitOption func(*emitConfig)

type emitConfig struct {
	mode Mode
}

// WithMode selects the emission mode. Unknown modes fall back to Concurrent.
func WithMode(mode Mode) EmitOption {
	return func(c *emitConfig) {
		if mode == Sequential {
			c.mode = Sequential
			return
		}
		c.mode = Concurrent
	}
}
