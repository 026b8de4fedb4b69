package ssa

import "go.uber.org/zap"

// Option configures a Program at construction time.
type Option func(*config)

type config struct {
	logger               *zap.Logger
	blockCapacityHint    int
	variableCapacityHint int
}

// WithLogger attaches a structured logger used to trace the handful of
// structurally interesting construction events: block sealing, phi
// creation, and trivial-phi collapse. Logging never participates in
// control flow; omit this option (or pass nil) to get a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBlockCapacityHint pre-sizes the block arena for n blocks, avoiding
// repeated page growth when the front-end knows roughly how large the
// function it is about to lower is.
func WithBlockCapacityHint(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.blockCapacityHint = n
		}
	}
}

// WithVariableCapacityHint records a size hint of n variables in the
// configuration. No structure is pre-sized from it: variables are plain
// keys handed out by a counter.
func WithVariableCapacityHint(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.variableCapacityHint = n
		}
	}
}

func newConfig(opts []Option) config {
	c := config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
