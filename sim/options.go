package sim

import (
	"runtime"

	"go.uber.org/zap"
)

// Option configures RunBatch and OptimizeRisk.
type Option func(*runOptions)

type runOptions struct {
	workers int
	logger  *zap.Logger
}

// WithWorkers bounds the number of goroutines simulating sessions.
// Values below 1 select runtime.GOMAXPROCS(0). Results do not depend on it.
func WithWorkers(n int) Option {
	return func(o *runOptions) { o.workers = n }
}

// WithLogger sets the logger used for run progress. The default discards.
func WithLogger(l *zap.Logger) Option {
	return func(o *runOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func newRunOptions(opts []Option) runOptions {
	o := runOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	return o
}
