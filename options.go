package nodebalance

import (
	"time"

	"github.com/go-kit/log"
)

// Option configures a selector at construction.
type Option func(*options)

type options struct {
	logger  log.Logger
	metrics *Metrics
	seed    uint64
}

func newOptions(opts []Option) options {
	o := options{
		logger: log.NewNopLogger(),
		seed:   uint64(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger every roster change and selection is reported
// to. Selectors log nothing by default.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics makes the selector record its activity in m. One Metrics may be
// shared by any number of selectors.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithRandSeed fixes the seed of the random source used by RandomRChoices.
// Other strategies ignore it.
func WithRandSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}
