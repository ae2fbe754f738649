package rangetree

import "github.com/go-logr/logr"

type options struct {
	autoRebuild bool
	logger      logr.Logger
}

type Option func(*options)

// WithAutoRebuild controls whether reads rebuild a stale tree first.
// Enabled by default.
func WithAutoRebuild(b bool) Option {
	return func(o *options) {
		o.autoRebuild = b
	}
}

// WithLogger sets the logger rebuilds are reported to at V(1).
func WithLogger(l logr.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func defaultOptions() options {
	return options{
		autoRebuild: true,
		logger:      logr.Discard(),
	}
}
