package quiz

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type options struct {
	log    *zap.Logger
	events *Events
	newID  func() string
}

// Option configures stores and the fetcher.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithEvents publishes changes to the given hub.
func WithEvents(events *Events) Option {
	return func(o *options) { o.events = events }
}

// WithIDFunc overrides the synthetic question id generator.
func WithIDFunc(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		log:   zap.NewNop(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
