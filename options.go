package vetbuddy

import (
	"time"

	"go.uber.org/zap"
)

// options collects the dependencies shared by the page components.
type options struct {
	logger *zap.Logger
	sink   EventSink
	debug  bool
	now    func() time.Time
}

// Option configures a page component at construction time.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEventSink forwards timeline lifecycle events to sink.
func WithEventSink(sink EventSink) Option {
	return func(o *options) { o.sink = sink }
}

// WithDebug enables per-frame timing stats at debug level.
func WithDebug(enabled bool) Option {
	return func(o *options) { o.debug = enabled }
}

// WithClock replaces the wall clock used by the background renderer.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
