package exthash

import "go.uber.org/zap"

// Tracker observes the key copies a table makes and releases. It lets a
// caller keep its own allocation registry without the table holding any
// process-wide state.
type Tracker interface {
	Retain(key []byte)
	Release(key []byte)
}

var nopLogger = zap.NewNop()

// Option configures a table created with New.
type Option func(*options)

type options struct {
	hash    HashFunc
	logger  *zap.Logger
	tracker Tracker
}

// WithHashFunc installs fn instead of DefaultHash.
func WithHashFunc(fn HashFunc) Option {
	return func(o *options) {
		o.hash = fn
	}
}

// WithLogger sets the logger used for growth, split and repair events.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTracker reports every key copy to t.
func WithTracker(t Tracker) Option {
	return func(o *options) {
		o.tracker = t
	}
}

func (o *options) hashFunc() HashFunc {
	if o.hash == nil {
		return DefaultHash
	}
	return o.hash
}

func (o *options) log() *zap.Logger {
	if o.logger == nil {
		return nopLogger
	}
	return o.logger
}

func (o *options) retain(key []byte) {
	if o.tracker != nil {
		o.tracker.Retain(key)
	}
}

func (o *options) release(key []byte) {
	if o.tracker != nil {
		o.tracker.Release(key)
	}
}
