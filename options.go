package thicket

import (
	"log/slog"
	"reflect"
)

// Option configures a [Context].
type Option func(*Context)

// WithLogger sets the logger receiving resolution records. The default
// discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		c.log = l
	}
}

// WithProvider registers a factory for components of type t, used when a
// missing dependency of that type is auto-created. Prefer the generic
// [Provide] helper.
func WithProvider(t reflect.Type, factory func() any) Option {
	return func(c *Context) {
		c.providers[t] = factory
	}
}
