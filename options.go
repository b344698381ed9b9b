package verity

import (
	"fmt"
	"time"
)

// Clock is the time source for temporal rules. The hosting layer supplies it;
// the engine never constructs one beyond the real-time default.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the default real-time clock.
func SystemClock() Clock { return systemClock{} }

// Formatting controls how path segments render into text. Formatters
// transform raw names and keys without altering path structure, so the same
// path renders differently for different consumers.
//
// Render caches per *Formatting identity: reuse one Formatting value across
// calls to benefit from cached prefixes.
type Formatting struct {
	// Property transforms a raw property name (e.g. to snake_case).
	Property func(name string) string
	// Key renders an arbitrary map key into its bracket text.
	Key func(key any) string
}

// DefaultFormatting renders property names verbatim and keys via fmt.Sprint.
var DefaultFormatting = &Formatting{}

func (f *Formatting) property(name string) string {
	if f == nil || f.Property == nil {
		return name
	}
	return f.Property(name)
}

func (f *Formatting) key(k any) string {
	if f == nil || f.Key == nil {
		return fmt.Sprint(k)
	}
	return f.Key(k)
}

// Options bundles per-call validation options. Zero fields fall back to the
// documented defaults (DefaultFormatting, SystemClock).
type Options struct {
	Formatting *Formatting
	Clock      Clock
}

// Option adjusts an Options bag.
type Option func(*Options)

// WithFormatting overrides path formatting for diagnostics rendered during
// this call.
func WithFormatting(f *Formatting) Option {
	return func(o *Options) { o.Formatting = f }
}

// WithClock overrides the time source, typically with a frozen clock in
// tests.
func WithClock(c Clock) Option {
	return func(o *Options) { o.Clock = c }
}

// BuildOptions applies opts over the defaults.
func BuildOptions(opts ...Option) Options {
	o := Options{Formatting: DefaultFormatting, Clock: systemClock{}}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
