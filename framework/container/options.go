package container

import "github.com/rs/zerolog"

// Option configures a Container.
type Option func(*Container)

// WithStrict makes caller-bug errors (invalid, reserved and duplicate keys)
// panic after the rejected call has left the registry untouched. Meant for
// development builds.
func WithStrict(strict bool) Option {
	return func(c *Container) { c.strict = strict }
}

// WithLogger sets the logger used for diagnostics. The default discards.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Container) { c.log = log.With().Str("component", "container").Logger() }
}
