package swipe

import (
	"log/slog"
	"time"

	"github.com/ytget/anchorswipe/internal/model"
)

type options struct {
	name              string
	confirm           func(model.StateLabel) bool
	thresholds        ThresholdsFunc
	velocityThreshold float64 // dp per second
	density           float64
	duration          time.Duration
	easing            Easing
	clock             FrameClock
	logger            *slog.Logger
	metrics           *Metrics
}

func defaultOptions() options {
	return options{
		thresholds:        Fractional(DefaultPositionalThreshold),
		velocityThreshold: DefaultVelocityThreshold,
		density:           1,
		duration:          DefaultAnimationDuration,
		easing:            FastOutSlowIn,
	}
}

func (o options) config() Config {
	return Config{
		Thresholds:        o.thresholds,
		VelocityThreshold: o.velocityThreshold * o.density,
		Duration:          o.duration,
		Easing:            o.easing,
	}
}

// Option configures a State
type Option func(*options)

// WithName labels the state in logs and metrics
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithConfirmStateChange installs the veto guard. It is called before every
// committed transition with the proposed label and must not call back into
// the State.
func WithConfirmStateChange(confirm func(model.StateLabel) bool) Option {
	return func(o *options) {
		o.confirm = confirm
	}
}

// WithThresholds sets the positional thresholds between anchor pairs
func WithThresholds(thresholds ThresholdsFunc) Option {
	return func(o *options) {
		if thresholds != nil {
			o.thresholds = thresholds
		}
	}
}

// WithVelocityThreshold sets the fling velocity in dp per second above
// which a release follows the velocity instead of the position
func WithVelocityThreshold(dpPerSecond float64) Option {
	return func(o *options) {
		if dpPerSecond >= 0 {
			o.velocityThreshold = dpPerSecond
		}
	}
}

// WithDensity sets pixels per dp, used to scale the velocity threshold
func WithDensity(density float64) Option {
	return func(o *options) {
		if density > 0 {
			o.density = density
		}
	}
}

// WithAnimation sets the settle tween duration and easing
func WithAnimation(duration time.Duration, easing Easing) Option {
	return func(o *options) {
		if duration >= 0 {
			o.duration = duration
		}
		if easing != nil {
			o.easing = easing
		}
	}
}

// WithClock sets the frame source for animations
func WithClock(clock FrameClock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithLogger sets the logger; slog.Default() is used otherwise
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics records transitions and drags on m
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}
