package camera

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/photo"
)

// Countdowns lists the supported countdown durations in seconds.
var Countdowns = []int{3, 5, 10}

// DefaultCountdown is used when no countdown is configured.
const DefaultCountdown = 3

// ValidCountdown reports whether seconds is a supported countdown.
func ValidCountdown(seconds int) bool { return slices.Contains(Countdowns, seconds) }

// CaptureOption configures Capture.
type CaptureOption func(*captureConfig)

type captureConfig struct {
	tick     func(remaining int)
	interval time.Duration
	fresh    bool
}

// WithTick registers a callback invoked with the remaining seconds at the
// start of every countdown step (n, n-1, ..., 1).
func WithTick(fn func(remaining int)) CaptureOption {
	return func(c *captureConfig) { c.tick = fn }
}

// WithInterval sets the duration of one countdown step (default one second).
func WithInterval(d time.Duration) CaptureOption {
	return func(c *captureConfig) { c.interval = d }
}

// WithFreshFrame makes Capture ignore the frame that was latest when the
// countdown started and wait for a newer one.
func WithFreshFrame() CaptureOption {
	return func(c *captureConfig) { c.fresh = true }
}

// shutterStream is implemented by streams that deliver a frame only when a
// shutter fires. Capture always waits for a fresh frame on them.
type shutterStream interface {
	shutterOnly() bool
}

// Capture counts down and then takes one snapshot from s. If no frame has
// arrived when the countdown ends, it waits for the next one. With
// [WithFreshFrame], or on a hot-folder stream, a frame that predates the
// countdown is never returned. countdown must be one of [Countdowns].
func Capture(ctx context.Context, s Stream, countdown int, opts ...CaptureOption) (*photo.Photo, error) {
	if !ValidCountdown(countdown) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "countdown must be one of %v seconds, got %d", Countdowns, countdown)
	}
	cfg := captureConfig{interval: time.Second}
	for _, opt := range opts {
		opt(&cfg)
	}

	if ss, ok := s.(shutterStream); ok && ss.shutterOnly() {
		cfg.fresh = true
	}
	var stale *photo.Photo
	if cfg.fresh {
		stale, _ = s.Latest()
	}

	t := time.NewTicker(cfg.interval)
	defer t.Stop()
	for remaining := countdown; remaining > 0; remaining-- {
		if cfg.tick != nil {
			cfg.tick(remaining)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	for {
		next := s.Next()
		if p, ok := s.Latest(); ok && p != stale {
			return p, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-next:
			// A push replaces the channel; a stop leaves it closed.
			if s.Next() == next {
				return nil, errors.Camera(errors.ReasonUnknown, errStreamStopped)
			}
		}
	}
}

var errStreamStopped = errors.New(errors.ErrCodeCameraUnavailable, "camera stream stopped")
