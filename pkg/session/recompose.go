package session

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// RenderFunc renders a snapshot into a collage.
type RenderFunc func(ctx context.Context, snap Snapshot) (image.Image, error)

// Result is a published composition.
type Result struct {
	Version uint64
	Image   image.Image
	Err     error
}

// RecomposerOption configures a Recomposer.
type RecomposerOption func(*Recomposer)

// WithDebounce delays each render by d so that bursts of changes collapse
// into one render of the newest state.
func WithDebounce(d time.Duration) RecomposerOption {
	return func(r *Recomposer) { r.debounce = d }
}

// WithLogger sets the logger used to report render failures.
func WithLogger(l *log.Logger) RecomposerOption {
	return func(r *Recomposer) { r.logger = l }
}

// Recomposer renders session snapshots on one background goroutine with
// last-writer-wins semantics.
type Recomposer struct {
	render   RenderFunc
	debounce time.Duration
	logger   *log.Logger

	mu        sync.Mutex
	pending   *Snapshot
	latest    Result
	published bool
	changed   chan struct{}
	wake      chan struct{}
}

// NewRecomposer returns a Recomposer. Call [Recomposer.Run] to start it.
func NewRecomposer(render RenderFunc, opts ...RecomposerOption) *Recomposer {
	r := &Recomposer{
		render:  render,
		changed: make(chan struct{}),
		wake:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	return r
}

// Submit queues snap for rendering, replacing any older pending snapshot.
// Snapshots older than the pending one are ignored.
func (r *Recomposer) Submit(snap Snapshot) {
	r.mu.Lock()
	if r.pending != nil && r.pending.Version >= snap.Version {
		r.mu.Unlock()
		return
	}
	if r.published && r.latest.Version >= snap.Version {
		r.mu.Unlock()
		return
	}
	r.pending = &snap
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run renders pending snapshots until ctx is done.
func (r *Recomposer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.wake:
		}
		if r.debounce > 0 {
			t := time.NewTimer(r.debounce)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}

		r.mu.Lock()
		snap := r.pending
		r.pending = nil
		r.mu.Unlock()
		if snap == nil {
			continue
		}

		start := time.Now()
		img, err := r.render(ctx, *snap)
		if err != nil {
			r.logger.Error("recompose failed", "version", snap.Version, "error", err)
		} else {
			r.logger.Debug("recomposed", "version", snap.Version, "frame", snap.Frame.ID, "duration", time.Since(start))
		}
		r.publish(Result{Version: snap.Version, Image: img, Err: err})
	}
}

func (r *Recomposer) publish(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.published && res.Version <= r.latest.Version {
		return
	}
	r.latest = res
	r.published = true
	close(r.changed)
	r.changed = make(chan struct{})
}

// Latest returns the newest published result and whether one exists.
func (r *Recomposer) Latest() (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest, r.published
}

// Wait blocks until a result with at least the given version is published
// or ctx is done.
func (r *Recomposer) Wait(ctx context.Context, version uint64) (Result, error) {
	for {
		r.mu.Lock()
		if r.published && r.latest.Version >= version {
			res := r.latest
			r.mu.Unlock()
			return res, nil
		}
		ch := r.changed
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-ch:
		}
	}
}
