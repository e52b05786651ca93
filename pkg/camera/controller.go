package camera

import (
	"context"
	"sync"

	"github.com/matzehuels/photobooth/pkg/errors"
)

// State is the acquisition state of a Controller.
type State string

const (
	StateIdle      State = "idle"
	StateAcquiring State = "acquiring"
	StateReady     State = "ready"
	StateFailed    State = "failed"
)

// Status is a point-in-time view of a Controller.
type Status struct {
	State State
	// Err is set in StateFailed.
	Err error
}

// Message returns the user-facing message for a failed status.
func (s Status) Message() string {
	if s.Err == nil {
		return ""
	}
	return errors.UserMessage(s.Err)
}

// Controller manages acquisition of one device for an interactive front
// end. Every Start begins a new generation; results of older generations
// are discarded and their streams stopped.
type Controller struct {
	dev Device

	mu      sync.Mutex
	gen     uint64
	status  Status
	stream  Stream
	changed chan struct{}
}

// NewController returns an idle controller for dev.
func NewController(dev Device) *Controller {
	return &Controller{
		dev:     dev,
		status:  Status{State: StateIdle},
		changed: make(chan struct{}),
	}
}

// Start begins acquiring the device in the background. Any current
// acquisition or stream is cancelled first.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.resetLocked()
	c.gen++
	gen := c.gen
	c.setLocked(Status{State: StateAcquiring})
	c.mu.Unlock()

	go func() {
		st, err := c.dev.Start(ctx)
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.gen {
			if st != nil {
				_ = st.Stop()
			}
			return
		}
		if err != nil {
			c.setLocked(Status{State: StateFailed, Err: asCameraError(err)})
			return
		}
		c.stream = st
		c.setLocked(Status{State: StateReady})
	}()
}

// Cancel invalidates a pending acquisition and stops the current stream.
// The underlying device request is not interrupted; its late result is
// dropped.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.resetLocked()
	c.setLocked(Status{State: StateIdle})
}

// Retry cancels and starts again.
func (c *Controller) Retry(ctx context.Context) { c.Start(ctx) }

// Stop releases the device. It is equivalent to Cancel.
func (c *Controller) Stop() { c.Cancel() }

// Status returns the current status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Stream returns the live stream when ready.
func (c *Controller) Stream() (Stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.status.State {
	case StateReady:
		return c.stream, nil
	case StateFailed:
		return nil, c.status.Err
	}
	return nil, errors.New(errors.ErrCodeCameraUnavailable, "camera is %s", c.status.State)
}

// Wait blocks until the controller leaves StateAcquiring or ctx is done.
func (c *Controller) Wait(ctx context.Context) (Status, error) {
	for {
		c.mu.Lock()
		st, ch := c.status, c.changed
		c.mu.Unlock()
		if st.State != StateAcquiring {
			return st, nil
		}
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-ch:
		}
	}
}

func (c *Controller) resetLocked() {
	if c.stream != nil {
		_ = c.stream.Stop()
		c.stream = nil
	}
}

func (c *Controller) setLocked(s Status) {
	c.status = s
	close(c.changed)
	c.changed = make(chan struct{})
}

func asCameraError(err error) error {
	if errors.Is(err, errors.ErrCodeCameraUnavailable) {
		return err
	}
	return errors.Camera(errors.ReasonUnknown, err)
}
