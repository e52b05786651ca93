package camera

import (
	"context"
	"sync"

	"github.com/matzehuels/photobooth/pkg/photo"
)

// Device starts live capture.
type Device interface {
	// Start acquires the device. It may block until the device is available
	// or ctx is done.
	Start(ctx context.Context) (Stream, error)
}

// DeviceFunc adapts a function to the Device interface.
type DeviceFunc func(ctx context.Context) (Stream, error)

// Start calls f(ctx).
func (f DeviceFunc) Start(ctx context.Context) (Stream, error) { return f(ctx) }

// Stream is a live source of frames.
type Stream interface {
	// Latest returns the most recent frame, if any arrived yet.
	Latest() (*photo.Photo, bool)
	// Next returns a channel that is closed when a frame newer than the
	// current latest arrives or the stream stops.
	Next() <-chan struct{}
	// Stop releases the device. It is safe to call more than once.
	Stop() error
}

// frames is the shared Stream bookkeeping of the concrete devices.
type frames struct {
	mu      sync.Mutex
	latest  *photo.Photo
	next    chan struct{}
	stopped bool
}

func newFrames() *frames { return &frames{next: make(chan struct{})} }

func (f *frames) Latest() (*photo.Photo, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest, f.latest != nil
}

func (f *frames) Next() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.next
}

func (f *frames) push(p *photo.Photo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return
	}
	f.latest = p
	close(f.next)
	f.next = make(chan struct{})
}

// stop marks the stream stopped and reports whether this call did it.
func (f *frames) stop() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return false
	}
	f.stopped = true
	close(f.next)
	return true
}

func (f *frames) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

// Memory is an in-process device whose frames are pushed by the caller.
type Memory struct {
	// Err, when set, is returned by Start instead of a stream.
	Err error

	mu     sync.Mutex
	stream *MemoryStream
}

// Start returns the device's stream, creating it on first use.
func (m *Memory) Start(ctx context.Context) (Stream, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stream == nil || m.stream.isStopped() {
		m.stream = &MemoryStream{frames: newFrames()}
	}
	return m.stream, nil
}

// Push delivers a frame to the current stream, starting one if needed.
func (m *Memory) Push(p *photo.Photo) {
	st, err := m.Start(context.Background())
	if err != nil {
		return
	}
	st.(*MemoryStream).push(p)
}

// MemoryStream is the Stream of a Memory device.
type MemoryStream struct {
	*frames
}

// Stop ends the stream.
func (s *MemoryStream) Stop() error {
	s.stop()
	return nil
}
