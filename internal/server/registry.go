package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/matzehuels/photobooth/pkg/camera"
	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/session"
)

// DefaultSessionTTL applies when the configured idle TTL is not positive.
const DefaultSessionTTL = 30 * time.Minute

// Entry is one live booth session.
type Entry struct {
	ID         string
	Session    *session.Session
	Recomposer *session.Recomposer

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool

	camMu sync.Mutex
	cam   *camera.Controller

	// captureMu serializes countdowns.
	captureMu sync.Mutex
}

// Camera returns the session's camera controller, creating it with dev on
// first use.
func (e *Entry) Camera(dev func() camera.Device) *camera.Controller {
	e.camMu.Lock()
	defer e.camMu.Unlock()
	if e.cam == nil {
		e.cam = camera.NewController(dev())
	}
	return e.cam
}

func (e *Entry) camera() *camera.Controller {
	e.camMu.Lock()
	defer e.camMu.Unlock()
	return e.cam
}

func (e *Entry) close() {
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	e.cancel()
	if cam := e.camera(); cam != nil {
		cam.Stop()
	}
}

// Registry holds live sessions in memory with sliding idle expiry.
type Registry struct {
	items  *gocache.Cache
	ttl    time.Duration
	logger *log.Logger
}

// NewRegistry creates a registry whose entries expire after ttl without
// access.
func NewRegistry(ttl time.Duration, logger *log.Logger) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	cleanup := ttl / 2
	if cleanup > time.Minute {
		cleanup = time.Minute
	}
	r := &Registry{items: gocache.New(ttl, cleanup), ttl: ttl, logger: logger}
	r.items.OnEvicted(func(id string, v any) {
		v.(*Entry).close()
		r.logger.Debug("session closed", "id", id)
	})
	return r
}

// Create registers a new session. opts are applied after the change hook
// that feeds the recomposer.
func (r *Registry) Create(render session.RenderFunc, debounce time.Duration, opts ...session.Option) *Entry {
	ctx, cancel := context.WithCancel(context.Background())
	rec := session.NewRecomposer(render,
		session.WithDebounce(debounce),
		session.WithLogger(r.logger),
	)
	sess := session.New(append([]session.Option{session.WithOnChange(rec.Submit)}, opts...)...)
	e := &Entry{
		ID:         uuid.NewString(),
		Session:    sess,
		Recomposer: rec,
		ctx:        ctx,
		cancel:     cancel,
	}
	go rec.Run(ctx)
	rec.Submit(sess.Snapshot())

	r.items.SetDefault(e.ID, e)
	r.logger.Debug("session created", "id", e.ID)
	return e
}

// Get returns the session with the given id and extends its lifetime.
func (r *Registry) Get(id string) (*Entry, error) {
	v, ok := r.items.Get(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found or expired", id)
	}
	e := v.(*Entry)
	r.items.SetDefault(id, e)
	if e.closed.Load() {
		r.items.Delete(id)
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found or expired", id)
	}
	return e, nil
}

// Delete discards a session.
func (r *Registry) Delete(id string) error {
	if _, ok := r.items.Get(id); !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "session %s not found or expired", id)
	}
	r.items.Delete(id)
	return nil
}

// Len returns the number of live sessions, including expired ones not yet
// collected.
func (r *Registry) Len() int { return r.items.ItemCount() }

// Close discards every session.
func (r *Registry) Close() {
	for id := range r.items.Items() {
		r.items.Delete(id)
	}
}
