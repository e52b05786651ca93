package camera

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/photo"
)

// LockName is the file that marks a hot folder as in use.
const LockName = ".photobooth.lock"

// DefaultSettle is how long a file must stay unchanged before it is decoded.
const DefaultSettle = 150 * time.Millisecond

// HotFolder is a device backed by a directory. Every image file created in
// the directory after Start becomes the latest frame once it has settled.
type HotFolder struct {
	Dir    string
	Settle time.Duration
}

// NewHotFolder returns a HotFolder device for dir.
func NewHotFolder(dir string) *HotFolder {
	return &HotFolder{Dir: dir, Settle: DefaultSettle}
}

// Start acquires the folder. A missing directory is no-device, an
// unreadable one permission-denied, a folder locked by another booth
// device-busy, and a platform without file notifications unsupported.
func (h *HotFolder) Start(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Camera(errors.ReasonUnknown, err)
	}
	info, err := os.Stat(h.Dir)
	if err != nil {
		return nil, classify(err)
	}
	if !info.IsDir() {
		return nil, errors.Camera(errors.ReasonNoDevice, &fs.PathError{Op: "open", Path: h.Dir, Err: fs.ErrInvalid})
	}

	lock := filepath.Join(h.Dir, LockName)
	lf, err := os.OpenFile(lock, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if stderrors.Is(err, fs.ErrExist) {
			return nil, errors.Camera(errors.ReasonDeviceBusy, err)
		}
		return nil, classify(err)
	}
	_ = lf.Close()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		_ = os.Remove(lock)
		return nil, errors.Camera(errors.ReasonUnsupported, err)
	}
	if err := w.Add(h.Dir); err != nil {
		_ = w.Close()
		_ = os.Remove(lock)
		return nil, classify(err)
	}

	settle := h.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	s := &hotStream{
		frames:  newFrames(),
		watcher: w,
		lock:    lock,
		settle:  settle,
		timers:  make(map[string]*time.Timer),
		done:    make(chan struct{}),
	}
	go s.run()
	return s, nil
}

func classify(err error) error {
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return errors.Camera(errors.ReasonNoDevice, err)
	case stderrors.Is(err, fs.ErrPermission):
		return errors.Camera(errors.ReasonPermissionDenied, err)
	}
	return errors.Camera(errors.ReasonUnknown, err)
}

type hotStream struct {
	*frames
	watcher *fsnotify.Watcher
	lock    string
	settle  time.Duration

	tmu    sync.Mutex
	timers map[string]*time.Timer
	done   chan struct{}
	once   sync.Once
}

func (s *hotStream) run() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 || !isImage(event.Name) {
				continue
			}
			s.schedule(event.Name)
		case _, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
		case <-s.done:
			return
		}
	}
}

// schedule decodes name once it has not changed for the settle period.
func (s *hotStream) schedule(name string) {
	s.tmu.Lock()
	defer s.tmu.Unlock()
	if t, ok := s.timers[name]; ok {
		t.Reset(s.settle)
		return
	}
	s.timers[name] = time.AfterFunc(s.settle, func() {
		s.tmu.Lock()
		delete(s.timers, name)
		s.tmu.Unlock()
		f, err := os.Open(name)
		if err != nil {
			return
		}
		defer f.Close()
		p, err := photo.Decode(f, filepath.Base(name))
		if err != nil {
			return
		}
		s.push(p)
	})
}

func (s *hotStream) shutterOnly() bool { return true }

func (s *hotStream) Stop() error {
	var err error
	s.once.Do(func() {
		s.stop()
		close(s.done)
		err = s.watcher.Close()
		s.tmu.Lock()
		for _, t := range s.timers {
			t.Stop()
		}
		s.tmu.Unlock()
		if rerr := os.Remove(s.lock); rerr != nil && err == nil && !stderrors.Is(rerr, fs.ErrNotExist) {
			err = rerr
		}
	})
	return err
}

func isImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}
