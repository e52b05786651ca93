package session

import (
	"context"
	"image"
	"slices"
	"sync"

	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/frame"
	"github.com/matzehuels/photobooth/pkg/layout"
	"github.com/matzehuels/photobooth/pkg/photo"
	"github.com/matzehuels/photobooth/pkg/transform"
)

// NoSlot marks the absence of a slot in menu state and placement targets.
const NoSlot = -1

// Option configures a Session.
type Option func(*Session)

// WithFrame sets the initially selected frame.
func WithFrame(def frame.Definition) Option {
	return func(s *Session) { s.frame = def }
}

// WithCanvas sets the portrait canvas size. Landscape frames use the
// transpose.
func WithCanvas(w, h int) Option {
	return func(s *Session) {
		if w > 0 && h > 0 {
			s.width, s.height = w, h
		}
	}
}

// WithOnChange registers a callback invoked with the new snapshot after every
// committed change. It is called outside the session lock, possibly from
// several goroutines; snapshots carry a version to order them.
func WithOnChange(fn func(Snapshot)) Option {
	return func(s *Session) { s.onChange = fn }
}

// WithDecodeLimit bounds concurrent decodes during [Session.Upload].
func WithDecodeLimit(n int) Option {
	return func(s *Session) { s.decodeLimit = n }
}

// Session is the state of one booth visit. It is safe for concurrent use.
type Session struct {
	mu          sync.Mutex
	library     []*photo.Photo
	assignment  []int
	transforms  []transform.State
	frame       frame.Definition
	width       int
	height      int
	menuSlot    int
	gallery     int
	version     uint64
	onChange    func(Snapshot)
	decodeLimit int
}

// New creates an empty session showing the default frame.
func New(opts ...Option) *Session {
	s := &Session{
		frame:    frame.MustGet(frame.DefaultID),
		width:    frame.DefaultWidth,
		height:   frame.DefaultHeight,
		menuSlot: NoSlot,
		gallery:  NoSlot,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a consistent copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Photo returns the library photo at index i.
func (s *Session) Photo(i int) (*photo.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.library) {
		return nil, errors.New(errors.ErrCodePhotoNotFound, "no photo %d in library of %d", i, len(s.library))
	}
	return s.library[i], nil
}

// update runs fn under the lock and, if it succeeds, commits a new version
// and notifies the change callback.
func (s *Session) update(fn func() error) error {
	s.mu.Lock()
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.version++
	snap := s.snapshotLocked()
	notify := s.onChange
	s.mu.Unlock()
	if notify != nil {
		notify(snap)
	}
	return nil
}

// AddPhotos appends photos to the library and returns their indices.
func (s *Session) AddPhotos(photos ...*photo.Photo) []int {
	var idx []int
	_ = s.update(func() error {
		idx = s.appendLocked(photos)
		return nil
	})
	return idx
}

// AssignToSlot puts library photo lib into slot. slot may address an
// assigned slot (replace) or the first empty slot (append); anything else
// fails with SLOT_OUT_OF_RANGE. The slot's transform is reset to the default.
func (s *Session) AssignToSlot(slot, lib int) error {
	return s.update(func() error { return s.assignLocked(slot, lib) })
}

// AppendNextAvailable assigns lib to the first empty slot. It fails with
// FRAME_FULL when every slot is taken.
func (s *Session) AppendNextAvailable(lib int) error {
	return s.update(func() error {
		if len(s.assignment) >= s.frame.Slots {
			return errors.New(errors.ErrCodeFrameFull, "all %d slots of %s are taken", s.frame.Slots, s.frame.Name)
		}
		return s.assignLocked(len(s.assignment), lib)
	})
}

// Place assigns freshly added library photos. With a target slot the first
// photo goes to that slot. Without one (NoSlot) the photos fill empty slots
// in order; photos that do not fit stay in the library only.
func (s *Session) Place(indices []int, target int) error {
	return s.update(func() error { return s.placeLocked(indices, target) })
}

// RemoveSlot clears slot and shifts later slots and their transforms down
// by one. The photo stays in the library.
func (s *Session) RemoveSlot(slot int) error {
	return s.update(func() error {
		if err := s.checkAssigned(slot); err != nil {
			return err
		}
		s.assignment = slices.Delete(s.assignment, slot, slot+1)
		s.transforms = slices.Delete(s.transforms, slot, slot+1)
		s.closeMenusLocked()
		return nil
	})
}

// SetZoom adds delta to the slot's zoom, clamped to [0.5, 3.0].
func (s *Session) SetZoom(slot int, delta float64) error {
	return s.update(func() error {
		if err := s.checkAssigned(slot); err != nil {
			return err
		}
		s.transforms[slot] = s.transforms[slot].WithZoomDelta(delta)
		return nil
	})
}

// Pan accumulates (dx, dy) canvas pixels into the slot's offset.
func (s *Session) Pan(slot int, dx, dy float64) error {
	return s.update(func() error {
		if err := s.checkAssigned(slot); err != nil {
			return err
		}
		s.transforms[slot] = s.transforms[slot].WithPan(dx, dy)
		return nil
	})
}

// ResetTransform restores the default zoom and offset of slot.
func (s *Session) ResetTransform(slot int) error {
	return s.update(func() error {
		if err := s.checkAssigned(slot); err != nil {
			return err
		}
		s.transforms[slot] = transform.Default()
		return nil
	})
}

// SelectFrame switches the frame. Assignments beyond the new frame's
// capacity are dropped together with their transforms; the photos stay in
// the library.
func (s *Session) SelectFrame(id int) error {
	def, err := frame.Get(id)
	if err != nil {
		return err
	}
	return s.update(func() error {
		s.frame = def
		if len(s.assignment) > def.Slots {
			s.assignment = s.assignment[:def.Slots:def.Slots]
			s.transforms = s.transforms[:def.Slots:def.Slots]
		}
		s.closeMenusLocked()
		return nil
	})
}

// Upload decodes a multi-file selection and appends the decoded photos to
// the library as one ordered batch, then places them as [Session.Place]
// does. Files that fail to decode are listed in the result and do not
// affect their siblings. A non-nil error means the photos were added to the
// library but could not be placed at target.
func (s *Session) Upload(ctx context.Context, srcs []photo.Source, target int) (UploadResult, error) {
	s.mu.Lock()
	limit := s.decodeLimit
	s.mu.Unlock()

	batch := photo.DecodeBatch(ctx, srcs, limit)
	res := UploadResult{Failures: batch.Failures}
	if len(batch.Photos) == 0 {
		return res, nil
	}
	var placeErr error
	_ = s.update(func() error {
		res.Added = s.appendLocked(batch.Photos)
		placeErr = s.placeLocked(res.Added, target)
		return nil
	})
	return res, placeErr
}

// UploadResult reports the outcome of [Session.Upload].
type UploadResult struct {
	// Added holds the library indices of decoded photos in selection order.
	Added []int
	// Failures lists the files that could not be decoded.
	Failures []photo.Failure
}

// AddCapture appends a camera capture to the library and places it at
// target, or in the first empty slot when target is NoSlot.
func (s *Session) AddCapture(p *photo.Photo, target int) (int, error) {
	var idx int
	var placeErr error
	_ = s.update(func() error {
		idx = s.appendLocked([]*photo.Photo{p})[0]
		placeErr = s.placeLocked([]int{idx}, target)
		return nil
	})
	return idx, placeErr
}

// Click handles a tap at (x, y) on a preview displayed at displayW×displayH.
// Tapping an assigned slot opens its menu; tapping an empty slot opens the
// add menu and targets the gallery at that slot. Taps outside the canvas
// close any open menu.
func (s *Session) Click(x, y, displayW, displayH float64) (Menu, error) {
	var m Menu
	err := s.update(func() error {
		w, h := s.frame.Canvas(s.width, s.height)
		p := layout.CanvasPoint(x, y, displayW, displayH, w, h)
		slot, err := layout.HitTest(s.frame, p, w, h)
		if err != nil {
			s.closeMenusLocked()
		} else if slot < len(s.assignment) {
			s.menuSlot, s.gallery = slot, NoSlot
		} else {
			// The add menu always targets the first empty slot so that the
			// assignment stays gapless.
			s.menuSlot, s.gallery = len(s.assignment), len(s.assignment)
		}
		m = s.menuLocked()
		return nil
	})
	return m, err
}

// OpenGallery targets the gallery picker at slot.
func (s *Session) OpenGallery(slot int) error {
	return s.update(func() error {
		if err := s.checkAssignable(slot); err != nil {
			return err
		}
		s.menuSlot, s.gallery = NoSlot, slot
		return nil
	})
}

// PickFromGallery assigns library photo lib to the gallery target, or to
// the next empty slot when no target is set, and closes the menus.
func (s *Session) PickFromGallery(lib int) error {
	return s.update(func() error {
		target := s.gallery
		if target == NoSlot {
			if len(s.assignment) >= s.frame.Slots {
				return errors.New(errors.ErrCodeFrameFull, "all %d slots of %s are taken", s.frame.Slots, s.frame.Name)
			}
			target = len(s.assignment)
		}
		if err := s.assignLocked(target, lib); err != nil {
			return err
		}
		s.closeMenusLocked()
		return nil
	})
}

// CloseMenus closes the slot menu and the gallery picker.
func (s *Session) CloseMenus() {
	_ = s.update(func() error {
		s.closeMenusLocked()
		return nil
	})
}

func (s *Session) appendLocked(photos []*photo.Photo) []int {
	idx := make([]int, 0, len(photos))
	for _, p := range photos {
		idx = append(idx, len(s.library))
		s.library = append(s.library, p)
	}
	return idx
}

func (s *Session) assignLocked(slot, lib int) error {
	if err := s.checkAssignable(slot); err != nil {
		return err
	}
	if lib < 0 || lib >= len(s.library) {
		return errors.New(errors.ErrCodePhotoNotFound, "no photo %d in library of %d", lib, len(s.library))
	}
	if slot == len(s.assignment) {
		s.assignment = append(s.assignment, lib)
		s.transforms = append(s.transforms, transform.Default())
		return nil
	}
	s.assignment[slot] = lib
	s.transforms[slot] = transform.Default()
	return nil
}

func (s *Session) placeLocked(indices []int, target int) error {
	if len(indices) == 0 {
		return nil
	}
	if target != NoSlot {
		if err := s.assignLocked(target, indices[0]); err != nil {
			return err
		}
		s.closeMenusLocked()
		return nil
	}
	for _, lib := range indices {
		if len(s.assignment) >= s.frame.Slots {
			break
		}
		if err := s.assignLocked(len(s.assignment), lib); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) checkAssignable(slot int) error {
	if slot < 0 || slot > len(s.assignment) || slot >= s.frame.Slots {
		return errors.New(errors.ErrCodeSlotOutOfRange,
			"slot %d cannot be assigned: %d of %d slots in use", slot, len(s.assignment), s.frame.Slots)
	}
	return nil
}

func (s *Session) checkAssigned(slot int) error {
	if slot < 0 || slot >= len(s.assignment) {
		return errors.New(errors.ErrCodeSlotOutOfRange, "slot %d has no photo", slot)
	}
	return nil
}

func (s *Session) closeMenusLocked() {
	s.menuSlot, s.gallery = NoSlot, NoSlot
}

func (s *Session) menuLocked() Menu {
	m := Menu{Slot: s.menuSlot, GalleryTarget: s.gallery}
	switch {
	case s.menuSlot == NoSlot:
		m.Kind = MenuNone
	case s.menuSlot < len(s.assignment):
		m.Kind = MenuSlot
	default:
		m.Kind = MenuAdd
	}
	return m
}

func (s *Session) snapshotLocked() Snapshot {
	w, h := s.frame.Canvas(s.width, s.height)
	return Snapshot{
		Version:    s.version,
		Frame:      s.frame,
		Canvas:     image.Pt(w, h),
		Library:    slices.Clone(s.library),
		Assignment: slices.Clone(s.assignment),
		Transforms: slices.Clone(s.transforms),
		Menu:       s.menuLocked(),
	}
}
