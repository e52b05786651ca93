package session

import (
	"image"

	"github.com/matzehuels/photobooth/pkg/compose"
	"github.com/matzehuels/photobooth/pkg/frame"
	"github.com/matzehuels/photobooth/pkg/photo"
	"github.com/matzehuels/photobooth/pkg/transform"
)

// MenuKind identifies which menu is open.
type MenuKind string

const (
	MenuNone MenuKind = "none"
	// MenuSlot offers replace (camera, upload, gallery) and remove for an
	// assigned slot.
	MenuSlot MenuKind = "slot"
	// MenuAdd offers camera, upload and gallery for an empty slot.
	MenuAdd MenuKind = "add"
)

// Menu is the declarative menu state rendered by front ends.
type Menu struct {
	Kind MenuKind `json:"kind"`
	// Slot is the slot the open menu refers to, or NoSlot.
	Slot int `json:"slot"`
	// GalleryTarget is the slot a gallery pick assigns to, or NoSlot.
	GalleryTarget int `json:"gallery_target"`
}

// Snapshot is an immutable copy of the session state at one version.
type Snapshot struct {
	Version    uint64
	Frame      frame.Definition
	Canvas     image.Point
	Library    []*photo.Photo
	Assignment []int
	Transforms []transform.State
	Menu       Menu
}

// Full reports whether every slot of the frame is assigned.
func (s Snapshot) Full() bool { return len(s.Assignment) >= s.Frame.Slots }

// Slots returns the compositor input for this snapshot.
func (s Snapshot) Slots() []compose.Slot {
	out := make([]compose.Slot, len(s.Assignment))
	for i, lib := range s.Assignment {
		out[i] = compose.Slot{Photo: s.Library[lib], Transform: s.Transforms[i]}
	}
	return out
}

// Transform returns the transform of slot, or the default for empty slots.
func (s Snapshot) Transform(slot int) transform.State {
	if slot >= 0 && slot < len(s.Transforms) {
		return s.Transforms[slot]
	}
	return transform.Default()
}
