// Package frame defines the fixed catalog of collage frames.
//
// # Overview
//
// A frame is a named arrangement of rectangular slots. Each [Definition]
// carries a slot count, a [GeometryKind] that determines how the canvas is
// divided, and an [Orientation] that selects the default canvas shape.
// Definitions are created once at package initialization and never mutated.
//
// # Usage
//
//	for _, def := range frame.List() {
//	    fmt.Println(def.ID, def.Name, def.Slots)
//	}
//
//	def, err := frame.Get(9) // 4x6" 4 Photo, 2x2 grid
//
// Unknown ids fail with [errors.ErrCodeNotFound].
//
// [errors.ErrCodeNotFound]: github.com/matzehuels/photobooth/pkg/errors.ErrCodeNotFound
package frame

import (
	"fmt"

	"github.com/matzehuels/photobooth/pkg/errors"
)

// GeometryKind selects the rule used to divide the canvas into slots.
type GeometryKind string

const (
	// Rows stacks the slots vertically, each canvasHeight/n tall.
	Rows GeometryKind = "uniform-rows"
	// Cols places the slots side by side, each canvasWidth/n wide.
	Cols GeometryKind = "uniform-cols"
	// Grid2x2 divides the canvas into four quadrants in row-major order.
	Grid2x2 GeometryKind = "grid2x2"
	// Split21 puts two stacked slots on the left half and one full-height
	// slot on the right half.
	Split21 GeometryKind = "split-2-1"
	// Split12 mirrors Split21: one full-height slot on the left, two
	// stacked slots on the right.
	Split12 GeometryKind = "split-1-2"
)

// Orientation is the intended print orientation of a frame.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Default preview canvas dimensions for a portrait frame. Landscape frames
// use the transpose.
const (
	DefaultWidth  = 600
	DefaultHeight = 900
)

// Definition describes one frame of the catalog.
type Definition struct {
	ID          int          `json:"id" yaml:"id" toml:"id"`
	Name        string       `json:"name" yaml:"name" toml:"name"`
	Slots       int          `json:"slots" yaml:"slots" toml:"slots"`
	Kind        GeometryKind `json:"kind" yaml:"kind" toml:"kind"`
	Orientation Orientation  `json:"orientation" yaml:"orientation" toml:"orientation"`
}

// String returns a short human-readable label such as `#9 4x6" 4 Photo`.
func (d Definition) String() string {
	return fmt.Sprintf("#%d %s", d.ID, d.Name)
}

// Canvas returns the canvas size for this frame given the portrait
// dimensions w×h. Landscape frames swap the two.
func (d Definition) Canvas(w, h int) (int, int) {
	if d.Orientation == Landscape {
		return h, w
	}
	return w, h
}

// DefaultCanvas returns 600×900 for portrait and 900×600 for landscape.
func DefaultCanvas(o Orientation) (int, int) {
	if o == Landscape {
		return DefaultHeight, DefaultWidth
	}
	return DefaultWidth, DefaultHeight
}

var catalog = []Definition{
	{ID: 1, Name: `2x6" 3 Photo`, Slots: 3, Kind: Rows, Orientation: Portrait},
	{ID: 2, Name: `2x6" 4 Photo`, Slots: 4, Kind: Rows, Orientation: Portrait},
	{ID: 3, Name: `4x6" 6 Photo`, Slots: 6, Kind: Rows, Orientation: Portrait},
	{ID: 4, Name: `4x6" Portrait`, Slots: 1, Kind: Rows, Orientation: Portrait},
	{ID: 5, Name: `4x6" Landscape`, Slots: 1, Kind: Rows, Orientation: Landscape},
	{ID: 6, Name: `4x6" Triple`, Slots: 3, Kind: Cols, Orientation: Landscape},
	{ID: 7, Name: `4x6" 3 Photo Split`, Slots: 3, Kind: Split21, Orientation: Portrait},
	{ID: 8, Name: `4x6" 3 Photo Alt`, Slots: 3, Kind: Split12, Orientation: Portrait},
	{ID: 9, Name: `4x6" 4 Photo`, Slots: 4, Kind: Grid2x2, Orientation: Portrait},
	{ID: 10, Name: `4x6" 2 Photo`, Slots: 2, Kind: Cols, Orientation: Portrait},
	{ID: 11, Name: `4x6" 2 Photo Alt`, Slots: 2, Kind: Rows, Orientation: Portrait},
}

// List returns the predefined frames in catalog order.
// The returned slice is a copy and may be modified by the caller.
func List() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Get returns the frame with the given id.
func Get(id int) (Definition, error) {
	for _, d := range catalog {
		if d.ID == id {
			return d, nil
		}
	}
	return Definition{}, errors.New(errors.ErrCodeNotFound, "unknown frame id %d", id)
}

// MustGet is like Get but panics on an unknown id. It is intended for
// constants known to be in the catalog.
func MustGet(id int) Definition {
	d, err := Get(id)
	if err != nil {
		panic(err)
	}
	return d
}

// DefaultID is the frame selected when a session starts.
const DefaultID = 1
