package frame

import (
	"testing"

	"github.com/matzehuels/photobooth/pkg/errors"
)

func TestList(t *testing.T) {
	defs := List()
	if len(defs) != 11 {
		t.Fatalf("len(List()) = %d, want 11", len(defs))
	}
	for i, d := range defs {
		if d.ID != i+1 {
			t.Errorf("List()[%d].ID = %d, want %d", i, d.ID, i+1)
		}
		if d.Slots < 1 {
			t.Errorf("frame %d has %d slots", d.ID, d.Slots)
		}
	}

	defs[0].Slots = 99
	if List()[0].Slots == 99 {
		t.Error("List() must return a copy")
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id          int
		slots       int
		kind        GeometryKind
		orientation Orientation
	}{
		{1, 3, Rows, Portrait},
		{5, 1, Rows, Landscape},
		{6, 3, Cols, Landscape},
		{7, 3, Split21, Portrait},
		{8, 3, Split12, Portrait},
		{9, 4, Grid2x2, Portrait},
		{10, 2, Cols, Portrait},
		{11, 2, Rows, Portrait},
	}
	for _, tt := range tests {
		d, err := Get(tt.id)
		if err != nil {
			t.Fatalf("Get(%d) error: %v", tt.id, err)
		}
		if d.Slots != tt.slots || d.Kind != tt.kind || d.Orientation != tt.orientation {
			t.Errorf("Get(%d) = %+v, want slots=%d kind=%s orientation=%s",
				tt.id, d, tt.slots, tt.kind, tt.orientation)
		}
	}
}

func TestGetUnknown(t *testing.T) {
	for _, id := range []int{0, -1, 12, 100} {
		_, err := Get(id)
		if !errors.Is(err, errors.ErrCodeNotFound) {
			t.Errorf("Get(%d) error = %v, want NOT_FOUND", id, err)
		}
	}
}

func TestCanvas(t *testing.T) {
	if w, h := DefaultCanvas(Portrait); w != 600 || h != 900 {
		t.Errorf("DefaultCanvas(portrait) = %dx%d, want 600x900", w, h)
	}
	if w, h := DefaultCanvas(Landscape); w != 900 || h != 600 {
		t.Errorf("DefaultCanvas(landscape) = %dx%d, want 900x600", w, h)
	}
	if w, h := MustGet(6).Canvas(1200, 1800); w != 1800 || h != 1200 {
		t.Errorf("Canvas(1200, 1800) for landscape = %dx%d, want 1800x1200", w, h)
	}
}
