package compose

import (
	"fmt"
	"image"

	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/frame"
	"github.com/matzehuels/photobooth/pkg/layout"
	"github.com/matzehuels/photobooth/pkg/photo"
	"github.com/matzehuels/photobooth/pkg/transform"
)

// Slot is the content of one frame slot. A nil Photo marks an empty slot.
type Slot struct {
	Photo     *photo.Photo
	Transform transform.State
}

// Empty reports whether the slot has no photo.
func (s Slot) Empty() bool { return s.Photo == nil }

// OpKind identifies a drawing operation.
type OpKind int

const (
	OpPhoto OpKind = iota
	OpPlaceholder
	OpDivider
)

func (k OpKind) String() string {
	switch k {
	case OpPhoto:
		return "photo"
	case OpPlaceholder:
		return "placeholder"
	case OpDivider:
		return "divider"
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Op is a single drawing operation.
type Op struct {
	Kind OpKind
	// Slot and Rect are set for photo and placeholder operations.
	Slot int
	Rect image.Rectangle
	// Photo and Draw are set for photo operations. Draw is the placement of
	// the whole photo; drawing is clipped to Rect.
	Photo *photo.Photo
	Draw  transform.DrawSpec
	// Segment is set for divider operations.
	Segment layout.Segment
}

func (o Op) String() string {
	switch o.Kind {
	case OpPhoto:
		return fmt.Sprintf("photo slot=%d rect=%v draw=%v", o.Slot, o.Rect, o.Draw)
	case OpPlaceholder:
		return fmt.Sprintf("placeholder slot=%d rect=%v", o.Slot, o.Rect)
	}
	return fmt.Sprintf("divider %v-%v", o.Segment.From, o.Segment.To)
}

// Plan is the ordered list of operations that renders one collage.
type Plan struct {
	Layout layout.Layout
	Ops    []Op
}

// NewPlan computes the drawing operations for def on a w×h canvas. Slots
// beyond len(slots) are empty. More slots than the frame holds is an
// INVALID_SLOT_INDEX error.
func NewPlan(def frame.Definition, w, h int, slots []Slot) (Plan, error) {
	if len(slots) > def.Slots {
		return Plan{}, errors.New(errors.ErrCodeInvalidSlotIndex,
			"%d slot contents for frame %d with %d slots", len(slots), def.ID, def.Slots)
	}
	l, err := layout.Build(def, w, h)
	if err != nil {
		return Plan{}, err
	}
	ops := make([]Op, 0, def.Slots+len(l.Dividers))
	for i, r := range l.Slots {
		if i >= len(slots) || slots[i].Empty() {
			ops = append(ops, Op{Kind: OpPlaceholder, Slot: i, Rect: r})
			continue
		}
		s := slots[i]
		ops = append(ops, Op{
			Kind:  OpPhoto,
			Slot:  i,
			Rect:  r,
			Photo: s.Photo,
			Draw:  transform.Place(s.Photo.Width, s.Photo.Height, r, s.Transform),
		})
	}
	for _, seg := range l.Dividers {
		ops = append(ops, Op{Kind: OpDivider, Segment: seg})
	}
	return Plan{Layout: l, Ops: ops}, nil
}

// Count returns the number of operations of kind k.
func (p Plan) Count(k OpKind) int {
	n := 0
	for _, op := range p.Ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}
