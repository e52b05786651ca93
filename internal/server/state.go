package server

import (
	"image"
	"net/http"

	"github.com/matzehuels/photobooth/pkg/camera"
	"github.com/matzehuels/photobooth/pkg/frame"
	"github.com/matzehuels/photobooth/pkg/layout"
	"github.com/matzehuels/photobooth/pkg/photo"
	"github.com/matzehuels/photobooth/pkg/session"
	"github.com/matzehuels/photobooth/pkg/transform"
)

type sizeJSON struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type rectJSON struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func rectOf(r image.Rectangle) rectJSON {
	return rectJSON{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

type photoJSON struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type slotJSON struct {
	Slot      int              `json:"slot"`
	Photo     int              `json:"photo"` // library index, -1 when empty
	Rect      rectJSON         `json:"rect"`
	Transform *transform.State `json:"transform,omitempty"`
}

type cameraJSON struct {
	State   camera.State `json:"state"`
	Message string       `json:"message,omitempty"`
}

// stateJSON is the full session state returned by every mutating endpoint.
type stateJSON struct {
	ID       string           `json:"id"`
	Version  uint64           `json:"version"`
	Frame    frame.Definition `json:"frame"`
	Canvas   sizeJSON         `json:"canvas"`
	Photos   []photoJSON      `json:"photos"`
	Slots    []slotJSON       `json:"slots"`
	Full     bool             `json:"full"`
	Menu     session.Menu     `json:"menu"`
	Camera   *cameraJSON      `json:"camera,omitempty"`
	Captured *int             `json:"captured,omitempty"`
}

func stateOf(e *Entry) (stateJSON, error) {
	snap := e.Session.Snapshot()
	st := stateJSON{
		ID:      e.ID,
		Version: snap.Version,
		Frame:   snap.Frame,
		Canvas:  sizeJSON{snap.Canvas.X, snap.Canvas.Y},
		Photos:  make([]photoJSON, len(snap.Library)),
		Full:    snap.Full(),
		Menu:    snap.Menu,
	}
	for i, p := range snap.Library {
		st.Photos[i] = photoOf(i, p)
	}
	rects, err := layout.Rects(snap.Frame, snap.Canvas.X, snap.Canvas.Y)
	if err != nil {
		return st, err
	}
	st.Slots = make([]slotJSON, len(rects))
	for i, r := range rects {
		sl := slotJSON{Slot: i, Photo: session.NoSlot, Rect: rectOf(r)}
		if i < len(snap.Assignment) {
			t := snap.Transform(i)
			sl.Photo, sl.Transform = snap.Assignment[i], &t
		}
		st.Slots[i] = sl
	}
	if cam := e.camera(); cam != nil {
		status := cam.Status()
		st.Camera = &cameraJSON{State: status.State, Message: status.Message()}
	}
	return st, nil
}

// writeState responds with the session state.
func (s *Server) writeState(w http.ResponseWriter, r *http.Request, status int, e *Entry) {
	st, err := stateOf(e)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, st)
}

func photoOf(i int, p *photo.Photo) photoJSON {
	return photoJSON{Index: i, Name: p.Name, Width: p.Width, Height: p.Height}
}
