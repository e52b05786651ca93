package server

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/photobooth/pkg/buildinfo"
	"github.com/matzehuels/photobooth/pkg/camera"
	"github.com/matzehuels/photobooth/pkg/compose"
	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/frame"
	"github.com/matzehuels/photobooth/pkg/photo"
	"github.com/matzehuels/photobooth/pkg/session"
	"github.com/matzehuels/photobooth/pkg/sink"
)

// collageWait bounds how long a download waits for the live render.
const collageWait = 15 * time.Second

// =============================================================================
// Meta
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"build":    buildinfo.Get(),
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleFrames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, frame.List())
}

func (s *Server) handleFramePreview(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "frameID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	def, err := frame.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	img, err := compose.Preview(def, 0, 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := sink.RenderPNG(img)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	writeBytes(w, sink.FormatPNG.ContentType(), data)
}

// =============================================================================
// Session lifecycle
// =============================================================================

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FrameID int `json:"frame_id"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.FrameID == 0 {
		req.FrameID = s.cfg.Booth.Frame
	}
	def, err := frame.Get(req.FrameID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e := s.sessions.Create(s.runner.RenderFunc(), s.cfg.Booth.Debounce.D(),
		session.WithFrame(def),
		session.WithCanvas(s.cfg.Canvas.Width, s.cfg.Canvas.Height),
	)
	s.logger.Info("session started", "id", e.ID, "frame", def.ID)
	s.writeState(w, r, http.StatusCreated, e)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.writeState(w, r, http.StatusOK, entryFrom(r))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r)
	if err := s.sessions.Delete(e.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("session ended", "id", e.ID)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Photos
// =============================================================================

// multipartSource adapts an uploaded file part.
type multipartSource struct{ fh *multipart.FileHeader }

func (m multipartSource) Name() string { return m.fh.Filename }

func (m multipartSource) Open() (io.ReadCloser, error) { return m.fh.Open() }

type failureJSON struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type uploadJSON struct {
	Added    []int         `json:"added"`
	Failures []failureJSON `json:"failures"`
	// Error is set when the photos were added but could not be placed.
	Error *errorBody `json:"error,omitempty"`
	State stateJSON  `json:"state"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r)
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid upload"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "no files in upload"))
		return
	}
	target := session.NoSlot
	if v := r.FormValue("slot"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "slot must be an integer"))
			return
		}
		target = n
	}

	srcs := make([]photo.Source, len(files))
	for i, fh := range files {
		srcs[i] = multipartSource{fh}
	}
	res, placeErr := e.Session.Upload(r.Context(), srcs, target)

	out := uploadJSON{Added: res.Added, Failures: make([]failureJSON, len(res.Failures))}
	if out.Added == nil {
		out.Added = []int{}
	}
	for i, f := range res.Failures {
		out.Failures[i] = failureJSON{Index: f.Index, Name: f.Name, Message: f.Message()}
	}
	if placeErr != nil {
		out.Error = &errorBody{Code: errors.GetCode(placeErr), Message: errors.UserMessage(placeErr)}
	}
	st, err := stateOf(e)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out.State = st
	s.logger.Info("upload", "id", e.ID, "added", len(res.Added), "failed", len(res.Failures))

	status := http.StatusOK
	if len(res.Added) == 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, out)
}

func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r)
	idx, err := intParam(r, "index")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := e.Session.Photo(idx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	data, err := s.runner.Thumbnail(r.Context(), p, size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "private, max-age=3600")
	writeBytes(w, sink.FormatPNG.ContentType(), data)
}

// =============================================================================
// Editing
// =============================================================================

// mutate runs fn against the session and responds with the new state.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*session.Session) error) {
	e := entryFrom(r)
	if err := fn(e.Session); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeState(w, r, http.StatusOK, e)
}

// withSlot parses {slot} and calls fn with it.
func (s *Server) withSlot(fn func(w http.ResponseWriter, r *http.Request, slot int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot, err := intParam(r, "slot")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		fn(w, r, slot)
	}
}

type photoRequest struct {
	Photo *int `json:"photo"`
}

func (p photoRequest) index() (int, error) {
	if p.Photo == nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "photo is required")
	}
	return *p.Photo, nil
}

func (s *Server) handleSelectFrame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FrameID int `json:"frame_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(sess *session.Session) error { return sess.SelectFrame(req.FrameID) })
}

func (s *Server) handleAppendSlot(w http.ResponseWriter, r *http.Request) {
	var req photoRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(sess *session.Session) error {
		idx, err := req.index()
		if err != nil {
			return err
		}
		return sess.AppendNextAvailable(idx)
	})
}

func (s *Server) handleAssignSlot(w http.ResponseWriter, r *http.Request, slot int) {
	var req photoRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(sess *session.Session) error {
		idx, err := req.index()
		if err != nil {
			return err
		}
		return sess.AssignToSlot(slot, idx)
	})
}

func (s *Server) handleRemoveSlot(w http.ResponseWriter, r *http.Request, slot int) {
	s.mutate(w, r, func(sess *session.Session) error { return sess.RemoveSlot(slot) })
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request, slot int) {
	var req struct {
		Delta float64 `json:"delta"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(sess *session.Session) error { return sess.SetZoom(slot, req.Delta) })
}

func (s *Server) handlePan(w http.ResponseWriter, r *http.Request, slot int) {
	var req struct {
		DX float64 `json:"dx"`
		DY float64 `json:"dy"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(sess *session.Session) error { return sess.Pan(slot, req.DX, req.DY) })
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, slot int) {
	s.mutate(w, r, func(sess *session.Session) error { return sess.ResetTransform(slot) })
}

// =============================================================================
// Menus
// =============================================================================

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X             float64 `json:"x"`
		Y             float64 `json:"y"`
		DisplayWidth  float64 `json:"display_width"`
		DisplayHeight float64 `json:"display_height"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(sess *session.Session) error {
		_, err := sess.Click(req.X, req.Y, req.DisplayWidth, req.DisplayHeight)
		return err
	})
}

func (s *Server) handleOpenGallery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slot int `json:"slot"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(sess *session.Session) error { return sess.OpenGallery(req.Slot) })
}

func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	var req photoRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(sess *session.Session) error {
		idx, err := req.index()
		if err != nil {
			return err
		}
		return sess.PickFromGallery(idx)
	})
}

func (s *Server) handleCloseMenus(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *session.Session) error {
		sess.CloseMenus()
		return nil
	})
}

// =============================================================================
// Camera
// =============================================================================

func (s *Server) cameraFor(e *Entry) (*camera.Controller, error) {
	if s.device == nil {
		return nil, errors.Camera(errors.ReasonUnsupported, nil)
	}
	return e.Camera(s.device), nil
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r)
	var req struct {
		Countdown int  `json:"countdown"`
		Slot      *int `json:"slot"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.Countdown == 0 {
		req.Countdown = s.cfg.Booth.Countdown
	}
	if !camera.ValidCountdown(req.Countdown) {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "countdown must be one of %v seconds", camera.Countdowns))
		return
	}
	target := session.NoSlot
	if req.Slot != nil {
		target = *req.Slot
	}

	cam, err := s.cameraFor(e)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if cam.Status().State == camera.StateIdle {
		cam.Start(e.ctx)
	}
	if _, err := cam.Wait(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	stream, err := cam.Stream()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e.captureMu.Lock()
	p, err := camera.Capture(r.Context(), stream, req.Countdown,
		camera.WithInterval(s.tick),
		camera.WithTick(func(n int) { s.logger.Debug("countdown", "id", e.ID, "remaining", n) }),
	)
	e.captureMu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	idx, err := e.Session.AddCapture(p, target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("captured photo", "id", e.ID, "photo", idx)
	st, err := stateOf(e)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st.Captured = &idx
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleCameraRetry(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r)
	cam, err := s.cameraFor(e)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cam.Retry(e.ctx)
	if _, err := cam.Wait(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeState(w, r, http.StatusOK, e)
}

func (s *Server) handleCameraStop(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r)
	if cam := e.camera(); cam != nil {
		cam.Stop()
	}
	s.writeState(w, r, http.StatusOK, e)
}

// =============================================================================
// Export
// =============================================================================

func (s *Server) handleCollagePNG(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r)
	ctx, cancel := context.WithTimeout(r.Context(), collageWait)
	defer cancel()

	res, err := e.Recomposer.Wait(ctx, e.Session.Snapshot().Version)
	if err == nil {
		err = res.Err
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := sink.RenderPNG(res.Image)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="collage.png"`)
	writeBytes(w, sink.FormatPNG.ContentType(), data)
}

func (s *Server) handleCollagePDF(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, sink.FormatPDF, `attachment; filename="collage.pdf"`)
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, sink.FormatHTML, "")
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, f sink.Format, disposition string) {
	e := entryFrom(r)
	artifacts, err := s.runner.Export(r.Context(), e.Session.Snapshot(), []sink.Format{f})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if disposition != "" {
		w.Header().Set("Content-Disposition", disposition)
	}
	writeBytes(w, f.ContentType(), artifacts[f])
}
