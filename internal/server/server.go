// Package server implements the kiosk HTTP API.
//
// Each booth visit is a session held in memory under a random id. Sessions
// expire after an idle period and are never persisted. Every session owns a
// background recomposer that keeps the live collage current, and optionally
// a camera controller bound to the configured capture directory.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	gocache "github.com/patrickmn/go-cache"

	"github.com/matzehuels/photobooth/pkg/camera"
	"github.com/matzehuels/photobooth/pkg/config"
	"github.com/matzehuels/photobooth/pkg/pipeline"
)

// Option configures a Server.
type Option func(*Server)

// WithDevice overrides the camera device factory. By default a hot folder
// on the configured capture directory is used, and capture is unavailable
// without one.
func WithDevice(fn func() camera.Device) Option {
	return func(s *Server) { s.device = fn }
}

// WithCountdownInterval sets the duration of one countdown step.
func WithCountdownInterval(d time.Duration) Option {
	return func(s *Server) { s.tick = d }
}

// Server serves the booth API.
type Server struct {
	cfg      config.Config
	runner   *pipeline.Runner
	logger   *log.Logger
	sessions *Registry
	limiters *gocache.Cache
	device   func() camera.Device
	tick     time.Duration
	router   chi.Router
}

// New creates a server. Call Close to stop session goroutines.
func New(cfg config.Config, runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:      cfg,
		runner:   runner,
		logger:   logger,
		sessions: NewRegistry(cfg.Server.SessionTTL.D(), logger),
		limiters: gocache.New(10*time.Minute, 10*time.Minute),
		tick:     time.Second,
	}
	if dir := cfg.Booth.CaptureDir; dir != "" {
		s.device = func() camera.Device { return camera.NewHotFolder(dir) }
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions returns the session registry.
func (s *Server) Sessions() *Registry { return s.sessions }

// Close discards all sessions.
func (s *Server) Close() { s.sessions.Close() }

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", s.cfg.Server.Addr)

	select {
	case err := <-errc:
		s.Close()
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	s.logger.Info("server stopped")
	return err
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/frames", func(r chi.Router) {
		r.Get("/", s.handleFrames)
		r.Get("/{frameID}/preview.png", s.handleFramePreview)
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.withSession)

			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)

			r.With(s.uploadLimit).Post("/photos", s.handleUpload)
			r.Get("/photos/{index}/thumbnail.png", s.handleThumbnail)

			r.Put("/frame", s.handleSelectFrame)

			r.Post("/slots", s.handleAppendSlot)
			r.Put("/slots/{slot}", s.withSlot(s.handleAssignSlot))
			r.Delete("/slots/{slot}", s.withSlot(s.handleRemoveSlot))
			r.Post("/slots/{slot}/zoom", s.withSlot(s.handleZoom))
			r.Post("/slots/{slot}/pan", s.withSlot(s.handlePan))
			r.Post("/slots/{slot}/reset", s.withSlot(s.handleReset))

			r.Post("/click", s.handleClick)
			r.Post("/gallery/open", s.handleOpenGallery)
			r.Post("/gallery/pick", s.handlePick)
			r.Post("/menus/close", s.handleCloseMenus)

			r.Post("/capture", s.handleCapture)
			r.Post("/camera/retry", s.handleCameraRetry)
			r.Delete("/camera", s.handleCameraStop)

			r.Get("/collage.png", s.handleCollagePNG)
			r.Get("/collage.pdf", s.handleCollagePDF)
			r.Get("/print", s.handlePrint)
		})
	})
	return r
}
