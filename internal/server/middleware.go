package server

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/observability"
)

type ctxKey int

const entryKey ctxKey = 0

// requestLogger logs each request with its route pattern and reports it to
// the HTTP hooks.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, dur)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", dur,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// withSession resolves the {id} URL parameter.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e, err := s.sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), entryKey, e)))
	})
}

func entryFrom(r *http.Request) *Entry {
	return r.Context().Value(entryKey).(*Entry)
}

// uploadLimit throttles uploads per client address.
func (s *Server) uploadLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lim := s.limiter(clientKey(r))
		res := lim.Reserve()
		if !res.OK() {
			// The request exceeds the burst and can never be served.
			s.writeError(w, r, &errors.RateLimitedError{})
			return
		}
		if d := res.Delay(); d > 0 {
			res.Cancel()
			retry := int(math.Ceil(d.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			s.writeError(w, r, &errors.RateLimitedError{RetryAfter: retry})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) limiter(key string) *rate.Limiter {
	if v, ok := s.limiters.Get(key); ok {
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(rate.Limit(s.cfg.Server.UploadRate), s.cfg.Server.UploadBurst)
	if err := s.limiters.Add(key, lim, gocache.DefaultExpiration); err != nil {
		// Lost the race; use the stored one.
		if v, ok := s.limiters.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
