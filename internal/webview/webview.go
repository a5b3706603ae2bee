// Package webview serves the static demo page over local HTTP.
package webview

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ljytool/ljytool/internal/logging"
)

// DefaultAddr is the listen address used when none is given.
const DefaultAddr = "127.0.0.1:8765"

//go:embed page.html
var page []byte

// Page returns the demo page HTML.
func Page() []byte {
	return page
}

// NewRouter returns the handler serving the demo page at "/".
func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})
	return r
}

// requestLogger logs each request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("webview request")
	})
}

// Server serves the demo page until its context is cancelled.
type Server struct {
	httpSrv  *http.Server
	listener net.Listener
}

// Listen binds addr. Use "127.0.0.1:0" for a random port.
func Listen(addr string) (*Server, error) {
	if addr == "" {
		addr = DefaultAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	return &Server{
		httpSrv: &http.Server{
			Handler:           NewRouter(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		listener: ln,
	}, nil
}

// URL returns the address the page is served at.
func (s *Server) URL() string {
	return "http://" + s.listener.Addr().String() + "/"
}

// Serve blocks until ctx is done, then shuts the server down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down webview server: %w", err)
		}
		return nil
	}
}
