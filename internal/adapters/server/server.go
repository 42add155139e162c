// Package server implements the development server: static files from dist,
// the SPA fallback, build event streaming and proxying.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/browser"
	"go.trai.ch/loom/internal/adapters/eventbus"
	"go.trai.ch/loom/internal/adapters/proxy"
	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/loom/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	shutdownGrace     = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Server is the development server for one configuration.
type Server struct {
	cfg     *domain.BuildConfig
	bus     *eventbus.Bus
	router  *proxy.Router
	logger  ports.Logger
	metrics ports.Metrics

	metricsHandler http.Handler
	open           func(url string) error
	listener       net.Listener
}

// New creates a server. The bus is closed when the server shuts down.
func New(
	cfg *domain.BuildConfig,
	bus *eventbus.Bus,
	router *proxy.Router,
	logger ports.Logger,
	metrics ports.Metrics,
) *Server {
	return &Server{
		cfg:     cfg,
		bus:     bus,
		router:  router,
		logger:  logger,
		metrics: metrics,
		open:    browser.OpenURL,
	}
}

// WithMetricsHandler sets the handler exposed on the metrics path when metrics are enabled.
func (s *Server) WithMetricsHandler(h http.Handler) *Server {
	s.metricsHandler = h
	return s
}

// WithOpener replaces the function used to open the browser.
func (s *Server) WithOpener(open func(url string) error) *Server {
	s.open = open
	return s
}

// Listen binds the configured port on all interfaces.
func (s *Server) Listen() error {
	addr := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrServerListenFailed.Error()), "addr", addr)
	}
	s.listener = ln
	return nil
}

// Port returns the bound port, or the configured one before Listen.
func (s *Server) Port() int {
	if s.listener == nil {
		return s.cfg.Port
	}
	if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return s.cfg.Port
}

// URL returns the local address of the public URL.
func (s *Server) URL() string {
	return s.cfg.ServeURL(s.Port())
}

// Handler returns the complete request routing chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.cfg.HotReload {
		mux.HandleFunc("GET "+domain.BuildEventsPath, s.buildEvents)
	}
	if s.cfg.Metrics && s.metricsHandler != nil {
		mux.Handle("GET "+domain.MetricsPath, s.metricsHandler)
	}

	mux.Handle(s.cfg.PublicURL, http.StripPrefix(strings.TrimSuffix(s.cfg.PublicURL, "/"), s.static()))

	var h http.Handler = mux
	if s.router != nil {
		h = s.router.Wrap(h)
	}
	return s.recoverPanics(s.logRequests(s.fallback(h)))
}

// Run serves until ctx is cancelled, then shuts down gracefully and closes the
// event bus. Listen is called first when the port is not bound yet.
func (s *Server) Run(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	srv.RegisterOnShutdown(s.bus.Close)

	url := s.URL()
	s.logger.Info("serving on " + url)
	if s.cfg.Open {
		if err := s.open(url); err != nil {
			s.logger.Warn("could not open browser: " + err.Error())
		}
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(s.listener)
	}()

	select {
	case err := <-errc:
		s.bus.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return zerr.Wrap(err, "development server failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	s.bus.Close()
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return zerr.Wrap(err, "development server shutdown failed")
	}
	return nil
}
