// Package server serves the site pages from the current store snapshot.
//
// Every request loads the snapshot once, so a rebuild swapping the store
// never changes the data under a request that is already running.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kelas-internasional/kelas/internal/config"
	"github.com/kelas-internasional/kelas/internal/logging"
	"github.com/kelas-internasional/kelas/internal/pages"
	"github.com/kelas-internasional/kelas/internal/renderer"
	"github.com/kelas-internasional/kelas/internal/store"
)

// Server serves the site over HTTP.
type Server struct {
	config     *config.Config
	holder     *store.Holder
	renderer   *renderer.Renderer
	site       pages.Site
	hub        *Hub
	logger     logging.Logger
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithClock overrides the clock used by the pages.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.site.Now = now }
}

// New creates a server reading documents from holder.
func New(cfg *config.Config, holder *store.Holder, r *renderer.Renderer, opts ...Option) *Server {
	s := &Server{
		config:   cfg,
		holder:   holder,
		renderer: r,
		logger:   logging.Nop(),
		site: pages.Site{
			Title:       cfg.Site.Title,
			Description: cfg.Site.Description,
			BaseURL:     cfg.Site.BaseURL,
			Locale:      pages.ParseLocale(cfg.Site.Locale),
			LiveReload:  cfg.Server.LiveReload,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("server")
	s.hub = NewHub(cfg.Server.AllowedOrigins, s.logger)
	return s
}

// Hub returns the live-reload hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Site returns the values passed to every page.
func (s *Server) Site() pages.Site {
	return s.site
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(CORS(s.config.Server.AllowedOrigins))

	r.Get("/", s.handleHome)
	r.Get("/blog", s.handleBlog)
	r.Get("/blog/*", s.handlePost)
	r.Get("/member", s.handleMembers)
	r.Get("/member/*", s.handleMember)
	r.Get("/healthz", s.handleHealth)
	r.Post("/api/entries/{kind}/validate", s.handleValidateEntry)

	assets := http.StripPrefix("/static/", http.FileServer(http.Dir(s.config.Output.Assets)))
	r.Handle("/static/*", assets)

	if s.config.Server.LiveReload {
		r.Handle("/ws", s.hub)
	}

	r.NotFound(s.handleNotFound)
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Server.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Reload tells connected browsers to refresh.
func (s *Server) Reload() {
	s.hub.Broadcast(Message{Type: MessageReload})
}

// ReportBuildError shows a failed rebuild in the browser console. The
// previous snapshot keeps serving.
func (s *Server) ReportBuildError(err error) {
	s.hub.Broadcast(Message{Type: MessageBuildError, Content: err.Error()})
}
