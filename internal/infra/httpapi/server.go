// Package httpapi serves the catalog to the single-page front end: a JSON API
// plus the app shell with per-route metadata rendered into its head.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"toolsapp/internal/domain"
	"toolsapp/internal/infra/search"
	"toolsapp/internal/infra/seo"
	"toolsapp/internal/infra/suggest"
	"toolsapp/internal/infra/telemetry"
)

// ProfileHeader selects the favorites profile of a request.
const ProfileHeader = "X-Toolsapp-Profile"

// ToolStore is the per-profile, per-locale view of the catalog.
type ToolStore interface {
	domain.ToolLookup
	Profile() string
	Locale() string
	Tools() []domain.Tool
	ToolsByCategory() []domain.ToolCategory
	NewTools() []domain.Tool
	FavoriteTools() []domain.Tool
	FavoriteEntries() []string
	AddToolToFavorites(tool domain.Tool)
	RemoveToolFromFavorites(tool domain.Tool)
	IsToolFavorite(tool domain.Tool) bool
	UpdateFavoriteTools(tools []domain.Tool)
	Search(q search.Query) []domain.Tool
}

// Stores hands out tool stores.
type Stores interface {
	// Locales lists the supported locales, default first.
	Locales() []string
	// ToolStore fails for profile names that are invalid or over the
	// profile limit.
	ToolStore(ctx context.Context, profile, locale string) (ToolStore, error)
}

type Options struct {
	StaticDir string
}

type Server struct {
	stores    Stores
	suggester *suggest.Suggester
	builder   *seo.Builder
	renderer  *seo.Renderer
	staticDir string
	logger    *zap.Logger
	metrics   domain.Metrics

	handler http.Handler
}

func NewServer(stores Stores, suggester *suggest.Suggester, builder *seo.Builder, renderer *seo.Renderer, opts Options, logger *zap.Logger, metrics domain.Metrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	if builder == nil {
		builder = seo.NewBuilder(domain.SiteConfig{}, logger)
	}
	if suggester == nil {
		suggester = suggest.New(suggest.WithLogger(logger), suggest.WithMetrics(metrics))
	}
	s := &Server{
		stores:    stores,
		suggester: suggester,
		builder:   builder,
		renderer:  renderer,
		staticDir: opts.StaticDir,
		logger:    logger.Named("httpapi"),
		metrics:   metrics,
	}
	s.handler = s.withRequest(s.routes())
	return s
}

// Handler returns the root handler with request middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tools", s.withStore(s.handleTools))
	mux.HandleFunc("GET /api/tools/{key}", s.withStore(s.handleTool))
	mux.HandleFunc("GET /api/categories", s.withStore(s.handleCategories))
	mux.HandleFunc("GET /api/search", s.withStore(s.handleSearch))
	mux.HandleFunc("POST /api/suggestions", s.withStore(s.handleSuggestions))
	mux.HandleFunc("GET /api/meta", s.withStore(s.handleMeta))
	mux.HandleFunc("GET /api/favorites", s.withStore(s.handleFavorites))
	mux.HandleFunc("POST /api/favorites", s.withStore(s.handleAddFavorite))
	mux.HandleFunc("DELETE /api/favorites", s.withStore(s.handleRemoveFavorite))
	mux.HandleFunc("PUT /api/favorites", s.withStore(s.handleReplaceFavorites))
	mux.HandleFunc("GET /api/", s.handleUnknownAPI)
	mux.HandleFunc("GET /", s.withStore(s.handleApp))
	return mux
}

// ListenAndServe serves the API on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = domain.DefaultHTTPListenAddress
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is done.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", zap.String("addr", listener.Addr().String()))
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("api server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("api server shutdown error", zap.Error(err))
			return err
		}
		s.logger.Info("api server stopped")
		return nil
	}
}
