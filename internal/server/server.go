// Package server serves the portfolio site over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hashjamm/portfolio/internal/analytics"
	"github.com/hashjamm/portfolio/internal/assets"
	"github.com/hashjamm/portfolio/internal/config"
	"github.com/hashjamm/portfolio/internal/content"
	"github.com/hashjamm/portfolio/internal/logging"
	"github.com/hashjamm/portfolio/internal/markdown"
	"github.com/hashjamm/portfolio/web"
)

// Options are the dependencies of a Server. Analytics and Tracker may be
// nil, which disables page-view tracking and the admin area.
type Options struct {
	Config    *config.Config
	Store     *content.Store
	Profile   content.Profile
	Assets    *assets.Resolver
	Markdown  *markdown.Renderer
	Analytics *analytics.Store
	Tracker   *analytics.Tracker
	Logger    *zap.Logger
}

// Server holds the gin engine and everything the handlers read.
type Server struct {
	engine    *gin.Engine
	cfg       *config.Config
	store     *content.Store
	profile   content.Profile
	assets    *assets.Resolver
	md        *markdown.Renderer
	analytics *analytics.Store
	tracker   *analytics.Tracker
	log       *zap.Logger

	adminToken string
}

// New builds the server and registers every route.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Store == nil {
		return nil, errors.New("content store is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Assets == nil {
		opts.Assets = assets.NewResolver(opts.Config.ImagesDir(), "/images", opts.Config.PlaceholderImage)
	}
	if opts.Markdown == nil {
		opts.Markdown = markdown.New("")
	}

	s := &Server{
		cfg:       opts.Config,
		store:     opts.Store,
		profile:   opts.Profile,
		assets:    opts.Assets,
		md:        opts.Markdown,
		analytics: opts.Analytics,
		tracker:   opts.Tracker,
		log:       opts.Logger,
	}

	tmpl, err := template.New("").Funcs(funcMap()).ParseFS(web.Templates(), "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.Requests(s.log))
	if s.tracker != nil && s.analytics != nil {
		r.Use(s.trackViews())
	}
	r.SetHTMLTemplate(tmpl)

	r.StaticFS("/static", http.FS(web.Static()))
	r.Static("/images", s.cfg.ImagesDir())

	s.engine = r
	s.routes()

	if s.analytics != nil && s.cfg.AdminEnabled() {
		token, err := analytics.NewToken()
		if err != nil {
			return nil, err
		}
		s.adminToken = token
		s.adminRoutes()
		s.log.Info("admin area enabled", zap.String("path", "/admin/login"))
	}
	return s, nil
}

func (s *Server) routes() {
	r := s.engine

	r.GET("/", s.home)
	r.GET("/projects/:id", s.project)
	r.GET("/privacy", s.privacy)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "projects": s.store.Len()})
	})

	api := r.Group("/api")
	api.GET("/projects", s.apiProjects)
	api.GET("/projects/:id", s.apiProject)
	api.GET("/mosaic", s.apiMosaic)

	r.NoRoute(s.notFound)
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured port until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return <-errCh
}

func funcMap() template.FuncMap {
	title := func(s string) string {
		return cases.Title(language.English).String(s)
	}
	return template.FuncMap{
		"title": title,
		"inc":   func(i int) int { return i + 1 },
	}
}
