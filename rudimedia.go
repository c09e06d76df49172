// Package rudimedia is the Rudi-Media agency website: a server-rendered
// marketing site and blog whose content lives in an external backend API.
// The site keeps working when the backend is down by serving an embedded
// fallback dataset, and ships an admin area for managing blog posts
// through the backend.
package rudimedia

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nitikillua/rudi-media/analytics"
	"github.com/nitikillua/rudi-media/views"
)

// App wires together the backend client, session handling, content
// resolution, and the Echo server.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	Client    *Client
	Sessions  *SessionStore
	Resolver  *Resolver
	Editor    *Editor
	Analytics *analytics.Store

	loginLimiter *loginLimiter
	customRoutes []func(*App)
	staticDir    string
	stopCleanup  func()
}

// New creates the App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start initializes all components and runs the server until it stops.
func (a *App) Start() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("rudimedia: SessionSecret is required")
	}
	if a.Config.BackendURL == "" {
		return fmt.Errorf("rudimedia: BackendURL is required")
	}

	fallback, err := LoadFallback()
	if err != nil {
		return fmt.Errorf("rudimedia: load fallback dataset: %w", err)
	}

	a.Client = NewClient(a.Config.BackendURL, a.Config.BackendTimeout)
	a.Resolver = NewResolver(a.Client, fallback)
	a.Editor = NewEditor(a.Client)
	a.Sessions = NewSessionStore(a.Client)
	a.loginLimiter = newLoginLimiter(5, time.Minute)

	if a.Config.AnalyticsEnabled {
		store, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("rudimedia: init analytics: %w", err)
		}
		a.Analytics = store
		if err := analytics.InitSalt(store); err != nil {
			return fmt.Errorf("rudimedia: init analytics salt: %w", err)
		}
		a.stopCleanup = store.StartCleanupScheduler(365, 24*time.Hour)
	}

	renderer, err := views.NewRenderer()
	if err != nil {
		return fmt.Errorf("rudimedia: parse templates: %w", err)
	}
	a.Echo.Renderer = renderer

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.File("/favicon.svg", filepath.Join(a.staticDir, "favicon.svg"))
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome, a.recordPageViews)
	e.GET("/blog/", a.handleBlog, a.recordPageViews)
	e.GET("/blog/:slug/", a.handlePost, a.recordPageViews)
	e.POST("/contact/", a.handleContact)
	e.POST("/consent/", a.handleConsent)

	e.GET("/admin/login/", a.handleAdminLoginPage)
	e.POST("/admin/login/", a.handleAdminLoginSubmit)
	e.POST("/admin/logout/", a.handleAdminLogout)

	admin := e.Group("/admin", a.requireUser)
	admin.GET("/", a.handleDashboard)
	admin.GET("/posts/new/", a.handleNewPost)
	admin.GET("/posts/:id/", a.handleEditPost)
	admin.POST("/posts/save/", a.handleSavePost)
	admin.GET("/posts/:id/delete/", a.handleDeleteConfirm)
	admin.POST("/posts/:id/delete/", a.handleDeletePost)
	admin.POST("/upload/", a.handleImageUpload)
	admin.GET("/stats/", a.handleStats)
}

// Close releases resources. Call when shutting down.
func (a *App) Close() error {
	if a.stopCleanup != nil {
		a.stopCleanup()
	}
	if a.Analytics != nil {
		return a.Analytics.Close()
	}
	return nil
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
	}
	if code >= http.StatusInternalServerError {
		c.Logger().Errorf("request failed: %v", err)
	}
	var renderErr error
	switch {
	case code == http.StatusNotFound:
		renderErr = a.renderStatus(c, code, "notfound.html", nil)
	case code >= http.StatusInternalServerError:
		renderErr = a.renderStatus(c, code, "error.html", nil)
	default:
		renderErr = c.String(code, http.StatusText(code))
	}
	if renderErr != nil {
		c.Logger().Errorf("render error page: %v", renderErr)
	}
}
