// Package api exposes the profiling session over HTTP. It is a thin
// collaborator surface: every route reads or mutates the single session
// and delegates the real work to the clients, the resolver and the
// builder.
package api

import (
	"context"
	"crypto/rand"
	"io"
	"log"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/semantika/orgforge/internal/conf"
	"github.com/semantika/orgforge/internal/entity"
	"github.com/semantika/orgforge/internal/logging"
	"github.com/semantika/orgforge/internal/mistral"
	"github.com/semantika/orgforge/internal/session"
	"github.com/semantika/orgforge/internal/sirene"
	"github.com/semantika/orgforge/internal/wikidata"
)

const cookieName = "orgforge-session"

// KnowledgeBase is the knowledge-base surface the handlers consume.
type KnowledgeBase interface {
	Search(ctx context.Context, query string) []wikidata.SearchResult
	GetEntity(ctx context.Context, qid string) wikidata.EntityDetail
}

// Registry is the company-registry surface the handlers consume.
type Registry interface {
	Search(ctx context.Context, query string) []sirene.Company
}

// Assistant is the completion surface the handlers consume.
type Assistant interface {
	Enrich(ctx context.Context, facts mistral.Facts) *mistral.Enrichment
	Enabled() bool
}

// ParentResolver walks the parent sources for the current record.
type ParentResolver interface {
	Resolve(ctx context.Context, record *entity.Record) error
	ResolveWithAssistant(ctx context.Context, record *entity.Record) error
}

// Controller manages the API routes and handlers.
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	Settings *conf.Settings

	Session   *session.Session
	KB        KnowledgeBase
	Registry  Registry
	Assistant Assistant
	Resolver  ParentResolver

	logger         *log.Logger
	apiLogger      *slog.Logger
	apiLevelVar    *slog.LevelVar
	apiLoggerClose func() error

	cookieStore *sessions.CookieStore

	// The session is a single-owner aggregate; handler bodies run under
	// this mutex so requests never interleave mutations.
	sessionMutex sync.Mutex
}

// New creates the API controller and registers its routes on e.
func New(e *echo.Echo, settings *conf.Settings, sess *session.Session,
	kb KnowledgeBase, registry Registry, assistant Assistant,
	resolver ParentResolver, logger *log.Logger) *Controller {

	if logger == nil {
		logger = log.Default()
	}

	c := &Controller{
		Echo:      e,
		Settings:  settings,
		Session:   sess,
		KB:        kb,
		Registry:  registry,
		Assistant: assistant,
		Resolver:  resolver,
		logger:    logger,
	}

	c.apiLevelVar = new(slog.LevelVar)
	c.apiLevelVar.Set(slog.LevelInfo)
	if settings.Debug {
		c.apiLevelVar.Set(slog.LevelDebug)
	}

	apiLogger, closeFunc, err := logging.NewFileLogger("logs/web.log", "api", c.apiLevelVar)
	if err != nil {
		logger.Printf("Warning: Failed to initialize API structured logger: %v", err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: c.apiLevelVar})
		c.apiLogger = slog.New(fbHandler).With("service", "api")
		c.apiLoggerClose = func() error { return nil }
	} else {
		c.apiLogger = apiLogger
		c.apiLoggerClose = closeFunc
	}

	secret := []byte(settings.Server.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			logger.Printf("Warning: Failed to generate session secret: %v", err)
		}
	}
	c.cookieStore = sessions.NewCookieStore(secret)
	c.cookieStore.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	c.Group = e.Group("/api/v1")
	c.Group.Use(middleware.Recover())
	c.Group.Use(middleware.CORS())
	c.Group.Use(middleware.BodyLimit("1M"))
	c.Group.Use(c.LoggingMiddleware())

	c.initRoutes()
	return c
}

// initRoutes registers all API endpoints. Everything except the login
// route sits behind the shared-secret gate.
func (c *Controller) initRoutes() {
	c.Group.POST("/auth/login", c.Login)

	gated := c.Group.Group("", c.AuthGate)
	gated.GET("/logs", c.GetLogs)
	gated.POST("/reset", c.ResetSession)

	gated.GET("/entity", c.GetEntity)
	gated.PATCH("/entity", c.UpdateEntity)
	gated.POST("/entity/select/wikidata", c.SelectWikidata)
	gated.POST("/entity/select/registry", c.SelectRegistry)

	gated.GET("/search/wikidata", c.SearchWikidata)
	gated.GET("/search/registry", c.SearchRegistry)

	gated.POST("/resolve/parent", c.ResolveParent)
	gated.POST("/enrich", c.Enrich)

	gated.GET("/social", c.GetSocial)
	gated.PUT("/social", c.UpdateSocial)

	gated.GET("/export/jsonld", c.ExportJSONLD)
	gated.GET("/export/snippet", c.ExportSnippet)
	gated.GET("/export/config", c.ExportConfig)
	gated.POST("/import/config", c.ImportConfig)

	gated.GET("/validate", c.ValidateDocument)
	gated.GET("/score", c.GetScore)
}

// LoggingMiddleware logs every API request to the structured log.
func (c *Controller) LoggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			level := slog.LevelInfo
			if err != nil {
				level = slog.LevelWarn
			}
			c.apiLogger.Log(ctx.Request().Context(), level, "api request",
				"method", ctx.Request().Method,
				"path", ctx.Request().URL.Path,
				"status", ctx.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"ip", ctx.RealIP())
			return err
		}
	}
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// HandleError logs the failure and returns the uniform error payload.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	correlationID := uuid.New().String()[:8]

	errorStr := message
	if err != nil {
		errorStr = err.Error()
	}
	c.apiLogger.Error("API Error",
		"correlation_id", correlationID,
		"message", message,
		"error", errorStr,
		"code", code,
		"path", ctx.Request().URL.Path,
		"method", ctx.Request().Method,
		"ip", ctx.RealIP())

	return ctx.JSON(code, ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: correlationID,
	})
}

// Shutdown releases controller resources.
func (c *Controller) Shutdown() {
	if c.apiLoggerClose != nil {
		if err := c.apiLoggerClose(); err != nil {
			c.logger.Printf("Error closing API log file: %v", err)
		}
	}
}
