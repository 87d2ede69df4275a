package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/semantika/orgforge/internal/export"
	"github.com/semantika/orgforge/internal/jsonld"
	"github.com/semantika/orgforge/internal/session"
)

// buildDocument renders the current session into a JSON-LD document.
// Callers must hold the session mutex.
func (c *Controller) buildDocument() *jsonld.Document {
	return jsonld.Build(c.Session.Record, c.Session.Links)
}

// ExportJSONLD returns the standalone JSON-LD document as a download.
func (c *Controller) ExportJSONLD(ctx echo.Context) error {
	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()

	data, err := export.JSONLD(c.buildDocument())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to render document", http.StatusInternalServerError)
	}

	c.Session.Log(session.LevelOK, "JSON-LD exported")
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.JSONLDFilename(c.Session.Record)))
	return ctx.Blob(http.StatusOK, "application/ld+json", data)
}

// ExportSnippet returns the document wrapped in the page-embed template.
func (c *Controller) ExportSnippet(ctx echo.Context) error {
	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()

	data, err := export.Snippet(c.buildDocument())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to render snippet", http.StatusInternalServerError)
	}
	return ctx.Blob(http.StatusOK, "text/html; charset=utf-8", data)
}

// ExportConfig returns the full reloadable session snapshot.
func (c *Controller) ExportConfig(ctx echo.Context) error {
	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()

	data, err := export.Snapshot(c.Session.Record, c.Session.Links)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to render snapshot", http.StatusInternalServerError)
	}

	c.Session.Log(session.LevelOK, "Configuration saved")
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.SnapshotFilename(c.Session.Record)))
	return ctx.Blob(http.StatusOK, "application/json", data)
}

// ImportConfig replaces the session state with a previously exported
// snapshot.
func (c *Controller) ImportConfig(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to read snapshot", http.StatusBadRequest)
	}

	record, links, err := export.LoadSnapshot(body)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid configuration snapshot", http.StatusBadRequest)
	}

	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()

	*c.Session.Record = *record
	*c.Session.Links = *links
	c.Session.Log(session.LevelOK, "Configuration loaded")

	return ctx.JSON(http.StatusOK, map[string]any{
		"entity": c.Session.Record,
		"score":  c.Session.Record.Score(),
	})
}

// ValidateDocument runs the local validator over the current document.
func (c *Controller) ValidateDocument(ctx echo.Context) error {
	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()

	findings := jsonld.Validate(c.buildDocument())
	return ctx.JSON(http.StatusOK, map[string]any{
		"findings": findings,
		"errors":   len(jsonld.Errors(findings)),
		"warnings": len(jsonld.Warnings(findings)),
	})
}
