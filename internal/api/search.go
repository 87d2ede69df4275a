package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/semantika/orgforge/internal/session"
)

// SearchWikidata runs a knowledge-base candidate search.
func (c *Controller) SearchWikidata(ctx echo.Context) error {
	query := ctx.QueryParam("q")
	if query == "" {
		return c.HandleError(ctx, nil, "Missing query parameter q", http.StatusBadRequest)
	}

	results := c.KB.Search(ctx.Request().Context(), query)

	c.sessionMutex.Lock()
	if len(results) == 0 {
		c.Session.Logf(session.LevelWarn, "Wikidata: no results for %q", query)
	} else {
		c.Session.Logf(session.LevelOK, "Wikidata: %d results for %q", len(results), query)
	}
	c.sessionMutex.Unlock()

	return ctx.JSON(http.StatusOK, map[string]any{"results": results})
}

// SearchRegistry runs a company-registry search.
func (c *Controller) SearchRegistry(ctx echo.Context) error {
	query := ctx.QueryParam("q")
	if query == "" {
		return c.HandleError(ctx, nil, "Missing query parameter q", http.StatusBadRequest)
	}

	results := c.Registry.Search(ctx.Request().Context(), query)

	c.sessionMutex.Lock()
	if len(results) == 0 {
		c.Session.Logf(session.LevelWarn, "INSEE: no results for %q", query)
	} else {
		c.Session.Logf(session.LevelOK, "INSEE: %d results for %q", len(results), query)
	}
	c.sessionMutex.Unlock()

	return ctx.JSON(http.StatusOK, map[string]any{"results": results})
}

// selectWikidataRequest names the chosen candidate.
type selectWikidataRequest struct {
	QID   string `json:"qid"`
	Label string `json:"label"`
}

// SelectWikidata merges a chosen knowledge-base candidate into the record
// and immediately runs the claim-based parent resolution.
func (c *Controller) SelectWikidata(ctx echo.Context) error {
	var req selectWikidataRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid selection", http.StatusBadRequest)
	}
	if req.QID == "" {
		return c.HandleError(ctx, nil, "Missing qid", http.StatusBadRequest)
	}

	detail := c.KB.GetEntity(ctx.Request().Context(), req.QID)

	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()

	c.Session.Record.ApplyWikidata(req.QID, req.Label, detail)
	c.Session.Logf(session.LevelInfo, "Selection: %s", req.QID)

	if err := c.Resolver.Resolve(ctx.Request().Context(), c.Session.Record); err != nil {
		c.Session.Logf(session.LevelError, "Parent resolution failed: %v", err)
	} else if c.Session.Record.HasParent() {
		c.Session.Logf(session.LevelOK, "Parent: %s (%s)",
			c.Session.Record.ParentOrgName, c.Session.Record.ParentOrgSource)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"entity": c.Session.Record,
		"score":  c.Session.Record.Score(),
	})
}

// selectRegistryRequest carries the chosen registry company verbatim.
type selectRegistryRequest struct {
	SIREN string `json:"siren"`
}

// SelectRegistry merges a chosen registry company into the record. The
// company is re-fetched by registry number so the client cannot inject
// fields the registry never returned.
func (c *Controller) SelectRegistry(ctx echo.Context) error {
	var req selectRegistryRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid selection", http.StatusBadRequest)
	}
	if req.SIREN == "" {
		return c.HandleError(ctx, nil, "Missing siren", http.StatusBadRequest)
	}

	companies := c.Registry.Search(ctx.Request().Context(), req.SIREN)

	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()

	for i := range companies {
		if companies[i].SIREN == req.SIREN {
			c.Session.Record.ApplyRegistry(companies[i])
			c.Session.Logf(session.LevelOK, "INSEE: %s", companies[i].Name)
			return ctx.JSON(http.StatusOK, map[string]any{
				"entity": c.Session.Record,
				"score":  c.Session.Record.Score(),
			})
		}
	}

	return c.HandleError(ctx, nil, "Company not found in registry", http.StatusNotFound)
}
