package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/semantika/orgforge/internal/entity"
	"github.com/semantika/orgforge/internal/mistral"
	"github.com/semantika/orgforge/internal/session"
)

// ResolveParent walks the parent sources for the current record, including
// the assistant fallback when the claims yield nothing.
func (c *Controller) ResolveParent(ctx echo.Context) error {
	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()
	r := c.Session.Record

	if r.Name == "" && r.QID == "" {
		return c.HandleError(ctx, nil, "No entity selected", http.StatusBadRequest)
	}

	if err := c.Resolver.ResolveWithAssistant(ctx.Request().Context(), r); err != nil {
		c.Session.Logf(session.LevelError, "Parent resolution failed: %v", err)
		return c.HandleError(ctx, err, "Parent resolution failed", http.StatusInternalServerError)
	}

	if r.HasParent() {
		c.Session.Logf(session.LevelOK, "Parent: %s (%s)", r.ParentOrgName, r.ParentOrgSource)
	} else {
		c.Session.Log(session.LevelInfo, "No parent organization found")
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"parent_org_name":   r.ParentOrgName,
		"parent_org_qid":    r.ParentOrgQID,
		"parent_org_siren":  r.ParentOrgSIREN,
		"parent_org_source": r.ParentOrgSource,
	})
}

// Enrich asks the assistant for SEO copy and merges the non-empty fields
// into the record. Requires a configured API key.
func (c *Controller) Enrich(ctx echo.Context) error {
	if !c.Assistant.Enabled() {
		return c.HandleError(ctx, nil, "Assistant API key not configured", http.StatusBadRequest)
	}

	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()
	r := c.Session.Record

	if r.Name == "" {
		return c.HandleError(ctx, nil, "No entity selected", http.StatusBadRequest)
	}

	enrichment := c.Assistant.Enrich(ctx.Request().Context(), mistral.Facts{
		Name:  r.Name,
		SIREN: r.SIREN,
		QID:   r.QID,
	})
	if enrichment == nil {
		c.Session.Log(session.LevelError, "Mistral enrichment failed")
		return c.HandleError(ctx, nil, "Enrichment failed", http.StatusBadGateway)
	}

	r.ApplyEnrichment(enrichment)
	c.Session.Log(session.LevelOK, "Mistral enrichment applied")

	// The assistant's parent guess only lands when nothing better is known.
	if !r.HasParent() && enrichment.ParentOrgName != "" {
		if err := r.SetParent(enrichment.ParentOrgName, enrichment.ParentOrgQID, entity.SourceAssistant); err == nil {
			c.Session.Logf(session.LevelOK, "Parent Mistral: %s", enrichment.ParentOrgName)
		}
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"entity": r,
		"score":  r.Score(),
	})
}
