package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/semantika/orgforge/internal/session"
)

// GetSocial returns the social link set.
func (c *Controller) GetSocial(ctx echo.Context) error {
	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()
	return ctx.JSON(http.StatusOK, c.Session.Links)
}

// socialRequest is a partial social-link update; only present keys apply.
type socialRequest struct {
	LinkedIn  *string `json:"linkedin"`
	Twitter   *string `json:"twitter"`
	Facebook  *string `json:"facebook"`
	Instagram *string `json:"instagram"`
	TikTok    *string `json:"tiktok"`
	YouTube   *string `json:"youtube"`
	Wikipedia *string `json:"wikipedia"`
}

// UpdateSocial applies a partial social-link update.
func (c *Controller) UpdateSocial(ctx echo.Context) error {
	var req socialRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid social links update", http.StatusBadRequest)
	}

	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()
	links := c.Session.Links

	setString(&links.LinkedIn, req.LinkedIn)
	setString(&links.Twitter, req.Twitter)
	setString(&links.Facebook, req.Facebook)
	setString(&links.Instagram, req.Instagram)
	setString(&links.TikTok, req.TikTok)
	setString(&links.YouTube, req.YouTube)
	setString(&links.Wikipedia, req.Wikipedia)

	c.Session.Log(session.LevelInfo, "Social links updated")
	return ctx.JSON(http.StatusOK, links)
}
