package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// loginRequest carries the shared secret.
type loginRequest struct {
	Password string `json:"password"`
}

// Login checks the shared secret and marks the browser session
// authenticated on success. A wrong secret is surfaced directly; there is
// no lockout and no retry limit.
func (c *Controller) Login(ctx echo.Context) error {
	var req loginRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid login request", http.StatusBadRequest)
	}

	c.sessionMutex.Lock()
	ok := c.Session.Authenticate(req.Password)
	c.sessionMutex.Unlock()

	if !ok {
		return c.HandleError(ctx, nil, "Invalid password", http.StatusUnauthorized)
	}

	store, err := c.cookieStore.Get(ctx.Request(), cookieName)
	if err != nil {
		// A stale or tampered cookie decodes to a fresh session; keep going.
		c.apiLogger.Debug("cookie session reset", "error", err)
	}
	store.Values["authenticated"] = true
	if err := store.Save(ctx.Request(), ctx.Response()); err != nil {
		return c.HandleError(ctx, err, "Failed to save session", http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusOK, map[string]any{"authenticated": true})
}

// AuthGate rejects requests that have not passed the shared-secret gate.
// An empty configured password disables the gate entirely.
func (c *Controller) AuthGate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if c.Settings.Server.AccessPassword == "" {
			return next(ctx)
		}

		store, err := c.cookieStore.Get(ctx.Request(), cookieName)
		if err == nil {
			if authenticated, ok := store.Values["authenticated"].(bool); ok && authenticated {
				return next(ctx)
			}
		}
		return c.HandleError(ctx, nil, "Authentication required", http.StatusUnauthorized)
	}
}
