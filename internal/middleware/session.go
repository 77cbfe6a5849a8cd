package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/irfndi/gridiron-sim-viewer/internal/services"
	"github.com/irfndi/gridiron-sim-viewer/internal/session"
)

const (
	sessionIDKey    = "session_id"
	orchestratorKey = "orchestrator"
)

// Session attaches the caller's orchestrator to the request, creating a
// session and setting the cookie when the request carries none or an
// expired one.
func Session(registry *session.Registry, cookieName string, idleTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented, _ := c.Cookie(cookieName)
		id, orch := registry.Acquire(presented)

		if id != presented {
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     cookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(idleTTL.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		c.Set(sessionIDKey, id)
		c.Set(orchestratorKey, orch)
		c.Next()
	}
}

// Orchestrator returns the orchestrator Session attached to c.
func Orchestrator(c *gin.Context) (*services.Orchestrator, bool) {
	v, ok := c.Get(orchestratorKey)
	if !ok {
		return nil, false
	}
	orch, ok := v.(*services.Orchestrator)
	return orch, ok
}

// SessionID returns the session id Session attached to c, or "".
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
