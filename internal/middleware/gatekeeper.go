package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/examportal/internal/pkg/auth"
)

// Context keys set by the session middlewares
const (
	ContextUserID = "userID"
	ContextClaims = "sessionClaims"
	// UserIDHeader is attached to responses of gated pages
	UserIDHeader = "X-User-Id"
)

// Gatekeeper redirects unauthenticated browsers away from the protected admin pages.
// It runs with whatever Verifier it is given; at the edge that is the structural
// verifier, so it is a routing convenience and never an authorization decision.
type Gatekeeper struct {
	verifier   auth.Verifier
	cookieName string
	prefix     string
	loginPath  string
}

// NewGatekeeper creates a gatekeeper for every path under prefix except loginPath
func NewGatekeeper(verifier auth.Verifier, cookieName, prefix, loginPath string) *Gatekeeper {
	return &Gatekeeper{
		verifier:   verifier,
		cookieName: cookieName,
		prefix:     strings.TrimSuffix(prefix, "/"),
		loginPath:  loginPath,
	}
}

// Handler returns the gin middleware
func (g *Gatekeeper) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !g.protects(path) {
			c.Next()
			return
		}

		token, err := c.Cookie(g.cookieName)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, g.loginPath)
			c.Abort()
			return
		}

		claims, err := g.verifier.Verify(token)
		if err != nil {
			clearSessionCookie(c, g.cookieName)
			c.Redirect(http.StatusFound, g.loginPath)
			c.Abort()
			return
		}

		c.Header(UserIDHeader, claims.UserID)
		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

func (g *Gatekeeper) protects(path string) bool {
	if path == g.loginPath {
		return false
	}
	return path == g.prefix || strings.HasPrefix(path, g.prefix+"/")
}

// clearSessionCookie expires the session cookie on the client
func clearSessionCookie(c *gin.Context, name string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
