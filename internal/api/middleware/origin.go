package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

type OriginMiddleware struct {
	allowedOrigin string
}

func NewOriginMiddleware(allowedOrigin string) *OriginMiddleware {
	return &OriginMiddleware{allowedOrigin: allowedOrigin}
}

// CheckOrigin is a middleware that only admits requests from the configured
// frontend. Cross-origin browser requests carry an Origin header, which must
// match the allow-listed URL exactly. Same-origin navigations may omit
// Origin and send only a Referer; its scheme://host origin must equal the
// allow-listed URL, a bare string prefix is not enough. Everything else
// gets a generic 403, the rejection reason stays server-side.
func (m *OriginMiddleware) CheckOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if origin != m.allowedOrigin {
				c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
				c.Abort()
				return
			}
			c.Next()
			return
		}

		if refererOrigin(c.Request.Referer()) != m.allowedOrigin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// refererOrigin reduces a Referer URL to its scheme://host origin. Values
// that do not parse as an absolute URL reduce to "", which never equals a
// configured origin.
func refererOrigin(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
