package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinIntercept adapts the net/http Interceptor to Gin. Access
// decisions stay session- and status-based; the bridge only carries
// the request across router boundaries.
func GinIntercept(i *Interceptor) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		// Wrap Gin request with the net/http interceptor
		handler := i.Intercept(next)

		// Execute middleware chain
		handler.ServeHTTP(c.Writer, c.Request)

		// If the interceptor already handled the response, stop Gin chain
		if c.Writer.Written() {
			c.Abort()
			return
		}
	}
}
