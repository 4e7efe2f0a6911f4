package ginmw

import (
	"github.com/gin-gonic/gin"
	"github.com/reoring/kanon"
	"github.com/reoring/kanon/middleware"
)

// Validate checks the JSON body with s (see middleware.Check). Valid bodies
// are stored in the request context; rejections abort with the issue payload.
func Validate(s kanon.Schema, opts middleware.Options) gin.HandlerFunc {
	if s == nil {
		panic("ginmw: nil schema")
	}
	return func(c *gin.Context) {
		v, rej := middleware.Check(c.Writer, c.Request, s, opts)
		if rej != nil {
			c.AbortWithStatusJSON(rej.Status, middleware.ErrorPayload(rej.Issue))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithParsed(c.Request.Context(), v))
		c.Next()
	}
}

// Parsed fetches the validated body from c.
func Parsed(c *gin.Context) (any, bool) {
	return middleware.ParsedFromContext(c.Request.Context())
}
