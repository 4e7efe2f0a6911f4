package echomw

import (
	"github.com/labstack/echo/v4"
	"github.com/reoring/kanon"
	"github.com/reoring/kanon/middleware"
)

// Validate checks the JSON body with s (see middleware.Check). Valid bodies
// are stored in the request context; rejections are answered with the issue
// payload and next is not called.
func Validate(s kanon.Schema, opts middleware.Options) echo.MiddlewareFunc {
	if s == nil {
		panic("echomw: nil schema")
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, rej := middleware.Check(c.Response(), c.Request(), s, opts)
			if rej != nil {
				return c.JSON(rej.Status, middleware.ErrorPayload(rej.Issue))
			}
			c.SetRequest(c.Request().WithContext(middleware.ContextWithParsed(c.Request().Context(), v)))
			return next(c)
		}
	}
}

// Parsed fetches the validated body from c.
func Parsed(c echo.Context) (any, bool) {
	return middleware.ParsedFromContext(c.Request().Context())
}
