package echomw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/reoring/kanon"
	"github.com/reoring/kanon/middleware"
	echomw "github.com/reoring/kanon/middleware/echo"
	"github.com/stretchr/testify/assert"
)

func post(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestValidate(t *testing.T) {
	s := kanon.Object(
		kanon.Field("name", kanon.String().Min(1)),
		kanon.Field("age", kanon.CoerceNumber().Min(0)),
	).Strict()
	e := echo.New()
	e.POST("/users", func(c echo.Context) error {
		v, ok := echomw.Parsed(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, v)
	}, echomw.Validate(s, middleware.Options{MaxBodyBytes: 128}))

	rec := post(e, `{"name":"Ann","age":"7"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"Ann","age":7}`, rec.Body.String())

	rec = post(e, `{"name":"Ann","age":1,"x":true}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"issue":{"path":"/x","code":"unknown_key","message":"x: unrecognized key \"x\""}}`, rec.Body.String())

	rec = post(e, `{"name":"`+strings.Repeat("a", 200)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
