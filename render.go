package codorbits

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/codorbits/htmlcontent"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// newPage assembles the data shared by every full page.
func (a *App) newPage(c echo.Context, meta PageMeta) Page {
	return Page{
		Site:      a.Config,
		Meta:      meta,
		Path:      c.Request().URL.Path,
		CSRFToken: CsrfToken(c),
		Native:    htmlcontent.NativeReader(c.Request().Header.Get("Accept-Language")),
	}
}
