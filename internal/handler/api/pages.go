package api

import (
	"net/http"
	"time"

	"FinStream/internal/services/render"
	xhttp "FinStream/pkg/http"

	"github.com/labstack/echo/v4"
)

const cssContentType = "text/css; charset=utf-8"

// PagesHandler serves the page shells the streams merge into.
type PagesHandler struct {
	pages *render.Pages
}

func NewPagesHandler(pages *render.Pages) *PagesHandler {
	return &PagesHandler{pages: pages}
}

func (h *PagesHandler) Home(c echo.Context) error {
	return c.HTML(http.StatusOK, h.pages.Index())
}

func (h *PagesHandler) Calculator(c echo.Context) error {
	return c.HTML(http.StatusOK, h.pages.Calculator())
}

func (h *PagesHandler) Stylesheet(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=3600")
	return c.Blob(http.StatusOK, cssContentType, h.pages.Stylesheet())
}

// HealthHandler reports liveness.
type HealthHandler struct {
	environment string
	started     time.Time
}

func NewHealthHandler(environment string) *HealthHandler {
	return &HealthHandler{environment: environment, started: time.Now()}
}

func (h *HealthHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, xhttp.HealthResponse{
		Status:      "ok",
		Environment: h.environment,
		Uptime:      time.Since(h.started).Round(time.Second).String(),
	})
}
