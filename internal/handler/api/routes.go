package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Route binds an operation name to a method, path and handler.
type Route struct {
	Name    string
	Method  string
	Path    string
	Handler echo.HandlerFunc
}

// Router is the route table of the service. It is built once and
// registered as a whole.
type Router struct {
	routes []Route
}

func NewRouter(pages *PagesHandler, streams *StreamHandler, health *HealthHandler) *Router {
	return &Router{routes: []Route{
		{Name: "home", Method: http.MethodGet, Path: "/", Handler: pages.Home},
		{Name: "calculator", Method: http.MethodGet, Path: "/calculator", Handler: pages.Calculator},
		{Name: "calculator.styles", Method: http.MethodGet, Path: "/calculator/styles.css", Handler: pages.Stylesheet},
		{Name: "demo.stream", Method: http.MethodGet, Path: "/hello-world", Handler: streams.DemoSSE},
		{Name: "valuation.stream", Method: http.MethodGet, Path: "/calculator/valuation", Handler: streams.ValuationSSE},
		{Name: "valuation.stream", Method: http.MethodPost, Path: "/calculator/valuation", Handler: streams.ValuationSSE},
		{Name: "demo.ws", Method: http.MethodGet, Path: "/ws/hello-world", Handler: streams.DemoWS},
		{Name: "valuation.ws", Method: http.MethodGet, Path: "/ws/calculator/valuation", Handler: streams.ValuationWS},
		{Name: "health", Method: http.MethodGet, Path: "/healthz", Handler: health.Health},
	}}
}

// Routes returns a copy of the table.
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Lookup returns the first route registered under name.
func (r *Router) Lookup(name string) (Route, bool) {
	for _, rt := range r.routes {
		if rt.Name == name {
			return rt, true
		}
	}
	return Route{}, false
}

func (r *Router) RegisterRoutes(e *echo.Echo) {
	for _, rt := range r.routes {
		e.Add(rt.Method, rt.Path, rt.Handler).Name = rt.Name
	}
}
