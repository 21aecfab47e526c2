package router_helper

import (
	"net/http"
	"path"

	"github.com/julienschmidt/httprouter"
)

// RouteGroup registers httprouter handles under a common path prefix.
type RouteGroup struct {
	router *httprouter.Router
	prefix string
}

func NewRouteGroup(router *httprouter.Router, prefix string) *RouteGroup {
	return &RouteGroup{
		router: router,
		prefix: prefix,
	}
}

func (g *RouteGroup) Group(prefix string) *RouteGroup {
	return NewRouteGroup(g.router, g.path(prefix))
}

func (g *RouteGroup) GET(p string, handle httprouter.Handle) {
	g.router.GET(g.path(p), handle)
}

func (g *RouteGroup) POST(p string, handle httprouter.Handle) {
	g.router.POST(g.path(p), handle)
}

// Handler mounts a plain http.Handler, e.g. the prometheus exporter.
func (g *RouteGroup) Handler(method, p string, handler http.Handler) {
	g.router.Handler(method, g.path(p), handler)
}

func (g *RouteGroup) path(p string) string {
	joined := path.Join(g.prefix, p)
	if joined == "" {
		return "/"
	}
	return joined
}
