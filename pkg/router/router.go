// Package router is a thin layer over chi used by the bundled dev
// backend: method helpers, prefix groups, and per-route middleware.
package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type Middleware func(http.Handler) http.Handler

type Router struct {
	mux chi.Router
}

type Group struct {
	router      *Router
	prefix      string
	middlewares []Middleware
}

func New() *Router {
	return &Router{mux: chi.NewRouter()}
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func (r *Router) Use(middlewares ...Middleware) {
	for _, mw := range middlewares {
		r.mux.Use(mw)
	}
}

func (r *Router) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      r,
		prefix:      normalizePath(prefix),
		middlewares: append([]Middleware(nil), middlewares...),
	}
}

func (r *Router) Get(path string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.mount(http.MethodGet, path, handler, middlewares...)
}

func (r *Router) Post(path string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.mount(http.MethodPost, path, handler, middlewares...)
}

func (r *Router) Put(path string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.mount(http.MethodPut, path, handler, middlewares...)
}

func (r *Router) Handle(path string, handler http.Handler) {
	r.mux.Handle(path, handler)
}

// Param reads a chi URL parameter from the request.
func Param(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

func (r *Router) mount(method, path string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.mux.Method(method, normalizePath(path), chain(handler, middlewares...))
}

func (g *Group) Get(path string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodGet, path, handler, middlewares...)
}

func (g *Group) Post(path string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodPost, path, handler, middlewares...)
}

func (g *Group) Put(path string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodPut, path, handler, middlewares...)
}

func (g *Group) mount(method, path string, handler http.HandlerFunc, middlewares ...Middleware) {
	fullPath := joinPath(g.prefix, path)
	combined := append(append([]Middleware(nil), g.middlewares...), middlewares...)
	g.router.mux.Method(method, fullPath, chain(handler, combined...))
}

func chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	wrapped := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func joinPath(parts ...string) string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.Trim(part, "/"); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/")
}

func normalizePath(path string) string {
	return joinPath(path)
}
