package app

import (
	"regexp"

	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/errors"
)

// isPath ensures that routes only contain the characters we expect in
// message paths.
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]paktum.Handler
}

var _ paktum.Registry = (*Router)(nil)
var _ paktum.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]paktum.Handler),
	}
}

// Handle implements Registry interface. Path must be unique, registering
// the same path twice is a programmer error and panics.
func (r *Router) Handle(path string, h paktum.Handler) {
	if !isPath(path) {
		panic("route paths can only contain alphanumeric characters, underscore or slash")
	}
	if _, ok := r.routes[path]; ok {
		panic("re-registering route: " + path)
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path.
// If no path is found, returns a noSuchPath Handler that
// always returns an error.
func (r *Router) handler(path string) paktum.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return noSuchPathHandler{path}
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	path := paktum.GetPath(tx)
	h := r.handler(path)
	return h.Check(ctx, db, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	path := paktum.GetPath(tx)
	h := r.handler(path)
	return h.Deliver(ctx, db, tx)
}

// noSuchPathHandler always returns ErrNotFound
type noSuchPathHandler struct {
	path string
}

var _ paktum.Handler = noSuchPathHandler{}

func (h noSuchPathHandler) Check(paktum.Context, paktum.KVStore, paktum.Tx) (*paktum.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}

func (h noSuchPathHandler) Deliver(paktum.Context, paktum.KVStore, paktum.Tx) (*paktum.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}
