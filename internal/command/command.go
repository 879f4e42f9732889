// Package command routes console input lines to handlers, the way an HTTP
// router maps paths to handlers.
package command

import (
	"context"
	"strings"

	"github.com/mookkammal/storefront/internal/apperr"
)

// Request is one parsed console line
type Request struct {
	ID   string
	Name string   // matched command, e.g. "admin add"
	Args []string // remaining words
}

// Response is what a handler prints back
type Response struct {
	Message string
	Data    any
}

// Handler serves one command
type Handler func(ctx context.Context, req *Request) (*Response, error)

// Middleware wraps a Handler
type Middleware func(Handler) Handler

// Route describes a registered command
type Route struct {
	Name    string
	Usage   string
	Summary string
}

// Router dispatches requests by their leading words
type Router struct {
	routes     map[string]Handler
	order      []Route
	middleware []Middleware
}

func NewRouter() *Router {
	return &Router{routes: make(map[string]Handler)}
}

// Handle registers h under name. Names may have several words ("admin add").
func (r *Router) Handle(name string, h Handler, usage, summary string) {
	r.routes[name] = h
	r.order = append(r.order, Route{Name: name, Usage: usage, Summary: summary})
}

// Use appends middleware. The first one registered runs outermost.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// Routes lists registered commands in registration order
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.order))
	copy(out, r.order)
	return out
}

// Dispatch finds the longest registered name that prefixes words and runs
// its handler through the middleware chain
func (r *Router) Dispatch(ctx context.Context, words []string) (*Response, error) {
	req := &Request{}
	h := r.match(words, req)
	if h == nil {
		h = func(context.Context, *Request) (*Response, error) {
			return nil, apperr.NotFound("unknown command %q, type help for a list", strings.Join(words, " "))
		}
		if len(words) > 0 {
			req.Name = words[0]
		}
	}
	for i := len(r.middleware) - 1; i >= 0; i-- {
		h = r.middleware[i](h)
	}
	return h(ctx, req)
}

func (r *Router) match(words []string, req *Request) Handler {
	for n := len(words); n > 0; n-- {
		name := strings.ToLower(strings.Join(words[:n], " "))
		if h, ok := r.routes[name]; ok {
			req.Name = name
			req.Args = words[n:]
			return h
		}
	}
	return nil
}
