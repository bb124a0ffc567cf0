// Package router maps application paths to lazily-constructed pages, wrapping
// each in the authorization gate and an error-isolation boundary.
package router

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ecsproull/edandlinda/internal/logging"
	"github.com/ecsproull/edandlinda/pkg/roles"
)

// Paths redirect targets land on.
const (
	SignInPath       = "/signin"
	UnauthorizedPath = "/unauthorized"
)

// Page renders content for a route.
type Page interface {
	Render(ctx context.Context) (string, error)
}

// PageFunc adapts a function to the Page interface.
type PageFunc func(ctx context.Context) (string, error)

func (f PageFunc) Render(ctx context.Context) (string, error) {
	return f(ctx)
}

// Factory constructs a page on first use.
type Factory func() Page

// Def describes one application route: its path and the roles allowed to
// visit it (empty means any authenticated user; unguarded routes are listed
// in PublicPaths).
type Def struct {
	Path     string
	Required []roles.Role
}

var (
	contentRoles = []roles.Role{roles.Admin, roles.Creator}
	adminOnly    = []roles.Role{roles.Admin}
)

// Defs is the application route table.
var Defs = []Def{
	{Path: "/"},
	{Path: "/home"},
	{Path: "/blog"},
	{Path: "/travel"},
	{Path: "/map"},
	{Path: "/triplist"},
	{Path: "/education"},
	{Path: "/manuals"},
	{Path: SignInPath},
	{Path: "/verify-email"},
	{Path: "/email-verification-pending"},
	{Path: "/edit-places", Required: adminOnly},
	{Path: "/add-place", Required: adminOnly},
	{Path: "/edit-users", Required: adminOnly},
	{Path: "/signup", Required: adminOnly},
	{Path: "/edit-blogs", Required: contentRoles},
	{Path: "/create-blog", Required: contentRoles},
	{Path: UnauthorizedPath},
}

// guarded reports whether d goes through the authorization gate at all.
// Public paths render for anyone, signed in or not.
func (d Def) guarded() bool {
	return len(d.Required) > 0
}

// ErrNoRoute is returned for unregistered paths.
var ErrNoRoute = fmt.Errorf("no such route")

// PanicError reports a rendering panic caught by the isolation boundary.
type PanicError struct {
	Path  string
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("page %s panicked: %v", e.Path, e.Value)
}

type route struct {
	def     Def
	factory Factory
	once    sync.Once
	page    Page
}

// load constructs the page on first access.
func (r *route) load() Page {
	r.once.Do(func() {
		r.page = r.factory()
	})
	return r.page
}

// Router resolves paths to pages for the current session.
type Router struct {
	session Session

	mu     sync.RWMutex
	routes map[string]*route
	order  []string
}

// New creates an empty router bound to the session.
func New(session Session) *Router {
	return &Router{
		session: session,
		routes:  make(map[string]*route),
	}
}

// Handle registers a route.
func (r *Router) Handle(def Def, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.routes[def.Path]; !dup {
		r.order = append(r.order, def.Path)
	}
	r.routes[def.Path] = &route{def: def, factory: factory}
}

// Paths lists registered paths in registration order.
func (r *Router) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolution is the outcome of resolving a path for the current session.
type Resolution struct {
	Decision   Decision
	RedirectTo string
	Page       Page
}

// Resolve applies the authorization gate to the route at path.
func (r *Router) Resolve(path string) (Resolution, error) {
	r.mu.RLock()
	rt, ok := r.routes[path]
	r.mu.RUnlock()
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %s", ErrNoRoute, path)
	}

	if !rt.def.guarded() {
		return Resolution{Decision: DecisionRender, Page: rt.load()}, nil
	}

	switch d := Authorize(r.session, rt.def.Required); d {
	case DecisionPending:
		return Resolution{Decision: DecisionPending}, nil
	case DecisionSignIn:
		return Resolution{Decision: d, RedirectTo: SignInPath}, nil
	case DecisionUnauthorized:
		return Resolution{Decision: d, RedirectTo: UnauthorizedPath}, nil
	default:
		return Resolution{Decision: DecisionRender, Page: rt.load()}, nil
	}
}

// Render resolves path, follows at most one redirect, and renders the page
// inside the isolation boundary. A pending session yields a neutral
// placeholder.
func (r *Router) Render(ctx context.Context, path string) (string, error) {
	res, err := r.Resolve(path)
	if err != nil {
		return "", err
	}

	if res.Decision == DecisionPending {
		return "Loading...", nil
	}

	if res.RedirectTo != "" {
		target, err := r.Resolve(res.RedirectTo)
		if err != nil {
			return "", err
		}
		return r.renderIsolated(ctx, res.RedirectTo, target.Page)
	}

	return r.renderIsolated(ctx, path, res.Page)
}

// renderIsolated is the error boundary: rendering panics are recovered and
// reported as a PanicError instead of crashing the caller. Fetch errors pass
// through untouched; they are the page's own concern.
func (r *Router) renderIsolated(ctx context.Context, path string, p Page) (out string, err error) {
	defer func() {
		if v := recover(); v != nil {
			logging.Error("page render panicked",
				zap.String("path", path),
				zap.Any("panic", v))
			out = ""
			err = &PanicError{Path: path, Value: v}
		}
	}()
	return p.Render(ctx)
}
