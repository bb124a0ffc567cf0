package router

import "github.com/ecsproull/edandlinda/pkg/roles"

// Session is the read-only view of session state the guard consumes.
type Session interface {
	Loading() bool
	Authenticated() bool
	HasAnyRole(rs ...roles.Role) bool
}

// Decision is the outcome of the authorization gate.
type Decision int

const (
	// DecisionPending means the session is still loading; render a neutral
	// placeholder, never a redirect.
	DecisionPending Decision = iota
	// DecisionSignIn redirects an unauthenticated visitor to sign-in.
	DecisionSignIn
	// DecisionUnauthorized redirects an authenticated visitor lacking the
	// required role.
	DecisionUnauthorized
	// DecisionRender renders the guarded content.
	DecisionRender
)

func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionSignIn:
		return "sign-in"
	case DecisionUnauthorized:
		return "unauthorized"
	case DecisionRender:
		return "render"
	}
	return "unknown"
}

// Authorize decides whether a route renders or redirects. It is pure: it
// never mutates session state.
func Authorize(s Session, required []roles.Role) Decision {
	if s.Loading() {
		return DecisionPending
	}
	if !s.Authenticated() {
		return DecisionSignIn
	}
	if len(required) > 0 && !s.HasAnyRole(required...) {
		return DecisionUnauthorized
	}
	return DecisionRender
}
