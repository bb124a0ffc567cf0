package router

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ecsproull/edandlinda/pkg/roles"
)

type fakeSession struct {
	loading bool
	role    roles.Role
}

func (f fakeSession) Loading() bool       { return f.loading }
func (f fakeSession) Authenticated() bool { return f.role != 0 }
func (f fakeSession) HasAnyRole(rs ...roles.Role) bool {
	return f.role != 0 && roles.Contains(rs, f.role)
}

func textPage(s string) Factory {
	return func() Page {
		return PageFunc(func(ctx context.Context) (string, error) { return s, nil })
	}
}

func testRouter(s Session) *Router {
	r := New(s)
	r.Handle(Def{Path: "/home"}, textPage("home"))
	r.Handle(Def{Path: SignInPath}, textPage("sign in"))
	r.Handle(Def{Path: UnauthorizedPath}, textPage("unauthorized"))
	r.Handle(Def{Path: "/edit-users", Required: []roles.Role{roles.Admin}}, textPage("users"))
	r.Handle(Def{Path: "/create-blog", Required: []roles.Role{roles.Admin, roles.Creator}}, textPage("blog form"))
	return r
}

func TestAuthorize(t *testing.T) {
	admin := []roles.Role{roles.Admin}

	tests := []struct {
		name     string
		session  fakeSession
		required []roles.Role
		want     Decision
	}{
		{"loading", fakeSession{loading: true}, admin, DecisionPending},
		{"signed out", fakeSession{}, admin, DecisionSignIn},
		{"signed out no roles", fakeSession{}, nil, DecisionSignIn},
		{"wrong role", fakeSession{role: roles.Manuals}, admin, DecisionUnauthorized},
		{"matching role", fakeSession{role: roles.Admin}, admin, DecisionRender},
		{"no required roles", fakeSession{role: roles.User}, nil, DecisionRender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorize(tt.session, tt.required); got != tt.want {
				t.Errorf("Authorize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthorize_Idempotent(t *testing.T) {
	s := fakeSession{role: roles.Manuals}
	req := []roles.Role{roles.Admin}
	first := Authorize(s, req)
	for i := 0; i < 3; i++ {
		if got := Authorize(s, req); got != first {
			t.Fatalf("decision changed between calls: %v then %v", first, got)
		}
	}
}

func TestRender_ManualsRoleOnAdminRoute(t *testing.T) {
	r := testRouter(fakeSession{role: roles.Manuals})

	res, err := r.Resolve("/edit-users")
	if err != nil {
		t.Fatal(err)
	}
	if res.Decision != DecisionUnauthorized || res.RedirectTo != UnauthorizedPath {
		t.Fatalf("expected unauthorized redirect, got %+v", res)
	}
	if res.Page != nil {
		t.Error("protected page must never be handed out on redirect")
	}

	out, err := r.Render(context.Background(), "/edit-users")
	if err != nil {
		t.Fatal(err)
	}
	if out != "unauthorized" {
		t.Errorf("expected unauthorized page, got %q", out)
	}
}

func TestRender_SignedOutRedirectsToSignIn(t *testing.T) {
	r := testRouter(fakeSession{})
	out, err := r.Render(context.Background(), "/create-blog")
	if err != nil {
		t.Fatal(err)
	}
	if out != "sign in" {
		t.Errorf("expected sign-in page, got %q", out)
	}
}

func TestRender_PendingPlaceholder(t *testing.T) {
	r := testRouter(fakeSession{loading: true})
	out, err := r.Render(context.Background(), "/edit-users")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Loading") {
		t.Errorf("expected neutral placeholder, got %q", out)
	}
}

func TestRender_PublicRouteNeedsNoSession(t *testing.T) {
	r := testRouter(fakeSession{})
	out, err := r.Render(context.Background(), "/home")
	if err != nil {
		t.Fatal(err)
	}
	if out != "home" {
		t.Errorf("expected home page, got %q", out)
	}
}

func TestResolve_UnknownPath(t *testing.T) {
	r := testRouter(fakeSession{role: roles.Admin})
	if _, err := r.Resolve("/nope"); !errors.Is(err, ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
}

func TestFactoryInvokedLazilyAndOnce(t *testing.T) {
	var built atomic.Int32
	r := New(fakeSession{role: roles.Admin})
	r.Handle(Def{Path: "/lazy"}, func() Page {
		built.Add(1)
		return PageFunc(func(ctx context.Context) (string, error) { return "lazy", nil })
	})

	if built.Load() != 0 {
		t.Fatal("factory must not run before the route is visited")
	}
	for i := 0; i < 3; i++ {
		if _, err := r.Render(context.Background(), "/lazy"); err != nil {
			t.Fatal(err)
		}
	}
	if built.Load() != 1 {
		t.Errorf("factory should run exactly once, ran %d times", built.Load())
	}
}

func TestRenderIsolatesPanics(t *testing.T) {
	r := New(fakeSession{role: roles.Admin})
	r.Handle(Def{Path: "/boom"}, func() Page {
		return PageFunc(func(ctx context.Context) (string, error) { panic("render exploded") })
	})

	_, err := r.Render(context.Background(), "/boom")
	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PanicError, got %v", err)
	}
	if pe.Path != "/boom" {
		t.Errorf("unexpected path: %s", pe.Path)
	}
}

func TestFetchErrorsPassThroughBoundary(t *testing.T) {
	fetchErr := errors.New("network down")
	r := New(fakeSession{role: roles.Admin})
	r.Handle(Def{Path: "/fetchy"}, func() Page {
		return PageFunc(func(ctx context.Context) (string, error) { return "", fetchErr })
	})

	_, err := r.Render(context.Background(), "/fetchy")
	if !errors.Is(err, fetchErr) {
		t.Fatalf("fetch errors are not the boundary's business: %v", err)
	}
}

func TestDefsCoverOriginalRoutes(t *testing.T) {
	byPath := map[string]Def{}
	for _, d := range Defs {
		byPath[d.Path] = d
	}

	wantAdmin := []string{"/edit-places", "/add-place", "/edit-users", "/signup"}
	for _, p := range wantAdmin {
		d, ok := byPath[p]
		if !ok {
			t.Errorf("missing route %s", p)
			continue
		}
		if len(d.Required) != 1 || d.Required[0] != roles.Admin {
			t.Errorf("%s should be Admin-only, got %v", p, d.Required)
		}
	}

	for _, p := range []string{"/create-blog", "/edit-blogs"} {
		d := byPath[p]
		if !roles.Contains(d.Required, roles.Creator) || !roles.Contains(d.Required, roles.Admin) {
			t.Errorf("%s should allow Admin and Creator, got %v", p, d.Required)
		}
	}

	for _, p := range []string{"/", "/home", "/blog", "/map", "/triplist", "/manuals", SignInPath, UnauthorizedPath} {
		if _, ok := byPath[p]; !ok {
			t.Errorf("missing public route %s", p)
		}
	}
}
