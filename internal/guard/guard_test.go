package guard_test

import (
	"testing"

	"github.com/tavolo/tavolo/internal/auth"
	"github.com/tavolo/tavolo/internal/guard"
)

func authed(role auth.Role) auth.Snapshot {
	return auth.Snapshot{
		User:            &auth.User{ID: "1", Name: "u", Role: role},
		Token:           "token_1_abc",
		IsAuthenticated: true,
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		snap    auth.Snapshot
		allowed []auth.Role
		want    guard.Kind
		wantTo  string
	}{
		{
			name: "unauthenticated redirects to login",
			snap: auth.Snapshot{}, allowed: []auth.Role{auth.RoleAdmin},
			want: guard.Redirect, wantTo: auth.RouteLogin,
		},
		{
			name: "wrong role bounces sideways to own landing route",
			snap: authed(auth.RoleEmployee), allowed: []auth.Role{auth.RoleAdmin},
			want: guard.Redirect, wantTo: auth.RouteEmployeeDashboard,
		},
		{
			name: "matching role renders",
			snap: authed(auth.RoleAdmin), allowed: []auth.Role{auth.RoleAdmin},
			want: guard.Render,
		},
		{
			name: "loading shows placeholder regardless of role",
			snap: auth.Snapshot{IsLoading: true}, allowed: []auth.Role{auth.RoleAdmin},
			want: guard.Placeholder,
		},
		{
			name: "any of several roles renders",
			snap: authed(auth.RoleEmployee), allowed: []auth.Role{auth.RoleAdmin, auth.RoleEmployee},
			want: guard.Render,
		},
		{
			name: "unknown role bounces to customer home, not an error",
			snap: authed("superuser"), allowed: []auth.Role{auth.RoleAdmin},
			want: guard.Redirect, wantTo: auth.RouteHome,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := guard.RequireRole(tc.snap, tc.allowed...)
			if d.Kind != tc.want {
				t.Fatalf("kind = %v, want %v", d.Kind, tc.want)
			}
			if d.Kind == guard.Redirect && d.To != tc.wantTo {
				t.Errorf("redirect to %q, want %q", d.To, tc.wantTo)
			}
		})
	}
}

func TestRequireGuest(t *testing.T) {
	if d := guard.RequireGuest(auth.Snapshot{}); d.Kind != guard.Render {
		t.Error("guest must see public-only pages")
	}
	if d := guard.RequireGuest(authed(auth.RoleCustomer)); d.Kind != guard.Redirect || d.To != auth.RouteHome {
		t.Errorf("authenticated customer on login page should bounce home, got %+v", d)
	}
	if d := guard.RequireGuest(authed(auth.RoleAdmin)); d.To != auth.RouteAdminDashboard {
		t.Errorf("authenticated admin on login page should bounce to dashboard, got %+v", d)
	}
	if d := guard.RequireGuest(auth.Snapshot{IsLoading: true}); d.Kind != guard.Placeholder {
		t.Error("loading must show placeholder")
	}
}

func TestHomeRedirect(t *testing.T) {
	if d := guard.HomeRedirect(auth.Snapshot{}); d.Kind != guard.Render {
		t.Error("guests must reach the home page")
	}
	if d := guard.HomeRedirect(authed(auth.RoleEmployee)); d.Kind != guard.Redirect || d.To != auth.RouteEmployeeDashboard {
		t.Errorf("authenticated employee should skip home, got %+v", d)
	}
}
