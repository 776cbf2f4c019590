// Package guard holds the route policies gating every view. Each guard
// is a pure function of the auth snapshot; pages never re-implement role
// branching, they ask a guard and follow its decision.
package guard

import (
	"github.com/tavolo/tavolo/internal/auth"
)

// Kind is what the caller should do with its subtree.
type Kind int

const (
	// Render shows the guarded view.
	Render Kind = iota
	// Placeholder shows a loading stand-in while auth state hydrates.
	Placeholder
	// Redirect sends the visitor to Decision.To instead.
	Redirect
)

// Decision is a guard's verdict.
type Decision struct {
	Kind Kind
	To   string // destination route when Kind == Redirect
}

func render() Decision            { return Decision{Kind: Render} }
func placeholder() Decision       { return Decision{Kind: Placeholder} }
func redirect(to string) Decision { return Decision{Kind: Redirect, To: to} }

// RequireRole protects a subtree that needs an authenticated session in
// one of the allowed roles. A signed-in user with the wrong role is
// bounced sideways to their own landing route, never logged out.
func RequireRole(snap auth.Snapshot, allowed ...auth.Role) Decision {
	if snap.IsLoading {
		return placeholder()
	}
	if !snap.IsAuthenticated {
		return redirect(auth.RouteLogin)
	}
	for _, r := range allowed {
		if snap.Role() == r {
			return render()
		}
	}
	return redirect(auth.LandingRoute(snap.Role()))
}

// RequireGuest protects public-only views (login, register): an
// authenticated visitor is sent to their landing route.
func RequireGuest(snap auth.Snapshot) Decision {
	if snap.IsLoading {
		return placeholder()
	}
	if snap.IsAuthenticated {
		return redirect(auth.LandingRoute(snap.Role()))
	}
	return render()
}

// HomeRedirect is the root-page variant: guests see the page,
// authenticated visitors skip straight to their landing route.
func HomeRedirect(snap auth.Snapshot) Decision {
	if snap.IsLoading {
		return placeholder()
	}
	if snap.IsAuthenticated {
		return redirect(auth.LandingRoute(snap.Role()))
	}
	return render()
}
