package auth

// Role is assigned by the backend at login and is the sole determinant
// of which sections the session may reach.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleCustomer Role = "customer"
)

// User is the account record the backend returns at login.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Routes every part of the client agrees on. Pages never hard-code
// these; they go through LandingRoute so role policy lives in one place.
const (
	RouteLogin             = "/login"
	RouteHome              = "/"
	RouteAdminDashboard    = "/admin/dashboard"
	RouteEmployeeDashboard = "/employee/dashboard"
)

// LandingRoute resolves the default landing route for a role. Unknown
// roles land on the customer home, never an error state.
func LandingRoute(r Role) string {
	switch r {
	case RoleAdmin:
		return RouteAdminDashboard
	case RoleEmployee:
		return RouteEmployeeDashboard
	case RoleCustomer:
		return RouteHome
	default:
		return RouteHome
	}
}
