package rbac

// Role is the marketplace profile role. Keep values stable; they are persisted
// on profiles and embedded in access tokens.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleInstructor Role = "instructor"
	RoleStudio     Role = "studio"
	RoleAdmin      Role = "admin"
)

// Parse maps a raw claim/column value to a Role. The bool is false for unknown
// values; callers must not treat unknown roles as any known role.
func Parse(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleInstructor, RoleStudio, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

func (r Role) Valid() bool {
	_, ok := Parse(string(r))
	return ok
}

func IsAdmin(r Role) bool { return r == RoleAdmin }

// CanManageBookings reports whether the role may approve or reject bookings.
func CanManageBookings(r Role) bool {
	switch r {
	case RoleStudio, RoleAdmin:
		return true
	case RoleCustomer, RoleInstructor:
		return false
	default:
		return false
	}
}
