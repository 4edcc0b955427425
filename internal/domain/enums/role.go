package enums

import "strings"

type Role string

const (
	RoleOwner      Role = "OWNER"
	RoleSuperAdmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleModerator  Role = "MODERATOR"
	RoleSupport    Role = "SUPPORT"
	RoleNone       Role = "NONE"
)

func ParseRole(raw string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleOwner:
		return RoleOwner
	case RoleSuperAdmin:
		return RoleSuperAdmin
	case RoleAdmin:
		return RoleAdmin
	case RoleModerator:
		return RoleModerator
	case RoleSupport:
		return RoleSupport
	default:
		return RoleNone
	}
}

// DefaultElevatedRoles bypass per-category permission checks unless the
// deployment configures its own set.
func DefaultElevatedRoles() []Role {
	return []Role{RoleOwner, RoleSuperAdmin}
}
