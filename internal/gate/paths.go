package gate

import (
	"strings"

	"hrportal/internal/identity/models"
)

// Class buckets every request path into exactly one gating category.
type Class int

const (
	// ClassUnknown is the fail-closed default: the gate treats an unknown
	// path as role-scoped under the principal's own role, so it is never
	// more permissive than a classified one.
	ClassUnknown Class = iota
	ClassPublic
	ClassPendingApproval
	ClassProfileSetup
	ClassRoleHome
	ClassRoleScoped
	ClassNeutral
)

func (c Class) String() string {
	switch c {
	case ClassPublic:
		return "public"
	case ClassPendingApproval:
		return "pending-approval"
	case ClassProfileSetup:
		return "profile-setup"
	case ClassRoleHome:
		return "role-home"
	case ClassRoleScoped:
		return "role-scoped"
	case ClassNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// PathInfo is the classification result. Scope is set for role-home and
// role-scoped paths and names the minimum role the area belongs to.
type PathInfo struct {
	Class Class
	Scope models.Role
}

// Fixed navigation targets the gate redirects to.
const (
	PathHome            = "/"
	PathLogin           = "/login"
	PathRegister        = "/register"
	PathPendingApproval = "/pending-approval"
	PathProfileSetup    = "/profile-setup"
	PathDashboard       = "/dashboard"
	PathManagerHome     = "/manager"
	PathAdminHome       = "/admin"
)

// RoleHome returns the canonical landing path for a role.
func RoleHome(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return PathAdminHome
	case models.RoleManager:
		return PathManagerHome
	default:
		return PathDashboard
	}
}

// Classify maps a request path to its gating category. It is total: every
// input maps to exactly one category, with ClassUnknown as the fail-closed
// default. Query strings must already be stripped (use r.URL.Path).
func Classify(path string) PathInfo {
	path = normalize(path)

	switch path {
	case PathHome, PathLogin, PathRegister:
		return PathInfo{Class: ClassPublic}
	case PathPendingApproval:
		return PathInfo{Class: ClassPendingApproval}
	case PathProfileSetup:
		return PathInfo{Class: ClassProfileSetup}
	case PathDashboard:
		return PathInfo{Class: ClassRoleHome, Scope: models.RoleUser}
	case PathManagerHome:
		return PathInfo{Class: ClassRoleHome, Scope: models.RoleManager}
	case PathAdminHome:
		return PathInfo{Class: ClassRoleHome, Scope: models.RoleAdmin}
	case "/profile", "/leave-application":
		return PathInfo{Class: ClassNeutral}
	}

	switch {
	case strings.HasPrefix(path, PathAdminHome+"/"):
		return PathInfo{Class: ClassRoleScoped, Scope: models.RoleAdmin}
	case strings.HasPrefix(path, PathManagerHome+"/"):
		return PathInfo{Class: ClassRoleScoped, Scope: models.RoleManager}
	case strings.HasPrefix(path, "/user/"), strings.HasPrefix(path, PathDashboard+"/"):
		return PathInfo{Class: ClassRoleScoped, Scope: models.RoleUser}
	}

	return PathInfo{Class: ClassUnknown}
}

func normalize(path string) string {
	if path == "" {
		return PathHome
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
