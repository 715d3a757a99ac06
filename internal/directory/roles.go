package directory

// Role and department catalogs are closed sets. Records carrying values
// outside these catalogs are still readable, they just fall back to the
// minimal permission set and never match a policy row.

const (
	RoleSuperAdmin     = "super_admin"
	RoleAdmin          = "admin"
	RoleProjectManager = "project_manager"
	RoleTeamLead       = "team_lead"
	RoleDeveloper      = "developer"
	RoleDesigner       = "designer"
	RoleQA             = "qa"
	RoleMarketing      = "marketing"
	RoleSales          = "sales"
	RoleHR             = "hr"
	RoleMember         = "member"
)

const (
	DeptEngineering = "Engineering"
	DeptDesign      = "Design"
	DeptProduct     = "Product"
	DeptMarketing   = "Marketing"
	DeptSales       = "Sales"
	DeptHR          = "Human Resources"
	DeptOperations  = "Operations"
)

var Roles = []string{
	RoleSuperAdmin,
	RoleAdmin,
	RoleProjectManager,
	RoleTeamLead,
	RoleDeveloper,
	RoleDesigner,
	RoleQA,
	RoleMarketing,
	RoleSales,
	RoleHR,
	RoleMember,
}

var Departments = []string{
	DeptEngineering,
	DeptDesign,
	DeptProduct,
	DeptMarketing,
	DeptSales,
	DeptHR,
	DeptOperations,
}

func IsKnownRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

func IsKnownDepartment(dept string) bool {
	for _, d := range Departments {
		if d == dept {
			return true
		}
	}
	return false
}

// DefaultPermissions returns the capability set a role grants by default.
// Unknown roles get the view-assigned-only fallback instead of an error.
func DefaultPermissions(role string) []string {
	switch role {
	case RoleSuperAdmin:
		return []string{"all"}
	case RoleAdmin:
		return []string{"manage_users", "manage_projects", "manage_settings", "view_reports"}
	case RoleProjectManager:
		return []string{"manage_projects", "assign_tasks", "view_reports"}
	case RoleTeamLead:
		return []string{"manage_team", "assign_tasks", "view_team_reports"}
	case RoleDeveloper, RoleDesigner, RoleQA:
		return []string{"view_projects", "manage_tasks"}
	case RoleMarketing, RoleSales:
		return []string{"view_projects", "manage_campaigns"}
	case RoleHR:
		return []string{"view_users", "manage_profiles"}
	default:
		return []string{"view_assigned"}
	}
}

// PermissionsForRoles is the union of each held role's default set,
// applied whenever roles change without an explicit permission override.
func PermissionsForRoles(roles []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, role := range roles {
		for _, perm := range DefaultPermissions(role) {
			if _, ok := seen[perm]; ok {
				continue
			}
			seen[perm] = struct{}{}
			out = append(out, perm)
		}
	}
	return out
}
