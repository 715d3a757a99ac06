package directory

// RolePolicy maps each department to the set of roles a user may hold
// while assigned to it. The table is stored, not hardcoded, so it can
// be reconfigured without a release; unknown departments yield no
// allowed roles and therefore fail closed.
type RolePolicy map[string][]string

// DefaultRolePolicy seeds the table: every department accepts the
// administrative and generic roles plus its own specialist roles.
func DefaultRolePolicy() RolePolicy {
	common := []string{RoleSuperAdmin, RoleAdmin, RoleProjectManager, RoleTeamLead, RoleMember}
	policy := RolePolicy{
		DeptEngineering: append([]string{RoleDeveloper, RoleQA}, common...),
		DeptDesign:      append([]string{RoleDesigner}, common...),
		DeptProduct:     append([]string{RoleDeveloper, RoleDesigner, RoleQA}, common...),
		DeptMarketing:   append([]string{RoleMarketing}, common...),
		DeptSales:       append([]string{RoleSales}, common...),
		DeptHR:          append([]string{RoleHR}, common...),
		DeptOperations:  append([]string{RoleHR, RoleMarketing}, common...),
	}
	return policy
}

func (p RolePolicy) RoleAllowedInDepartment(role, department string) bool {
	allowed, ok := p[department]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// AllowedRoles returns the roles valid for a department, nil when the
// department is unknown.
func (p RolePolicy) AllowedRoles(department string) []string {
	return p[department]
}

// EligibleForTeam reports whether a user qualifies for a team scoped to
// the given department and eligible-role set: same department and at
// least one role in common.
func EligibleForTeam(u *User, department string, eligibleRoles []string) bool {
	if u == nil || u.Department != department {
		return false
	}
	for _, r := range u.Roles {
		for _, er := range eligibleRoles {
			if r == er {
				return true
			}
		}
	}
	return false
}
