package directory_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/team-directory/internal/directory"
)

func TestDirectory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Directory Suite")
}

func makeUser(id, name, dept string, roles ...string) *directory.User {
	return &directory.User{
		ID:          id,
		Email:       name + "@mail.com",
		FullName:    name,
		Roles:       roles,
		Department:  dept,
		Status:      directory.StatusActive,
		Permissions: directory.PermissionsForRoles(roles),
	}
}

var _ = Describe("RolePermissions", func() {
	Describe("DefaultPermissions", func() {
		It("grants the wildcard capability to super admins", func() {
			Expect(directory.DefaultPermissions(directory.RoleSuperAdmin)).To(Equal([]string{"all"}))
		})

		It("gives developers, designers and qa the same set", func() {
			devPerms := directory.DefaultPermissions(directory.RoleDeveloper)
			Expect(directory.DefaultPermissions(directory.RoleDesigner)).To(Equal(devPerms))
			Expect(directory.DefaultPermissions(directory.RoleQA)).To(Equal(devPerms))
			Expect(devPerms).To(ConsistOf("view_projects", "manage_tasks"))
		})

		It("falls back to view-assigned for unknown roles", func() {
			Expect(directory.DefaultPermissions("astronaut")).To(Equal([]string{"view_assigned"}))
		})
	})

	Describe("PermissionsForRoles", func() {
		It("unions the default sets without duplicates", func() {
			perms := directory.PermissionsForRoles([]string{directory.RoleProjectManager, directory.RoleTeamLead})
			Expect(perms).To(ConsistOf(
				"manage_projects", "assign_tasks", "view_reports",
				"manage_team", "view_team_reports",
			))
		})

		It("returns nothing for an empty role set", func() {
			Expect(directory.PermissionsForRoles(nil)).To(BeEmpty())
		})
	})

	Describe("HasPermission", func() {
		It("treats the wildcard as matching everything", func() {
			u := makeUser("u1", "Root", directory.DeptOperations, directory.RoleSuperAdmin)
			Expect(u.HasPermission("manage_users")).To(BeTrue())
			Expect(u.HasPermission("anything_at_all")).To(BeTrue())
		})
	})
})

var _ = Describe("Directory", func() {
	var dir *directory.Directory

	BeforeEach(func() {
		dir = directory.NewDirectory([]*directory.User{
			makeUser("u1", "Alice Smith", directory.DeptEngineering, directory.RoleDeveloper),
			makeUser("u2", "Bob Jones", directory.DeptEngineering, directory.RoleTeamLead, directory.RoleDeveloper),
			makeUser("u3", "Carol White", directory.DeptDesign, directory.RoleDesigner),
		})
	})

	Describe("ResolveDisplayName", func() {
		It("returns the full name for a known id", func() {
			Expect(dir.ResolveDisplayName("u1")).To(Equal("Alice Smith"))
		})

		It("returns Unknown for a dangling reference", func() {
			Expect(dir.ResolveDisplayName("deleted-user")).To(Equal("Unknown"))
		})
	})

	Describe("FilterUsers", func() {
		It("matches everything with empty filters", func() {
			Expect(dir.FilterUsers("", "", "")).To(HaveLen(3))
		})

		It("searches case-insensitively over names", func() {
			result := dir.FilterUsers("alice", "", "")
			Expect(result).To(HaveLen(1))
			Expect(result[0].ID).To(Equal("u1"))
		})

		It("matches the search term against held roles", func() {
			result := dir.FilterUsers("team_lead", "", "")
			Expect(result).To(HaveLen(1))
			Expect(result[0].ID).To(Equal("u2"))
		})

		It("ANDs the role and department filters with the search", func() {
			result := dir.FilterUsers("", directory.RoleDeveloper, directory.DeptEngineering)
			Expect(result).To(HaveLen(2))

			result = dir.FilterUsers("bob", directory.RoleDeveloper, directory.DeptEngineering)
			Expect(result).To(HaveLen(1))
			Expect(result[0].ID).To(Equal("u2"))
		})

		It("preserves input order", func() {
			result := dir.FilterUsers("", "", directory.DeptEngineering)
			Expect(result[0].ID).To(Equal("u1"))
			Expect(result[1].ID).To(Equal("u2"))
		})
	})
})

var _ = Describe("Eligibility", func() {
	Describe("EligibleForTeam", func() {
		eligibleRoles := []string{directory.RoleDeveloper, directory.RoleQA}

		It("requires the same department and a role in common", func() {
			u := makeUser("u1", "Alice", directory.DeptEngineering, directory.RoleDeveloper)
			Expect(directory.EligibleForTeam(u, directory.DeptEngineering, eligibleRoles)).To(BeTrue())
		})

		It("rejects a user from another department even with a matching role", func() {
			u := makeUser("u1", "Alice", directory.DeptDesign, directory.RoleDeveloper)
			Expect(directory.EligibleForTeam(u, directory.DeptEngineering, eligibleRoles)).To(BeFalse())
		})

		It("rejects a user with no eligible role", func() {
			u := makeUser("u1", "Alice", directory.DeptEngineering, directory.RoleHR)
			Expect(directory.EligibleForTeam(u, directory.DeptEngineering, eligibleRoles)).To(BeFalse())
		})

		It("never loses eligibility when unrelated roles are added", func() {
			u := makeUser("u1", "Alice", directory.DeptEngineering, directory.RoleDeveloper)
			Expect(directory.EligibleForTeam(u, directory.DeptEngineering, eligibleRoles)).To(BeTrue())

			u.Roles = append(u.Roles, directory.RoleMarketing, directory.RoleSales)
			Expect(directory.EligibleForTeam(u, directory.DeptEngineering, eligibleRoles)).To(BeTrue())
		})
	})

	Describe("RolePolicy", func() {
		It("fails closed for unknown departments", func() {
			policy := directory.DefaultRolePolicy()
			Expect(policy.RoleAllowedInDepartment(directory.RoleDeveloper, "Warehouse")).To(BeFalse())
			Expect(policy.AllowedRoles("Warehouse")).To(BeNil())
		})

		It("accepts specialist roles only where configured", func() {
			policy := directory.DefaultRolePolicy()
			Expect(policy.RoleAllowedInDepartment(directory.RoleDeveloper, directory.DeptEngineering)).To(BeTrue())
			Expect(policy.RoleAllowedInDepartment(directory.RoleDeveloper, directory.DeptSales)).To(BeFalse())
			Expect(policy.RoleAllowedInDepartment(directory.RoleMember, directory.DeptSales)).To(BeTrue())
		})
	})
})
