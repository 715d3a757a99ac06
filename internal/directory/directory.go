package directory

import (
	"strings"
	"time"

	userDatamodel "github.com/frahmantamala/team-directory/internal/core/datamodel/user"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// UnknownName is what stale references (deleted superiors, removed
// leads) resolve to at read time instead of failing the whole view.
const UnknownName = "Unknown"

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	PasswordHash   string    `json:"-"`
	Roles          []string  `json:"roles"`
	Department     string    `json:"department,omitempty"`
	Status         string    `json:"status"`
	Permissions    []string  `json:"permissions,omitempty"`
	ReportsTo      *string   `json:"reports_to,omitempty"`
	ActiveProjects int       `json:"active_projects"`
	// PermsOverridden marks an explicit permission override: role
	// changes stop recomputing defaults once it is set.
	PermsOverridden bool      `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission || p == "all" {
			return true
		}
	}
	return false
}

func (u *User) HasAnyPermission(permissions []string) bool {
	for _, required := range permissions {
		if u.HasPermission(required) {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin) || u.HasRole(RoleSuperAdmin) || u.HasPermission("manage_users")
}

func (u *User) IsActiveUser() bool {
	return u.Status == StatusActive
}

// Directory is one fully-loaded snapshot of users, valid for a single
// computation. It is rebuilt per call, never cached across requests.
type Directory struct {
	users []*User
	byID  map[string]*User
}

func NewDirectory(users []*User) *Directory {
	byID := make(map[string]*User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return &Directory{users: users, byID: byID}
}

func (d *Directory) Users() []*User {
	return d.users
}

func (d *Directory) Len() int {
	return len(d.users)
}

func (d *Directory) FindUser(id string) (*User, bool) {
	u, ok := d.byID[id]
	return u, ok
}

// ResolveDisplayName never fails: a dangling id renders as "Unknown".
func (d *Directory) ResolveDisplayName(id string) string {
	if u, ok := d.byID[id]; ok {
		return u.FullName
	}
	return UnknownName
}

func (d *Directory) UsersByDepartment(dept string) []*User {
	var out []*User
	for _, u := range d.users {
		if u.Department == dept {
			out = append(out, u)
		}
	}
	return out
}

// FilterUsers intersects a case-insensitive substring search over name,
// email, roles and department with optional exact role/department
// filters. An empty search term matches everything. Input order is
// preserved.
func (d *Directory) FilterUsers(searchTerm, roleFilter, departmentFilter string) []*User {
	needle := strings.ToLower(searchTerm)
	out := make([]*User, 0, len(d.users))
	for _, u := range d.users {
		if !matchesSearch(u, needle) {
			continue
		}
		if roleFilter != "" && !u.HasRole(roleFilter) {
			continue
		}
		if departmentFilter != "" && u.Department != departmentFilter {
			continue
		}
		out = append(out, u)
	}
	return out
}

func matchesSearch(u *User, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(u.FullName), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(u.Email), needle) {
		return true
	}
	for _, r := range u.Roles {
		if strings.Contains(strings.ToLower(r), needle) {
			return true
		}
	}
	if u.Department != "" && strings.Contains(strings.ToLower(u.Department), needle) {
		return true
	}
	return false
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:              u.ID,
		Email:           u.Email,
		FullName:        u.FullName,
		PasswordHash:    u.PasswordHash,
		Department:      u.Department,
		Status:          u.Status,
		ReportsTo:       u.ReportsTo,
		ActiveProjects:  u.ActiveProjects,
		PermsOverridden: u.PermsOverridden,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// FromDataModel maps a stored row into the domain shape. Legacy rows
// that predate multi-role support carry a single role; callers pass it
// in roles and it becomes a singleton set here.
func FromDataModel(m *userDatamodel.User, roles, permissions []string) *User {
	if len(roles) == 0 {
		roles = []string{RoleMember}
	}
	return &User{
		ID:              m.ID,
		Email:           m.Email,
		FullName:        m.FullName,
		PasswordHash:    m.PasswordHash,
		Roles:           roles,
		Department:      m.Department,
		Status:          m.Status,
		Permissions:     permissions,
		ReportsTo:       m.ReportsTo,
		ActiveProjects:  m.ActiveProjects,
		PermsOverridden: m.PermsOverridden,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
