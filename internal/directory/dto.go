package directory

import (
	errors "github.com/frahmantamala/team-directory/internal"
	"github.com/frahmantamala/team-directory/internal/core/common/validation"
)

// CreateUserDTO is the administrative payload for provisioning a user.
// Roles is a non-empty set; clients still sending the legacy single
// "role" field get it folded into Roles by the handler.
type CreateUserDTO struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	FullName    string   `json:"full_name"`
	Roles       []string `json:"roles"`
	Role        string   `json:"role,omitempty"`
	Department  string   `json:"department"`
	Permissions []string `json:"permissions,omitempty"`
	ReportsTo   *string  `json:"reports_to,omitempty"`
}

// Normalize folds the legacy single-role field into the role set.
func (dto *CreateUserDTO) Normalize() {
	if len(dto.Roles) == 0 && dto.Role != "" {
		dto.Roles = []string{dto.Role}
	}
}

func (dto *CreateUserDTO) Validate() error {
	dto.Normalize()
	v := validation.NewValidator()
	v.Field("email", dto.Email).Required().MaxLength(254)
	v.Field("password", dto.Password).Required().MinLength(8)
	v.Field("full_name", dto.FullName).Required().MaxLength(120)
	v.Field("roles", dto.Roles).Required().EachOneOf(Roles, errors.ErrCodeInvalidRole)
	v.Field("department", dto.Department).Required().OneOf(Departments, errors.ErrCodeInvalidDepartment)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateUserDTO carries a partial update; nil fields are untouched.
// Supplying Roles without Permissions recomputes the defaults;
// supplying Permissions sets an explicit override.
type UpdateUserDTO struct {
	FullName       *string  `json:"full_name,omitempty"`
	Roles          []string `json:"roles,omitempty"`
	Role           string   `json:"role,omitempty"`
	Department     *string  `json:"department,omitempty"`
	Status         *string  `json:"status,omitempty"`
	Permissions    []string `json:"permissions,omitempty"`
	ReportsTo      *string  `json:"reports_to,omitempty"`
	ClearReportsTo bool     `json:"clear_reports_to,omitempty"`
}

func (dto *UpdateUserDTO) Normalize() {
	if len(dto.Roles) == 0 && dto.Role != "" {
		dto.Roles = []string{dto.Role}
	}
}

func (dto *UpdateUserDTO) Validate() error {
	dto.Normalize()
	v := validation.NewValidator()
	if dto.FullName != nil {
		v.Field("full_name", *dto.FullName).Required().MaxLength(120)
	}
	if len(dto.Roles) > 0 {
		v.Field("roles", dto.Roles).EachOneOf(Roles, errors.ErrCodeInvalidRole)
	}
	if dto.Department != nil {
		v.Field("department", *dto.Department).Required().OneOf(Departments, errors.ErrCodeInvalidDepartment)
	}
	if dto.Status != nil {
		v.Field("status", *dto.Status).OneOf([]string{StatusActive, StatusInactive}, errors.ErrCodeValidationFailed)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UserFilterDTO mirrors the directory search controls: free-text term
// plus optional exact role and department filters, all ANDed.
type UserFilterDTO struct {
	Search     string `json:"search"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

type SetReportsToDTO struct {
	UserID    string  `json:"user_id"`
	ReportsTo *string `json:"reports_to"`
}

func (dto SetReportsToDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("user_id", dto.UserID).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type BulkReassignDTO struct {
	UserIDs   []string `json:"user_ids"`
	ReportsTo string   `json:"reports_to"`
}

func (dto BulkReassignDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("user_ids", dto.UserIDs).Required()
	v.Field("reports_to", dto.ReportsTo).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
