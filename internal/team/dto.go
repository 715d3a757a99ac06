package team

import (
	errors "github.com/frahmantamala/team-directory/internal"
	"github.com/frahmantamala/team-directory/internal/core/common/validation"
	"github.com/frahmantamala/team-directory/internal/directory"
)

type CreateTeamDTO struct {
	Name          string   `json:"name"`
	Department    string   `json:"department"`
	EligibleRoles []string `json:"eligible_roles"`
	LeadID        string   `json:"lead_id"`
	MemberIDs     []string `json:"member_ids"`
}

func (dto *CreateTeamDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(120)
	v.Field("department", dto.Department).Required().OneOf(directory.Departments, errors.ErrCodeInvalidDepartment)
	v.Field("eligible_roles", dto.EligibleRoles).Required().EachOneOf(directory.Roles, errors.ErrCodeInvalidRole)
	v.Field("lead_id", dto.LeadID).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateTeamDTO replaces whole fields; member and role sets supplied
// here overwrite the stored sets rather than merging into them.
type UpdateTeamDTO struct {
	Name          *string  `json:"name,omitempty"`
	EligibleRoles []string `json:"eligible_roles,omitempty"`
	LeadID        *string  `json:"lead_id,omitempty"`
	MemberIDs     []string `json:"member_ids,omitempty"`
}

func (dto *UpdateTeamDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required().MaxLength(120)
	}
	if len(dto.EligibleRoles) > 0 {
		v.Field("eligible_roles", dto.EligibleRoles).EachOneOf(directory.Roles, errors.ErrCodeInvalidRole)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
