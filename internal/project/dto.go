package project

import (
	"time"

	errors "github.com/frahmantamala/team-directory/internal"
	"github.com/frahmantamala/team-directory/internal/core/common/validation"
)

// dateLayouts are tried in order when parsing client-supplied dates.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ParseDate converts a client date string into a *time.Time. Empty
// input yields nil (no date), which downstream views treat as
// unresolvable rather than an error.
func ParseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, errors.NewValidationFieldError(field, "invalid date format", errors.ErrCodeInvalidDate)
}

type CreateProjectDTO struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Deadline    string   `json:"deadline"`
	Team        []string `json:"team"`
}

func (dto *CreateProjectDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(200)
	if dto.Status != "" {
		v.Field("status", dto.Status).OneOf(Statuses, errors.ErrCodeValidationFailed)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateProjectDTO struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Deadline    *string  `json:"deadline,omitempty"`
	Team        []string `json:"team,omitempty"`
}

func (dto *UpdateProjectDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required().MaxLength(200)
	}
	if dto.Status != nil {
		v.Field("status", *dto.Status).OneOf(Statuses, errors.ErrCodeValidationFailed)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
