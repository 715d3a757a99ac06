package task

import (
	"time"

	errors "github.com/frahmantamala/team-directory/internal"
	"github.com/frahmantamala/team-directory/internal/core/common/validation"
	"github.com/frahmantamala/team-directory/internal/project"
)

type CreateTaskDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date"`
	ProjectID   string `json:"project_id"`
	AssignedTo  string `json:"assigned_to"`
}

func (dto *CreateTaskDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(200)
	if dto.Status != "" {
		v.Field("status", dto.Status).OneOf(Statuses, errors.ErrCodeValidationFailed)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateTaskDTO struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	ProjectID   *string `json:"project_id,omitempty"`
	AssignedTo  *string `json:"assigned_to,omitempty"`
}

func (dto *UpdateTaskDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Title != nil {
		v.Field("title", *dto.Title).Required().MaxLength(200)
	}
	if dto.Status != nil {
		v.Field("status", *dto.Status).OneOf(Statuses, errors.ErrCodeValidationFailed)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ParseDueDate shares the project module's date layouts so both
// entities accept the same client formats.
func ParseDueDate(value string) (*time.Time, error) {
	return project.ParseDate("due_date", value)
}
