package project

import (
	"time"

	projectDatamodel "github.com/frahmantamala/team-directory/internal/core/datamodel/project"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusDelayed   = "delayed"
)

var Statuses = []string{StatusActive, StatusCompleted, StatusDelayed}

// Project is owned by its creator; Team is the set of assigned user
// ids. Deadline is nil when the stored value was missing or
// unparseable, in which case date-dependent views skip the project.
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Team        []string   `json:"team"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ToDataModel(p *Project) *projectDatamodel.Project {
	return &projectDatamodel.Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		Deadline:    p.Deadline,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
	}
}

func FromDataModel(m *projectDatamodel.Project, team []string) *Project {
	return &Project{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Status:      m.Status,
		Deadline:    m.Deadline,
		Team:        team,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}
