package task

import (
	"time"

	taskDatamodel "github.com/frahmantamala/team-directory/internal/core/datamodel/task"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOverdue    = "overdue"
)

var Statuses = []string{StatusPending, StatusInProgress, StatusCompleted, StatusOverdue}

// Task belongs to at most one project and one assignee. DueDate is nil
// when the stored value was missing or unparseable; such tasks count
// in totals but never as overdue.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ProjectID   string     `json:"project_id,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsOverdue derives lateness at read time: a due date strictly before
// now on a task that is not completed. The stored status is never
// rewritten to overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(now) && t.Status != StatusCompleted
}

func ToDataModel(t *Task) *taskDatamodel.Task {
	return &taskDatamodel.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		DueDate:     t.DueDate,
		ProjectID:   t.ProjectID,
		AssignedTo:  t.AssignedTo,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
	}
}

func FromDataModel(m *taskDatamodel.Task) *Task {
	return &Task{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Status:      m.Status,
		DueDate:     m.DueDate,
		ProjectID:   m.ProjectID,
		AssignedTo:  m.AssignedTo,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}
