package task

import "time"

type Task struct {
	ID          string     `gorm:"primaryKey"`
	Title       string     `gorm:"column:title;not null"`
	Description string     `gorm:"column:description"`
	Status      string     `gorm:"column:status;default:pending"`
	DueDate     *time.Time `gorm:"column:due_date"`
	ProjectID   string     `gorm:"column:project_id;index"`
	AssignedTo  string     `gorm:"column:assigned_to;index"`
	CreatedBy   string     `gorm:"column:created_by"`
	CreatedAt   time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;default:now()"`
}
