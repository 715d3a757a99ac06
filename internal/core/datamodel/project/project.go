package project

import "time"

type Project struct {
	ID          string     `gorm:"primaryKey"`
	Name        string     `gorm:"column:name;not null"`
	Description string     `gorm:"column:description"`
	Status      string     `gorm:"column:status;default:active"`
	Deadline    *time.Time `gorm:"column:deadline"`
	CreatedBy   string     `gorm:"column:created_by"`
	CreatedAt   time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;default:now()"`
}

type ProjectMember struct {
	ID        int64  `gorm:"primaryKey"`
	ProjectID string `gorm:"column:project_id;index;not null"`
	UserID    string `gorm:"column:user_id;not null"`
}
