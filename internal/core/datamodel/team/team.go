package team

import "time"

type Team struct {
	ID         string    `gorm:"primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	Department string    `gorm:"column:department;not null"`
	LeadID     string    `gorm:"column:lead_id;not null"`
	CreatedBy  string    `gorm:"column:created_by"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
}

type TeamEligibleRole struct {
	ID     int64  `gorm:"primaryKey"`
	TeamID string `gorm:"column:team_id;index;not null"`
	Role   string `gorm:"column:role;not null"`
}

type TeamMember struct {
	ID     int64  `gorm:"primaryKey"`
	TeamID string `gorm:"column:team_id;index;not null"`
	UserID string `gorm:"column:user_id;not null"`
}
