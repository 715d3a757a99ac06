package activity

import "time"

type ActivityLog struct {
	ID         string    `gorm:"primaryKey"`
	Action     string    `gorm:"column:action;not null"`
	EntityType string    `gorm:"column:entity_type;not null"`
	EntityID   string    `gorm:"column:entity_id"`
	ActorID    string    `gorm:"column:actor_id"`
	CreatedAt  time.Time `gorm:"column:created_at;index;default:now()"`
}
