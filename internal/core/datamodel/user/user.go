package user

import "time"

type User struct {
	ID               string    `gorm:"primaryKey"`
	Email            string    `gorm:"column:email;uniqueIndex;not null"`
	FullName         string    `gorm:"column:full_name;not null"`
	PasswordHash     string    `gorm:"column:password_hash;not null"`
	Department       string    `gorm:"column:department"`
	Status           string    `gorm:"column:status;default:active"`
	ReportsTo        *string   `gorm:"column:reports_to"`
	ActiveProjects   int       `gorm:"column:active_projects;default:0"`
	PermsOverridden  bool      `gorm:"column:perms_overridden;default:false"`
	CreatedAt        time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt        time.Time `gorm:"column:updated_at;default:now()"`
}

type UserRole struct {
	ID     int64  `gorm:"primaryKey"`
	UserID string `gorm:"column:user_id;index;not null"`
	Role   string `gorm:"column:role;not null"`
}

type UserPermission struct {
	ID         int64  `gorm:"primaryKey"`
	UserID     string `gorm:"column:user_id;index;not null"`
	Permission string `gorm:"column:permission;not null"`
}

// RolePolicy is one row of the department -> allowed role table.
type RolePolicy struct {
	ID         int64  `gorm:"primaryKey"`
	Department string `gorm:"column:department;index;not null"`
	Role       string `gorm:"column:role;not null"`
}
