package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/frahmantamala/team-directory/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentials(ctx context.Context, email string) (string, string, bool, error) {
	var (
		userID       string
		passwordHash string
		status       string
	)
	query := `SELECT id, password_hash, status FROM users WHERE email = ?`

	row := r.db.WithContext(ctx).Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", false, fmt.Errorf("user not found")
		}
		return "", "", false, err
	}
	return passwordHash, userID, status == "active", nil
}

func (r *Repository) GetSessionUser(ctx context.Context, userID string) (*auth.User, error) {
	var u auth.User
	query := `SELECT id, email FROM users WHERE id = ? AND status = 'active'`

	row := r.db.WithContext(ctx).Raw(query, userID).Row()
	if err := row.Scan(&u.ID, &u.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &u, nil
}
