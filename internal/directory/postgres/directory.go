package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/frahmantamala/team-directory/internal"
	userDatamodel "github.com/frahmantamala/team-directory/internal/core/datamodel/user"
	"github.com/frahmantamala/team-directory/internal/directory"
)

// DirectoryRepository implements directory.Repository using GORM
type DirectoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) directory.Repository {
	return &DirectoryRepository{db: db}
}

func (r *DirectoryRepository) GetAll(ctx context.Context) ([]*directory.User, error) {
	var rows []*userDatamodel.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	roles, err := r.rolesByUser(ctx, "")
	if err != nil {
		return nil, err
	}
	perms, err := r.permissionsByUser(ctx, "")
	if err != nil {
		return nil, err
	}

	users := make([]*directory.User, len(rows))
	for i, row := range rows {
		users[i] = directory.FromDataModel(row, roles[row.ID], perms[row.ID])
	}
	return users, nil
}

func (r *DirectoryRepository) GetByID(ctx context.Context, id string) (*directory.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).Table("users").Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return r.assemble(ctx, &row)
}

func (r *DirectoryRepository) GetByEmail(ctx context.Context, email string) (*directory.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).Table("users").Where("email = ?", email).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return r.assemble(ctx, &row)
}

func (r *DirectoryRepository) Create(ctx context.Context, u *directory.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("users").Create(directory.ToDataModel(u)).Error; err != nil {
			return err
		}
		return r.writeSets(tx, u)
	})
}

func (r *DirectoryRepository) Update(ctx context.Context, u *directory.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("users").Where("id = ?", u.ID).Updates(map[string]interface{}{
			"full_name":        u.FullName,
			"department":       u.Department,
			"status":           u.Status,
			"reports_to":       u.ReportsTo,
			"perms_overridden": u.PermsOverridden,
			"updated_at":       time.Now(),
		}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&userDatamodel.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&userDatamodel.UserPermission{}).Error; err != nil {
			return err
		}
		return r.writeSets(tx, u)
	})
}

func (r *DirectoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&userDatamodel.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&userDatamodel.UserPermission{}).Error; err != nil {
			return err
		}
		// no cascade: reports_to edges held by other users stay and
		// resolve to "Unknown" at read time
		return tx.Table("users").Where("id = ?", id).Delete(&userDatamodel.User{}).Error
	})
}

func (r *DirectoryRepository) SetReportsTo(ctx context.Context, id string, reportsTo *string) error {
	return r.db.WithContext(ctx).Table("users").
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"reports_to": reportsTo,
			"updated_at": time.Now(),
		}).Error
}

func (r *DirectoryRepository) GetRolePolicy(ctx context.Context) (directory.RolePolicy, error) {
	var rows []userDatamodel.RolePolicy
	if err := r.db.WithContext(ctx).Table("role_policies").Find(&rows).Error; err != nil {
		return nil, err
	}
	policy := make(directory.RolePolicy, len(rows))
	for _, row := range rows {
		policy[row.Department] = append(policy[row.Department], row.Role)
	}
	return policy, nil
}

func (r *DirectoryRepository) assemble(ctx context.Context, row *userDatamodel.User) (*directory.User, error) {
	roles, err := r.rolesByUser(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	perms, err := r.permissionsByUser(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	return directory.FromDataModel(row, roles[row.ID], perms[row.ID]), nil
}

// rolesByUser loads the role sets, for one user or for all when id is
// empty. Legacy single-role records simply produce one row here.
func (r *DirectoryRepository) rolesByUser(ctx context.Context, id string) (map[string][]string, error) {
	q := r.db.WithContext(ctx).Table("user_roles")
	if id != "" {
		q = q.Where("user_id = ?", id)
	}
	var rows []userDatamodel.UserRole
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.Role)
	}
	return out, nil
}

func (r *DirectoryRepository) permissionsByUser(ctx context.Context, id string) (map[string][]string, error) {
	q := r.db.WithContext(ctx).Table("user_permissions")
	if id != "" {
		q = q.Where("user_id = ?", id)
	}
	var rows []userDatamodel.UserPermission
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.Permission)
	}
	return out, nil
}

func (r *DirectoryRepository) writeSets(tx *gorm.DB, u *directory.User) error {
	for _, role := range u.Roles {
		if err := tx.Create(&userDatamodel.UserRole{UserID: u.ID, Role: role}).Error; err != nil {
			return err
		}
	}
	for _, perm := range u.Permissions {
		if err := tx.Create(&userDatamodel.UserPermission{UserID: u.ID, Permission: perm}).Error; err != nil {
			return err
		}
	}
	return nil
}
