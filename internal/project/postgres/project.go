package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/frahmantamala/team-directory/internal"
	projectDatamodel "github.com/frahmantamala/team-directory/internal/core/datamodel/project"
	"github.com/frahmantamala/team-directory/internal/project"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) project.Repository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) GetAll(ctx context.Context) ([]*project.Project, error) {
	var rows []*projectDatamodel.Project
	if err := r.db.WithContext(ctx).
		Table("projects").
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	members, err := r.membersByProject(ctx, "")
	if err != nil {
		return nil, err
	}

	projects := make([]*project.Project, len(rows))
	for i, row := range rows {
		projects[i] = project.FromDataModel(row, members[row.ID])
	}
	return projects, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*project.Project, error) {
	var row projectDatamodel.Project
	err := r.db.WithContext(ctx).Table("projects").Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}

	members, err := r.membersByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return project.FromDataModel(&row, members[id]), nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("projects").Create(project.ToDataModel(p)).Error; err != nil {
			return err
		}
		return r.writeTeam(tx, p)
	})
}

func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("projects").Where("id = ?", p.ID).Updates(map[string]interface{}{
			"name":        p.Name,
			"description": p.Description,
			"status":      p.Status,
			"deadline":    p.Deadline,
			"updated_at":  time.Now(),
		}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", p.ID).Delete(&projectDatamodel.ProjectMember{}).Error; err != nil {
			return err
		}
		return r.writeTeam(tx, p)
	})
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&projectDatamodel.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Table("projects").Where("id = ?", id).Delete(&projectDatamodel.Project{}).Error
	})
}

func (r *ProjectRepository) membersByProject(ctx context.Context, projectID string) (map[string][]string, error) {
	q := r.db.WithContext(ctx).Table("project_members")
	if projectID != "" {
		q = q.Where("project_id = ?", projectID)
	}
	var rows []projectDatamodel.ProjectMember
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	for _, row := range rows {
		out[row.ProjectID] = append(out[row.ProjectID], row.UserID)
	}
	return out, nil
}

func (r *ProjectRepository) writeTeam(tx *gorm.DB, p *project.Project) error {
	for _, userID := range p.Team {
		if err := tx.Create(&projectDatamodel.ProjectMember{ProjectID: p.ID, UserID: userID}).Error; err != nil {
			return err
		}
	}
	return nil
}
