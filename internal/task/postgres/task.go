package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/frahmantamala/team-directory/internal"
	taskDatamodel "github.com/frahmantamala/team-directory/internal/core/datamodel/task"
	"github.com/frahmantamala/team-directory/internal/task"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) task.Repository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) GetAll(ctx context.Context) ([]*task.Task, error) {
	var rows []*taskDatamodel.Task
	if err := r.db.WithContext(ctx).
		Table("tasks").
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*task.Task, error) {
	var row taskDatamodel.Task
	err := r.db.WithContext(ctx).Table("tasks").Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return task.FromDataModel(&row), nil
}

func (r *TaskRepository) GetByAssignee(ctx context.Context, userID string) ([]*task.Task, error) {
	var rows []*taskDatamodel.Task
	if err := r.db.WithContext(ctx).
		Table("tasks").
		Where("assigned_to = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Table("tasks").Create(task.ToDataModel(t)).Error
}

func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Table("tasks").
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"title":       t.Title,
			"description": t.Description,
			"status":      t.Status,
			"due_date":    t.DueDate,
			"project_id":  t.ProjectID,
			"assigned_to": t.AssignedTo,
			"updated_at":  time.Now(),
		}).Error
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Table("tasks").Where("id = ?", id).Delete(&taskDatamodel.Task{}).Error
}

func fromRows(rows []*taskDatamodel.Task) []*task.Task {
	tasks := make([]*task.Task, len(rows))
	for i, row := range rows {
		tasks[i] = task.FromDataModel(row)
	}
	return tasks
}
