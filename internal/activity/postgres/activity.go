package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/team-directory/internal/activity"
	activityDatamodel "github.com/frahmantamala/team-directory/internal/core/datamodel/activity"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) activity.Repository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(ctx context.Context, e *activity.Entry) error {
	return r.db.WithContext(ctx).Table("activity_logs").Create(activity.ToDataModel(e)).Error
}

func (r *ActivityRepository) MostRecent(ctx context.Context, limit int) ([]*activity.Entry, error) {
	var rows []*activityDatamodel.ActivityLog
	if err := r.db.WithContext(ctx).
		Table("activity_logs").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]*activity.Entry, len(rows))
	for i, row := range rows {
		entries[i] = activity.FromDataModel(row)
	}
	return entries, nil
}
