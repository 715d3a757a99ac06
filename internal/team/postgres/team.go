package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/frahmantamala/team-directory/internal"
	teamDatamodel "github.com/frahmantamala/team-directory/internal/core/datamodel/team"
	"github.com/frahmantamala/team-directory/internal/team"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) team.Repository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetAll(ctx context.Context) ([]*team.Team, error) {
	var rows []*teamDatamodel.Team
	if err := r.db.WithContext(ctx).
		Table("teams").
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	roles, err := r.eligibleRoles(ctx, "")
	if err != nil {
		return nil, err
	}
	members, err := r.members(ctx, "")
	if err != nil {
		return nil, err
	}

	teams := make([]*team.Team, len(rows))
	for i, row := range rows {
		teams[i] = team.FromDataModel(row, roles[row.ID], members[row.ID])
	}
	return teams, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (*team.Team, error) {
	var row teamDatamodel.Team
	err := r.db.WithContext(ctx).Table("teams").Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, err
	}

	roles, err := r.eligibleRoles(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := r.members(ctx, id)
	if err != nil {
		return nil, err
	}
	return team.FromDataModel(&row, roles[id], members[id]), nil
}

func (r *TeamRepository) Create(ctx context.Context, t *team.Team) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("teams").Create(team.ToDataModel(t)).Error; err != nil {
			return err
		}
		return r.writeSets(tx, t)
	})
}

func (r *TeamRepository) Update(ctx context.Context, t *team.Team) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("teams").Where("id = ?", t.ID).Updates(map[string]interface{}{
			"name":    t.Name,
			"lead_id": t.LeadID,
		}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", t.ID).Delete(&teamDatamodel.TeamEligibleRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", t.ID).Delete(&teamDatamodel.TeamMember{}).Error; err != nil {
			return err
		}
		return r.writeSets(tx, t)
	})
}

func (r *TeamRepository) eligibleRoles(ctx context.Context, teamID string) (map[string][]string, error) {
	q := r.db.WithContext(ctx).Table("team_eligible_roles")
	if teamID != "" {
		q = q.Where("team_id = ?", teamID)
	}
	var rows []teamDatamodel.TeamEligibleRole
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	for _, row := range rows {
		out[row.TeamID] = append(out[row.TeamID], row.Role)
	}
	return out, nil
}

func (r *TeamRepository) members(ctx context.Context, teamID string) (map[string][]string, error) {
	q := r.db.WithContext(ctx).Table("team_members")
	if teamID != "" {
		q = q.Where("team_id = ?", teamID)
	}
	var rows []teamDatamodel.TeamMember
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	for _, row := range rows {
		out[row.TeamID] = append(out[row.TeamID], row.UserID)
	}
	return out, nil
}

func (r *TeamRepository) writeSets(tx *gorm.DB, t *team.Team) error {
	for _, role := range t.EligibleRoles {
		if err := tx.Create(&teamDatamodel.TeamEligibleRole{TeamID: t.ID, Role: role}).Error; err != nil {
			return err
		}
	}
	for _, userID := range t.MemberIDs {
		if err := tx.Create(&teamDatamodel.TeamMember{TeamID: t.ID, UserID: userID}).Error; err != nil {
			return err
		}
	}
	return nil
}
