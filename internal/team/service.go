package team

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	internal "github.com/frahmantamala/team-directory/internal"
	"github.com/frahmantamala/team-directory/internal/core/events"
	"github.com/frahmantamala/team-directory/internal/directory"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*Team, error)
	GetByID(ctx context.Context, id string) (*Team, error)
	Create(ctx context.Context, t *Team) error
	Update(ctx context.Context, t *Team) error
}

// DirectoryAPI is the slice of the directory service the team module
// needs: a user snapshot for eligibility checks and name resolution.
type DirectoryAPI interface {
	Snapshot(ctx context.Context) (*directory.Directory, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	directory DirectoryAPI
	events    EventPublisher
	logger    *slog.Logger
}

func NewService(logger *slog.Logger, repo Repository, dir DirectoryAPI, publisher EventPublisher) *Service {
	return &Service{
		repo:      repo,
		directory: dir,
		events:    publisher,
		logger:    logger,
	}
}

func (s *Service) GetTeams(ctx context.Context) ([]*Team, error) {
	teams, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("GetTeams: repository error", "error", err)
		return nil, err
	}

	// lead names are presentation-only; a failed snapshot degrades to
	// unresolved names instead of failing the listing
	snap, err := s.directory.Snapshot(ctx)
	if err != nil {
		s.logger.Warn("GetTeams: could not resolve lead names", "error", err)
		return teams, nil
	}
	for _, t := range teams {
		t.LeadName = snap.ResolveDisplayName(t.LeadID)
	}
	return teams, nil
}

func (s *Service) GetTeam(ctx context.Context, id string) (*Team, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if snap, serr := s.directory.Snapshot(ctx); serr == nil {
		t.LeadName = snap.ResolveDisplayName(t.LeadID)
	}
	return t, nil
}

func (s *Service) CreateTeam(ctx context.Context, dto CreateTeamDTO) (*Team, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	snap, err := s.directory.Snapshot(ctx)
	if err != nil {
		s.logger.Error("CreateTeam: snapshot error", "error", err)
		return nil, err
	}

	if err := s.checkEligibility(snap, dto.Department, dto.EligibleRoles, dto.LeadID, dto.MemberIDs); err != nil {
		return nil, err
	}

	t := &Team{
		ID:            uuid.NewString(),
		Name:          dto.Name,
		Department:    dto.Department,
		EligibleRoles: dto.EligibleRoles,
		LeadID:        dto.LeadID,
		MemberIDs:     dto.MemberIDs,
		CreatedAt:     time.Now(),
	}
	if session, ok := internal.SessionFromContext(ctx); ok {
		t.CreatedBy = session.UserID
	}

	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("CreateTeam: repository error", "error", err, "team_name", dto.Name)
		return nil, err
	}

	s.publishAudit(ctx, "team_created", t.ID)
	t.LeadName = snap.ResolveDisplayName(t.LeadID)
	return t, nil
}

// UpdateTeam replaces the supplied fields wholesale; member and role
// sets are overwritten, not merged.
func (s *Service) UpdateTeam(ctx context.Context, id string, dto UpdateTeamDTO) (*Team, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		t.Name = *dto.Name
	}
	if len(dto.EligibleRoles) > 0 {
		t.EligibleRoles = dto.EligibleRoles
	}
	if dto.LeadID != nil {
		t.LeadID = *dto.LeadID
	}
	if dto.MemberIDs != nil {
		t.MemberIDs = dto.MemberIDs
	}

	snap, err := s.directory.Snapshot(ctx)
	if err != nil {
		s.logger.Error("UpdateTeam: snapshot error", "error", err)
		return nil, err
	}
	if err := s.checkEligibility(snap, t.Department, t.EligibleRoles, t.LeadID, t.MemberIDs); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("UpdateTeam: repository error", "error", err, "team_id", id)
		return nil, err
	}

	s.publishAudit(ctx, "team_updated", id)
	t.LeadName = snap.ResolveDisplayName(t.LeadID)
	return t, nil
}

// checkEligibility enforces the membership rules: the lead and every
// member must share the team's department and hold at least one
// eligible role.
func (s *Service) checkEligibility(snap *directory.Directory, department string, eligibleRoles []string, leadID string, memberIDs []string) error {
	lead, ok := snap.FindUser(leadID)
	if !ok {
		return internal.NewNotFoundError("lead user not found", internal.ErrCodeUserNotFound)
	}
	if !directory.EligibleForTeam(lead, department, eligibleRoles) {
		return internal.NewValidationError(
			fmt.Sprintf("user %s is not eligible to lead this team", leadID),
			internal.ErrCodeIneligibleLead)
	}

	for _, memberID := range memberIDs {
		member, ok := snap.FindUser(memberID)
		if !ok {
			return internal.NewNotFoundError(
				fmt.Sprintf("member %s not found", memberID),
				internal.ErrCodeUserNotFound)
		}
		if !directory.EligibleForTeam(member, department, eligibleRoles) {
			return internal.NewValidationError(
				fmt.Sprintf("user %s is not eligible for this team", memberID),
				internal.ErrCodeIneligibleMember)
		}
	}
	return nil
}

func (s *Service) publishAudit(ctx context.Context, action, teamID string) {
	if s.events == nil {
		return
	}
	actorID := ""
	if session, ok := internal.SessionFromContext(ctx); ok {
		actorID = session.UserID
	}
	if err := s.events.Publish(ctx, events.NewEntityAudited(action, "team", teamID, actorID)); err != nil {
		s.logger.Warn("failed to publish audit event", "action", action, "team_id", teamID, "error", err)
	}
}
