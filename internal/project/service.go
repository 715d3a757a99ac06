package project

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	internal "github.com/frahmantamala/team-directory/internal"
	"github.com/frahmantamala/team-directory/internal/core/events"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*Project, error)
	GetByID(ctx context.Context, id string) (*Project, error)
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo   Repository
	events EventPublisher
	logger *slog.Logger
}

func NewService(logger *slog.Logger, repo Repository, publisher EventPublisher) *Service {
	return &Service{
		repo:   repo,
		events: publisher,
		logger: logger,
	}
}

func (s *Service) GetProjects(ctx context.Context) ([]*Project, error) {
	projects, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("GetProjects: repository error", "error", err)
		return nil, err
	}
	return projects, nil
}

func (s *Service) GetProject(ctx context.Context, id string) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) CreateProject(ctx context.Context, dto CreateProjectDTO) (*Project, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	deadline, err := ParseDate("deadline", dto.Deadline)
	if err != nil {
		return nil, err
	}

	status := dto.Status
	if status == "" {
		status = StatusActive
	}

	p := &Project{
		ID:          uuid.NewString(),
		Name:        dto.Name,
		Description: dto.Description,
		Status:      status,
		Deadline:    deadline,
		Team:        dto.Team,
		CreatedAt:   time.Now(),
	}
	if session, ok := internal.SessionFromContext(ctx); ok {
		p.CreatedBy = session.UserID
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("CreateProject: repository error", "error", err, "project_name", dto.Name)
		return nil, err
	}

	s.publishAudit(ctx, "project_created", p.ID)
	return p, nil
}

func (s *Service) UpdateProject(ctx context.Context, id string, dto UpdateProjectDTO) (*Project, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ownerGuard(ctx, p.CreatedBy); err != nil {
		return nil, err
	}

	if dto.Name != nil {
		p.Name = *dto.Name
	}
	if dto.Description != nil {
		p.Description = *dto.Description
	}
	if dto.Status != nil {
		p.Status = *dto.Status
	}
	if dto.Deadline != nil {
		deadline, err := ParseDate("deadline", *dto.Deadline)
		if err != nil {
			return nil, err
		}
		p.Deadline = deadline
	}
	if dto.Team != nil {
		p.Team = dto.Team
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("UpdateProject: repository error", "error", err, "project_id", id)
		return nil, err
	}

	s.publishAudit(ctx, "project_updated", id)
	return p, nil
}

func (s *Service) DeleteProject(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ownerGuard(ctx, p.CreatedBy); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("DeleteProject: repository error", "error", err, "project_id", id)
		return err
	}

	s.publishAudit(ctx, "project_deleted", id)
	return nil
}

// ownerGuard restricts mutation to the creator. Records provisioned
// before ownership tracking have an empty creator and stay mutable.
func (s *Service) ownerGuard(ctx context.Context, createdBy string) error {
	if createdBy == "" {
		return nil
	}
	session, ok := internal.SessionFromContext(ctx)
	if !ok || session.UserID != createdBy {
		return internal.ErrUnauthorizedAccess
	}
	return nil
}

func (s *Service) publishAudit(ctx context.Context, action, projectID string) {
	if s.events == nil {
		return
	}
	actorID := ""
	if session, ok := internal.SessionFromContext(ctx); ok {
		actorID = session.UserID
	}
	if err := s.events.Publish(ctx, events.NewEntityAudited(action, "project", projectID, actorID)); err != nil {
		s.logger.Warn("failed to publish audit event", "action", action, "project_id", projectID, "error", err)
	}
}
