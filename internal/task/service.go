package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	internal "github.com/frahmantamala/team-directory/internal"
	"github.com/frahmantamala/team-directory/internal/core/events"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*Task, error)
	GetByID(ctx context.Context, id string) (*Task, error)
	GetByAssignee(ctx context.Context, userID string) ([]*Task, error)
	Create(ctx context.Context, t *Task) error
	Update(ctx context.Context, t *Task) error
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

func (s *Service) GetTasks(ctx context.Context, assignedTo string) ([]*Task, error) {
	var tasks []*Task
	var err error
	if assignedTo != "" {
		tasks, err = s.repo.GetByAssignee(ctx, assignedTo)
	} else {
		tasks, err = s.repo.GetAll(ctx)
	}
	if err != nil {
		s.logger.Error("GetTasks: repository error", "error", err)
		return nil, err
	}
	return tasks, nil
}

func (s *Service) GetTask(ctx context.Context, id string) (*Task, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) CreateTask(ctx context.Context, dto CreateTaskDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	dueDate, err := ParseDueDate(dto.DueDate)
	if err != nil {
		return nil, err
	}

	status := dto.Status
	if status == "" {
		status = StatusPending
	}

	t := &Task{
		ID:          uuid.NewString(),
		Title:       dto.Title,
		Description: dto.Description,
		Status:      status,
		DueDate:     dueDate,
		ProjectID:   dto.ProjectID,
		AssignedTo:  dto.AssignedTo,
		CreatedAt:   time.Now(),
	}
	if session, ok := internal.SessionFromContext(ctx); ok {
		t.CreatedBy = session.UserID
	}

	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("CreateTask: repository error", "error", err, "title", dto.Title)
		return nil, err
	}

	s.publishAudit(ctx, "task_created", t.ID)
	return t, nil
}

func (s *Service) UpdateTask(ctx context.Context, id string, dto UpdateTaskDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ownerGuard(ctx, t.CreatedBy); err != nil {
		return nil, err
	}

	if dto.Title != nil {
		t.Title = *dto.Title
	}
	if dto.Description != nil {
		t.Description = *dto.Description
	}
	if dto.Status != nil {
		t.Status = *dto.Status
	}
	if dto.DueDate != nil {
		dueDate, err := ParseDueDate(*dto.DueDate)
		if err != nil {
			return nil, err
		}
		t.DueDate = dueDate
	}
	if dto.ProjectID != nil {
		t.ProjectID = *dto.ProjectID
	}
	if dto.AssignedTo != nil {
		t.AssignedTo = *dto.AssignedTo
	}

	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("UpdateTask: repository error", "error", err, "task_id", id)
		return nil, err
	}

	s.publishAudit(ctx, "task_updated", id)
	return t, nil
}

func (s *Service) DeleteTask(ctx context.Context, id string) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ownerGuard(ctx, t.CreatedBy); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("DeleteTask: repository error", "error", err, "task_id", id)
		return err
	}

	s.publishAudit(ctx, "task_deleted", id)
	return nil
}

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

func (s *Service) publishAudit(ctx context.Context, action, taskID string) {
	if s.events == nil {
		return
	}
	actorID := ""
	if session, ok := internal.SessionFromContext(ctx); ok {
		actorID = session.UserID
	}
	if err := s.events.Publish(ctx, events.NewEntityAudited(action, "task", taskID, actorID)); err != nil {
		s.logger.Warn("failed to publish audit event", "action", action, "task_id", taskID, "error", err)
	}
}
