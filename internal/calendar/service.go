package calendar

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/team-directory/internal/project"
	"github.com/frahmantamala/team-directory/internal/task"
)

type ProjectSource interface {
	GetProjects(ctx context.Context) ([]*project.Project, error)
}

type TaskSource interface {
	GetTasks(ctx context.Context, assignedTo string) ([]*task.Task, error)
}

type Service struct {
	projects ProjectSource
	tasks    TaskSource
	logger   *slog.Logger
}

func NewService(logger *slog.Logger, projects ProjectSource, tasks TaskSource) *Service {
	return &Service{
		projects: projects,
		tasks:    tasks,
		logger:   logger,
	}
}

func (s *Service) Events(ctx context.Context) ([]Event, error) {
	tasks, err := s.tasks.GetTasks(ctx, "")
	if err != nil {
		s.logger.Error("Events: task snapshot error", "error", err)
		return nil, err
	}
	projects, err := s.projects.GetProjects(ctx)
	if err != nil {
		s.logger.Error("Events: project snapshot error", "error", err)
		return nil, err
	}
	return Project(tasks, projects), nil
}
