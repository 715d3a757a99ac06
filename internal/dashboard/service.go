package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/team-directory/internal/activity"
	"github.com/frahmantamala/team-directory/internal/directory"
	"github.com/frahmantamala/team-directory/internal/project"
	"github.com/frahmantamala/team-directory/internal/task"
)

type ProjectSource interface {
	GetProjects(ctx context.Context) ([]*project.Project, error)
}

type TaskSource interface {
	GetTasks(ctx context.Context, assignedTo string) ([]*task.Task, error)
}

type DirectorySource interface {
	Snapshot(ctx context.Context) (*directory.Directory, error)
}

type ActivitySource interface {
	MostRecent(ctx context.Context, limit int) ([]*activity.Entry, error)
}

type Service struct {
	projects  ProjectSource
	tasks     TaskSource
	directory DirectorySource
	activity  ActivitySource
	logger    *slog.Logger

	activityLimit int
}

func NewService(logger *slog.Logger, projects ProjectSource, tasks TaskSource, dir DirectorySource, act ActivitySource, activityLimit int) *Service {
	if activityLimit <= 0 {
		activityLimit = 10
	}
	return &Service{
		projects:      projects,
		tasks:         tasks,
		directory:     dir,
		activity:      act,
		logger:        logger,
		activityLimit: activityLimit,
	}
}

func (s *Service) ProjectStats(ctx context.Context) (ProjectStats, error) {
	projects, err := s.projects.GetProjects(ctx)
	if err != nil {
		s.logger.Error("ProjectStats: snapshot error", "error", err)
		return ProjectStats{}, err
	}
	return ComputeProjectStats(projects), nil
}

func (s *Service) TaskStats(ctx context.Context) (TaskStats, error) {
	tasks, err := s.tasks.GetTasks(ctx, "")
	if err != nil {
		s.logger.Error("TaskStats: snapshot error", "error", err)
		return TaskStats{}, err
	}
	return ComputeTaskStats(tasks, time.Now()), nil
}

func (s *Service) TeamStats(ctx context.Context) (TeamStats, error) {
	snap, err := s.directory.Snapshot(ctx)
	if err != nil {
		s.logger.Error("TeamStats: snapshot error", "error", err)
		return TeamStats{}, err
	}
	return ComputeTeamStats(snap.Users()), nil
}

func (s *Service) Activity(ctx context.Context) ([]*activity.Entry, error) {
	entries, err := s.activity.MostRecent(ctx, s.activityLimit)
	if err != nil {
		s.logger.Error("Activity: repository error", "error", err)
		return nil, err
	}
	recent := RecentActivity(entries, s.activityLimit)

	// actor names are presentation-only; a failed snapshot degrades to
	// unresolved names instead of failing the feed
	snap, err := s.directory.Snapshot(ctx)
	if err != nil {
		s.logger.Warn("Activity: could not resolve actor names", "error", err)
		return recent, nil
	}
	for _, e := range recent {
		if e.ActorID != "" {
			e.ActorName = snap.ResolveDisplayName(e.ActorID)
		}
	}
	return recent, nil
}

// Overview bundles the four dashboard rollups. Each snapshot is
// fetched concurrently and independently, so the numbers may reflect
// slightly different instants; the dashboard tolerates that skew.
type Overview struct {
	Projects ProjectStats      `json:"projects"`
	Tasks    TaskStats         `json:"tasks"`
	Team     TeamStats         `json:"team"`
	Activity []*activity.Entry `json:"activity"`
}

func (s *Service) GetOverview(ctx context.Context) (*Overview, error) {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		overview  Overview
		firstErr  error
	)

	recordErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		stats, err := s.ProjectStats(ctx)
		if err != nil {
			recordErr(err)
			return
		}
		overview.Projects = stats
	}()
	go func() {
		defer wg.Done()
		stats, err := s.TaskStats(ctx)
		if err != nil {
			recordErr(err)
			return
		}
		overview.Tasks = stats
	}()
	go func() {
		defer wg.Done()
		stats, err := s.TeamStats(ctx)
		if err != nil {
			recordErr(err)
			return
		}
		overview.Team = stats
	}()
	go func() {
		defer wg.Done()
		entries, err := s.Activity(ctx)
		if err != nil {
			recordErr(err)
			return
		}
		overview.Activity = entries
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return &overview, nil
}
