package dashboard

import (
	"sort"
	"time"

	"github.com/frahmantamala/team-directory/internal/activity"
	"github.com/frahmantamala/team-directory/internal/directory"
	"github.com/frahmantamala/team-directory/internal/project"
	"github.com/frahmantamala/team-directory/internal/task"
)

// The rollups below are pure functions over a snapshot: no mutation,
// no caching, every call re-derives from the slices passed in.

type ProjectStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Delayed   int `json:"delayed"`
}

// ComputeProjectStats counts projects by exact status match. A project
// with an unknown status counts only toward Total.
func ComputeProjectStats(projects []*project.Project) ProjectStats {
	stats := ProjectStats{Total: len(projects)}
	for _, p := range projects {
		switch p.Status {
		case project.StatusActive:
			stats.Active++
		case project.StatusCompleted:
			stats.Completed++
		case project.StatusDelayed:
			stats.Delayed++
		}
	}
	return stats
}

type TaskStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`
}

// ComputeTaskStats counts tasks by stored status. Overdue is derived
// independently: due strictly before now and not completed, so one
// task can count toward both pending and overdue. Tasks with no due
// date count in Total and their status bucket only.
func ComputeTaskStats(tasks []*task.Task, now time.Time) TaskStats {
	stats := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case task.StatusPending:
			stats.Pending++
		case task.StatusInProgress:
			stats.InProgress++
		case task.StatusCompleted:
			stats.Completed++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
	}
	return stats
}

type TeamStats struct {
	TotalMembers           int            `json:"total_members"`
	ActiveProjects         int            `json:"active_projects"`
	DepartmentDistribution map[string]int `json:"department_distribution"`
	RoleDistribution       map[string]int `json:"role_distribution"`
}

// ComputeTeamStats builds frequency maps over one pass of the user
// set; a multi-role user increments every role counter it holds.
// ActiveProjects is an additive sum of the per-user counter field, a
// documented metric independent of actual project membership counts.
func ComputeTeamStats(users []*directory.User) TeamStats {
	stats := TeamStats{
		TotalMembers:           len(users),
		DepartmentDistribution: make(map[string]int),
		RoleDistribution:       make(map[string]int),
	}
	for _, u := range users {
		if u.Department != "" {
			stats.DepartmentDistribution[u.Department]++
		}
		for _, role := range u.Roles {
			stats.RoleDistribution[role]++
		}
		stats.ActiveProjects += u.ActiveProjects
	}
	return stats
}

// RecentActivity returns the limit most recent entries, newest first.
// The sort is stable so ties keep the store's natural return order.
func RecentActivity(entries []*activity.Entry, limit int) []*activity.Entry {
	if limit <= 0 {
		limit = 10
	}
	sorted := make([]*activity.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
