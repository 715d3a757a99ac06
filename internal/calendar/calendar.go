package calendar

import (
	"sort"
	"time"

	"github.com/frahmantamala/team-directory/internal/project"
	"github.com/frahmantamala/team-directory/internal/task"
)

const (
	KindTask    = "task"
	KindProject = "project"
)

// Event is the derived calendar entry. Rebuilt on every query, never
// persisted. Kind discriminates the payload: tasks carry an assignee,
// projects do not.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end,omitempty"`
	AllDay      bool       `json:"all_day"`
	Kind        string     `json:"kind"`
	Status      string     `json:"status"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
}

// Project merges tasks and projects into one event sequence ordered
// ascending by start date. Records without a resolvable date are
// skipped silently; a bad record never fails the whole projection.
func Project(tasks []*task.Task, projects []*project.Project) []Event {
	events := make([]Event, 0, len(tasks)+len(projects))

	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		events = append(events, Event{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Start:       *t.DueDate,
			AllDay:      true,
			Kind:        KindTask,
			Status:      t.Status,
			AssignedTo:  t.AssignedTo,
		})
	}

	for _, p := range projects {
		if p.Deadline == nil {
			continue
		}
		events = append(events, Event{
			ID:          p.ID,
			Title:       p.Name,
			Description: p.Description,
			Start:       *p.Deadline,
			AllDay:      true,
			Kind:        KindProject,
			Status:      p.Status,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events
}
