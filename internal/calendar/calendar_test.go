package calendar_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/team-directory/internal/calendar"
	"github.com/frahmantamala/team-directory/internal/project"
	"github.com/frahmantamala/team-directory/internal/task"
)

func TestCalendar(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Calendar Suite")
}

func dateOf(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

var _ = Describe("Projection", func() {
	It("skips records without a resolvable date", func() {
		tasks := []*task.Task{
			{ID: "t1", Title: "no due date", Status: task.StatusPending},
		}
		projects := []*project.Project{
			{ID: "p1", Name: "release", Status: project.StatusActive, Deadline: dateOf(2024, 7, 1)},
		}

		events := calendar.Project(tasks, projects)

		Expect(events).To(HaveLen(1))
		Expect(events[0].ID).To(Equal("p1"))
		Expect(events[0].Kind).To(Equal(calendar.KindProject))
	})

	It("orders merged events ascending by start date", func() {
		tasks := []*task.Task{
			{ID: "t1", Title: "later task", Status: task.StatusPending, DueDate: dateOf(2024, 7, 10)},
			{ID: "t2", Title: "earlier task", Status: task.StatusInProgress, DueDate: dateOf(2024, 7, 1)},
		}
		projects := []*project.Project{
			{ID: "p1", Name: "mid project", Status: project.StatusActive, Deadline: dateOf(2024, 7, 5)},
		}

		events := calendar.Project(tasks, projects)

		Expect(events).To(HaveLen(3))
		Expect(events[0].ID).To(Equal("t2"))
		Expect(events[1].ID).To(Equal("p1"))
		Expect(events[2].ID).To(Equal("t1"))
	})

	It("carries the assignee on task events only", func() {
		tasks := []*task.Task{
			{ID: "t1", Title: "review", Description: "code review", Status: task.StatusPending,
				DueDate: dateOf(2024, 7, 1), AssignedTo: "u1"},
		}
		projects := []*project.Project{
			{ID: "p1", Name: "launch", Description: "q3 launch", Status: project.StatusActive,
				Deadline: dateOf(2024, 7, 2)},
		}

		events := calendar.Project(tasks, projects)

		Expect(events[0]).To(Equal(calendar.Event{
			ID:          "t1",
			Title:       "review",
			Description: "code review",
			Start:       *dateOf(2024, 7, 1),
			AllDay:      true,
			Kind:        calendar.KindTask,
			Status:      task.StatusPending,
			AssignedTo:  "u1",
		}))
		Expect(events[1].Kind).To(Equal(calendar.KindProject))
		Expect(events[1].AssignedTo).To(BeEmpty())
		Expect(events[1].AllDay).To(BeTrue())
	})

	It("returns an empty sequence for empty inputs", func() {
		Expect(calendar.Project(nil, nil)).To(BeEmpty())
	})
})
