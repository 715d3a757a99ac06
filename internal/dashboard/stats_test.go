package dashboard_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/team-directory/internal/activity"
	"github.com/frahmantamala/team-directory/internal/dashboard"
	"github.com/frahmantamala/team-directory/internal/directory"
	"github.com/frahmantamala/team-directory/internal/project"
	"github.com/frahmantamala/team-directory/internal/task"
)

func TestDashboard(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dashboard Suite")
}

// Mock snapshot sources for testing
type mockDirectorySource struct {
	users         []*directory.User
	snapshotError error
}

func (m *mockDirectorySource) Snapshot(ctx context.Context) (*directory.Directory, error) {
	if m.snapshotError != nil {
		return nil, m.snapshotError
	}
	return directory.NewDirectory(m.users), nil
}

type mockActivitySource struct {
	entries []*activity.Entry
}

func (m *mockActivitySource) MostRecent(ctx context.Context, limit int) ([]*activity.Entry, error) {
	return m.entries, nil
}

func dueOn(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

var _ = Describe("ProjectStats", func() {
	It("returns all zeros for an empty snapshot", func() {
		stats := dashboard.ComputeProjectStats(nil)
		Expect(stats).To(Equal(dashboard.ProjectStats{}))
	})

	It("buckets projects by status", func() {
		projects := []*project.Project{
			{ID: "p1", Status: project.StatusActive},
			{ID: "p2", Status: project.StatusActive},
			{ID: "p3", Status: project.StatusCompleted},
			{ID: "p4", Status: project.StatusDelayed},
		}

		stats := dashboard.ComputeProjectStats(projects)

		Expect(stats.Total).To(Equal(4))
		Expect(stats.Active).To(Equal(2))
		Expect(stats.Completed).To(Equal(1))
		Expect(stats.Delayed).To(Equal(1))
	})

	It("counts an unknown status toward the total only", func() {
		projects := []*project.Project{
			{ID: "p1", Status: "archived"},
		}

		stats := dashboard.ComputeProjectStats(projects)

		Expect(stats.Total).To(Equal(1))
		Expect(stats.Active).To(BeZero())
		Expect(stats.Completed).To(BeZero())
		Expect(stats.Delayed).To(BeZero())
	})
})

var _ = Describe("TaskStats", func() {
	It("derives overdue independently of the status buckets", func() {
		now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
		tasks := []*task.Task{
			{ID: "t1", Status: task.StatusPending, DueDate: dueOn(2024, 6, 1)},
			{ID: "t2", Status: task.StatusCompleted, DueDate: dueOn(2024, 6, 1)},
			{ID: "t3", Status: task.StatusInProgress, DueDate: dueOn(2024, 7, 1)},
		}

		stats := dashboard.ComputeTaskStats(tasks, now)

		Expect(stats.Total).To(Equal(3))
		Expect(stats.Pending).To(Equal(1))
		Expect(stats.InProgress).To(Equal(1))
		Expect(stats.Completed).To(Equal(1))
		// only t1: past due and not completed
		Expect(stats.Overdue).To(Equal(1))
	})

	It("never counts a task without a due date as overdue", func() {
		now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
		tasks := []*task.Task{
			{ID: "t1", Status: task.StatusPending},
		}

		stats := dashboard.ComputeTaskStats(tasks, now)

		Expect(stats.Pending).To(Equal(1))
		Expect(stats.Overdue).To(BeZero())
	})

	It("treats a due date equal to now as not overdue", func() {
		now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
		tasks := []*task.Task{
			{ID: "t1", Status: task.StatusPending, DueDate: &now},
		}

		stats := dashboard.ComputeTaskStats(tasks, now)

		Expect(stats.Overdue).To(BeZero())
	})
})

var _ = Describe("TeamStats", func() {
	It("builds department and role distributions in one pass", func() {
		users := []*directory.User{
			{ID: "u1", Department: directory.DeptEngineering, Roles: []string{directory.RoleDeveloper}, ActiveProjects: 2},
			{ID: "u2", Department: directory.DeptEngineering, Roles: []string{directory.RoleTeamLead, directory.RoleDeveloper}, ActiveProjects: 1},
			{ID: "u3", Department: directory.DeptDesign, Roles: []string{directory.RoleDesigner}},
		}

		stats := dashboard.ComputeTeamStats(users)

		Expect(stats.TotalMembers).To(Equal(3))
		Expect(stats.DepartmentDistribution).To(Equal(map[string]int{
			directory.DeptEngineering: 2,
			directory.DeptDesign:      1,
		}))
		// u2 holds two roles and increments both counters
		Expect(stats.RoleDistribution).To(Equal(map[string]int{
			directory.RoleDeveloper: 2,
			directory.RoleTeamLead:  1,
			directory.RoleDesigner:  1,
		}))
		Expect(stats.ActiveProjects).To(Equal(3))
	})

	It("skips empty departments in the distribution", func() {
		users := []*directory.User{
			{ID: "u1", Roles: []string{directory.RoleMember}},
		}

		stats := dashboard.ComputeTeamStats(users)

		Expect(stats.TotalMembers).To(Equal(1))
		Expect(stats.DepartmentDistribution).To(BeEmpty())
	})
})

var _ = Describe("RecentActivity", func() {
	entryAt := func(id string, at time.Time) *activity.Entry {
		return &activity.Entry{ID: id, Action: "update", EntityType: "user", CreatedAt: at}
	}

	It("returns newest first and truncates to the limit", func() {
		base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		entries := []*activity.Entry{
			entryAt("a", base),
			entryAt("b", base.Add(2*time.Hour)),
			entryAt("c", base.Add(time.Hour)),
		}

		recent := dashboard.RecentActivity(entries, 2)

		Expect(recent).To(HaveLen(2))
		Expect(recent[0].ID).To(Equal("b"))
		Expect(recent[1].ID).To(Equal("c"))
		// input order is untouched
		Expect(entries[0].ID).To(Equal("a"))
	})

	It("keeps the input order for timestamp ties", func() {
		at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		entries := []*activity.Entry{
			entryAt("first", at),
			entryAt("second", at),
		}

		recent := dashboard.RecentActivity(entries, 10)

		Expect(recent[0].ID).To(Equal("first"))
		Expect(recent[1].ID).To(Equal("second"))
	})

	It("resolves actor names from the directory at read time", func() {
		entries := []*activity.Entry{
			{ID: "a", Action: "create", EntityType: "user", ActorID: "u1", CreatedAt: time.Now()},
			{ID: "b", Action: "delete", EntityType: "team", ActorID: "departed", CreatedAt: time.Now()},
			{ID: "c", Action: "seed", EntityType: "user", CreatedAt: time.Now()},
		}
		dir := &mockDirectorySource{users: []*directory.User{
			{ID: "u1", FullName: "Alice Smith"},
		}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := dashboard.NewService(logger, nil, nil, dir, &mockActivitySource{entries: entries}, 10)

		recent, err := service.Activity(context.Background())

		Expect(err).ToNot(HaveOccurred())
		byID := make(map[string]*activity.Entry)
		for _, e := range recent {
			byID[e.ID] = e
		}
		Expect(byID["a"].ActorName).To(Equal("Alice Smith"))
		Expect(byID["b"].ActorName).To(Equal("Unknown"))
		// entries without an actor stay unattributed
		Expect(byID["c"].ActorName).To(BeEmpty())
	})

	It("serves the feed unresolved when the directory snapshot fails", func() {
		entries := []*activity.Entry{
			{ID: "a", Action: "create", EntityType: "user", ActorID: "u1", CreatedAt: time.Now()},
		}
		dir := &mockDirectorySource{snapshotError: errors.New("store down")}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := dashboard.NewService(logger, nil, nil, dir, &mockActivitySource{entries: entries}, 10)

		recent, err := service.Activity(context.Background())

		Expect(err).ToNot(HaveOccurred())
		Expect(recent).To(HaveLen(1))
		Expect(recent[0].ActorName).To(BeEmpty())
	})

	It("defaults the limit to ten when unset", func() {
		base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		entries := make([]*activity.Entry, 0, 12)
		for i := 0; i < 12; i++ {
			entries = append(entries, entryAt(string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute)))
		}

		recent := dashboard.RecentActivity(entries, 0)

		Expect(recent).To(HaveLen(10))
		Expect(recent[0].CreatedAt).To(Equal(base.Add(11 * time.Minute)))
	})
})
