package directory_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/frahmantamala/team-directory/internal"
	"github.com/frahmantamala/team-directory/internal/core/events"
	"github.com/frahmantamala/team-directory/internal/directory"
)

// Mock repository for testing
type mockDirectoryRepository struct {
	users       map[string]*directory.User
	order       []string
	policy      directory.RolePolicy
	createError error
	updateError error
	setError    error
}

func newMockDirectoryRepository() *mockDirectoryRepository {
	return &mockDirectoryRepository{
		users:  make(map[string]*directory.User),
		policy: directory.DefaultRolePolicy(),
	}
}

func (m *mockDirectoryRepository) add(u *directory.User) {
	m.users[u.ID] = u
	m.order = append(m.order, u.ID)
}

func (m *mockDirectoryRepository) GetAll(ctx context.Context) ([]*directory.User, error) {
	out := make([]*directory.User, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.users[id])
	}
	return out, nil
}

func (m *mockDirectoryRepository) GetByID(ctx context.Context, id string) (*directory.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (m *mockDirectoryRepository) GetByEmail(ctx context.Context, email string) (*directory.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *mockDirectoryRepository) Create(ctx context.Context, u *directory.User) error {
	if m.createError != nil {
		return m.createError
	}
	m.add(u)
	return nil
}

func (m *mockDirectoryRepository) Update(ctx context.Context, u *directory.User) error {
	if m.updateError != nil {
		return m.updateError
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockDirectoryRepository) Delete(ctx context.Context, id string) error {
	delete(m.users, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockDirectoryRepository) SetReportsTo(ctx context.Context, id string, reportsTo *string) error {
	if m.setError != nil {
		return m.setError
	}
	u, ok := m.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.ReportsTo = reportsTo
	return nil
}

func (m *mockDirectoryRepository) GetRolePolicy(ctx context.Context) (directory.RolePolicy, error) {
	return m.policy, nil
}

// Mock identity provider for testing
type mockIdentityProvider struct {
	provisionError error
	removed        []string
}

func (m *mockIdentityProvider) Provision(ctx context.Context, email, password string) (string, error) {
	if m.provisionError != nil {
		return "", m.provisionError
	}
	return "hashed:" + password, nil
}

func (m *mockIdentityProvider) Remove(ctx context.Context, userID string) error {
	m.removed = append(m.removed, userID)
	return nil
}

var _ = Describe("DirectoryService", func() {
	var (
		service  *directory.Service
		repo     *mockDirectoryRepository
		identity *mockIdentityProvider
		ctx      context.Context
	)

	BeforeEach(func() {
		repo = newMockDirectoryRepository()
		identity = &mockIdentityProvider{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = directory.NewService(repo, identity, nil, logger)
		ctx = context.Background()
	})

	Describe("CreateUser", func() {
		var dto directory.CreateUserDTO

		BeforeEach(func() {
			dto = directory.CreateUserDTO{
				Email:      "alice@mail.com",
				Password:   "secret-password",
				FullName:   "Alice Smith",
				Roles:      []string{directory.RoleDeveloper},
				Department: directory.DeptEngineering,
			}
		})

		It("provisions the identity and persists the user", func() {
			u, err := service.CreateUser(ctx, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(u.ID).ToNot(BeEmpty())
			Expect(u.PasswordHash).To(Equal("hashed:secret-password"))
			Expect(u.Status).To(Equal(directory.StatusActive))
			Expect(u.Permissions).To(ConsistOf("view_projects", "manage_tasks"))
			Expect(repo.users).To(HaveKey(u.ID))
		})

		It("folds a legacy single role into the role set", func() {
			dto.Roles = nil
			dto.Role = directory.RoleDeveloper

			u, err := service.CreateUser(ctx, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(u.Roles).To(Equal([]string{directory.RoleDeveloper}))
		})

		It("rejects a role the department does not allow", func() {
			dto.Roles = []string{directory.RoleSales}

			_, err := service.CreateUser(ctx, dto)

			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
		})

		It("rejects a duplicate email", func() {
			_, err := service.CreateUser(ctx, dto)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CreateUser(ctx, dto)
			Expect(err).To(HaveOccurred())
		})

		It("records an explicit permission override", func() {
			dto.Permissions = []string{"view_projects"}

			u, err := service.CreateUser(ctx, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(u.Permissions).To(Equal([]string{"view_projects"}))
			Expect(u.PermsOverridden).To(BeTrue())
		})

		It("fails with an upstream error when provisioning fails", func() {
			identity.provisionError = errors.New("provider down")

			_, err := service.CreateUser(ctx, dto)

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeExternal))
			Expect(repo.users).To(BeEmpty())
		})
	})

	Describe("UpdateUser", func() {
		BeforeEach(func() {
			repo.add(makeUser("u1", "Alice", directory.DeptEngineering, directory.RoleDeveloper))
		})

		It("recomputes default permissions when roles change", func() {
			u, err := service.UpdateUser(ctx, "u1", directory.UpdateUserDTO{
				Roles: []string{directory.RoleTeamLead},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.Permissions).To(ConsistOf("manage_team", "assign_tasks", "view_team_reports"))
		})

		It("keeps overridden permissions across role changes", func() {
			_, err := service.UpdateUser(ctx, "u1", directory.UpdateUserDTO{
				Permissions: []string{"view_projects"},
			})
			Expect(err).ToNot(HaveOccurred())

			u, err := service.UpdateUser(ctx, "u1", directory.UpdateUserDTO{
				Roles: []string{directory.RoleTeamLead},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(u.Permissions).To(Equal([]string{"view_projects"}))
		})

		It("validates roles against the new department", func() {
			dept := directory.DeptSales
			_, err := service.UpdateUser(ctx, "u1", directory.UpdateUserDTO{
				Department: &dept,
			})

			Expect(err).To(HaveOccurred())
		})

		It("returns not found for an unknown user", func() {
			_, err := service.UpdateUser(ctx, "ghost", directory.UpdateUserDTO{})
			Expect(err).To(Equal(apperrors.ErrUserNotFound))
		})
	})

	Describe("DeleteUser", func() {
		BeforeEach(func() {
			boss := makeUser("boss", "Boss", directory.DeptEngineering, directory.RoleTeamLead)
			sub := makeUser("sub", "Sub", directory.DeptEngineering, directory.RoleDeveloper)
			sub.ReportsTo = ref("boss")
			repo.add(boss)
			repo.add(sub)
		})

		It("removes the record and the authentication identity", func() {
			Expect(service.DeleteUser(ctx, "boss")).To(Succeed())
			Expect(repo.users).ToNot(HaveKey("boss"))
			Expect(identity.removed).To(ContainElement("boss"))
		})

		It("does not cascade reports-to references held by others", func() {
			Expect(service.DeleteUser(ctx, "boss")).To(Succeed())

			sub := repo.users["sub"]
			Expect(sub.ReportsTo).ToNot(BeNil())
			Expect(*sub.ReportsTo).To(Equal("boss"))

			snap, err := service.Snapshot(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(snap.ResolveDisplayName(*sub.ReportsTo)).To(Equal("Unknown"))
		})

		It("returns not found for an unknown user", func() {
			Expect(service.DeleteUser(ctx, "ghost")).To(Equal(apperrors.ErrUserNotFound))
		})
	})

	Describe("SetReportsTo", func() {
		BeforeEach(func() {
			director := makeUser("director", "Dana", directory.DeptEngineering, directory.RoleAdmin)
			lead := makeUser("lead", "Lee", directory.DeptEngineering, directory.RoleTeamLead)
			lead.ReportsTo = ref("director")
			worker := makeUser("worker", "Wes", directory.DeptEngineering, directory.RoleDeveloper)
			worker.ReportsTo = ref("lead")
			repo.add(director)
			repo.add(lead)
			repo.add(worker)
		})

		It("commits a valid assignment", func() {
			Expect(service.SetReportsTo(ctx, "worker", ref("director"))).To(Succeed())
			Expect(*repo.users["worker"].ReportsTo).To(Equal("director"))
		})

		It("always allows detaching", func() {
			Expect(service.SetReportsTo(ctx, "worker", nil)).To(Succeed())
			Expect(repo.users["worker"].ReportsTo).To(BeNil())
		})

		It("rejects self-assignment without touching the store", func() {
			err := service.SetReportsTo(ctx, "worker", ref("worker"))

			Expect(err).To(Equal(apperrors.ErrSelfReport))
			Expect(*repo.users["worker"].ReportsTo).To(Equal("lead"))
		})

		It("rejects a cycle-inducing assignment without touching the store", func() {
			err := service.SetReportsTo(ctx, "director", ref("worker"))

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeHierarchyCycle))
			Expect(repo.users["director"].ReportsTo).To(BeNil())
		})

		It("rejects an unknown superior", func() {
			err := service.SetReportsTo(ctx, "worker", ref("ghost"))

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeNotFound))
		})
	})

	Describe("BulkReassign", func() {
		BeforeEach(func() {
			director := makeUser("director", "Dana", directory.DeptEngineering, directory.RoleAdmin)
			lead := makeUser("lead", "Lee", directory.DeptEngineering, directory.RoleTeamLead)
			lead.ReportsTo = ref("director")
			worker := makeUser("worker", "Wes", directory.DeptEngineering, directory.RoleDeveloper)
			worker.ReportsTo = ref("lead")
			loner := makeUser("loner", "Lou", directory.DeptDesign, directory.RoleDesigner)
			repo.add(director)
			repo.add(lead)
			repo.add(worker)
			repo.add(loner)
		})

		It("applies valid ids and reports invalid ones, partitioning the input", func() {
			input := []string{"worker", "loner", "director", "lead", "ghost"}
			result, err := service.BulkReassign(ctx, directory.BulkReassignDTO{
				UserIDs:   input,
				ReportsTo: "lead",
			})

			Expect(err).ToNot(HaveOccurred())
			// worker and loner reassign fine; lead is the target itself;
			// director would close a cycle; ghost does not exist
			Expect(result.Applied).To(ConsistOf("worker", "loner"))
			Expect(result.Rejected).To(HaveKey("director"))
			Expect(result.Rejected).To(HaveKey("lead"))
			Expect(result.Rejected).To(HaveKey("ghost"))
			Expect(len(result.Applied) + len(result.Rejected)).To(Equal(len(input)))

			Expect(*repo.users["worker"].ReportsTo).To(Equal("lead"))
			Expect(*repo.users["loner"].ReportsTo).To(Equal("lead"))
			Expect(repo.users["director"].ReportsTo).To(BeNil())
		})

		It("fails whole when the target superior does not exist", func() {
			_, err := service.BulkReassign(ctx, directory.BulkReassignDTO{
				UserIDs:   []string{"worker"},
				ReportsTo: "ghost",
			})

			Expect(err).To(HaveOccurred())
		})

		It("validates later ids against already-applied assignments", func() {
			// assigning loner under worker, then worker under loner must
			// reject the second edge as a cycle through the fresh one
			result, err := service.BulkReassign(ctx, directory.BulkReassignDTO{
				UserIDs:   []string{"loner"},
				ReportsTo: "worker",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Applied).To(ConsistOf("loner"))

			result, err = service.BulkReassign(ctx, directory.BulkReassignDTO{
				UserIDs:   []string{"worker"},
				ReportsTo: "loner",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Rejected).To(HaveKey("worker"))
		})
	})

	Describe("GetSessionPermissions", func() {
		BeforeEach(func() {
			repo.add(makeUser("u1", "Alice", directory.DeptEngineering, directory.RoleDeveloper))
		})

		It("serves from the repository and then from cache", func() {
			perms, err := service.GetSessionPermissions(ctx, "u1")
			Expect(err).ToNot(HaveOccurred())
			Expect(perms).To(ConsistOf("view_projects", "manage_tasks"))

			// mutate the stored record; the cached set must still win
			repo.users["u1"].Permissions = []string{"something_else"}
			perms, err = service.GetSessionPermissions(ctx, "u1")
			Expect(err).ToNot(HaveOccurred())
			Expect(perms).To(ConsistOf("view_projects", "manage_tasks"))
		})

		It("propagates not found for unknown sessions", func() {
			_, err := service.GetSessionPermissions(ctx, "ghost")
			Expect(err).To(Equal(apperrors.ErrUserNotFound))
		})
	})

	Describe("session hooks", func() {
		var bus *events.EventBus

		BeforeEach(func() {
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			bus = events.NewEventBus(logger)
			service.RegisterSessionHooks(bus)
			repo.add(makeUser("u1", "Alice", directory.DeptEngineering, directory.RoleDeveloper))
		})

		It("warms the permission cache on login", func() {
			Expect(bus.PublishSync(ctx, events.NewSessionChanged("u1", "login"))).To(Succeed())

			// cache is warm: a stale store no longer matters
			repo.users["u1"].Permissions = []string{"something_else"}
			perms, err := service.GetSessionPermissions(ctx, "u1")
			Expect(err).ToNot(HaveOccurred())
			Expect(perms).To(ConsistOf("view_projects", "manage_tasks"))
		})

		It("evicts the cached set on logout", func() {
			_, err := service.GetSessionPermissions(ctx, "u1")
			Expect(err).ToNot(HaveOccurred())
			repo.users["u1"].Permissions = []string{"fresh_permission"}

			Expect(bus.PublishSync(ctx, events.NewSessionChanged("u1", "logout"))).To(Succeed())

			perms, err := service.GetSessionPermissions(ctx, "u1")
			Expect(err).ToNot(HaveOccurred())
			Expect(perms).To(ConsistOf("fresh_permission"))
		})

		It("ignores malformed session events", func() {
			Expect(bus.PublishSync(ctx, events.NewSessionChanged("", "login"))).To(Succeed())
		})
	})
})
