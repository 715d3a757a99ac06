package directory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	errors "github.com/frahmantamala/team-directory/internal"
	"github.com/frahmantamala/team-directory/internal/core/events"
)

// Repository is the document-store adaptor boundary for users and the
// role policy table. The store owns persistence; the service only holds
// working copies for the duration of a computation.
type Repository interface {
	GetAll(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	SetReportsTo(ctx context.Context, id string, reportsTo *string) error
	GetRolePolicy(ctx context.Context) (RolePolicy, error)
}

// IdentityProvider is the authentication collaborator: it provisions a
// credential when a directory user is created and removes the identity
// when the user is deleted.
type IdentityProvider interface {
	Provision(ctx context.Context, email, password string) (credential string, err error)
	Remove(ctx context.Context, userID string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo     Repository
	identity IdentityProvider
	bus      EventPublisher
	logger   *slog.Logger

	// permissions cached per active session, refreshed on
	// session-changed events rather than read from global state
	permMu    sync.RWMutex
	permCache map[string][]string
}

func NewService(repo Repository, identity IdentityProvider, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		identity:  identity,
		bus:       bus,
		logger:    logger,
		permCache: make(map[string][]string),
	}
}

// SetIdentityProvider wires the auth collaborator after construction.
// The two services reference each other, so one side is attached late.
func (s *Service) SetIdentityProvider(identity IdentityProvider) {
	s.identity = identity
}

// Snapshot loads the full directory for one computation.
func (s *Service) Snapshot(ctx context.Context) (*Directory, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, errors.NewUpstreamError("failed to load directory", err)
	}
	return NewDirectory(users), nil
}

func (s *Service) GetUsers(ctx context.Context, filter UserFilterDTO) ([]*User, error) {
	dir, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return dir.FilterUsers(filter.Search, filter.Role, filter.Department), nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) CreateUser(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("user validation failed", "error", err, "email", dto.Email)
		return nil, err
	}

	policy, err := s.repo.GetRolePolicy(ctx)
	if err != nil {
		return nil, errors.NewUpstreamError("failed to load role policy", err)
	}
	for _, role := range dto.Roles {
		if !policy.RoleAllowedInDepartment(role, dto.Department) {
			return nil, errors.NewValidationFieldError("roles",
				"role "+role+" is not allowed in department "+dto.Department,
				errors.ErrCodeInvalidRole)
		}
	}

	if existing, err := s.repo.GetByEmail(ctx, dto.Email); err == nil && existing != nil {
		return nil, errors.NewValidationFieldError("email", "email is already in use", errors.ErrCodeValidationFailed)
	}

	if dto.ReportsTo != nil && *dto.ReportsTo != "" {
		if _, err := s.repo.GetByID(ctx, *dto.ReportsTo); err != nil {
			return nil, errors.NewValidationFieldError("reports_to", "superior does not exist", errors.ErrCodeUserNotFound)
		}
	}

	// provision the authentication identity first; the directory
	// record is only written once the credential exists
	credential, err := s.identity.Provision(ctx, dto.Email, dto.Password)
	if err != nil {
		s.logger.Error("identity provisioning failed", "error", err, "email", dto.Email)
		return nil, errors.NewUpstreamError("failed to provision authentication identity", err)
	}

	permissions := dto.Permissions
	overridden := len(permissions) > 0
	if !overridden {
		permissions = PermissionsForRoles(dto.Roles)
	}

	now := time.Now()
	u := &User{
		ID:              uuid.NewString(),
		Email:           dto.Email,
		FullName:        dto.FullName,
		PasswordHash:    credential,
		Roles:           dto.Roles,
		Department:      dto.Department,
		Status:          StatusActive,
		Permissions:     permissions,
		ReportsTo:       normalizeRef(dto.ReportsTo),
		PermsOverridden: overridden,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, errors.NewUpstreamError("failed to persist user", err)
	}

	s.publishAudit(ctx, "create", "user", u.ID)
	s.logger.Info("user created", "user_id", u.ID, "department", u.Department, "roles", u.Roles)
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.FullName != nil {
		u.FullName = *dto.FullName
	}
	if dto.Department != nil {
		u.Department = *dto.Department
	}
	if dto.Status != nil {
		u.Status = *dto.Status
	}

	rolesChanged := false
	if len(dto.Roles) > 0 {
		u.Roles = dto.Roles
		rolesChanged = true
	}

	if rolesChanged || dto.Department != nil {
		policy, err := s.repo.GetRolePolicy(ctx)
		if err != nil {
			return nil, errors.NewUpstreamError("failed to load role policy", err)
		}
		for _, role := range u.Roles {
			if !policy.RoleAllowedInDepartment(role, u.Department) {
				return nil, errors.NewValidationFieldError("roles",
					"role "+role+" is not allowed in department "+u.Department,
					errors.ErrCodeInvalidRole)
			}
		}
	}

	if len(dto.Permissions) > 0 {
		// explicit override: sticks until the next explicit update
		u.Permissions = dto.Permissions
		u.PermsOverridden = true
	} else if rolesChanged && !u.PermsOverridden {
		u.Permissions = PermissionsForRoles(u.Roles)
	}

	if dto.ClearReportsTo {
		u.ReportsTo = nil
	} else if dto.ReportsTo != nil {
		ref := normalizeRef(dto.ReportsTo)
		if err := s.validateReportsTo(ctx, id, ref); err != nil {
			return nil, err
		}
		u.ReportsTo = ref
	}

	u.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, errors.NewUpstreamError("failed to persist user update", err)
	}

	s.invalidateSessionPermissions(u.ID)
	s.publishAudit(ctx, "update", "user", u.ID)
	return u, nil
}

// DeleteUser removes the directory record and the authentication
// identity. ReportsTo references held by other users and team
// memberships are not cascaded; they resolve to "Unknown" at read time.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewUpstreamError("failed to delete user", err)
	}

	if err := s.identity.Remove(ctx, id); err != nil {
		// the directory record is already gone; surface but don't undo
		s.logger.Error("failed to remove authentication identity", "user_id", id, "error", err)
	}

	s.invalidateSessionPermissions(id)
	s.publishAudit(ctx, "delete", "user", id)
	return nil
}

// SetReportsTo validates and commits a single hierarchy assignment.
// Detaching (nil superior) always succeeds; self-assignment and cycles
// are rejected and leave the store untouched.
func (s *Service) SetReportsTo(ctx context.Context, userID string, newSuperiorID *string) error {
	if newSuperiorID == nil {
		if _, err := s.repo.GetByID(ctx, userID); err != nil {
			return err
		}
		return s.repo.SetReportsTo(ctx, userID, nil)
	}

	if err := s.validateReportsTo(ctx, userID, newSuperiorID); err != nil {
		return err
	}

	if err := s.repo.SetReportsTo(ctx, userID, newSuperiorID); err != nil {
		return errors.NewUpstreamError("failed to persist hierarchy assignment", err)
	}
	s.publishAudit(ctx, "reassign", "user", userID)
	return nil
}

func (s *Service) validateReportsTo(ctx context.Context, userID string, newSuperiorID *string) error {
	if newSuperiorID == nil {
		return nil
	}
	if *newSuperiorID == userID {
		return errors.ErrSelfReport
	}

	dir, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	if _, ok := dir.FindUser(userID); !ok {
		return errors.ErrUserNotFound
	}
	if _, ok := dir.FindUser(*newSuperiorID); !ok {
		return errors.NewNotFoundError("superior not found", errors.ErrCodeUserNotFound)
	}
	if dir.WouldCycle(userID, *newSuperiorID) {
		return errors.NewCycleError("assignment would create a reporting cycle")
	}
	return nil
}

// BulkReassign applies the assignment independently per id: the store
// offers no multi-document transaction, so partial success is expected
// and reported per id rather than rolled back.
func (s *Service) BulkReassign(ctx context.Context, dto BulkReassignDTO) (*BulkReassignResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dir, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := dir.FindUser(dto.ReportsTo); !ok {
		return nil, errors.NewNotFoundError("superior not found", errors.ErrCodeUserNotFound)
	}

	result := &BulkReassignResult{
		Applied:  make([]string, 0, len(dto.UserIDs)),
		Rejected: make(map[string]string),
	}

	for _, userID := range dto.UserIDs {
		u, ok := dir.FindUser(userID)
		if !ok {
			result.Rejected[userID] = "user not found"
			continue
		}
		if userID == dto.ReportsTo {
			result.Rejected[userID] = "a user cannot report to themselves"
			continue
		}
		if dir.WouldCycle(userID, dto.ReportsTo) {
			result.Rejected[userID] = "assignment would create a reporting cycle"
			continue
		}
		if err := s.repo.SetReportsTo(ctx, userID, &dto.ReportsTo); err != nil {
			result.Rejected[userID] = "store update failed: " + err.Error()
			continue
		}
		// keep the snapshot current so later ids validate against
		// the already-applied assignments
		superior := dto.ReportsTo
		u.ReportsTo = &superior
		result.Applied = append(result.Applied, userID)
	}

	s.publishAudit(ctx, "bulk_reassign", "user", dto.ReportsTo)
	s.logger.Info("bulk reassignment finished",
		"target", dto.ReportsTo,
		"applied", len(result.Applied),
		"rejected", len(result.Rejected))
	return result, nil
}

// SuperiorChain resolves a user's chain of superiors, nearest first.
func (s *Service) SuperiorChain(ctx context.Context, userID string) ([]*User, error) {
	dir, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := dir.FindUser(userID); !ok {
		return nil, errors.ErrUserNotFound
	}
	return dir.SuperiorChain(userID), nil
}

// GetSessionPermissions returns the permission set for an authenticated
// session, served from the session cache when warm.
func (s *Service) GetSessionPermissions(ctx context.Context, userID string) ([]string, error) {
	s.permMu.RLock()
	perms, ok := s.permCache[userID]
	s.permMu.RUnlock()
	if ok {
		return perms, nil
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.permMu.Lock()
	s.permCache[userID] = u.Permissions
	s.permMu.Unlock()
	return u.Permissions, nil
}

// RegisterSessionHooks subscribes the directory to session-changed
// notifications from the auth collaborator. Login warms the permission
// cache for the session, logout evicts it.
func (s *Service) RegisterSessionHooks(bus *events.EventBus) {
	bus.Subscribe(events.TypeSessionChanged, func(ctx context.Context, event events.Event) error {
		data, ok := event.Payload().(map[string]interface{})
		if !ok {
			return nil
		}
		userID, _ := data["user_id"].(string)
		change, _ := data["change"].(string)
		if userID == "" {
			return nil
		}

		s.invalidateSessionPermissions(userID)
		if change == "login" {
			if _, err := s.GetSessionPermissions(ctx, userID); err != nil {
				s.logger.Warn("failed to warm session permissions", "user_id", userID, "error", err)
			}
		}
		return nil
	})
}

func (s *Service) invalidateSessionPermissions(userID string) {
	s.permMu.Lock()
	delete(s.permCache, userID)
	s.permMu.Unlock()
}

func (s *Service) publishAudit(ctx context.Context, action, entityType, entityID string) {
	if s.bus == nil {
		return
	}
	actorID := ""
	if session, ok := errors.SessionFromContext(ctx); ok {
		actorID = session.UserID
	}
	if err := s.bus.Publish(ctx, events.NewEntityAudited(action, entityType, entityID, actorID)); err != nil {
		s.logger.Warn("failed to publish audit event", "action", action, "entity_id", entityID, "error", err)
	}
}

func normalizeRef(ref *string) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	return ref
}
