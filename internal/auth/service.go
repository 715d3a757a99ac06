package auth

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/team-directory/internal/core/events"
)

// UserRepository resolves credentials and session identity against the
// directory store.
type UserRepository interface {
	GetCredentials(ctx context.Context, email string) (passwordHash, userID string, active bool, err error)
	GetSessionUser(ctx context.Context, userID string) (*User, error)
}

// PermissionSource serves the permission set for an authenticated
// session; the directory layer backs it with its session cache.
type PermissionSource interface {
	GetSessionPermissions(ctx context.Context, userID string) ([]string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service is the authentication collaborator: credential checks, token
// issuing, and session-change notifications.
type Service struct {
	userRepo       UserRepository
	permissions    PermissionSource
	tokenGenerator TokenGenerator
	bus            EventPublisher
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(userRepo UserRepository, permissions PermissionSource, tokenGen TokenGenerator, bus EventPublisher, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:       userRepo,
		permissions:    permissions,
		tokenGenerator: tokenGen,
		bus:            bus,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	storedHash, userID, active, err := s.userRepo.GetCredentials(ctx, dto.Email)
	if err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}
	if !active {
		return AuthTokens{}, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, dto.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, dto.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	s.notifySessionChanged(ctx, userID, "login")

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	newRefreshToken, err := s.tokenGenerator.GenerateRefreshToken(claims.UserID, claims.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// Logout validates the token and emits the session-changed event so the
// directory layer can evict any cached permission data.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return err
	}
	s.notifySessionChanged(ctx, claims.UserID, "logout")
	return nil
}

// SessionUser resolves token claims to the caller plus their session
// permission set.
func (s *Service) SessionUser(ctx context.Context, claims *Claims) (*User, error) {
	u, err := s.userRepo.GetSessionUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	perms, err := s.permissions.GetSessionPermissions(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	u.Permissions = perms
	return u, nil
}

// Provision hashes a credential for a new directory user. Part of the
// IdentityProvider contract consumed by the directory service.
func (s *Service) Provision(ctx context.Context, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	s.logger.Info("authentication identity provisioned", "email", email)
	return string(hash), nil
}

// Remove revokes the authentication identity of a deleted user. Tokens
// are stateless, so revocation means broadcasting the session change;
// the directory evicts the session permissions and subsequent session
// lookups fail on the missing user record.
func (s *Service) Remove(ctx context.Context, userID string) error {
	s.notifySessionChanged(ctx, userID, "revoked")
	return nil
}

func (s *Service) notifySessionChanged(ctx context.Context, userID, change string) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, events.NewSessionChanged(userID, change)); err != nil {
		s.logger.Warn("failed to publish session event", "user_id", userID, "change", change, "error", err)
	}
}
