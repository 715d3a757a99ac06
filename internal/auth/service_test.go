package auth_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/team-directory/internal/auth"
	"github.com/frahmantamala/team-directory/internal/core/events"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

// Mock user repository for testing
type mockUserRepository struct {
	hash      string
	userID    string
	active    bool
	credError error
	users     map[string]*auth.User
}

func (m *mockUserRepository) GetCredentials(ctx context.Context, email string) (string, string, bool, error) {
	if m.credError != nil {
		return "", "", false, m.credError
	}
	return m.hash, m.userID, m.active, nil
}

func (m *mockUserRepository) GetSessionUser(ctx context.Context, userID string) (*auth.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, auth.ErrInvalidCredentials
	}
	return u, nil
}

// Mock permission source for testing
type mockPermissionSource struct {
	perms map[string][]string
}

func (m *mockPermissionSource) GetSessionPermissions(ctx context.Context, userID string) ([]string, error) {
	return m.perms[userID], nil
}

// Synchronous publisher capturing session changes, avoids racing the
// async bus in assertions
type capturingPublisher struct {
	changes []string
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.Event) error {
	if data, ok := event.Payload().(map[string]interface{}); ok {
		if change, ok := data["change"].(string); ok {
			p.changes = append(p.changes, change)
		}
	}
	return nil
}

var _ = Describe("AuthService", func() {
	var (
		service  *auth.Service
		userRepo *mockUserRepository
		perms    *mockPermissionSource
		tokenGen  *auth.JWTTokenGenerator
		publisher *capturingPublisher
		ctx       context.Context
	)

	BeforeEach(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
		Expect(err).ToNot(HaveOccurred())

		userRepo = &mockUserRepository{
			hash:   string(hash),
			userID: "u1",
			active: true,
			users: map[string]*auth.User{
				"u1": {ID: "u1", Email: "alice@mail.com"},
			},
		}
		perms = &mockPermissionSource{
			perms: map[string][]string{"u1": {"view_projects", "manage_tasks"}},
		}
		tokenGen = auth.NewJWTTokenGenerator(
			"test-access-secret-0123456789abcdef",
			"test-refresh-secret-0123456789abcdef",
			time.Minute, time.Hour)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		publisher = &capturingPublisher{}

		service = auth.NewService(userRepo, perms, tokenGen, publisher, bcrypt.MinCost, logger)
		ctx = context.Background()
	})

	Describe("Authenticate", func() {
		It("issues a token pair for valid credentials", func() {
			tokens, err := service.Authenticate(ctx, auth.LoginDTO{
				Email:    "alice@mail.com",
				Password: "correct-password",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(tokens.AccessToken).ToNot(BeEmpty())
			Expect(tokens.RefreshToken).ToNot(BeEmpty())

			claims, err := tokenGen.ValidateToken(tokens.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal("u1"))
			Expect(claims.Email).To(Equal("alice@mail.com"))
		})

		It("publishes a login session change", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{
				Email:    "alice@mail.com",
				Password: "correct-password",
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(publisher.changes).To(Equal([]string{"login"}))
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{
				Email:    "alice@mail.com",
				Password: "wrong-password",
			})

			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("rejects an inactive user before checking the password", func() {
			userRepo.active = false

			_, err := service.Authenticate(ctx, auth.LoginDTO{
				Email:    "alice@mail.com",
				Password: "correct-password",
			})

			Expect(err).To(Equal(auth.ErrUserInactive))
		})

		It("maps an unknown email to invalid credentials", func() {
			userRepo.credError = auth.ErrInvalidCredentials

			_, err := service.Authenticate(ctx, auth.LoginDTO{
				Email:    "ghost@mail.com",
				Password: "correct-password",
			})

			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})
	})

	Describe("Logout", func() {
		It("publishes a logout session change for a valid token", func() {
			token, err := tokenGen.GenerateAccessToken("u1", "alice@mail.com")
			Expect(err).ToNot(HaveOccurred())

			Expect(service.Logout(ctx, token)).To(Succeed())
			Expect(publisher.changes).To(Equal([]string{"logout"}))
		})

		It("rejects an invalid token without publishing", func() {
			Expect(service.Logout(ctx, "not-a-token")).To(Equal(auth.ErrInvalidToken))
			Expect(publisher.changes).To(BeEmpty())
		})
	})

	Describe("Remove", func() {
		It("broadcasts the revocation", func() {
			Expect(service.Remove(ctx, "u1")).To(Succeed())
			Expect(publisher.changes).To(Equal([]string{"revoked"}))
		})
	})

	Describe("RefreshTokens", func() {
		It("rotates both tokens from a valid refresh token", func() {
			refresh, err := tokenGen.GenerateRefreshToken("u1", "alice@mail.com")
			Expect(err).ToNot(HaveOccurred())

			tokens, err := service.RefreshTokens(ctx, refresh)

			Expect(err).ToNot(HaveOccurred())
			claims, err := tokenGen.ValidateToken(tokens.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal("u1"))
		})

		It("rejects a malformed token", func() {
			_, err := service.RefreshTokens(ctx, "not-a-token")
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})

	Describe("Provision", func() {
		It("returns a hash that verifies against the password", func() {
			credential, err := service.Provision(ctx, "bob@mail.com", "new-password")

			Expect(err).ToNot(HaveOccurred())
			Expect(credential).ToNot(Equal("new-password"))
			Expect(bcrypt.CompareHashAndPassword([]byte(credential), []byte("new-password"))).To(Succeed())
		})
	})

	Describe("SessionUser", func() {
		It("attaches the session permission set to the resolved user", func() {
			u, err := service.SessionUser(ctx, &auth.Claims{UserID: "u1", Email: "alice@mail.com"})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.ID).To(Equal("u1"))
			Expect(u.Permissions).To(ConsistOf("view_projects", "manage_tasks"))
		})

		It("fails for a session whose user record is gone", func() {
			_, err := service.SessionUser(ctx, &auth.Claims{UserID: "ghost"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("TokenGenerator", func() {
		It("rejects an expired token distinctly", func() {
			// same secret on both slots so the refresh fallback reports
			// the expiry instead of a signature mismatch
			secret := []byte("expired-secret-0123456789abcdef")
			expiredGen := &auth.JWTTokenGenerator{
				AccessTokenSecret:  secret,
				RefreshTokenSecret: secret,
				AccessTokenTTL:     time.Nanosecond,
				RefreshTokenTTL:    time.Nanosecond,
			}
			token, err := expiredGen.GenerateAccessToken("u1", "alice@mail.com")
			Expect(err).ToNot(HaveOccurred())

			time.Sleep(10 * time.Millisecond)
			_, err = expiredGen.ValidateToken(token)
			Expect(err).To(Equal(auth.ErrTokenExpired))
		})

		It("rejects a token signed with a different secret", func() {
			other := auth.NewJWTTokenGenerator("other-access-0123456789abcdef", "other-refresh-0123456789abcdef",
				time.Minute, time.Hour)
			token, err := other.GenerateAccessToken("u1", "alice@mail.com")
			Expect(err).ToNot(HaveOccurred())

			_, err = tokenGen.ValidateToken(token)
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})
})
