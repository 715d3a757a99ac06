package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/team-directory/internal/auth"
)

// RequirePermissions creates a middleware that checks if user has required permissions
func RequirePermissions(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// "all" is the wildcard capability held by super admins
			hasPermission := false
			for _, requiredPerm := range permissions {
				for _, userPerm := range user.Permissions {
					if userPerm == requiredPerm || userPerm == "all" {
						hasPermission = true
						break
					}
				}
				if hasPermission {
					break
				}
			}

			if !hasPermission {
				slog.Warn("Access denied: user lacks required permissions",
					"user_id", user.ID,
					"required_permissions", permissions,
					"user_permissions", user.Permissions)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IsAdminUser checks if user holds one of the administrative capabilities.
func IsAdminUser(user *auth.User) bool {
	adminPerms := []string{"all", "manage_users", "manage_team"}
	for _, requiredPerm := range adminPerms {
		for _, userPerm := range user.Permissions {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}
