package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/team-directory/internal/auth"
	"github.com/frahmantamala/team-directory/internal/calendar"
	"github.com/frahmantamala/team-directory/internal/dashboard"
	"github.com/frahmantamala/team-directory/internal/directory"
	"github.com/frahmantamala/team-directory/internal/project"
	"github.com/frahmantamala/team-directory/internal/task"
	"github.com/frahmantamala/team-directory/internal/team"
	"github.com/frahmantamala/team-directory/internal/transport/middleware"
	"github.com/frahmantamala/team-directory/internal/transport/swagger"
)

type Handlers struct {
	Auth      *auth.Handler
	Directory *directory.Handler
	Team      *team.Handler
	Project   *project.Handler
	Task      *task.Handler
	Dashboard *dashboard.Handler
	Calendar  *calendar.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Everything below requires an authenticated session
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.Directory.GetCurrentUser)

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/", h.Directory.GetUsers)
				ur.Get("/{id}", h.Directory.GetUser)
				ur.Get("/{id}/chain", h.Directory.SuperiorChain)

				// Directory administration
				ur.Group(func(ar chi.Router) {
					ar.Use(middleware.RequirePermissions("manage_users"))
					ar.Post("/", h.Directory.CreateUser)
					ar.Patch("/{id}", h.Directory.UpdateUser)
					ar.Delete("/{id}", h.Directory.DeleteUser)
					ar.Post("/reports-to", h.Directory.SetReportsTo)
					ar.Post("/bulk-reassign", h.Directory.BulkReassign)
				})
			})

			pr.Route("/teams", func(tr chi.Router) {
				tr.Get("/", h.Team.GetTeams)
				tr.Get("/{id}", h.Team.GetTeam)

				tr.Group(func(ar chi.Router) {
					ar.Use(middleware.RequirePermissions("manage_users", "manage_team"))
					ar.Post("/", h.Team.CreateTeam)
					ar.Patch("/{id}", h.Team.UpdateTeam)
				})
			})

			pr.Route("/projects", func(jr chi.Router) {
				jr.Get("/", h.Project.GetProjects)
				jr.Get("/{id}", h.Project.GetProject)
				jr.Post("/", h.Project.CreateProject)
				jr.Patch("/{id}", h.Project.UpdateProject)
				jr.Delete("/{id}", h.Project.DeleteProject)
			})

			pr.Route("/tasks", func(kr chi.Router) {
				kr.Get("/", h.Task.GetTasks)
				kr.Get("/{id}", h.Task.GetTask)
				kr.Post("/", h.Task.CreateTask)
				kr.Patch("/{id}", h.Task.UpdateTask)
				kr.Delete("/{id}", h.Task.DeleteTask)
			})

			pr.Route("/dashboard", func(dr chi.Router) {
				dr.Get("/", h.Dashboard.GetOverview)
				dr.Get("/projects", h.Dashboard.GetProjectStats)
				dr.Get("/tasks", h.Dashboard.GetTaskStats)
				dr.Get("/team", h.Dashboard.GetTeamStats)
				dr.Get("/activity", h.Dashboard.GetActivity)
			})

			pr.Get("/calendar", h.Calendar.GetEvents)
		})
	})
}
