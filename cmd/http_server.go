package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/frahmantamala/team-directory/internal"
	"github.com/frahmantamala/team-directory/internal/activity"
	activityPostgres "github.com/frahmantamala/team-directory/internal/activity/postgres"
	"github.com/frahmantamala/team-directory/internal/auth"
	authPostgres "github.com/frahmantamala/team-directory/internal/auth/postgres"
	"github.com/frahmantamala/team-directory/internal/calendar"
	"github.com/frahmantamala/team-directory/internal/core/events"
	"github.com/frahmantamala/team-directory/internal/dashboard"
	"github.com/frahmantamala/team-directory/internal/directory"
	directoryPostgres "github.com/frahmantamala/team-directory/internal/directory/postgres"
	"github.com/frahmantamala/team-directory/internal/project"
	projectPostgres "github.com/frahmantamala/team-directory/internal/project/postgres"
	"github.com/frahmantamala/team-directory/internal/task"
	taskPostgres "github.com/frahmantamala/team-directory/internal/task/postgres"
	"github.com/frahmantamala/team-directory/internal/team"
	teamPostgres "github.com/frahmantamala/team-directory/internal/team/postgres"
	"github.com/frahmantamala/team-directory/internal/transport/rest"
	"github.com/frahmantamala/team-directory/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger

	Handlers rest.Handlers
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	if err := validateOpenAPISpec(config.Server.OpenAPIPath); err != nil {
		return nil, fmt.Errorf("openapi spec validation failed: %w", err)
	}

	db, gormDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	bus := events.NewEventBus(lg)

	// repositories
	directoryRepo := directoryPostgres.NewDirectoryRepository(gormDB)
	teamRepo := teamPostgres.NewTeamRepository(gormDB)
	projectRepo := projectPostgres.NewProjectRepository(gormDB)
	taskRepo := taskPostgres.NewTaskRepository(gormDB)
	activityRepo := activityPostgres.NewActivityRepository(gormDB)
	authRepo := authPostgres.NewRepository(gormDB)

	// services; directory and auth reference each other, the identity
	// provider side is attached after both exist
	directoryService := directory.NewService(directoryRepo, nil, bus, lg)
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, directoryService, tokenGen, bus, config.Security.BCryptCost, lg)
	directoryService.SetIdentityProvider(authService)
	directoryService.RegisterSessionHooks(bus)

	recorder := activity.NewRecorder(lg, activityRepo)
	recorder.RegisterHooks(bus)

	teamService := team.NewService(lg, teamRepo, directoryService, bus)
	projectService := project.NewService(lg, projectRepo, bus)
	taskService := task.NewService(lg, taskRepo, bus)
	dashboardService := dashboard.NewService(lg, projectService, taskService, directoryService, recorder, config.Dashboard.RecentActivityLimit)
	calendarService := calendar.NewService(lg, projectService, taskService)

	return &Dependencies{
		Config: config,
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
		Logger: lg,
		Handlers: rest.Handlers{
			Auth:      auth.NewHandler(authService),
			Directory: directory.NewHandler(directoryService),
			Team:      team.NewHandler(teamService),
			Project:   project.NewHandler(projectService),
			Task:      task.NewHandler(taskService),
			Dashboard: dashboard.NewHandler(dashboardService),
			Calendar:  calendar.NewHandler(calendarService),
		},
	}, nil
}

// validateOpenAPISpec loads and validates the served contract at
// startup so a malformed spec fails the boot, not a reader.
func validateOpenAPISpec(path string) error {
	if path == "" {
		path = "./api/openapi.yml"
	}
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return doc.Validate(loader.Context)
}

// initDB opens the configured store: postgres through the pgx stdlib
// driver wrapped by gorm, or sqlite for local development.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	if cfg.Driver == "sqlite" {
		gormDB, err := gorm.Open(gormsqlite.Open(cfg.Source), &gorm.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, nil, err
		}
		return sqlx.NewDb(sqlDB, "sqlite"), gormDB, nil
	}

	dbConn, err := sqlx.Connect("pgx", cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: dbConn.DB}), &gorm.Config{})
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to wrap db connection: %w", err)
	}

	return dbConn, gormDB, nil
}
