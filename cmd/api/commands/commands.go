package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/adapters/repository"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/application/services"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/config"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/database"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/logger"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/metrics"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/ratelimit"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/server"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// Set at build time with -ldflags "-X .../commands.Version=..."
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
	GitCommit = "development"
)

const shutdownTimeout = 15 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the API server. A store that cannot be reached leaves the server running from memory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage the PostgreSQL documents schema (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd.Context(), "up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd.Context(), "down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showMigrationVersion(cmd.Context())
		},
	})

	return migrateCmd
}

// NewUserCommand creates the user management command
func NewUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
		Long:  "Create and seed accounts directly in the store",
	}

	createUserCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			role, _ := cmd.Flags().GetString("role")

			if email == "" || password == "" {
				return errors.New("email and password are required")
			}
			if name == "" {
				name = email
			}

			return seedUsers(cmd.Context(), []ports.SeedUser{{
				Name:     name,
				Email:    email,
				Password: password,
				Role:     entities.Role(role),
			}})
		},
	}
	createUserCmd.Flags().String("name", "", "Display name (defaults to the email)")
	createUserCmd.Flags().String("email", "", "User email (required)")
	createUserCmd.Flags().String("password", "", "User password (required)")
	createUserCmd.Flags().String("role", string(entities.RoleUser), "User role (admin, moderator, editor, user, viewer)")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the accounts listed in a YAML file",
		Long:  "Create the accounts listed in a YAML file. Accounts whose email already exists are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			seeds, err := loadSeedFile(file)
			if err != nil {
				return err
			}
			return seedUsers(cmd.Context(), seeds)
		},
	}
	seedCmd.Flags().String("file", "users.yaml", "Path to the seed file")

	userCmd.AddCommand(createUserCmd)
	userCmd.AddCommand(seedCmd)
	return userCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Productivity Suite v%s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Build Date: %s\n", BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", GitCommit)
		},
	}
}

// app holds what every command needs after configuration is loaded
type app struct {
	cfg     *config.Config
	logger  *logger.Logger
	db      *database.Manager
	metrics *metrics.Metrics
	redis   *redis.Client
	repos   *repository.Repositories
}

func bootstrap(ctx context.Context, withMetrics bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, logger: appLogger}

	var opts []database.Option
	if withMetrics && cfg.Metrics.Enabled {
		a.metrics = metrics.New()
		opts = append(opts, database.WithStateHook(a.metrics.SetRemoteConnected))
	}

	a.db = database.NewManager(cfg.Database, appLogger, opts...)
	// Never fails; an unreachable store leaves the manager in fallback mode.
	_ = a.db.Connect(ctx)

	var observer repository.Observer
	if a.metrics != nil {
		observer = a.metrics
	}

	a.repos = repository.New(repository.Options{
		Backend: repository.Backend{
			Driver:  cfg.Database.Driver,
			Mongo:   a.db,
			SQL:     a.db,
			Timeout: cfg.Database.SocketTimeout,
		},
		Conn:     a.db,
		Cache:    repository.NewReadCache(cfg.Cache.TTL, nil, observer),
		Logger:   appLogger,
		Observer: observer,
	})

	if cfg.Security.RateLimitBackend == ratelimit.BackendRedis {
		a.redis = ratelimit.NewRedisClient(cfg.Redis)
	}

	return a, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.db.Close(ctx); err != nil {
		a.logger.Warnw("Failed to close store connection", "error", err.Error())
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warnw("Failed to close redis client", "error", err.Error())
		}
	}
	_ = a.logger.Close()
}

func runServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	srv, err := server.New(a.cfg, server.Dependencies{
		DB:      a.db,
		Repos:   a.repos,
		Metrics: a.metrics,
		Redis:   a.redis,
	}, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	a.logger.Infow("Starting Productivity Suite API server",
		"port", a.cfg.Server.Port,
		"environment", a.cfg.App.Environment,
		"driver", a.cfg.Database.Driver,
		"mode", a.db.Mode(),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(a.cfg.Server.GetAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// migrator opens the configured PostgreSQL store. Migrations do not apply to
// the other drivers.
func migrator(ctx context.Context) (*app, *migrate.Migrate, error) {
	a, err := bootstrap(ctx, false)
	if err != nil {
		return nil, nil, err
	}
	if a.cfg.Database.Driver != config.DriverPostgres {
		a.close()
		return nil, nil, fmt.Errorf("migrations require the %s driver, configured driver is %s", config.DriverPostgres, a.cfg.Database.Driver)
	}
	if !a.db.Connected() {
		a.close()
		return nil, nil, errors.New("failed to connect to database")
	}

	m, err := database.NewMigrator(a.db.SQL().DB)
	if err != nil {
		a.close()
		return nil, nil, err
	}
	return a, m, nil
}

func runMigration(ctx context.Context, direction string) error {
	a, m, err := migrator(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("No migrations to run")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Printf("Migration %s completed successfully\n", direction)
	return nil
}

func showMigrationVersion(ctx context.Context) error {
	a, m, err := migrator(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("No migrations applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Printf("Current migration version: %d\n", version)
	fmt.Printf("Dirty: %t\n", dirty)
	return nil
}

// seedFile is the layout read by "user seed"
type seedFile struct {
	Users []ports.SeedUser `yaml:"users"`
}

func loadSeedFile(path string) ([]ports.SeedUser, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(file.Users) == 0 {
		return nil, fmt.Errorf("seed file %s lists no users", path)
	}
	return file.Users, nil
}

func seedUsers(ctx context.Context, seeds []ports.SeedUser) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := bootstrap(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	// Accounts written in fallback mode vanish with the process.
	if !a.db.Connected() {
		return errors.New("store is unreachable, refusing to seed into memory")
	}

	authService, err := services.NewAuthService(a.repos.Users, a.cfg.JWT, a.cfg.App.IsProduction(), a.logger)
	if err != nil {
		return err
	}
	userService := services.NewUserService(a.repos.Users, authService, a.logger)

	report, err := userService.Seed(ctx, seeds)
	if err != nil {
		return err
	}

	for _, email := range report.Created {
		fmt.Printf("Created: %s\n", email)
	}
	for _, email := range report.Skipped {
		fmt.Printf("Skipped (exists): %s\n", email)
	}
	return nil
}
