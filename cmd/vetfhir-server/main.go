package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vetfhir/vetfhir/internal/config"
	"github.com/vetfhir/vetfhir/internal/domain/appointment"
	"github.com/vetfhir/vetfhir/internal/domain/documents"
	"github.com/vetfhir/vetfhir/internal/domain/immunization"
	"github.com/vetfhir/vetfhir/internal/domain/observation"
	"github.com/vetfhir/vetfhir/internal/domain/organization"
	"github.com/vetfhir/vetfhir/internal/domain/patient"
	"github.com/vetfhir/vetfhir/internal/domain/scheduling"
	"github.com/vetfhir/vetfhir/internal/domain/valueset"
	"github.com/vetfhir/vetfhir/internal/platform/cache"
	"github.com/vetfhir/vetfhir/internal/platform/db"
	"github.com/vetfhir/vetfhir/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vetfhir-server",
		Short: "Veterinary FHIR conversion API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(convertCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the conversion API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, db.SchemaFS()).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	})

	// migrate status
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, db.SchemaFS()).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Fprintln(out, "---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Fprintf(out, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	})

	return cmd
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if !cfg.HasDatabase() {
		return nil, fmt.Errorf("DATABASE_URL is required for migrations")
	}
	return db.NewPool(ctx, poolOptions(cfg))
}

func poolOptions(cfg *config.Config) db.PoolOptions {
	return db.PoolOptions{
		URL:            cfg.DatabaseURL,
		MaxConns:       cfg.DBMaxConns,
		MinConns:       cfg.DBMinConns,
		ConnectTimeout: 5 * time.Second,
	}
}

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// backends holds the optional stateful dependencies. Either may be nil.
type backends struct {
	pool  *pgxpool.Pool
	redis *redis.Client
}

// newServer assembles middleware and routes. The conversion routes never
// touch a backend; the /fhir lookups are registered only when a database is
// configured.
func newServer(cfg *config.Config, logger zerolog.Logger, b backends) (*echo.Echo, error) {
	slotLoc, err := cfg.SlotLocation()
	if err != nil {
		return nil, fmt.Errorf("slot timezone: %w", err)
	}
	displayLoc, err := cfg.DisplayLocation()
	if err != nil {
		return nil, fmt.Errorf("display timezone: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = middleware.NewRequestValidator()

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", middleware.RequestIDHeader},
	}))
	if cfg.BodyLimit != "" {
		e.Use(echomw.BodyLimit(cfg.BodyLimit))
	}

	convert := e.Group("/api/v1/convert")
	fhirGroup := e.Group("/fhir")

	appointment.NewHandler(displayLoc).RegisterRoutes(convert)
	patient.NewHandler().RegisterRoutes(convert)
	immunization.NewHandler().RegisterRoutes(convert)
	observation.NewHandler().RegisterRoutes(convert)
	organization.NewHandler().RegisterRoutes(convert)
	documents.NewHandler().RegisterRoutes(convert)

	deps := map[string]db.Pinger{}
	var vsCache valueset.Cache
	if b.redis != nil {
		jc := cache.NewJSONCache(b.redis, "valueset", cfg.ValueSetCacheTTL)
		vsCache = jc
		deps["cache"] = jc
	}

	var slotSvc *scheduling.Service
	if b.pool != nil {
		slotSvc = scheduling.NewService(scheduling.NewSlotRepoPG(b.pool), slotLoc)
		vsSvc := valueset.NewService(valueset.NewPurposeOfVisitRepoPG(b.pool), vsCache)
		valueset.NewHandler(vsSvc).RegisterRoutes(fhirGroup)
	}
	slotHandler := scheduling.NewHandler(slotSvc, slotLoc)
	slotHandler.SetBaseURL(cfg.FHIRBaseURL)
	slotHandler.RegisterRoutes(convert, fhirGroup)

	e.GET("/health", db.HealthHandler(b.pool, deps))

	return e, nil
}

func runServer() error {
	// Logger
	logger := newLogger(os.Getenv("ENV"))

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	var b backends

	// Database
	if cfg.HasDatabase() {
		b.pool, err = db.NewPool(ctx, poolOptions(cfg))
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer b.pool.Close()
		logger.Info().Msg("connected to database")
	} else {
		logger.Warn().Msg("DATABASE_URL not set, /fhir lookups disabled")
	}

	// Cache
	if cfg.HasCache() {
		b.redis, err = cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer b.redis.Close()
		logger.Info().Dur("ttl", cfg.ValueSetCacheTTL).Msg("connected to redis")
	}

	e, err := newServer(cfg, logger, b)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
