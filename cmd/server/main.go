// Command server runs the REST API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/auth"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/config"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/controller"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/domain/task"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/domain/user"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/health"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/middleware/cors"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/middleware/ratelimit"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/middleware/recovery"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/middleware/requestid"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/observability/logger"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/observability/metrics"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/pagination"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/repository"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/server"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/server/router"
	ginrouter "github.com/Muhammadsajid2/nest-rest-api/pkg/server/router/gin"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/store/mongodb"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/version"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string
	var envPrefix string

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "REST API over a MongoDB document store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewViperLoader(configFile, envPrefix)
			cfg, err := loader.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to the configuration file")
	cmd.Flags().StringVar(&envPrefix, "env-prefix", "APP", "prefix for environment variable overrides")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	log, err := logger.NewZapLogger(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Format: logger.LogFormat(cfg.Logging.Format),
	})
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	build := version.Current(cfg.Service.Name)
	log.Info("starting service",
		"build", build.String(),
		"environment", cfg.Service.Environment,
	)

	adapter, err := mongodb.NewAdapter(cfg.Database.MongoDB, log)
	if err != nil {
		return fmt.Errorf("connecting to mongodb: %w", err)
	}
	defer adapter.Close() //nolint:errcheck

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("building token manager: %w", err)
	}

	repoOpts := repository.Options{
		Client:    adapter.Client(),
		Logger:    log,
		LogErrors: cfg.Database.MongoDB.LogErrors,
	}

	userRepo, err := user.NewRepository(adapter.Collection(user.CollectionName), repoOpts)
	if err != nil {
		return fmt.Errorf("building user repository: %w", err)
	}
	taskRepo, err := task.NewRepository(adapter.Collection(task.CollectionName), repoOpts)
	if err != nil {
		return fmt.Errorf("building task repository: %w", err)
	}

	userService := user.NewService(userRepo, tokens, log)
	taskService := task.NewService(taskRepo, log)

	metricsRegistry := metrics.NewRegistry()
	healthRegistry := health.NewRegistry()
	healthRegistry.Register(health.NewAdapterChecker("mongodb", adapter, 0))

	r := buildRouter(cfg, log, tokens, metricsRegistry, healthRegistry,
		user.NewHandler(userService), task.NewHandler(taskService))

	srv := server.New(server.Config{
		Port:            cfg.HTTP.Port,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		IdleTimeout:     cfg.HTTP.IdleTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}, r, log)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Start(runCtx)
}

func buildRouter(
	cfg *config.Config,
	log logger.Logger,
	tokens *auth.TokenManager,
	metricsRegistry *metrics.Registry,
	healthRegistry *health.Registry,
	userHandler *user.Handler,
	taskHandler *task.Handler,
) router.Router {
	r := ginrouter.NewRouter()

	r.Use(requestid.RequestID())
	r.Use(recovery.Recovery(log))
	r.Use(metricsRegistry.Middleware())
	if cfg.CORS.Enabled {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowAllOrigins = cfg.CORS.AllowAllOrigins
		corsCfg.AllowOrigins = cfg.CORS.AllowOrigins
		corsCfg.AllowCredentials = cfg.CORS.AllowCredentials
		r.Use(cors.Middleware(corsCfg))
	}
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewTokenBucketLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		r.Use(ratelimit.Middleware(ratelimit.Config{
			Enabled:           true,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}, limiter))
	}

	r.NoRoute(func(c router.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error":   "not_found",
			"message": "no route for " + c.Request().Method + " " + c.Request().URL.Path,
		})
	})

	r.GET("/health/live", func(c router.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": string(health.StatusHealthy)})
	})
	r.GET("/health/ready", func(c router.Context) error {
		status, results := healthRegistry.CheckAll(c.Request().Context())
		code := http.StatusOK
		if status != health.StatusHealthy {
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, map[string]interface{}{
			"status": status,
			"checks": results,
		})
	})
	r.GET("/metrics", func(c router.Context) error {
		metricsRegistry.Handler().ServeHTTP(c.Response(), c.Request())
		return nil
	})

	paginationCfg := pagination.Config{
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	}

	api := r.Group("/api/v1")
	protected := r.Group("/api/v1", auth.Middleware(tokens))

	userHandler.RegisterRoutes(api, protected, paginationCfg)
	taskHandler.RegisterRoutes(protected, paginationCfg)

	api.GET("", func(c router.Context) error {
		return controller.Success(c, version.Current(cfg.Service.Name))
	})

	return r
}
