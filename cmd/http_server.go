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

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/attendance"
	attendancePostgres "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/attendance/postgres"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/auth"
	authPostgres "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/auth/postgres"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/cache"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/events"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/leave"
	leavePostgres "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/leave/postgres"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/notification"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/organization"
	organizationPostgres "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/organization/postgres"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/party"
	partyPostgres "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/party/postgres"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/role"
	rolePostgres "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/role/postgres"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/tourplan"
	tourplanPostgres "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/tourplan/postgres"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/transport"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/transport/middleware"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/transport/rest"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/user"
	userPostgres "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/user/postgres"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
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
	Config     *internal.Config
	DB         *sqlx.DB
	Redis      *redis.Client
	Router     *chi.Mux
	Dispatcher *notification.Dispatcher
	Logger     *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if deps.Dispatcher != nil {
			deps.Dispatcher.Shutdown()
		}
		if deps.Redis != nil {
			if err := deps.Redis.Close(); err != nil {
				deps.Logger.Error("redis close error", "error", err)
			}
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm shares the pgx pool instead of opening a second one.
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	var redisClient *redis.Client
	var snapshotCache *cache.Cache
	if config.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		snapshotCache = cache.NewWithClient(redisClient, config.Redis.SnapshotTTL, log)
	}

	var accessMetrics *access.Metrics
	var httpMetrics *middleware.HTTPMetrics
	metricsPath := ""
	if config.Observability.Metrics.Enabled {
		accessMetrics = access.NewMetrics(prometheus.DefaultRegisterer)
		httpMetrics = middleware.NewHTTPMetrics(prometheus.DefaultRegisterer)
		metricsPath = config.Observability.Metrics.Path
	}

	// Access engine. The cached provider wraps the repo even without redis;
	// it degrades to direct reads and a no-op invalidator.
	registry := access.DefaultRegistry()
	orgRepo := organizationPostgres.NewOrganizationRepository(gormDB)
	provider := organization.NewCachedProvider(orgRepo, snapshotCache, log)
	checker := access.NewChecker(registry, provider, log, accessMetrics)
	guard := access.NewGuard(checker, log)

	userRepo := userPostgres.NewUserRepository(gormDB)
	resolver := access.NewHierarchyResolver(checker, userRepo, log, accessMetrics)
	authorizer := access.NewApprovalAuthorizer(checker, log)

	bus := events.NewEventBus(log)
	var dispatcher *notification.Dispatcher
	if config.Notification.Enabled {
		dispatcher = notification.NewDispatcher(notification.Config{
			WebhookURL:     config.Notification.WebhookURL,
			RequestTimeout: config.Notification.RequestTimeout,
			MaxWorkers:     config.Notification.MaxWorkers,
			JobQueueSize:   config.Notification.JobQueueSize,
		}, logger.Component("notification"))
		dispatcher.Subscribe(bus)
	}

	tokenGen := auth.NewJWTTokenGenerator(config.Security.JWTSecret)
	if config.Security.AccessTokenDuration > 0 {
		tokenGen.AccessTokenTTL = config.Security.AccessTokenDuration
	}
	if config.Security.RefreshTokenDuration > 0 {
		tokenGen.RefreshTokenTTL = config.Security.RefreshTokenDuration
	}

	authRepo := authPostgres.NewRepository(gormDB)
	authService := auth.NewService(authRepo, tokenGen, log)
	authHandler := auth.NewHandler(authService)

	roleService := role.NewService(rolePostgres.NewRoleRepository(gormDB), registry, log)
	roleHandler := role.NewHandler(transport.NewBaseHandler(log), roleService)

	userService := user.NewService(userRepo, roleService, checker, log)
	userHandler := user.NewHandler(transport.NewBaseHandler(log), userService)

	orgService := organization.NewService(orgRepo, provider, log)
	orgHandler := organization.NewHandler(transport.NewBaseHandler(log), orgService)

	leaveService := leave.NewService(leavePostgres.NewLeaveRepository(gormDB), authRepo, resolver, authorizer, bus, log)
	leaveHandler := leave.NewHandler(transport.NewBaseHandler(log), leaveService)

	tourplanService := tourplan.NewService(tourplanPostgres.NewTourPlanRepository(gormDB), authRepo, resolver, authorizer, bus, log)
	tourplanHandler := tourplan.NewHandler(transport.NewBaseHandler(log), tourplanService)

	attendanceService := attendance.NewService(attendancePostgres.NewAttendanceRepository(gormDB), resolver, log)
	attendanceHandler := attendance.NewHandler(transport.NewBaseHandler(log), attendanceService)

	partyService := party.NewService(partyPostgres.NewPartyRepository(gormDB), log)
	partyHandler := party.NewHandler(transport.NewBaseHandler(log), partyService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Dependencies{
		DB:     db.DB,
		Redis:  redisClient,
		Logger: log,

		Guard: guard,

		Auth:          authHandler,
		Users:         userHandler,
		Roles:         roleHandler,
		Organizations: orgHandler,
		Leaves:        leaveHandler,
		TourPlans:     tourplanHandler,
		Attendance:    attendanceHandler,
		Parties:       partyHandler,

		AllowedOrigins: config.Server.AllowedOrigins,
		MetricsPath:    metricsPath,
		HTTPMetrics:    httpMetrics,
	})

	return &Dependencies{
		Config:     config,
		DB:         db,
		Redis:      redisClient,
		Router:     router,
		Dispatcher: dispatcher,
		Logger:     log,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
