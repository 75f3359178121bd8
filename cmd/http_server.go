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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/autowerk/garage-management/internal"
	"github.com/autowerk/garage-management/internal/auth"
	authpg "github.com/autowerk/garage-management/internal/auth/postgres"
	"github.com/autowerk/garage-management/internal/core/events"
	"github.com/autowerk/garage-management/internal/customer"
	customerpg "github.com/autowerk/garage-management/internal/customer/postgres"
	"github.com/autowerk/garage-management/internal/garage"
	garagepg "github.com/autowerk/garage-management/internal/garage/postgres"
	"github.com/autowerk/garage-management/internal/gatepass"
	gatepasspg "github.com/autowerk/garage-management/internal/gatepass/postgres"
	"github.com/autowerk/garage-management/internal/inventory"
	inventorypg "github.com/autowerk/garage-management/internal/inventory/postgres"
	"github.com/autowerk/garage-management/internal/invoice"
	invoicepg "github.com/autowerk/garage-management/internal/invoice/postgres"
	"github.com/autowerk/garage-management/internal/jobcard"
	jobcardpg "github.com/autowerk/garage-management/internal/jobcard/postgres"
	"github.com/autowerk/garage-management/internal/session"
	"github.com/autowerk/garage-management/internal/transport/rest"
	"github.com/autowerk/garage-management/internal/vehicle"
	vehiclepg "github.com/autowerk/garage-management/internal/vehicle/postgres"
	"github.com/autowerk/garage-management/pkg/logger"
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
	GormDB     *gorm.DB
	Sessions   session.Store
	Router     *chi.Mux
	Handlers   rest.Handlers
	AuthSvc    *auth.Service
	Authorizer *auth.Authorizer
	Logger     *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Sessions, deps.Handlers, deps.AuthSvc, deps.Authorizer, deps.Config.Server.AllowedOrigins, deps.Logger)

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

	env := "development"
	if config.Observability.Logging.Format == "json" {
		env = "production"
	}
	logger.Init(env)
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpg.New(gormpg.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	sessions, err := initSessionStore(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	bus := events.NewEventBus(log)
	registerAuditSubscribers(bus, log)

	authRepo := authpg.NewRepository(gormDB)
	throttle := auth.NewThrottle(authRepo, config.Auth.MaxLoginAttempts, config.Auth.LockoutWindow)
	authSvc := auth.NewService(authRepo, sessions, throttle, bus, auth.ServiceConfig{
		SessionTimeout:    config.Auth.SessionTimeout,
		CSRFTokenLifetime: config.Auth.CSRFTokenLifetime,
		BCryptCost:        config.Auth.BCryptCost,
	}, log)
	codec := session.NewCodec(config.Auth.CookieSecret, config.Auth.CookieSecure)

	authorizer, err := auth.NewAuthorizer(context.Background(), authRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load permission table: %w", err)
	}

	garageRepo := garagepg.NewGarageRepository(gormDB)
	customerRepo := customerpg.NewCustomerRepository(gormDB)
	vehicleRepo := vehiclepg.NewVehicleRepository(gormDB)
	jobCardRepo := jobcardpg.NewJobCardRepository(gormDB)
	inventoryRepo := inventorypg.NewInventoryRepository(gormDB)
	invoiceRepo := invoicepg.NewInvoiceRepository(gormDB)
	gatePassRepo := gatepasspg.NewGatePassRepository(gormDB)

	inventorySvc := inventory.NewService(inventoryRepo, log)
	jobCardSvc := jobcard.NewService(jobCardRepo, vehicleRepo, inventorySvc, bus, log)

	handlers := rest.Handlers{
		Auth:      auth.NewHandler(authSvc, codec),
		Garage:    garage.NewHandler(garage.NewService(garageRepo, log)),
		Customer:  customer.NewHandler(customer.NewService(customerRepo, log)),
		Vehicle:   vehicle.NewHandler(vehicle.NewService(vehicleRepo, customerRepo, log)),
		JobCard:   jobcard.NewHandler(jobCardSvc),
		Inventory: inventory.NewHandler(inventorySvc),
		Invoice:   invoice.NewHandler(invoice.NewService(invoiceRepo, jobCardRepo, log)),
		GatePass:  gatepass.NewHandler(gatepass.NewService(gatePassRepo, jobCardRepo, bus, log)),
	}

	return &Dependencies{
		Config:     config,
		Logger:     log,
		DB:         db,
		GormDB:     gormDB,
		Sessions:   sessions,
		Router:     chi.NewRouter(),
		Handlers:   handlers,
		AuthSvc:    authSvc,
		Authorizer: authorizer,
	}, nil
}

// initSessionStore picks Redis when an address is configured so sessions
// survive restarts and are shared across nodes; otherwise in-memory.
func initSessionStore(cfg *internal.Config) (session.Store, error) {
	if cfg.Redis.Addr == "" {
		return session.NewMemoryStore(), nil
	}

	client, err := session.Connect(context.Background(), session.RedisConfig{
		Addr:    cfg.Redis.Addr,
		DB:      cfg.Redis.DB,
		Timeout: cfg.Redis.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return session.NewRedisStore(client, cfg.Auth.SessionTimeout), nil
}

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
