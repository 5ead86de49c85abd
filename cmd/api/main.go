package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"docsign/internal/config"
	"docsign/internal/database"
	"docsign/internal/database/migration"
	handlers "docsign/internal/http/handler"
	"docsign/internal/http/middleware"
	"docsign/internal/ledger"
	"docsign/internal/logger"
	"docsign/internal/notify"
	"docsign/internal/otel"
	"docsign/internal/repository"
	"docsign/internal/repository/memory"
	"docsign/internal/repository/postgres"
	"docsign/internal/service"
	"docsign/internal/storage"
	"docsign/internal/wallet"
)

const (
	notificationBacklog = 200
	registryCacheTTL    = 10 * time.Second
)

// @title Document Signing API
// @version 1.0
// @description Local agent for registering and co-signing documents on a ledger.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, cfg.Tracing, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize tracing")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, journalRepo := openJournal(ctx, cfg, log)
	if db != nil {
		defer db.Close()
	}

	content, opener := openContentStore(cfg, log)

	// Ledger node, faucet and the registry module
	node := ledger.NewClient(cfg.Ledger.NodeURL, cfg.Ledger.RequestsPerSec)
	gateway := ledger.NewGateway(node, ledger.GatewayConfig{
		Module:         ledger.Module{Address: cfg.Ledger.ModuleAddress, Name: cfg.Ledger.ModuleName},
		Network:        cfg.Ledger.Network,
		ExplorerHost:   cfg.Ledger.ExplorerHost,
		ConfirmTimeout: cfg.Ledger.ConfirmTimeout,
		PollInterval:   cfg.Ledger.PollInterval,
	})
	faucet := ledger.NewFaucet(cfg.Ledger.FaucetURL, node, cfg.Ledger.PollInterval)

	// Wallet adapters and the session bound to them
	adapters := make([]wallet.Wallet, 0, len(cfg.Wallets))
	for _, wc := range cfg.Wallets {
		adapters = append(adapters, wallet.NewRemoteSigner(wc))
	}
	wallets := wallet.NewRegistry(adapters...)
	session := wallet.NewSession(wallets)

	metrics, err := service.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		log.WithError(err).Fatal("failed to register service metrics")
	}

	hub := notify.NewHub(notificationBacklog)
	provisioner := service.NewAccountProvisioner(gateway, faucet, service.ProvisionerConfig{
		Amount:  cfg.Ledger.BootstrapFund,
		WaitFor: cfg.Ledger.FaucetWait,
	}, log, metrics)
	view := service.NewRegistryView(gateway, hub, log, registryCacheTTL)
	controller := service.NewLifecycleController(service.LifecycleDeps{
		Gateway:     gateway,
		Content:     content,
		View:        view,
		Provisioner: provisioner,
		Journal:     journalRepo,
		Notifier:    hub,
		Log:         log,
		Metrics:     metrics,
	})
	journal := service.NewTransactionJournal(journalRepo)

	unbind := service.BindSession(session, controller, view, provisioner, log)
	defer unbind()

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.WithError(err).Fatal("failed to register http metrics")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Uploads are limited by the content store, not by the agent.
		BodyLimit: 100 << 20,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())
	app.Use(middleware.NoStore())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, handlers.Dependencies{
		DB:            db,
		Session:       session,
		Wallets:       wallets,
		Accounts:      provisioner,
		Documents:     view,
		Controller:    controller,
		Journal:       journal,
		Notifications: hub,
		Content:       opener,
	})

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			log.WithError(err).Error("server shutdown failed")
		}
	}()

	addr := ":" + cfg.Port
	log.WithFields(logrus.Fields{
		"addr":          addr,
		"network":       cfg.Ledger.Network,
		"content_store": cfg.ContentStore,
		"wallets":       len(adapters),
		"journal":       journalKind(db),
	}).Info("server_starting")

	if err := app.Listen(addr); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}

// openJournal returns the PostgreSQL journal when a database is configured
// and an in-memory one otherwise. db is nil in the latter case.
func openJournal(ctx context.Context, cfg *config.AppConfig, log *logrus.Logger) (*sql.DB, repository.TransactionRepository) {
	if !cfg.Database.Enabled() {
		return nil, memory.NewTransactionMemory()
	}

	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}
	return db, postgres.NewTransactionPostgres(db)
}

// openContentStore selects the content store. Only the MinIO backed store
// can serve content back, so opener is nil for Pinata.
func openContentStore(cfg *config.AppConfig, log *logrus.Logger) (storage.ContentStore, handlers.ContentOpener) {
	switch cfg.ContentStore {
	case "minio":
		objects, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize object storage")
		}
		// The agent itself serves /ipfs/<cid> for this store.
		cas := storage.NewCASStore(objects, "http://"+cfg.AppHost)
		return cas, cas
	case "pinata":
		pin, err := storage.NewPinata(cfg.Pinata)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize pinning service")
		}
		return pin, nil
	default:
		log.WithField("content_store", cfg.ContentStore).Fatal("unknown content store")
		return nil, nil
	}
}

func journalKind(db *sql.DB) string {
	if db == nil {
		return "memory"
	}
	return "postgres"
}
