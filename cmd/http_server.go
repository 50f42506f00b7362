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

	"github.com/driveads/campaign-management/internal"
	"github.com/driveads/campaign-management/internal/campaign"
	campaignPostgres "github.com/driveads/campaign-management/internal/campaign/postgres"
	"github.com/driveads/campaign-management/internal/core/database"
	"github.com/driveads/campaign-management/internal/core/events"
	"github.com/driveads/campaign-management/internal/enrollment"
	enrollmentPostgres "github.com/driveads/campaign-management/internal/enrollment/postgres"
	"github.com/driveads/campaign-management/internal/escrow"
	escrowPostgres "github.com/driveads/campaign-management/internal/escrow/postgres"
	"github.com/driveads/campaign-management/internal/invoice"
	invoicePostgres "github.com/driveads/campaign-management/internal/invoice/postgres"
	"github.com/driveads/campaign-management/internal/notification"
	notificationPostgres "github.com/driveads/campaign-management/internal/notification/postgres"
	"github.com/driveads/campaign-management/internal/payout"
	payoutPostgres "github.com/driveads/campaign-management/internal/payout/postgres"
	"github.com/driveads/campaign-management/internal/proof"
	proofPostgres "github.com/driveads/campaign-management/internal/proof/postgres"
	"github.com/driveads/campaign-management/internal/transfer"
	"github.com/driveads/campaign-management/internal/transport/rest"
	"github.com/driveads/campaign-management/internal/transport/swagger"
	"github.com/driveads/campaign-management/pkg/logger"
	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"))
	log := logger.LoggerWrapper()

	if err := swagger.ValidateSpec(context.Background(), "./api/openapi.yml"); err != nil {
		log.Warn("swagger UI disabled", "error", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	handlers, err := buildHandlers(config, db, log)
	if err != nil {
		log.Error("failed to wire services", "error", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(router, db.DB, handlers, config.Security.JWTSecret, log)

	addr := fmt.Sprintf(":%d", config.Server.Port)
	log.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: config.Server.ReadHeaderTimeout,
		ReadTimeout:       config.Server.ReadTimeout,
		WriteTimeout:      config.Server.WriteTimeout,
		IdleTimeout:       config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("server shutdown error", "error", err)
		}
		if err := db.Close(); err != nil {
			log.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	log.Info("server stopped")
}

// buildHandlers is the composition root: repositories over one GORM session,
// services wired through their narrow interfaces, handlers on top.
func buildHandlers(config *internal.Config, db *sqlx.DB, log *slog.Logger) (rest.Handlers, error) {
	gormDB, err := database.OpenGorm(db.DB)
	if err != nil {
		return rest.Handlers{}, err
	}

	txManager := database.NewTxManager(gormDB)
	eventBus := events.NewEventBus(log)

	ledgerRepo := escrowPostgres.NewLedgerRepository(gormDB)
	campaignRepo := campaignPostgres.NewCampaignRepository(gormDB)
	enrollmentRepo := enrollmentPostgres.NewEnrollmentRepository(gormDB)
	proofRepo := proofPostgres.NewProofRepository(gormDB)
	earningRepo := payoutPostgres.NewEarningRepository(gormDB)
	invoiceRepo := invoicePostgres.NewInvoiceRepository(gormDB)
	notificationRepo := notificationPostgres.NewNotificationRepository(gormDB)

	notificationService := notification.NewService(notificationRepo, log)
	invoiceService := invoice.NewService(invoiceRepo, log)

	campaignService := campaign.NewService(
		campaignRepo, ledgerRepo, invoiceService, enrollment.NewCompleter(enrollmentRepo),
		txManager, notificationService, eventBus, log)

	escrowService := escrow.NewService(ledgerRepo, campaignService, txManager, log)
	enrollmentService := enrollment.NewService(enrollmentRepo, campaignService, notificationService, log)
	proofService := proof.NewService(proofRepo, enrollmentService, txManager, notificationService, eventBus, log)

	transferClient := transfer.NewClient(
		config.Transfer.BaseURL, config.Transfer.SecretKey, config.Transfer.Timeout, log)

	payoutService := payout.NewService(
		earningRepo, campaignService, proofService, transferClient,
		notificationService, eventBus, log)

	registerEventHandlers(eventBus, log)

	return rest.Handlers{
		Campaign:     campaign.NewHandler(campaignService),
		Escrow:       escrow.NewHandler(escrowService),
		Enrollment:   enrollment.NewHandler(enrollmentService),
		Proof:        proof.NewHandler(proofService),
		Payout:       payout.NewHandler(payoutService),
		Invoice:      invoice.NewHandler(invoiceService),
		Notification: notification.NewHandler(notificationService),
	}, nil
}

// registerEventHandlers attaches the audit subscribers. Events already drive
// notifications synchronously in the services; these are the async log trail.
func registerEventHandlers(eventBus *events.EventBus, log *slog.Logger) {
	for _, eventType := range []string{
		events.EventTypeCampaignApproved,
		events.EventTypeCampaignCompleted,
		events.EventTypePayoutInitiated,
		events.EventTypeProofDecided,
	} {
		eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			log.Info("domain event",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"payload", event.Payload())
			return nil
		})
	}
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
