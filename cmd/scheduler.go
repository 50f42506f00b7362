package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/driveads/campaign-management/internal/campaign"
	campaignPostgres "github.com/driveads/campaign-management/internal/campaign/postgres"
	"github.com/driveads/campaign-management/internal/core/database"
	"github.com/driveads/campaign-management/internal/core/events"
	"github.com/driveads/campaign-management/internal/enrollment"
	enrollmentPostgres "github.com/driveads/campaign-management/internal/enrollment/postgres"
	escrowPostgres "github.com/driveads/campaign-management/internal/escrow/postgres"
	"github.com/driveads/campaign-management/internal/invoice"
	invoicePostgres "github.com/driveads/campaign-management/internal/invoice/postgres"
	"github.com/driveads/campaign-management/internal/notification"
	notificationPostgres "github.com/driveads/campaign-management/internal/notification/postgres"
	"github.com/driveads/campaign-management/internal/scheduler"
	"github.com/driveads/campaign-management/pkg/logger"
	"github.com/spf13/cobra"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the campaign lifecycle scheduler",
	Long:  `Run the periodic sweeps that activate campaigns on their start date and complete them past their end date.`,
	Run: func(cmd *cobra.Command, args []string) {
		startScheduler()
	},
}

func startScheduler() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"))
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	gormDB, err := database.OpenGorm(db.DB)
	if err != nil {
		log.Error("failed to open gorm session", "error", err)
		os.Exit(1)
	}

	txManager := database.NewTxManager(gormDB)
	eventBus := events.NewEventBus(log)

	campaignRepo := campaignPostgres.NewCampaignRepository(gormDB)
	enrollmentRepo := enrollmentPostgres.NewEnrollmentRepository(gormDB)
	ledgerRepo := escrowPostgres.NewLedgerRepository(gormDB)
	invoiceRepo := invoicePostgres.NewInvoiceRepository(gormDB)
	notificationRepo := notificationPostgres.NewNotificationRepository(gormDB)

	notificationService := notification.NewService(notificationRepo, log)
	invoiceService := invoice.NewService(invoiceRepo, log)

	campaignService := campaign.NewService(
		campaignRepo, ledgerRepo, invoiceService, enrollment.NewCompleter(enrollmentRepo),
		txManager, notificationService, eventBus, log)

	registerEventHandlers(eventBus, log)

	s := scheduler.New(campaignService, config.Scheduler.Interval(), log)

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	sig := <-sigChan
	log.Info("received signal, stopping scheduler", "signal", sig)
	cancel()
	<-done
}
