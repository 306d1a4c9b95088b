package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/stormline/roofcrm/internal/application/service"
	"github.com/stormline/roofcrm/internal/config"
	"github.com/stormline/roofcrm/internal/infrastructure/document"
	"github.com/stormline/roofcrm/internal/infrastructure/persistence/repository"
	"github.com/stormline/roofcrm/internal/infrastructure/persistence/sqlite"
	"github.com/stormline/roofcrm/internal/infrastructure/report"
	httpserver "github.com/stormline/roofcrm/internal/interfaces/http"
	"github.com/stormline/roofcrm/pkg/database"
	"github.com/stormline/roofcrm/pkg/utils"
)

func main() {
	// Load .env if present, before the config reads the environment
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting roofing CRM",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Create output directories
	for _, dir := range []string{cfg.Documents.OutputDir, cfg.Reports.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("Failed to create output directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	// Infrastructure
	txManager := sqlite.NewDB(db.DB, logger)
	dealRepo := repository.NewDealRepository(db.DB, logger)
	customerRepo := repository.NewCustomerRepository(db.DB, logger)
	historyRepo := repository.NewHistoryRepository(db.DB, logger)
	documentRepo := repository.NewDocumentRepository(db.DB, logger)
	commissionRepo := repository.NewCommissionRepository(db.DB, logger)

	pdfGenerator := document.NewPDFGenerator(cfg.Documents.OutputDir, document.CompanyInfo{
		Name:    cfg.Documents.CompanyName,
		Phone:   cfg.Documents.CompanyPhone,
		Address: cfg.Documents.CompanyAddress,
	}, logger)
	commissionExporter := report.NewCommissionExporter(logger)

	// Application services
	serviceLogger := &zapAdapter{sugar: logger.Sugar()}
	dealService := service.NewDealService(dealRepo, customerRepo, historyRepo, txManager, serviceLogger)
	customerService := service.NewCustomerService(customerRepo, serviceLogger)
	documentService := service.NewDocumentService(dealService, customerRepo, documentRepo, pdfGenerator, serviceLogger)
	commissionService := service.NewCommissionService(dealService, commissionRepo, commissionExporter, cfg.Commission.DefaultRatePercent, serviceLogger)

	// HTTP server
	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ReportsDir:   cfg.Reports.OutputDir,
	}, dealService, customerService, documentService, commissionService, serviceLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}

// zapAdapter adapts the zap sugared logger to the service Logger interface
type zapAdapter struct {
	sugar *zap.SugaredLogger
}

func (a *zapAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.sugar.Infow(msg, keysAndValues...)
}

func (a *zapAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.sugar.Errorw(msg, keysAndValues...)
}
