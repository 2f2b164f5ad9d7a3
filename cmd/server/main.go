package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/cache"
	"github.com/mamadbah2/resaledesk/internal/config"
	"github.com/mamadbah2/resaledesk/internal/repository"
	"github.com/mamadbah2/resaledesk/internal/repository/memory"
	"github.com/mamadbah2/resaledesk/internal/repository/mongodb"
	"github.com/mamadbah2/resaledesk/internal/repository/sheets"
	"github.com/mamadbah2/resaledesk/internal/scheduler"
	"github.com/mamadbah2/resaledesk/internal/server/handlers"
	"github.com/mamadbah2/resaledesk/internal/server/router"
	agentsvc "github.com/mamadbah2/resaledesk/internal/service/agent"
	commandsvc "github.com/mamadbah2/resaledesk/internal/service/commands"
	exportsvc "github.com/mamadbah2/resaledesk/internal/service/export"
	goalsvc "github.com/mamadbah2/resaledesk/internal/service/goals"
	inventorysvc "github.com/mamadbah2/resaledesk/internal/service/inventory"
	learningsvc "github.com/mamadbah2/resaledesk/internal/service/learning"
	ledgersvc "github.com/mamadbah2/resaledesk/internal/service/ledger"
	reportingsvc "github.com/mamadbah2/resaledesk/internal/service/reporting"
	suppliersvc "github.com/mamadbah2/resaledesk/internal/service/suppliers"
	whatsappsvc "github.com/mamadbah2/resaledesk/internal/service/whatsapp"
	"github.com/mamadbah2/resaledesk/pkg/clients/anthropic"
	"github.com/mamadbah2/resaledesk/pkg/clients/ebay"
	whatsappclient "github.com/mamadbah2/resaledesk/pkg/clients/whatsapp"
	"github.com/mamadbah2/resaledesk/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level, cfg.Log.Format))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	gin.SetMode(cfg.Server.Mode)

	ctx := context.Background()

	var store repository.Store
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		store = mongoRepo
		baseLogger.Info("mongodb store enabled", zap.String("db", cfg.MongoDB.DBName))
	} else {
		store = memory.NewStore()
		baseLogger.Warn("MONGODB_URI not set, records are kept in memory only")
	}

	var sheet reportingsvc.Sheet
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheet = sheetsRepo
	}

	var (
		judge      agentsvc.Judge
		researcher agentsvc.Researcher
		assistant  handlers.Assistant
	)
	if cfg.AI.AnthropicKey != "" {
		aiClient := anthropic.NewClient(cfg.AI.AnthropicKey, cfg.AI.Model, anthropic.WithLogger(baseLogger.Named("client.anthropic")))
		judge, researcher, assistant = aiClient, aiClient, aiClient
		baseLogger.Info("anthropic client enabled", zap.String("model", cfg.AI.Model))
	} else {
		baseLogger.Warn("anthropic api key missing, research and judgment disabled")
	}

	var market interface {
		agentsvc.MarketLookup
		reportingsvc.MarketLookup
	}
	if cfg.Ebay.AppID != "" {
		market = ebay.NewClient(cfg.Ebay.AppID, ebay.BaseURL(cfg.Ebay.Environment))
	}

	var researchCache agentsvc.ResearchCache
	redisCache := cache.NewResearchCache(cfg.Cache, baseLogger.Named("cache.research"))
	defer func() { _ = redisCache.Close() }()
	if redisCache.Enabled() {
		researchCache = redisCache
	}

	inventorySvc := inventorysvc.NewService(store, baseLogger.Named("svc.inventory"))
	supplierSvc := suppliersvc.NewService(store, baseLogger.Named("svc.suppliers"))
	ledgerSvc := ledgersvc.NewService(store, baseLogger.Named("svc.ledger"))
	goalSvc := goalsvc.NewService(store, store, baseLogger.Named("svc.goals"))
	learningSvc := learningsvc.NewService(store, store, baseLogger.Named("svc.learning"))
	exportSvc := exportsvc.NewService(store, baseLogger.Named("svc.export"))

	agentSvc, err := agentsvc.NewService(cfg.Agent.Session(), agentsvc.Dependencies{
		Decisions:  store,
		Inventory:  store,
		Judge:      judge,
		Researcher: researcher,
		Market:     market,
		Cache:      researchCache,
		Logger:     baseLogger.Named("svc.agent"),
	})
	if err != nil {
		baseLogger.Fatal("failed to init agent service", zap.Error(err))
	}

	reportingSvc := reportingsvc.NewService(reportingsvc.Dependencies{
		Inventory: store,
		Goals:     store,
		Reports:   store,
		Metrics:   learningSvc,
		Market:    market,
		Sheet:     sheet,
		Logger:    baseLogger.Named("svc.reporting"),
	})

	var (
		chat     handlers.ChatService
		notifier scheduler.Notifier
	)
	if cfg.WhatsApp.Enabled() {
		dispatcher := commandsvc.NewService(inventorySvc, goalSvc, ledgerSvc, baseLogger.Named("svc.commands"))
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsappclient.NewClient(cfg.WhatsApp), dispatcher, baseLogger.Named("svc.whatsapp"))
		chat, notifier = messagingSvc, messagingSvc
		baseLogger.Info("whatsapp commands enabled")
	}

	engine := router.New(router.Handlers{
		Calc:      handlers.NewCalcHandler(baseLogger.Named("handlers.calc")),
		Inventory: handlers.NewInventoryHandler(inventorySvc, baseLogger.Named("handlers.inventory")),
		Suppliers: handlers.NewSupplierHandler(supplierSvc, baseLogger.Named("handlers.suppliers")),
		Ledger:    handlers.NewLedgerHandler(ledgerSvc, baseLogger.Named("handlers.ledger")),
		Goals:     handlers.NewGoalHandler(goalSvc, baseLogger.Named("handlers.goals")),
		Agent:     handlers.NewAgentHandler(agentSvc, assistant, baseLogger.Named("handlers.agent")),
		Learning:  handlers.NewLearningHandler(learningSvc, agentSvc, baseLogger.Named("handlers.learning")),
		Reports:   handlers.NewReportHandler(reportingSvc, exportSvc, baseLogger.Named("handlers.reports")),
		WhatsApp:  handlers.NewWhatsAppHandler(chat, baseLogger.Named("handlers.whatsapp")),
	}, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, goalSvc, notifier, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-sigCtx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
