package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/peacprotocol/peac-engine/audit"
	"github.com/peacprotocol/peac-engine/config"
	"github.com/peacprotocol/peac-engine/controller"
	"github.com/peacprotocol/peac-engine/db"
	logger "github.com/peacprotocol/peac-engine/logging"
	"github.com/peacprotocol/peac-engine/router"
	"github.com/peacprotocol/peac-engine/service"
	"github.com/peacprotocol/peac-engine/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize the audit trail
	var auditService audit.Service
	if config.GetBool("audit.enabled") {
		auditRepository, err := audit.NewElasticsearchRepository(
			config.GetString("elasticsearch.url"),
			config.GetString("audit.index"),
		)
		if err != nil {
			logger.Fatal("Failed to initialize audit repository", zap.Error(err))
		}
		auditService = audit.NewService(auditRepository)
	} else {
		auditService = audit.NoopService{}
	}

	// Load the policy document
	policyProvider := service.NewPolicyProvider(config.GetString("policy.path"))
	if err := policyProvider.Load(); err != nil {
		logger.Fatal("Failed to load policy document", zap.Error(err))
	}

	// Initialize services
	decisionService := service.NewDecisionService(
		policyProvider,
		auditService,
		eventBus,
		true,
	)

	// Initialize controllers
	controllers := controller.NewControllers(
		controller.NewDecisionController(decisionService),
		controller.NewPurposeController(decisionService),
		controller.NewPolicyController(policyProvider, eventBus),
		controller.NewAuditController(auditService),
	)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(
		controllers,
		config.GetInt("ratelimit.requests"),
		config.GetDuration("ratelimit.window"),
	)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context gives the server five seconds to finish in-flight requests
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
