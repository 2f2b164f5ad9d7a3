package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/server/handlers"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Calc      *handlers.CalcHandler
	Inventory *handlers.InventoryHandler
	Suppliers *handlers.SupplierHandler
	Ledger    *handlers.LedgerHandler
	Goals     *handlers.GoalHandler
	Agent     *handlers.AgentHandler
	Learning  *handlers.LearningHandler
	Reports   *handlers.ReportHandler
	WhatsApp  *handlers.WhatsAppHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/webhook", h.WhatsApp.Verify)
	r.POST("/webhook", h.WhatsApp.Receive)
	r.POST("/send-message", h.WhatsApp.SendMessage)

	api := r.Group("/api")

	calc := api.Group("/calc")
	calc.POST("/fees", h.Calc.Fees)
	calc.POST("/profit", h.Calc.Profit)
	calc.POST("/landed-cost", h.Calc.LandedCost)

	inv := api.Group("/inventory")
	inv.GET("", h.Inventory.List)
	inv.POST("", h.Inventory.Create)
	inv.GET("/stats", h.Inventory.Stats)
	inv.GET("/:id", h.Inventory.Get)
	inv.PUT("/:id", h.Inventory.Update)
	inv.PATCH("/:id/status", h.Inventory.ChangeStatus)
	inv.DELETE("/:id", h.Inventory.Delete)

	sup := api.Group("/suppliers")
	sup.GET("", h.Suppliers.List)
	sup.POST("", h.Suppliers.Create)
	sup.GET("/:id", h.Suppliers.Get)
	sup.PUT("/:id", h.Suppliers.Update)
	sup.DELETE("/:id", h.Suppliers.Delete)
	sup.GET("/:id/landed-cost", h.Suppliers.LandedCost)

	tx := api.Group("/transactions")
	tx.GET("", h.Ledger.List)
	tx.POST("", h.Ledger.Add)
	tx.GET("/summary", h.Ledger.Summary)
	tx.DELETE("/:id", h.Ledger.Delete)

	goals := api.Group("/goals")
	goals.GET("", h.Goals.List)
	goals.POST("", h.Goals.Create)
	goals.POST("/refresh", h.Goals.List)
	goals.PUT("/:id", h.Goals.Update)
	goals.DELETE("/:id", h.Goals.Delete)

	agent := api.Group("/agent")
	agent.GET("/config", h.Agent.Config)
	agent.PUT("/config", h.Agent.UpdateConfig)
	agent.POST("/evaluate", h.Agent.Evaluate)
	agent.POST("/research", h.Agent.Research)
	agent.GET("/decisions", h.Agent.Decisions)
	agent.PATCH("/decisions/:id/status", h.Agent.SetStatus)
	agent.POST("/decisions/:id/outcome", h.Learning.RecordOutcome)
	agent.POST("/analyze", h.Agent.Analyze)
	agent.POST("/listing", h.Agent.Listing)
	agent.POST("/pricing", h.Agent.Pricing)

	learn := api.Group("/learning")
	learn.GET("/history", h.Learning.History)
	learn.GET("/analysis", h.Learning.Analysis)
	learn.GET("/adjustments", h.Learning.Adjustments)
	learn.GET("/metrics", h.Learning.Metrics)
	learn.POST("/predict", h.Learning.Predict)

	reports := api.Group("/reports")
	reports.GET("/dashboard", h.Reports.Dashboard)
	reports.GET("/performance", h.Reports.Performance)
	reports.GET("/optimizer", h.Reports.Optimizer)
	reports.POST("/weekly", h.Reports.Weekly)

	api.GET("/export", h.Reports.Export)
	api.GET("/export.xlsx", h.Reports.ExportWorkbook)
	api.POST("/import", h.Reports.Import)
	api.POST("/notify", h.WhatsApp.Notify)

	logger.Info("router initialized", zap.Int("routes", len(r.Routes())))

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("request failed", fields...)
			return
		}
		logger.Info("request completed", fields...)
	}
}
