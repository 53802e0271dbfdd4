package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"bitbucket.org/bharatisweets/sweets_backend/handlers"
	"bitbucket.org/bharatisweets/sweets_backend/middlewares"
	"bitbucket.org/bharatisweets/sweets_backend/models"
	"bitbucket.org/bharatisweets/sweets_backend/pdf"
	"bitbucket.org/bharatisweets/sweets_backend/utils"
	"bitbucket.org/bharatisweets/sweets_backend/workflow"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return utils.ValidatePhoneNumber(fl.Field().String(), utils.DefaultPhoneRegion()) == nil
		})
	}
}

func buildRouter(logger *logrus.Logger) *gin.Engine {
	r := gin.New()

	r.Use(middlewares.CorrelationIdMiddleware())
	r.Use(func(c *gin.Context) {
		// Startup probe must pass before the DB is up.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	corsConfig := cors.DefaultConfig()
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization", "X-Correlation-Id")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	// Generated documents, linked from WhatsApp messages.
	r.Static("/invoices", filepath.Join(config.DocumentDir(), pdf.InvoiceSubdir))
	r.Static("/receipts", filepath.Join(config.DocumentDir(), pdf.ReceiptSubdir))

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", handlers.Signup)
	auth.POST("/login", handlers.Login)

	protected := api.Group("")
	protected.Use(middlewares.AuthMiddleware())

	inventory := protected.Group("/inventory")
	inventory.GET("/list", handlers.ListInventory)
	inventory.POST("/create", handlers.CreateInventory)
	inventory.PUT("/:id/update", handlers.UpdateInventory)
	inventory.DELETE("/:id/delete", handlers.DeleteInventory)

	regularOrders := protected.Group("/regular-orders")
	regularOrders.GET("/list", handlers.ListRegularOrders)
	regularOrders.GET("/:id/list", handlers.GetRegularOrder)
	regularOrders.POST("/create", handlers.CreateRegularOrder)
	regularOrders.PUT("/:id/update", handlers.UpdateRegularOrder)
	regularOrders.DELETE("/:id/delete", handlers.DeleteRegularOrder)

	eventOrders := protected.Group("/event-orders")
	eventOrders.GET("/list", handlers.ListEventOrders)
	eventOrders.GET("/:id/list", handlers.GetEventOrder)
	eventOrders.POST("/create", handlers.CreateEventOrder)
	eventOrders.PUT("/:id/update", handlers.UpdateEventOrder)
	eventOrders.DELETE("/:id/delete", handlers.DeleteEventOrder)
	eventOrders.POST("/:id/payments", handlers.AddEventOrderPayment)
	eventOrders.PATCH("/:id/status", handlers.UpdateEventOrderStatus)

	vendors := protected.Group("/vendors")
	vendors.GET("/list", handlers.ListVendors)
	vendors.POST("/create", handlers.CreateVendor)
	vendors.PUT("/:id/update", handlers.UpdateVendor)
	vendors.DELETE("/:id/delete", handlers.DeleteVendor)
	vendors.POST("/:id/pay", handlers.PayVendor)

	expenses := protected.Group("/expenses")
	expenses.GET("/list", handlers.ListExpenses)
	expenses.POST("/create", handlers.CreateExpense)
	expenses.PUT("/:id/update", handlers.UpdateExpense)
	expenses.DELETE("/:id/delete", handlers.DeleteExpense)

	staff := protected.Group("/staff")
	staff.GET("/list", handlers.ListStaff)
	staff.POST("/create", handlers.CreateStaff)
	staff.PUT("/:id/update", handlers.UpdateStaff)
	staff.DELETE("/:id/delete", handlers.DeleteStaff)
	staff.POST("/:id/attendance", handlers.AddStaffAttendance)

	cards := protected.Group("/credit-cards")
	cards.GET("/list", handlers.ListCreditCards)
	cards.POST("/create", handlers.CreateCreditCard)
	cards.PUT("/:id/update", handlers.UpdateCreditCard)
	cards.DELETE("/:id/delete", handlers.DeleteCreditCard)

	accounting := protected.Group("/accounting")
	accounting.GET("/summary", handlers.GetFinancialSummary)
	accounting.GET("/summary/export", handlers.ExportFinancialSummary)
	accounting.GET("/transactions", handlers.GetTransactions)

	dashboard := protected.Group("/dashboard")
	dashboard.GET("/summary", handlers.GetDashboardSummary)
	dashboard.GET("/sales", handlers.GetDashboardSales)
	dashboard.GET("/expenses", handlers.GetDashboardExpenses)
	dashboard.GET("/popular-products", handlers.GetPopularProducts)
	dashboard.GET("/pending-orders", handlers.GetPendingOrders)

	return r
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	registerValidators()
	r := buildRouter(logger)

	// Start listening before the DB is up; the readiness gate answers 503
	// until dependencies connect.
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	config.ConnectDatabaseWithRetry()
	config.ConnectRedis()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()

	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"module": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	dispatcherCtx, cancelDispatcher := context.WithCancel(context.Background())
	defer cancelDispatcher()
	if config.RunOutboxDispatcher() {
		executor := workflow.NewDocumentExecutor(logger)
		go workflow.NewOutboxDispatcher(db, logger, executor).Run(dispatcherCtx)
	} else {
		logger.WithFields(logrus.Fields{"module": "outbox"}).Warn("OUTBOX_DISPATCHER=false; queued side effects will not run")
	}

	logger.WithFields(logrus.Fields{"port": port}).Info("server started")

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"module": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Stop the dispatcher first so it does not claim new work mid-drain.
	cancelDispatcher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"module": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger logs only requests that ended with gin errors.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}
