// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/brightcover/agency-backend/internal/config"
	"github.com/brightcover/agency-backend/internal/handlers"
	"github.com/brightcover/agency-backend/internal/middleware"
	"github.com/brightcover/agency-backend/internal/services"
	"github.com/brightcover/agency-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(cfg)
	leadService := services.NewLeadService(db, cfg, notificationService)
	complianceService := services.NewComplianceService(db)
	authService := services.NewAuthService(db, cfg)

	// Initialize handlers
	quoteHandler := handlers.NewQuoteHandler(leadService)
	leadHandler := handlers.NewLeadHandler(leadService)
	complianceHandler := handlers.NewComplianceHandler(complianceService)
	authHandler := handlers.NewAuthHandler(authService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS([]string{cfg.Frontend.BaseURL}))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Public quote intake
		v1.POST("/quotes", middleware.QuoteRateLimit(), quoteHandler.SubmitQuote)
		v1.GET("/unsubscribe/:token", quoteHandler.Unsubscribe)

		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired())
		admin.Use(middleware.AuditLogMiddleware(db))
		{
			leads := admin.Group("/leads")
			{
				leads.GET("", leadHandler.GetLeads)
				leads.GET("/export", leadHandler.ExportLeads)
				leads.GET("/:id", leadHandler.GetLead)
				leads.PUT("/:id", leadHandler.UpdateLead)
				leads.PUT("/:id/review", leadHandler.ReviewLead)
				leads.DELETE("/:id", middleware.AdminRequired(), leadHandler.DeleteLead)
			}

			admin.GET("/dashboard/stats", complianceHandler.GetDashboardStats)

			compliance := admin.Group("/compliance")
			{
				compliance.GET("/report", complianceHandler.GetReport)
				compliance.POST("/report/snapshot", complianceHandler.GenerateSnapshot)
			}
		}
	}

	return r
}
