package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/visadesk/backend/internal/config"
	"github.com/visadesk/backend/internal/database"
	"github.com/visadesk/backend/internal/handlers"
	"github.com/visadesk/backend/internal/middleware"
	"github.com/visadesk/backend/internal/queue"
	"github.com/visadesk/backend/internal/services/application"
	"github.com/visadesk/backend/internal/services/catalog"
	"github.com/visadesk/backend/internal/services/payment"
	"github.com/visadesk/backend/internal/services/profile"
	"github.com/visadesk/backend/internal/services/review"
)

// Services bundles the constructed service layer handed to the router.
type Services struct {
	Profiles     *profile.ProfileService
	Catalog      *catalog.CatalogService
	Applications *application.ApplicationService
	Reviews      *review.ReviewService
	Payments     *payment.PaymentService
}

// NewServices wires the service layer over one injected DB handle.
// cache and provider may be nil in test mode.
func NewServices(db *gorm.DB, cache *redis.Client, provider payment.Provider, jobQueue *queue.Queue, testMode bool) Services {
	catalogService := catalog.NewCatalogService(db, cache)
	applicationService := application.NewApplicationService(db, catalogService, jobQueue)
	return Services{
		Profiles:     profile.NewProfileService(db),
		Catalog:      catalogService,
		Applications: applicationService,
		Reviews:      review.NewReviewService(db, applicationService),
		Payments:     payment.NewPaymentService(db, catalogService, provider, testMode),
	}
}

// RegisterRoutes configures all API routes.
func RegisterRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, svcs Services) {
	rateLimiter := middleware.NewRateLimiter(60, 30)
	router.Use(rateLimiter.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handlers.NewAuthHandler(db, cfg.JWT)
	applicationHandler := handlers.NewApplicationHandler(svcs.Applications, svcs.Profiles)
	paymentHandler := handlers.NewPaymentHandler(svcs.Payments, svcs.Profiles)
	reviewHandler := handlers.NewReviewHandler(svcs.Reviews, svcs.Profiles)
	visaTypeHandler := handlers.NewVisaTypeHandler(svcs.Catalog)

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
	}

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.EnsureProfile(svcs.Profiles))
	{
		api.GET("/visa-types", visaTypeHandler.List)

		applications := api.Group("/applications")
		{
			applications.POST("", middleware.RequireRoles(database.RoleApplicant), applicationHandler.Create)
			applications.GET("", middleware.RequireRoles(database.RoleOfficer), applicationHandler.List)
			applications.GET("/mine", middleware.RequireRoles(database.RoleApplicant), applicationHandler.ListMine)
			applications.GET("/:id", applicationHandler.Get)
			applications.PUT("/:id", middleware.RequireRoles(database.RoleOfficer), applicationHandler.Update)
			// RequireRoles with no roles admits admin only.
			applications.DELETE("/:id", middleware.RequireRoles(), applicationHandler.Delete)
		}

		payments := api.Group("/payment")
		{
			payments.POST("/create-order", middleware.RequireRoles(database.RoleApplicant), paymentHandler.CreateOrder)
			payments.POST("/verify", middleware.RequireRoles(database.RoleApplicant), paymentHandler.Verify)
			payments.GET("/status/:applicationId", paymentHandler.GetStatus)
		}

		reviews := api.Group("/reviews")
		{
			reviews.POST("", middleware.RequireRoles(database.RoleOfficer), reviewHandler.Submit)
			reviews.GET("", reviewHandler.List)
		}
	}
}
