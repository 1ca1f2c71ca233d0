package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/visadesk/backend/internal/config"
	"github.com/visadesk/backend/internal/database"
	"github.com/visadesk/backend/internal/database/migrations"
	"github.com/visadesk/backend/internal/jobs"
	"github.com/visadesk/backend/internal/queue"
	"github.com/visadesk/backend/internal/routes"
	"github.com/visadesk/backend/internal/services/document"
	"github.com/visadesk/backend/internal/services/payment"
	"github.com/visadesk/backend/internal/services/payment/providers/razorpay"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Refusing to start: %v", err)
	}

	db, err := database.InitDB(database.ConnectionConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MaxIdle:  cfg.Database.MaxIdle,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var cache *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Printf("Warning: invalid REDIS_URL, catalog cache disabled: %v", err)
		} else {
			opts.Password = cfg.Redis.Password
			opts.DB = cfg.Redis.DB
			cache = redis.NewClient(opts)
		}
	}

	var store document.Store = document.NoopStore{}
	if cfg.MediaHost.BaseURL != "" {
		store = document.NewMediaHostStore(cfg.MediaHost.BaseURL, cfg.MediaHost.APIKey)
	}

	jobQueue := queue.NewQueue(db, 5*time.Second)
	jobs.RegisterJobs(jobQueue, db, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go jobQueue.Start(ctx)

	var provider payment.Provider
	if !cfg.Razorpay.TestMode {
		provider = razorpay.NewClient(razorpay.Config{
			KeyID:     cfg.Razorpay.KeyID,
			KeySecret: cfg.Razorpay.KeySecret,
			Timeout:   time.Duration(cfg.Razorpay.TimeoutMS) * time.Millisecond,
		})
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	svcs := routes.NewServices(db, cache, provider, jobQueue, cfg.Razorpay.TestMode)
	routes.RegisterRoutes(router, db, cfg, svcs)

	fmt.Printf("VisaDesk API server running on port %s\n", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
