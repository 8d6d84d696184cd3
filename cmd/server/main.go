package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/inkwell-hq/inkwell/internal/audit"
	"github.com/inkwell-hq/inkwell/internal/cache"
	"github.com/inkwell-hq/inkwell/internal/config"
	"github.com/inkwell-hq/inkwell/internal/database"
	"github.com/inkwell-hq/inkwell/internal/events"
	"github.com/inkwell-hq/inkwell/internal/handler"
	"github.com/inkwell-hq/inkwell/internal/middleware"
	"github.com/inkwell-hq/inkwell/internal/notifier"
	"github.com/inkwell-hq/inkwell/internal/repository"
	"github.com/inkwell-hq/inkwell/internal/service"
	"github.com/inkwell-hq/inkwell/internal/storage"
	"github.com/inkwell-hq/inkwell/pkg/logger"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction(), &logger.FileSink{
		Path:       cfg.LogFilePath,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db := database.Connect(cfg)
	database.Migrate(db)

	postCache, err := cache.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer postCache.Close()

	bus, err := events.NewRedisBus(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize event bus: %v", err)
	}
	defer bus.Close()

	auditLog, err := audit.New(cfg.EventLogDir)
	if err != nil {
		log.Fatalf("Failed to initialize audit log: %v", err)
	}
	defer auditLog.Close()

	files, err := storage.NewFileStore(cfg.StaticDir)
	if err != nil {
		log.Fatalf("Failed to initialize file store: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	// Event consumers: audit logging plus email fan-out, detached from
	// the request path.
	mailer := notifier.NewSMTPMailer(notifier.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
		StartTLS: cfg.SMTPStartTLS,
	})
	listener := notifier.New(userRepo, mailer, auditLog, cfg.NotifyBatchSize, cfg.NotifyBatchDelay)

	eventCh, err := bus.Subscribe()
	if err != nil {
		log.Fatalf("Failed to subscribe to event bus: %v", err)
	}
	go listener.Run(eventCh)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	postService := service.NewPostService(postRepo, postCache, bus, files)
	userService := service.NewUserService(userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	postHandler := handler.NewPostHandler(postService)
	userHandler := handler.NewUserHandler(userService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.HSTS(cfg.IsProduction()))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	router.Use(cors.New(corsCfg))

	router.GET("/health", handler.Health)
	router.Static("/static", cfg.StaticDir)

	api := router.Group("/api")
	{
		// Public routes
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.GET("/posts", postHandler.List)

		// Protected routes (require JWT)
		auth := middleware.Auth(cfg.JWTSecret, userRepo)
		active := middleware.RequireActive()

		api.GET("/posts/export", auth, postHandler.Export)
		api.GET("/posts/:id", postHandler.Get)
		api.POST("/posts", auth, active, postHandler.Create)
		api.PUT("/posts/:id", auth, active, postHandler.Update)
		api.DELETE("/posts/:id", auth, active, postHandler.Delete)

		api.GET("/users/profile", auth, userHandler.GetProfile)
		api.PUT("/users/profile", auth, active, userHandler.UpdateProfile)

		// Admin routes
		admin := middleware.RequireAdmin()
		api.GET("/users", auth, admin, userHandler.List)
		api.GET("/users/stats", auth, admin, userHandler.Stats)
		api.GET("/users/:id", auth, admin, userHandler.Get)
		api.PUT("/users/:id/status", auth, admin, userHandler.SetStatus)
	}

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
