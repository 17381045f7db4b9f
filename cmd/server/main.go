package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/greencycle/ecotrack-backend/internal/config"
	"github.com/greencycle/ecotrack-backend/internal/handler"
	"github.com/greencycle/ecotrack-backend/internal/middleware"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/greencycle/ecotrack-backend/internal/repository"
	"github.com/greencycle/ecotrack-backend/internal/service"
	"github.com/greencycle/ecotrack-backend/pkg/database"
	"github.com/greencycle/ecotrack-backend/pkg/mailer"
	"github.com/greencycle/ecotrack-backend/pkg/storage"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := seedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	if cfg.AppEnv == "development" {
		if err := seedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	redisClient := connectRedis(cfg.RedisURL)

	photoStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Printf("cloudinary storage disabled: %v", err)
		photoStorage = nil
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := service.NewMeiliSearchService(meiliClient)

	mail := mailer.NewSMTPMailer()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	ecoActionRepo := repository.NewEcoActionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	chatRepo := repository.NewChatRepository(db)
	centerRepo := repository.NewCenterRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// Services
	notificationSvc := service.NewNotificationService(notificationRepo, redisClient)
	ecoPointsSvc := service.NewEcoPointsService(ecoActionRepo, userRepo, notificationSvc)
	authSvc := service.NewAuthService(userRepo, ecoPointsSvc, searchSvc, mail)
	adminSvc := service.NewAdminService(userRepo)
	profileSvc := service.NewProfileService(userRepo)
	reportSvc := service.NewReportService(reportRepo, userRepo, ecoPointsSvc, notificationSvc, searchSvc, photoStorage, service.NewRateLimiter(redisClient), cfg.RateLimitReport)
	scheduleSvc := service.NewScheduleService(scheduleRepo, userRepo)
	chatSvc := service.NewChatService(chatRepo, userRepo, notificationSvc)
	centerSvc := service.NewCenterService(centerRepo)
	eventSvc := service.NewEventService(eventRepo, ecoActionRepo, ecoPointsSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	adminHandler := handler.NewAdminHandler(adminSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	leaderboardHandler := handler.NewLeaderboardHandler(ecoPointsSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)
	chatHandler := handler.NewChatHandler(chatSvc)
	centerHandler := handler.NewCenterHandler(centerSvc)
	eventHandler := handler.NewEventHandler(eventSvc)

	// Background job: repair eco_points caches from the ledger.
	go func() {
		ticker := time.NewTicker(cfg.ReconcileInterval)
		defer ticker.Stop()

		for range ticker.C {
			if err := ecoPointsSvc.ReconcileCaches(context.Background()); err != nil {
				log.Printf("eco-points cache reconcile failed: %v", err)
			} else {
				log.Println("eco-points cache reconcile completed")
			}
		}
	}()

	router := gin.New()
	setupCORS(router, cfg.AllowedOrigins)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/users", adminHandler.CreateUser)
			adminGroup.GET("/users", adminHandler.GetAllUsers)
			adminGroup.PUT("/users/:id", adminHandler.UpdateUser)
			adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
			adminGroup.POST("/centers", centerHandler.Create)
			adminGroup.PUT("/centers/:id", centerHandler.Update)
			adminGroup.DELETE("/centers/:id", centerHandler.Delete)
		}

		// Staff routes (worker or admin)
		staff := protected.Group("")
		staff.Use(authMiddleware.RequireStaff())
		{
			staff.PATCH("/reports/:id/status", reportHandler.Transition)
			staff.POST("/schedules", scheduleHandler.Create)
			staff.PUT("/schedules/:id", scheduleHandler.Update)
			staff.DELETE("/schedules/:id", scheduleHandler.Delete)
			staff.PATCH("/schedules/:id/calculate-next", scheduleHandler.CalculateNext)
			staff.POST("/events", eventHandler.Create)
			staff.PUT("/events/:id", eventHandler.Update)
			staff.DELETE("/events/:id", eventHandler.Delete)
		}

		// Report routes
		protected.POST("/reports", reportHandler.Create)
		protected.GET("/reports", reportHandler.List)
		protected.GET("/reports/:id", reportHandler.GetByID)
		protected.PUT("/reports/:id", reportHandler.Update)
		protected.DELETE("/reports/:id", reportHandler.Delete)

		// Schedule routes
		protected.GET("/schedules", scheduleHandler.List)
		protected.GET("/schedules/:id", scheduleHandler.GetByID)

		// Gamification routes
		protected.GET("/leaderboard", leaderboardHandler.GetRanking)
		protected.GET("/eco-actions/me", leaderboardHandler.GetMyActions)

		// Profile routes
		protected.GET("/profile/me", profileHandler.GetMe)
		protected.GET("/profile/:username", profileHandler.GetByUsername)
		protected.PUT("/profile", profileHandler.UpdateMe)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		// Chat routes
		protected.POST("/chat/rooms", chatHandler.OpenRoom)
		protected.GET("/chat/rooms", chatHandler.ListRooms)
		protected.GET("/chat/rooms/:id/messages", chatHandler.ListMessages)
		protected.POST("/chat/rooms/:id/messages", chatHandler.SendMessage)

		// Recycling center routes
		protected.GET("/centers", centerHandler.List)
		protected.GET("/centers/:id", centerHandler.GetByID)
		protected.POST("/centers/:id/favorite", centerHandler.AddFavorite)
		protected.DELETE("/centers/:id/favorite", centerHandler.RemoveFavorite)
		protected.GET("/favorites", centerHandler.ListFavorites)

		// Cleanup event routes
		protected.GET("/events", eventHandler.List)
		protected.GET("/events/:id", eventHandler.GetByID)
		protected.POST("/events/:id/join", eventHandler.Join)
		protected.DELETE("/events/:id/join", eventHandler.Leave)
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func connectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Println("REDIS_URL not set, realtime notifications and rate limiting disabled")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, continuing without redis: %v", err)
		return nil
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unreachable, continuing without redis: %v", err)
		return nil
	}

	return client
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Profile{},
		&model.Report{},
		&model.ReportPhoto{},
		&model.CollectionSchedule{},
		&model.EcoAction{},
		&model.Notification{},
		&model.ChatRoom{},
		&model.ChatMessage{},
		&model.RecyclingCenter{},
		&model.FavoriteCenter{},
		&model.CleanupEvent{},
		&model.EventParticipant{},
	); err != nil {
		return err
	}

	// AutoMigrate cannot express partial indexes. One daily_login entry per
	// user per calendar day, enforced even under concurrent logins.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_eco_actions_daily_login
		ON eco_actions (user_id, (created_at::date)) WHERE type = 'daily_login'`).Error
}

func seedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Name: model.RoleCitizen, Description: "Resident reporting waste issues"},
		{Name: model.RoleWorker, Description: "Municipal collection worker"},
		{Name: model.RoleAdmin, Description: "Super administrator"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func seedAdminUser(db *gorm.DB) error {
	var adminRole model.Role
	if err := db.Where("name = ?", model.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@ecotrack.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := model.User{
		Username:     "admin",
		Email:        "admin@ecotrack.local",
		PasswordHash: string(hashedPasswordBytes),
		RoleID:       &adminRole.ID,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	adminProfile := model.Profile{
		UserID:   adminUser.ID,
		FullName: "Administrator",
	}

	if err := db.Create(&adminProfile).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded (admin@ecotrack.local / admin123)")

	return nil
}
