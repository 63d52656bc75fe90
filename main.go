package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"codequest-platform/config"
	"codequest-platform/handlers"
	"codequest-platform/middleware"
	"codequest-platform/models"
	"codequest-platform/services"
	"codequest-platform/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 128 * 1024 * 1024, // asset pack uploads
	})

	// 🔐 GLOBAL: only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles, X-User-Name",
		MaxAge:       86400,
	}))

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	// TranslateError turns driver duplicate-key errors into
	// gorm.ErrDuplicatedKey; the services depend on that.
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.UserRole{},
		&models.Module{},
		&models.Lesson{},
		&models.UserProgress{},
		&models.QuizQuestion{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.ShopItem{},
		&models.UserInventory{},
		&models.Friendship{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
	})

	leaderboardService := services.NewLeaderboardService(db, rdb)
	rewardService := services.NewRewardService(db)
	rewardService.Leaderboard = leaderboardService
	achievementService := services.NewAchievementService(db)
	progressService := services.NewProgressService(db, rewardService)
	quizService := services.NewQuizService(db, rewardService)
	shopService := services.NewShopService(db)
	profileService := services.NewProfileService(db)
	friendshipService := services.NewFriendshipService(db)
	contentService := services.NewContentService(db, rewardService)

	schedulerService := services.NewSchedulerService(db)
	schedulerService.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ✅ Routes — enforced Gateway auth, consistent /s/ prefix
	handlers.SetupProfileRoutes(app, profileService, rewardService, achievementService)
	handlers.SetupLearningRoutes(app, progressService)
	handlers.SetupQuizRoutes(app, quizService)
	handlers.SetupShopRoutes(app, shopService)
	handlers.SetupSocialRoutes(app, friendshipService, profileService, leaderboardService)
	handlers.SetupAdminRoutes(app, db, contentService, shopService, achievementService)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("🎮 Learning platform running on http://localhost:%s", cfg.Port)
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
	_ = rdb.Close()
}
