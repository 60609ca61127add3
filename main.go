package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/destinyOrji/Cademoh/handlers"
	"github.com/destinyOrji/Cademoh/models"
	"github.com/destinyOrji/Cademoh/services"
	"github.com/destinyOrji/Cademoh/utils"
	"github.com/destinyOrji/Cademoh/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOriginsString,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With",
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(&models.Player{}); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	ledger := services.NewLedgerService(db)
	sessions := services.NewSessionService(ledger)
	leaderboard := services.NewLeaderboardService(db)

	// Live blockchain reads when WEB3_PROVIDER_URL is configured, otherwise
	// the deterministic mock. Selected once; restart to retry connectivity.
	balanceSource := services.NewBalanceSourceFromEnv()
	reconciler := workers.NewReconciler(db, balanceSource)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go workers.PollSimulatedTransfers(ctx, reconciler, 30*time.Second)

	snapshotWorker := workers.NewLeaderboardSnapshotWorker(db, 15*time.Minute)
	go snapshotWorker.Start(ctx)

	sessions.StartSweepScheduler()

	handlers.SetupGameRoutes(app, sessions, ledger)
	handlers.SetupLeaderboardRoutes(app, leaderboard)
	handlers.SetupUserRoutes(app, ledger)
	handlers.SetupWeb3Routes(app, balanceSource, reconciler, ledger)

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "OK",
			"message":   "Cademoh backend is running",
			"timestamp": time.Now().UTC(),
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Simulated transfer polling running (every 30s)")
	log.Println("✅ Session sweep scheduler running (every 5m)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
