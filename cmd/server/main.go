package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/autosell-mx/reposting-api/configs"
	"github.com/autosell-mx/reposting-api/internal/api/handlers"
	"github.com/autosell-mx/reposting-api/internal/api/middleware"
	job "github.com/autosell-mx/reposting-api/internal/jobs"
	"github.com/autosell-mx/reposting-api/internal/models"
	"github.com/autosell-mx/reposting-api/internal/queue"
	"github.com/autosell-mx/reposting-api/internal/repository"
	"github.com/autosell-mx/reposting-api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    50 * 1024 * 1024, // 50 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	vehicleRepo := repository.NewVehicleRepository(db)
	accountRepo := repository.NewFacebookAccountRepository(db)
	postRepo := repository.NewSocialPostRepository(db)
	workflowRepo := repository.NewAutomationWorkflowRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	apiKeyRepository := repository.NewApiKeyRepository(db)

	newPublisher := func(account *models.FacebookAccount) service.Publisher {
		return service.NewFacebookService(cfg.GraphAPIBaseURL, service.CredentialsFor(account, cfg.SecretKey))
	}

	accountService := service.NewAccountService(*cfg, accountRepo, newPublisher)
	postService := service.NewPostService(postRepo, vehicleRepo, accountRepo, newPublisher)
	automationService := service.NewAutomationService(db, workflowRepo, postRepo, vehicleRepo, accountRepo, newPublisher)
	vehicleService := service.NewVehicleService(vehicleRepo)
	storageService := service.NewStorageService(*cfg)
	photoService := service.NewPhotoService(*cfg, photoRepo, vehicleRepo, storageService)
	sheetsService := service.NewSheetsService(cfg, vehicleRepo)
	apiKeyService := service.NewApiKeyService(apiKeyRepository)

	authMiddleware := middleware.NewAuthMiddleware(cfg, apiKeyService)

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "error": err.Error()})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	facebook := handlers.NewFacebookHandler(accountService, postService, automationService, client)
	api.Get("/facebook/status", facebook.AutomationStatus)
	api.Get("/facebook/accounts/status", facebook.AccountsStatus)
	api.Post("/facebook/accounts", facebook.CreateAccount)
	api.Get("/facebook/accounts/:id", facebook.GetAccount)
	api.Put("/facebook/accounts/:id", facebook.UpdateAccount)
	api.Get("/facebook/accounts/:id/validate", facebook.ValidateAccount)
	api.Post("/facebook/accounts/:id/manual-post", facebook.ManualPost)
	api.Post("/facebook/test-post", facebook.TestPost)
	api.Post("/facebook/schedule", facebook.Schedule)
	api.Post("/facebook/start-automation", facebook.StartAutomation)
	api.Post("/facebook/stop-automation", facebook.StopAutomation)
	api.Get("/facebook/posts", facebook.ListPosts)
	api.Delete("/facebook/posts/:id", facebook.DeletePost)

	vehicle := handlers.NewVehicleHandler(vehicleService, client)
	api.Get("/vehicles", vehicle.ListVehicles)
	api.Get("/vehicles/:id", vehicle.GetVehicle)
	api.Post("/vehicles/:id/mark-sold", vehicle.MarkSold)
	api.Post("/integration/sync-sheets", vehicle.SyncToSheets)

	photo := handlers.NewPhotoHandler(photoService)
	api.Post("/vehicles/:id/photos", photo.UploadPhotos)
	api.Get("/vehicles/:id/photos", photo.ListPhotos)

	// cron jobs
	engagementJob := job.NewEngagementJob(accountRepo, postRepo, newPublisher)

	//queue
	queueW := queue.NewQueue(cfg, sheetsService)

	c := cron.New()
	c.AddFunc("@every 00h30m00s", engagementJob.RefreshEngagement)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeSyncVehicle, queueW.HandleSyncVehicleTask)
		mux.HandleFunc(queue.TaskTypeSyncInventory, queueW.HandleSyncInventoryTask)
		mux.HandleFunc(queue.TaskTypeNotifyWorkflow, queueW.HandleNotifyWorkflowTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	// pick the scheduler back up if it was active before the restart
	workflow, exists, err := workflowRepo.GetByType(context.Background(), models.WorkflowTypeFacebookReposting)
	if err == nil && exists && workflow.IsActive {
		automationService.Start()
	}

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db, automationService)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB, automation service.AutomationService) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	automation.Stop()

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
