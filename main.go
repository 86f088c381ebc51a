package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	api "unihelper/cmd/api"
	"unihelper/internal/academic/domain"
	"unihelper/internal/academic/repository"
	"unihelper/internal/assistant/poller"
	"unihelper/internal/assistant/scheduler"
	"unihelper/internal/assistant/usecase"
	"unihelper/pkg/ai"
	"unihelper/pkg/config"
	"unihelper/pkg/database"
	"unihelper/pkg/mailbox"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration; any problem here is fatal, nothing is
	// re-validated at runtime
	cfg := config.Load()
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			log.Printf("Configuration error: %s", e)
		}
		log.Fatal("Configuration incomplete, see errors above")
	}

	// Initialize database
	db, err := database.NewSQLiteConnection(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&domain.Class{}, &domain.Note{}, &domain.Assignment{}, &domain.ProcessedEmail{}); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	// Initialize repositories (dependency injection)
	classRepo := repository.NewClassRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	processedRepo := repository.NewProcessedEmailRepository(db)

	// Initialize AI client; the provider is fixed for the process
	// lifetime
	aiClient, err := ai.NewClient(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.Fatal("Failed to initialize AI client: ", err)
	}
	log.Printf("AI client initialized (provider: %s)", cfg.AIProvider)

	// Initialize mail gateway
	gateway := mailbox.NewIMAPGateway(cfg.IMAPAddr, cfg.SMTPAddr, cfg.EmailAddress, cfg.EmailAppPassword)
	if err := gateway.Connect(); err != nil {
		log.Fatal("Failed to connect to mailbox: ", err)
	}
	defer gateway.Close()

	// Initialize processing pipeline
	extractor := usecase.NewExtractor(aiClient)
	processor := usecase.NewProcessor(classRepo, noteRepo, assignmentRepo, extractor, cfg.ReminderHoursBefore)

	// Start ingestion loop
	emailPoller := poller.New(gateway, processedRepo, processor, cfg.PollInterval)
	emailPoller.Start()

	// Start reminder scheduler
	hour, minute, err := cfg.ReminderClock()
	if err != nil {
		log.Fatal("Invalid reminder time: ", err)
	}
	reminderScheduler := scheduler.New(assignmentRepo, classRepo, gateway, cfg.EmailAddress, cfg.ReminderHoursBefore)
	if err := reminderScheduler.Start(hour, minute); err != nil {
		log.Fatal("Failed to start reminder scheduler: ", err)
	}

	// Start inspection API
	router := gin.Default()
	api.SetupRoutes(router, api.NewHandler(classRepo, noteRepo, assignmentRepo))
	go func() {
		log.Printf("Inspection API listening on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Printf("Inspection API stopped: %v", err)
		}
	}()

	log.Printf("Uni Helper is running (mailbox: %s, poll: %s, reminders: %s UTC)",
		cfg.EmailAddress, cfg.PollInterval, cfg.ReminderTime)

	// Graceful shutdown: stop accepting new cycles/triggers, let
	// in-flight work finish, release the mailbox session
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received...")
	emailPoller.Stop()
	reminderScheduler.Stop()
	log.Println("Shutdown complete")
}
