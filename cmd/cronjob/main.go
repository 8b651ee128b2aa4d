package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"tinytribe-backend/internal/config"
	"tinytribe-backend/internal/invite"
	"tinytribe-backend/internal/jobs"
	"tinytribe-backend/internal/logger"
	"tinytribe-backend/internal/repository/postgres"
	"tinytribe-backend/internal/scheduler"
	"tinytribe-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'send-request-reminders', 'send-invite-nudges', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting TinyTribe Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)
	queryTimeout := time.Duration(cfg.Database.QueryTimeoutSeconds) * time.Second

	// Initialize Services
	var emailService service.EmailService
	switch cfg.Email.Provider {
	case "sendgrid":
		emailService = service.NewSendGridEmailService(cfg.Email.SendGridAPIKey, cfg.Email.From, cfg.Email.FromName)
	default:
		emailService = service.NewEmailService(
			cfg.Email.Host,
			cfg.Email.Port,
			cfg.Email.User,
			cfg.Email.Password,
			cfg.Email.From,
		)
	}

	codec := invite.NewCodec(cfg.Groups.InviteScheme, cfg.Groups.InviteHost)
	groupService := service.NewGroupService(
		store.GroupRepository,
		store.UserGroupRepository,
		codec,
		emailService,
		queryTimeout,
		cfg.Groups.RequireInvite,
	)

	jobServices := &jobs.Services{
		Email:  emailService,
		Groups: groupService,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "send-request-reminders":
		jobRunner.SendRequestReminders()
	case "send-invite-nudges":
		jobRunner.SendInviteNudges()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - send-request-reminders\n")
		fmt.Printf("  - send-invite-nudges\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
