package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	httpapi "tinytribe-backend/internal/api/http"
	"tinytribe-backend/internal/auth"
	"tinytribe-backend/internal/config"
	"tinytribe-backend/internal/invite"
	"tinytribe-backend/internal/logger"
	"tinytribe-backend/internal/repository/postgres"
	"tinytribe-backend/internal/service"
	"tinytribe-backend/internal/session"
	"tinytribe-backend/internal/storage"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting TinyTribe Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Auth configuration", "mode", cfg.Auth.Mode)
	logger.Info("Email configuration", "provider", cfg.Email.Provider)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
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

	// Initialize Token Verifier
	var verifier auth.Verifier
	switch cfg.Auth.Mode {
	case "jwt":
		logger.Info("Using shared-secret JWT verification (development mode)")
		verifier = auth.NewJWTVerifier(cfg.Auth.JWTSecret)
	default:
		verifier, err = auth.NewFirebaseVerifier(context.Background(), cfg.Auth.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize Firebase verifier", "error", err)
			log.Fatalf("Failed to initialize Firebase verifier: %v", err)
		}
	}
	authMw := auth.NewMiddleware(verifier)

	// Initialize Storage Service
	var storageService storage.StorageInterface
	if cfg.Storage.Type == "" || cfg.Storage.Type == "local" {
		logger.Info("Using local filesystem storage", "upload_dir", cfg.Storage.UploadDir)
		localStorage, err := storage.NewLocalStorageService(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
		if err != nil {
			logger.Error("Failed to initialize local storage", "error", err)
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
		storageService = localStorage
	} else {
		logger.Error("Unsupported storage type", "type", cfg.Storage.Type)
		log.Fatalf("Storage type '%s' not yet implemented", cfg.Storage.Type)
	}

	// Initialize Email Service
	var emailSvc service.EmailService
	switch cfg.Email.Provider {
	case "sendgrid":
		emailSvc = service.NewSendGridEmailService(cfg.Email.SendGridAPIKey, cfg.Email.From, cfg.Email.FromName)
	default:
		emailSvc = service.NewEmailService(
			cfg.Email.Host,
			cfg.Email.Port,
			cfg.Email.User,
			cfg.Email.Password,
			cfg.Email.From,
		)
	}

	// Initialize Services
	codec := invite.NewCodec(cfg.Groups.InviteScheme, cfg.Groups.InviteHost)
	groupSvc := service.NewGroupService(
		store.GroupRepository,
		store.UserGroupRepository,
		codec,
		emailSvc,
		queryTimeout,
		cfg.Groups.RequireInvite,
	)
	requestSvc := service.NewRequestService(store.RequestRepository, store.GroupRepository, queryTimeout)
	userSvc := service.NewUserService(store.ProfileRepository, storageService, queryTimeout)

	// Deep-link resolvers are per-session and in-memory only
	registry := session.NewRegistry(codec, groupSvc)

	// Initialize HTTP handlers
	groupHandler := httpapi.NewGroupHandler(groupSvc)
	requestHandler := httpapi.NewRequestHandler(requestSvc)
	profileHandler := httpapi.NewProfileHandler(userSvc, cfg.Storage.MaxFileSize)
	sessionHandler := httpapi.NewSessionHandler(registry)
	mediaHandler := httpapi.NewMediaHandler(storageService)

	router := httpapi.NewRouter(authMw, groupHandler, requestHandler, profileHandler, sessionHandler, mediaHandler)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
