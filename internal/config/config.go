package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Email     EmailConfig     `yaml:"email"`
	Storage   StorageConfig   `yaml:"storage"`
	Groups    GroupsConfig    `yaml:"groups"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	User                string `yaml:"user"`
	Password            string `yaml:"password"`
	Database            string `yaml:"database"`
	SSLMode             string `yaml:"ssl_mode"`
	QueryTimeoutSeconds int    `yaml:"query_timeout_seconds"`
}

// AuthConfig selects how bearer tokens are verified.
// Mode "firebase" verifies Firebase ID tokens with the Admin SDK;
// mode "jwt" verifies HS256 tokens with a shared secret (local dev, tests).
type AuthConfig struct {
	Mode            string `yaml:"mode"`
	CredentialsFile string `yaml:"credentials_file"`
	JWTSecret       string `yaml:"jwt_secret"`
}

// EmailConfig contains outgoing mail settings.
// Provider "smtp" uses gomail, "sendgrid" uses the SendGrid API.
type EmailConfig struct {
	Provider       string `yaml:"provider"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	From           string `yaml:"from"`
	FromName       string `yaml:"from_name"`
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
}

// StorageConfig contains photo storage settings
type StorageConfig struct {
	Type        string `yaml:"type"`        // "local" is the only backend implemented
	UploadDir   string `yaml:"upload_dir"`  // For local storage
	BaseURL     string `yaml:"base_url"`    // Server base URL used to build photo URLs
	MaxFileSize int64  `yaml:"max_file_size_mb"`
}

// GroupsConfig contains invite link and membership policy settings
type GroupsConfig struct {
	InviteScheme string `yaml:"invite_scheme"`
	InviteHost   string `yaml:"invite_host"`
	// RequireInvite rejects joins from identities that were never invited.
	// Off by default: any authenticated holder of a link may join.
	RequireInvite bool `yaml:"require_invite"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SendRequestReminders string `yaml:"send_request_reminders"`
	SendInviteNudges     string `yaml:"send_invite_nudges"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Auth
	if val := os.Getenv("AUTH_MODE"); val != "" {
		c.Auth.Mode = val
	}
	if val := os.Getenv("FIREBASE_CREDENTIALS_FILE"); val != "" {
		c.Auth.CredentialsFile = val
	}
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.Auth.JWTSecret = val
	}

	// Email
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.Email.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Email.Port)
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.Email.User = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.Email.Password = val
	}
	if val := os.Getenv("SMTP_FROM"); val != "" {
		c.Email.From = val
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Storage
	if val := os.Getenv("UPLOAD_DIR"); val != "" {
		c.Storage.UploadDir = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.QueryTimeoutSeconds == 0 {
		c.Database.QueryTimeoutSeconds = 15
	}

	// Auth validation
	switch c.Auth.Mode {
	case "", "firebase":
		c.Auth.Mode = "firebase"
		if c.Auth.CredentialsFile == "" {
			return fmt.Errorf("auth credentials file is required in firebase mode")
		}
	case "jwt":
		if len(c.Auth.JWTSecret) < 32 {
			return fmt.Errorf("JWT secret must be at least 32 characters")
		}
	default:
		return fmt.Errorf("unknown auth mode: %s", c.Auth.Mode)
	}

	// Email validation
	switch c.Email.Provider {
	case "", "smtp":
		c.Email.Provider = "smtp"
		if c.Email.Host == "" {
			return fmt.Errorf("SMTP host is required")
		}
		if c.Email.Port <= 0 || c.Email.Port > 65535 {
			return fmt.Errorf("invalid SMTP port: %d", c.Email.Port)
		}
	case "sendgrid":
		if c.Email.SendGridAPIKey == "" {
			return fmt.Errorf("SendGrid API key is required")
		}
	default:
		return fmt.Errorf("unknown email provider: %s", c.Email.Provider)
	}
	if c.Email.From == "" {
		return fmt.Errorf("email from address is required")
	}

	// Storage validation
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("upload directory is required")
	}
	if c.Storage.MaxFileSize == 0 {
		c.Storage.MaxFileSize = 10
	}

	// Invite link defaults
	if c.Groups.InviteScheme == "" {
		c.Groups.InviteScheme = "tinytribe"
	}
	if c.Groups.InviteHost == "" {
		c.Groups.InviteHost = "group"
	}

	// Scheduler defaults
	if c.Scheduler.SendRequestReminders == "" {
		c.Scheduler.SendRequestReminders = "0 0 18 * * *" // Daily at 6 PM UTC
	}
	if c.Scheduler.SendInviteNudges == "" {
		c.Scheduler.SendInviteNudges = "0 0 10 * * 1" // Mondays at 10 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
