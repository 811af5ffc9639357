package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBizzioEndpoint is the GenCloud RiznShop extension service
const DefaultBizzioEndpoint = "https://bizzio.gencloud.bg/Services/Extensions/RiznShopExtService.svc"

// PasswordMask replaces secrets when settings are displayed
const PasswordMask = "********"

// Config holds all application configuration
type Config struct {
	NodeEnv           string
	Port              string
	JWTSecret         string
	EncKey            string
	AdminPassword     string
	AdminPasswordHash string
	CORSOrigins       []string
	Database          DatabaseConfig
	Bizzio            BizzioConfig
	Import            ImportConfig
	Media             MediaConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Host       string
	Port       string
	Username   string
	Password   string
	Database   string
	SQLitePath string
	Silent     bool
}

// BizzioConfig holds the ERP endpoint and credentials
type BizzioConfig struct {
	Endpoint string
	Database string
	Username string
	Password string
	SiteID   string
	Debug    bool
	Timeout  time.Duration
}

// Masked returns a copy safe for display
func (b BizzioConfig) Masked() BizzioConfig {
	if b.Password != "" {
		b.Password = PasswordMask
	}
	return b
}

// Configured reports whether enough credentials are present to call the ERP
func (b BizzioConfig) Configured() bool {
	return b.Endpoint != "" && b.Database != "" && b.Username != "" && b.Password != ""
}

// ImportConfig controls batch processing
type ImportConfig struct {
	BatchSize      int
	AutoAdvance    bool
	Interval       time.Duration
	RefreshMinutes int
}

// MediaConfig controls where downloaded images are stored
type MediaConfig struct {
	UploadDir    string
	ImageTimeout time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	cfg := &Config{
		NodeEnv:           getEnv("NODE_ENV", "development"),
		Port:              getEnv("PORT", "3001"),
		JWTSecret:         jwtSecret,
		EncKey:            os.Getenv("ENC_KEY"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Host:       getEnv("PG_HOST", "localhost"),
			Port:       getEnv("PG_PORT", "5432"),
			Username:   getEnv("PG_USERNAME", "postgres"),
			Password:   os.Getenv("PG_PASSWORD"),
			Database:   getEnv("PG_DATABASE", "bizziosync"),
			SQLitePath: getEnv("SQLITE_PATH", "bizziosync.db"),
			Silent:     getEnvBool("DB_SILENT", false),
		},
		Bizzio: BizzioConfig{
			Endpoint: getEnv("BIZZIO_ENDPOINT", DefaultBizzioEndpoint),
			Database: os.Getenv("BIZZIO_DATABASE"),
			Username: os.Getenv("BIZZIO_USERNAME"),
			Password: os.Getenv("BIZZIO_PASSWORD"),
			SiteID:   os.Getenv("BIZZIO_SITE_ID"),
			Debug:    getEnvBool("BIZZIO_DEBUG", false),
			Timeout:  getEnvDuration("BIZZIO_TIMEOUT", 60*time.Second),
		},
		Import: ImportConfig{
			BatchSize:      getEnvInt("IMPORT_BATCH_SIZE", 10),
			AutoAdvance:    getEnvBool("IMPORT_AUTO_ADVANCE", false),
			Interval:       getEnvDuration("IMPORT_INTERVAL", 5*time.Second),
			RefreshMinutes: getEnvInt("IMPORT_REFRESH_MINUTES", 0),
		},
		Media: MediaConfig{
			UploadDir:    getEnv("UPLOAD_DIR", "./uploads"),
			ImageTimeout: getEnvDuration("IMAGE_TIMEOUT", 30*time.Second),
		},
	}

	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}
	if cfg.Import.BatchSize <= 0 {
		return nil, fmt.Errorf("IMPORT_BATCH_SIZE must be positive, got %d", cfg.Import.BatchSize)
	}

	return cfg, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvDuration accepts Go durations ("90s") or plain seconds ("90")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
