package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	API        APIConfig
	AWS        AWSConfig
	Catalog    CatalogConfig
	Mattermost MattermostConfig
	Directory  DirectoryConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is (e.g. postgres://localhost:5432/masterclasses?sslmode=disable)
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT signing and validation settings for the back-office.
type JWTConfig struct {
	Secret      string
	ExpireHours int
}

// APIConfig holds the static bearer token protecting the integration API.
type APIConfig struct {
	Token string
}

// AWSConfig holds AWS credentials and the S3 buckets for media assets.
type AWSConfig struct {
	Region               string
	AccessKeyID          string
	SecretAccessKey      string
	ThumbnailsBucket     string
	HeadshotsBucket      string
	PresignExpireMinutes int
}

// CatalogConfig holds catalog presentation settings.
type CatalogConfig struct {
	PageSize int // videos per catalog page
}

// MattermostConfig holds the incoming-webhook settings for submission notifications.
type MattermostConfig struct {
	WebhookURL string
	Username   string
	IconURL    string
	Channel    string
}

// DirectoryConfig holds the employee-directory sync settings.
type DirectoryConfig struct {
	URL           string
	Token         string
	AvatarBaseURL string // headshot URL is AvatarBaseURL + "/" + email
	SyncHours     int    // presenter sync interval; 0 disables the sync loop
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (DATABASE_URL env), it is used as-is; otherwise built from components.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "masterclasses"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-me-in-production"),
			ExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),
		},
		API: APIConfig{
			Token: getEnv("API_TOKEN", ""),
		},
		AWS: AWSConfig{
			Region:               getEnv("AWS_REGION", ""),
			AccessKeyID:          getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey:      getEnv("AWS_SECRET_ACCESS_KEY", ""),
			ThumbnailsBucket:     getEnv("AWS_S3_THUMBNAILS_BUCKET", "masterclass-thumbnails"),
			HeadshotsBucket:      getEnv("AWS_S3_HEADSHOTS_BUCKET", "masterclass-headshots"),
			PresignExpireMinutes: getEnvInt("AWS_PRESIGN_EXPIRE_MINUTES", 15),
		},
		Catalog: CatalogConfig{
			PageSize: getEnvInt("CATALOG_PAGE_SIZE", 12),
		},
		Mattermost: MattermostConfig{
			WebhookURL: getEnv("MATTERMOST_WEBHOOK_URL", ""),
			Username:   getEnv("MATTERMOST_USERNAME", "Masterclasses"),
			IconURL:    getEnv("MATTERMOST_ICON_URL", ""),
			Channel:    getEnv("MATTERMOST_CHANNEL", ""),
		},
		Directory: DirectoryConfig{
			URL:           getEnv("DIRECTORY_API_URL", ""),
			Token:         getEnv("DIRECTORY_API_TOKEN", ""),
			AvatarBaseURL: getEnv("DIRECTORY_AVATAR_BASE_URL", ""),
			SyncHours:     getEnvInt("DIRECTORY_SYNC_HOURS", 24),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
