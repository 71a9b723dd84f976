package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	PostgreSQL PostgreSQLConfig
	Session    SessionConfig
	Redis      RedisConfig
	Search     SearchConfig
	Logging    LoggingConfig
	OpenAI     OpenAIConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// StorageConfig holds the whole-file store locations and the catalog backend
type StorageConfig struct {
	DataDir        string
	CatalogBackend string // "file" or "postgres"
	CatalogFile    string
	SavedPlansFile string
	ProfilesFile   string
	SourceCSV      string
	DefaultUserID  string
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, preferred when set
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	EmbeddingDimension int
}

// SessionConfig holds chat session storage configuration
type SessionConfig struct {
	Backend string // "memory" or "redis"
	TTL     time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SearchConfig holds listing and recommendation limits
type SearchConfig struct {
	DefaultLimit int
	MaxLimit     int
	ChatTopN     int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// OpenAIConfig holds configuration for the OpenAI-compatible advisory endpoint
type OpenAIConfig struct {
	APIKey              string
	APIBase             string
	ChatModel           string
	ChatTemperature     float64
	ChatMaxTokens       int
	SystemPrompt        string
	PromptTemplateFile  string
	EmbeddingModel      string
	EmbeddingDimensions int
	BatchSize           int
	Timeout             int
	Enabled             bool
}

const defaultSystemPrompt = "You are InsureBot, an AI assistant specializing in Hong Kong whole life insurance. " +
	"Provide helpful information about insurance in a structured format."

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "data")
	apiKey := getEnv("OPENAI_API_KEY", getEnv("GITHUB_TOKEN", ""))

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Storage: StorageConfig{
			DataDir:        dataDir,
			CatalogBackend: getEnv("CATALOG_BACKEND", "file"),
			CatalogFile:    getEnv("CATALOG_FILE", filepath.Join(dataDir, "whole_life_insurance.json")),
			SavedPlansFile: getEnv("SAVED_PLANS_FILE", filepath.Join(dataDir, "saved_plans.json")),
			ProfilesFile:   getEnv("USER_PROFILES_FILE", filepath.Join(dataDir, "user_profiles.json")),
			SourceCSV:      getEnv("CATALOG_SOURCE_CSV", "Compare Whole Life Critical Illness Insurance _ 10Life.csv"),
			DefaultUserID:  getEnv("DEFAULT_USER_ID", "default"),
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "insurebot"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
			EmbeddingDimension: getEnvAsInt("OPENAI_EMBEDDING_DIMENSIONS", 1536),
		},
		Session: SessionConfig{
			Backend: getEnv("SESSION_BACKEND", "memory"),
			TTL:     time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 24*60)) * time.Minute,
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Search: SearchConfig{
			DefaultLimit: getEnvAsInt("SEARCH_DEFAULT_LIMIT", 50),
			MaxLimit:     getEnvAsInt("SEARCH_MAX_LIMIT", 500),
			ChatTopN:     getEnvAsInt("CHAT_TOP_N", 3),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		OpenAI: OpenAIConfig{
			APIKey:              apiKey,
			APIBase:             getEnv("OPENAI_API_BASE", "https://models.inference.ai.azure.com"),
			ChatModel:           getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ChatTemperature:     getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.7),
			ChatMaxTokens:       getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 500),
			SystemPrompt:        getEnv("OPENAI_SYSTEM_PROMPT", defaultSystemPrompt),
			PromptTemplateFile:  getEnv("PROMPT_TEMPLATE_FILE", "prompt_template.txt"),
			EmbeddingModel:      getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimensions: getEnvAsInt("OPENAI_EMBEDDING_DIMENSIONS", 1536),
			BatchSize:           getEnvAsInt("OPENAI_BATCH_SIZE", 100),
			Timeout:             getEnvAsInt("OPENAI_TIMEOUT", 30),
			Enabled:             apiKey != "",
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.CatalogBackend {
	case "file", "postgres":
	default:
		return fmt.Errorf("invalid CATALOG_BACKEND %q, must be one of: file, postgres", c.Storage.CatalogBackend)
	}
	switch c.Session.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid SESSION_BACKEND %q, must be one of: memory, redis", c.Session.Backend)
	}
	if c.Search.ChatTopN <= 0 {
		return fmt.Errorf("CHAT_TOP_N must be positive, got %d", c.Search.ChatTopN)
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// GetRedisAddr returns the host:port address of the Redis server
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}
