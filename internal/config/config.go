package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Embedding EmbeddingConfig
	Loader    LoaderConfig
	Keys      APIKeys
	Events    EventsConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogLevel           string
	LogFilePath        string
	CorsAllowedOrigins string
	JwtSecret          string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	Connection   string // full DSN, wins over the parts when set
	MaxOpenConns int
	MaxIdleConns int
	EnsureSchema bool
	Dimension    int
	IndexLists   int
}

type EmbeddingConfig struct {
	Provider   string // "ollama", "gemini" or "jina"
	BaseURL    string
	Model      string // model used by the query service
	LocalModel string // model loaded by the batch loader
}

type LoaderConfig struct {
	DocumentsPath string
}

type APIKeys struct {
	Gemini string
	Jina   string
}

type EventsConfig struct {
	Bus     string // "", "memory" or "nats"
	NatsURL string
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogLevel:           strings.ToUpper(getEnv("LOG_LEVEL", "INFO")),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/qwery-ai.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			JwtSecret:          getEnv("AUTH_JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Host:         getEnv("POSTGRES_HOST", "postgresql-pgvector"),
			Port:         getEnv("POSTGRES_PORT", "5432"),
			Name:         getEnv("POSTGRES_DB", "vectordb"),
			User:         getEnv("POSTGRES_USER", "qweryai"),
			Password:     getEnv("POSTGRES_PASSWORD", ""),
			SSLMode:      getEnv("POSTGRES_SSLMODE", "disable"),
			Connection:   getEnv("DB_CONNECTION_STRING", ""),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			EnsureSchema: getEnvAsBool("DB_ENSURE_SCHEMA", false),
			Dimension:    getEnvAsInt("EMBEDDING_DIMENSION", 384),
			IndexLists:   getEnvAsInt("VECTOR_INDEX_LISTS", 100),
		},
		Embedding: EmbeddingConfig{
			Provider:   strings.ToLower(getEnv("EMBEDDING_PROVIDER", "ollama")),
			BaseURL:    getEnv("EMBEDDING_MODEL_URL", "http://ollama:11434"),
			Model:      getEnv("EMBEDDING_MODEL_NAME", "llama2"),
			LocalModel: getEnv("EMBEDDING_MODEL", "all-minilm"),
		},
		Loader: LoaderConfig{
			DocumentsPath: getEnv("DOCUMENTS_PATH", "./documents"),
		},
		Keys: APIKeys{
			Gemini: getEnv("GEMINI_API_KEY", ""),
			Jina:   getEnv("JINA_API_KEY", ""),
		},
		Events: EventsConfig{
			Bus:     strings.ToLower(getEnv("EVENT_BUS", "")),
			NatsURL: getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

// DSN returns the explicit connection string when configured, otherwise one
// assembled from the individual POSTGRES_* settings.
func (c DatabaseConfig) DSN() string {
	if c.Connection != "" {
		return c.Connection
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

func (c AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
