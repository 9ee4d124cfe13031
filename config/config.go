package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration (session state).
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	SessionTTLMin  int    `mapstructure:"SESSION_TTL_MIN"`

	// Mongo (structured facts / FAQ).
	MongoURL      string `mapstructure:"MONGO_URL"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`
	FactsLimit    int    `mapstructure:"FACTS_LIMIT"`

	// Qdrant vector search + embedding sidecar.
	QdrantURL        string `mapstructure:"QDRANT_URL"`
	QdrantCollection string `mapstructure:"QDRANT_COLLECTION"`
	VectorTopK       int    `mapstructure:"VECTOR_TOP_K"`
	EmbedURL         string `mapstructure:"EMBED_URL"`

	// Retrieval context budgets and grounding guard.
	MaxSnippets       int `mapstructure:"MAX_SNIPPETS"`
	ContextCharBudget int `mapstructure:"CONTEXT_CHAR_BUDGET"`
	GroundingMinHits  int `mapstructure:"GROUNDING_MIN_HITS"`

	// LLM.
	GeminiAPIKey   string  `mapstructure:"GEMINI_API_KEY"`
	GeminiModel    string  `mapstructure:"GEMINI_MODEL"`
	LLMTemperature float64 `mapstructure:"LLM_TEMPERATURE"`
	LLMMaxTokens   int     `mapstructure:"LLM_MAX_TOKENS"`
	LLMTimeoutSec  int     `mapstructure:"LLM_TIMEOUT_SEC"`
	LLMDryRun      bool    `mapstructure:"LLM_DRY_RUN"`
	LLMCacheTTLSec int     `mapstructure:"LLM_CACHE_TTL_SEC"`

	// Property-management system (booking quotes).
	PmsBaseURL    string `mapstructure:"PMS_BASE_URL"`
	PmsToken      string `mapstructure:"PMS_TOKEN"`
	PmsTimeoutSec int    `mapstructure:"PMS_TIMEOUT_SEC"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("SESSION_TTL_MIN", 720)
	viper.SetDefault("MONGO_URL", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "concierge")
	viper.SetDefault("FACTS_LIMIT", 6)
	viper.SetDefault("QDRANT_URL", "http://127.0.0.1:6333")
	viper.SetDefault("QDRANT_COLLECTION", "hotel_kb")
	viper.SetDefault("VECTOR_TOP_K", 4)
	viper.SetDefault("EMBED_URL", "http://127.0.0.1:8011/embed")
	viper.SetDefault("MAX_SNIPPETS", 8)
	viper.SetDefault("CONTEXT_CHAR_BUDGET", 4000)
	viper.SetDefault("GROUNDING_MIN_HITS", 3)
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	viper.SetDefault("LLM_TEMPERATURE", 0.1)
	viper.SetDefault("LLM_MAX_TOKENS", 350)
	viper.SetDefault("LLM_TIMEOUT_SEC", 20)
	viper.SetDefault("LLM_DRY_RUN", false)
	viper.SetDefault("LLM_CACHE_TTL_SEC", 600)
	viper.SetDefault("PMS_BASE_URL", "https://pms.frontdesk24.ru/api/online")
	viper.SetDefault("PMS_TOKEN", "")
	viper.SetDefault("PMS_TIMEOUT_SEC", 10)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// SessionTTL returns the configured session lifetime.
func SessionTTL() time.Duration {
	return time.Duration(AppConfig.SessionTTLMin) * time.Minute
}

// LLMTimeout returns the per-call LLM deadline.
func LLMTimeout() time.Duration {
	return time.Duration(AppConfig.LLMTimeoutSec) * time.Second
}

// LLMCacheTTL returns the lifetime of cached LLM answers. Zero disables
// the cache.
func LLMCacheTTL() time.Duration {
	return time.Duration(AppConfig.LLMCacheTTLSec) * time.Second
}

// PmsTimeout returns the per-call booking API deadline.
func PmsTimeout() time.Duration {
	return time.Duration(AppConfig.PmsTimeoutSec) * time.Second
}
