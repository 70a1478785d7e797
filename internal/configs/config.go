package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DBConfig holds the database settings.
type DBConfig struct {
	URL string
}

// RabbitMQConfig holds the broker settings.
type RabbitMQConfig struct {
	URL string
}

// LLMConfig holds the settings for the AI-search completer.
type LLMConfig struct {
	APIKey  string
	BaseURL string // empty means the provider default
	Model   string
}

// SearchAPIConfig holds the web-search API settings. An empty URL disables
// the search-API source.
type SearchAPIConfig struct {
	URL string
	Key string
}

// SearchConfig holds the scheduling settings.
type SearchConfig struct {
	IntervalMin int // minutes between scheduled runs
}

// AppConfig holds the whole application configuration.
type AppConfig struct {
	Database  DBConfig
	RabbitMQ  RabbitMQConfig
	LLM       LLMConfig
	SearchAPI SearchAPIConfig
	Search    SearchConfig
	UserAgent string
}

// LoadConfig loads configuration from the environment, reading a .env file
// first when one is present.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		// Running without a .env file is fine in containers, where the
		// environment is injected directly.
		log.Printf("Info: Could not load .env file (path: %v): %v.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL environment variable is required")
	}

	cfg.LLM.APIKey = os.Getenv("LLM_API_KEY")
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY environment variable is required")
	}
	cfg.LLM.BaseURL = getEnvAsString("LLM_BASE_URL", "")
	cfg.LLM.Model = getEnvAsString("LLM_MODEL", "gpt-4o")

	cfg.SearchAPI.URL = getEnvAsString("SEARCH_API_URL", "")
	cfg.SearchAPI.Key = getEnvAsString("SEARCH_API_KEY", "")

	cfg.Search.IntervalMin = getEnvAsInt("SEARCH_INTERVAL_MIN", 360)
	cfg.UserAgent = getEnvAsString("USER_AGENT", "rabat-property-tracker/1.0")

	return cfg, nil
}

// getEnvAsString reads an environment variable or returns the default.
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as int or returns the default,
// warning when the value is present but unparseable.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}
