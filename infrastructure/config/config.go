package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Notion configuration
	NotionAPIKey         string
	CharactersDatabaseID string
	ElementsDatabaseID   string
	PuzzlesDatabaseID    string
	TimelineDatabaseID   string

	// Cache
	GraphCacheTTL int // seconds

	// Cluster state persistence; empty path disables disk persistence
	StateStorePath string

	// Logging
	LogLevel string

	// Authentication; empty secret disables auth (development)
	JWTSecret string
	JWTIssuer string

	// Feature flags
	EnableMetrics bool
	EnableCORS    bool
}

// LoadConfig loads configuration from the environment, with a .env file
// overlay for local development.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // missing .env is fine

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":3001"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		NotionAPIKey:         getEnv("NOTION_API_KEY", ""),
		CharactersDatabaseID: getEnv("NOTION_CHARACTERS_DB", ""),
		ElementsDatabaseID:   getEnv("NOTION_ELEMENTS_DB", ""),
		PuzzlesDatabaseID:    getEnv("NOTION_PUZZLES_DB", ""),
		TimelineDatabaseID:   getEnv("NOTION_TIMELINE_DB", ""),

		GraphCacheTTL:  getEnvInt("GRAPH_CACHE_TTL", 300),
		StateStorePath: getEnv("STATE_STORE_PATH", "data/state"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "alnretool"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.NotionAPIKey == "" {
		return fmt.Errorf("NOTION_API_KEY is required")
	}
	for name, id := range map[string]string{
		"NOTION_CHARACTERS_DB": c.CharactersDatabaseID,
		"NOTION_ELEMENTS_DB":   c.ElementsDatabaseID,
		"NOTION_PUZZLES_DB":    c.PuzzlesDatabaseID,
		"NOTION_TIMELINE_DB":   c.TimelineDatabaseID,
	} {
		if id == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	if c.Environment == "production" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
