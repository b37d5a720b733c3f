package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Backend names for the graph store
const (
	BackendFile  = "file"
	BackendNeo4j = "neo4j"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Storage
	StorageBackend string        // "file" or "neo4j"
	StoragePath    string        // path of the JSON snapshot (file backend)
	LockTimeout    time.Duration // bounded wait for the backing-file lock

	// Neo4j (neo4j backend only)
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		StorageBackend: getEnv("STORAGE_BACKEND", BackendFile),
		StoragePath:    getEnv("STORAGE_PATH", "memory_storage/knowledge_graph.json"),
		LockTimeout:    time.Duration(getEnvInt("LOCK_TIMEOUT_MS", 5000)) * time.Millisecond,
		Neo4jURI:       getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:      getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:  getEnv("NEO4J_PASSWORD", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendFile:
		if c.StoragePath == "" {
			return fmt.Errorf("STORAGE_PATH is required for the file backend")
		}
	case BackendNeo4j:
		if c.Neo4jURI == "" {
			return fmt.Errorf("NEO4J_URI is required for the neo4j backend")
		}
		if c.Neo4jUser == "" {
			return fmt.Errorf("NEO4J_USER is required for the neo4j backend")
		}
		if c.Neo4jPassword == "" {
			return fmt.Errorf("NEO4J_PASSWORD is required for the neo4j backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND: %s", c.StorageBackend)
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("LOCK_TIMEOUT_MS must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
