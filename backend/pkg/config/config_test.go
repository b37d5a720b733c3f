package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("STORAGE_PATH", "")
	t.Setenv("LOCK_TIMEOUT_MS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, BackendFile, cfg.StorageBackend)
	assert.Equal(t, "memory_storage/knowledge_graph.json", cfg.StoragePath)
	assert.Equal(t, 5*time.Second, cfg.LockTimeout)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("STORAGE_PATH", "/var/lib/jobgraph/kg.json")
	t.Setenv("LOCK_TIMEOUT_MS", "250")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/var/lib/jobgraph/kg.json", cfg.StoragePath)
	assert.Equal(t, 250*time.Millisecond, cfg.LockTimeout)
}

func TestValidate_Neo4jBackendRequiresCredentials(t *testing.T) {
	cfg := &Config{
		StorageBackend: BackendNeo4j,
		Neo4jURI:       "bolt://localhost:7687",
		Neo4jUser:      "neo4j",
		LockTimeout:    time.Second,
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEO4J_PASSWORD")

	cfg.Neo4jPassword = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := &Config{StorageBackend: "redis", LockTimeout: time.Second}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_BACKEND")
}

func TestValidate_LockTimeoutMustBePositive(t *testing.T) {
	cfg := &Config{StorageBackend: BackendFile, StoragePath: "kg.json"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOCK_TIMEOUT_MS")
}
