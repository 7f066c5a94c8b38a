package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("GENERATION_LOCK_TTL", "")
	t.Setenv("DEBUG", "")

	cfg := Load()
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "dev_", cfg.TablePrefix)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.GenerationLockTTL)
	assert.True(t, cfg.Debug)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("GENERATION_LOCK_TTL", "5s")
	t.Setenv("LOG_MAX_FILES", "not-a-number")
	t.Setenv("DEBUG", "")

	cfg := Load()
	assert.Equal(t, "prod_", cfg.TablePrefix)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.GenerationLockTTL)
	assert.Equal(t, 10, cfg.LogMaxFiles)
	assert.False(t, cfg.Debug)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory with secret", Config{StorageDriver: StorageDriverMemory, JWTSecret: "s", GenerationLockTTL: time.Second}, false},
		{"postgres without url", Config{StorageDriver: StorageDriverPostgres, JWTSecret: "s", GenerationLockTTL: time.Second}, true},
		{"unknown driver", Config{StorageDriver: "sqlite", JWTSecret: "s", GenerationLockTTL: time.Second}, true},
		{"no auth", Config{StorageDriver: StorageDriverMemory, GenerationLockTTL: time.Second}, true},
		{"jwks only", Config{StorageDriver: StorageDriverMemory, JWKSURL: "https://x/jwks.json", GenerationLockTTL: time.Second}, false},
		{"zero ttl", Config{StorageDriver: StorageDriverMemory, JWTSecret: "s"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetupLogFile_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"codegen-2020-01-01T00-00-00.000.log", "codegen-2020-01-02T00-00-00.000.log", "codegen-2020-01-03T00-00-00.000.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	f, err := SetupLogFile(dir, 2)
	require.NoError(t, err)
	defer f.Close()

	files, err := filepath.Glob(filepath.Join(dir, "codegen-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "codegen-2020-01-03T00-00-00.000.log"), files[0])
	assert.Equal(t, f.Name(), files[1])
}
