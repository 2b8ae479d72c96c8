package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.Geofence.StrictMode)
	assert.Equal(t, 90, cfg.Geofence.RetentionDays)
	assert.Equal(t, 5*time.Minute, cfg.Geofence.SiteCacheTTL)
	assert.Equal(t, "log", cfg.Audit.Sink)
	assert.Empty(t, cfg.Encryption.Keys)
}

func TestFromEnvOverrides(t *testing.T) {
	secret := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	t.Setenv("GEOFENCE_STRICT_MODE", "true")
	t.Setenv("LOCATION_RETENTION_DAYS", "30")
	t.Setenv("FACILITY_LOOKUP_TIMEOUT", "750ms")
	t.Setenv("AUDIT_SINK", "Kafka")
	t.Setenv("KAFKA_BROKERS", " b1:9092, b2:9092,b1:9092,, ")
	t.Setenv("LOCATION_KEY_VERSION", "v2")
	t.Setenv("LOCATION_KEYS", "v1:"+secret+",v2:"+secret)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.Geofence.StrictMode)
	assert.Equal(t, 30, cfg.Geofence.RetentionDays)
	assert.Equal(t, 750*time.Millisecond, cfg.Facility.Timeout)
	assert.Equal(t, "kafka", cfg.Audit.Sink)
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Audit.KafkaBrokers)
	assert.Len(t, cfg.Encryption.Keys, 2)
	assert.Equal(t, "v2", cfg.Encryption.CurrentVersion)
}

func TestFromEnvCollectsErrors(t *testing.T) {
	t.Setenv("GEOFENCE_STRICT_MODE", "sometimes")
	t.Setenv("LOCATION_RETENTION_DAYS", "0")
	t.Setenv("AUDIT_SINK", "kafka")
	t.Setenv("LOCATION_KEYS", "v1")

	_, err := FromEnv()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "GEOFENCE_STRICT_MODE")
	assert.Contains(t, msg, "LOCATION_RETENTION_DAYS must be positive")
	assert.Contains(t, msg, "KAFKA_BROKERS is required")
	assert.Contains(t, msg, "version:base64secret")
}

func TestFromEnvMissingCurrentKey(t *testing.T) {
	secret := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	t.Setenv("LOCATION_KEYS", "v1:"+secret)
	t.Setenv("LOCATION_KEY_VERSION", "v9")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"v9"`)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CLOCKGEO_ADDR=:9191\n"), 0o600))
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv("CLOCKGEO_ADDR") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9191", cfg.Server.Addr)
}

func TestLoadWithoutDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load()
	require.NoError(t, err)
}
