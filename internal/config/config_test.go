package config_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/stylist/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stylist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
log_level: debug
store:
  backend: redis
  redis_addr: redis:6379
  redis_ttl: 24h
  pii_patterns: ['\d{3}-\d{4}']
flow:
  advance_delay: 250ms
ai:
  provider: mock
  mock_delay: 0s
http:
  addr: 127.0.0.1:9000
  max_body_bytes: 1048576
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "redis:6379", cfg.Store.RedisAddr)
	assert.Equal(t, 24*time.Hour, cfg.Store.RedisTTL)
	assert.Equal(t, "stylist:", cfg.Store.RedisPrefix, "unset keys keep their default")
	assert.Equal(t, []string{`\d{3}-\d{4}`}, cfg.Store.PIIPatterns)
	assert.Equal(t, 250*time.Millisecond, cfg.Flow.AdvanceDelay)
	assert.Equal(t, time.Duration(0), cfg.AI.MockDelay)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodyBytes)
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeFile(t, "store:\n  backnd: memory\n")
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "store:\n  backend: file\n")
	t.Setenv("STYLIST_STORE_BACKEND", "badger")
	t.Setenv("STYLIST_STORE_DIR", "/tmp/stylist")
	t.Setenv("STYLIST_FLOW_ADVANCE_DELAY", "2s")
	t.Setenv("STYLIST_AI_PROVIDER", "ark")
	t.Setenv("STYLIST_AI_MODEL", "doubao-pro-32k")
	t.Setenv("STYLIST_AI_ARK_API_KEY", "secret")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "badger", cfg.Store.Backend)
	assert.Equal(t, "/tmp/stylist", cfg.Store.Dir)
	assert.Equal(t, 2*time.Second, cfg.Flow.AdvanceDelay)
	assert.Equal(t, "ark", cfg.AI.Provider)
	assert.Equal(t, "secret", cfg.AI.ArkAPIKey)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown backend", "store:\n  backend: mongo\n"},
		{"ark without key", "ai:\n  provider: ark\n  model: m\n"},
		{"bad log level", "log_level: chatty\n"},
		{"negative delay", "flow:\n  advance_delay: -1s\n"},
		{"zero body limit", "http:\n  max_body_bytes: 0\n"},
		{"bad pii pattern", "store:\n  pii_patterns: ['(']\n"},
		{"short key", "store:\n  encryption_key: " + base64.StdEncoding.EncodeToString([]byte("short")) + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestStoreConfig_Keys(t *testing.T) {
	active := strings.Repeat("a", 32)
	old := strings.Repeat("b", 32)
	s := config.StoreConfig{
		EncryptionKey: base64.StdEncoding.EncodeToString([]byte(active)),
		FallbackKeys:  []string{base64.StdEncoding.EncodeToString([]byte(old))},
	}

	key, fallback, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []byte(active), key)
	assert.Equal(t, [][]byte{[]byte(old)}, fallback)

	key, fallback, err = config.StoreConfig{}.Keys()
	require.NoError(t, err)
	assert.Nil(t, key)
	assert.Nil(t, fallback)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("STYLIST_HTTP_ADDR=:7070\n"), 0o644))
	t.Setenv("STYLIST_HTTP_ADDR", "")
	os.Unsetenv("STYLIST_HTTP_ADDR")

	config.LoadDotEnv(path, filepath.Join(dir, "missing.env"))

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
}
