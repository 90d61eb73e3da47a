// Package config loads the host configuration: a YAML file, overridden by
// STYLIST_* environment variables, then validated.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. STYLIST_STORE_BACKEND.
const EnvPrefix = "STYLIST"

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "stylist.yaml"

// Config is the full host configuration.
type Config struct {
	LogLevel string     `mapstructure:"log_level" split_words:"true" validate:"oneof=debug info warn error"`
	Store    StoreConfig `mapstructure:"store"`
	Flow     FlowConfig  `mapstructure:"flow"`
	AI       AIConfig    `mapstructure:"ai"`
	HTTP     HTTPConfig  `mapstructure:"http"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=memory file redis badger"`

	// Dir is the data directory of the file and badger backends.
	Dir string `mapstructure:"dir" validate:"required_if=Backend file,required_if=Backend badger"`

	RedisAddr     string        `mapstructure:"redis_addr" split_words:"true" validate:"required_if=Backend redis"`
	RedisPassword string        `mapstructure:"redis_password" split_words:"true"`
	RedisDB       int           `mapstructure:"redis_db" split_words:"true" validate:"gte=0"`
	RedisPrefix   string        `mapstructure:"redis_prefix" split_words:"true"`
	RedisTTL      time.Duration `mapstructure:"redis_ttl" split_words:"true" validate:"gte=0s"`

	// Lock enables the distributed session lock (redis backend only).
	Lock bool `mapstructure:"lock"`

	// EncryptionKey is a base64 AES-256 key. Empty disables encryption at rest.
	EncryptionKey string `mapstructure:"encryption_key" split_words:"true" validate:"omitempty,base64"`
	// FallbackKeys are previous keys still accepted for decryption.
	FallbackKeys []string `mapstructure:"fallback_keys" split_words:"true" validate:"dive,base64"`

	// PIIPatterns are regular expressions masked in the persisted conversation log.
	PIIPatterns []string `mapstructure:"pii_patterns" split_words:"true"`
}

// FlowConfig tunes the guided flow.
type FlowConfig struct {
	AdvanceDelay time.Duration `mapstructure:"advance_delay" split_words:"true" validate:"gte=0s"`
}

// AIConfig selects the AI collaborator.
type AIConfig struct {
	Provider  string        `mapstructure:"provider" validate:"required,oneof=mock ark"`
	Model     string        `mapstructure:"model" validate:"required_if=Provider ark"`
	MockDelay time.Duration `mapstructure:"mock_delay" split_words:"true" validate:"gte=0s"`

	ArkAPIKey  string `mapstructure:"ark_api_key" split_words:"true" validate:"required_if=Provider ark"`
	ArkBaseURL string `mapstructure:"ark_base_url" split_words:"true" validate:"omitempty,url"`
	ArkRegion  string `mapstructure:"ark_region" split_words:"true"`
}

// HTTPConfig configures the HTTP API.
type HTTPConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
	// MaxBodyBytes caps request bodies; captured photos arrive as data URLs.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" split_words:"true" validate:"gt=0"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		LogLevel: "info",
		Store: StoreConfig{
			Backend:     "file",
			Dir:         ".stylist/sessions",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "stylist:",
		},
		Flow: FlowConfig{AdvanceDelay: time.Second},
		AI: AIConfig{
			Provider:  "mock",
			MockDelay: 1500 * time.Millisecond,
		},
		HTTP: HTTPConfig{Addr: ":8080", MaxBodyBytes: 8 << 20},
	}
}

// LoadDotEnv loads .env files into the process environment. Missing files are ignored.
func LoadDotEnv(paths ...string) {
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// Load reads the YAML file at path (a missing file keeps the defaults),
// applies STYLIST_* environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	return nil
}

var validate = validator.New()

// Validate checks field constraints, the encryption key sizes and the PII patterns.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, _, err := c.Store.Keys(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	for i, p := range c.Store.PIIPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid config: pii_patterns[%d]: %w", i, err)
		}
	}
	return nil
}

// Keys decodes the encryption keys. The active key is nil when encryption is disabled.
func (s StoreConfig) Keys() (active []byte, fallback [][]byte, err error) {
	if s.EncryptionKey == "" {
		return nil, nil, nil
	}
	active, err = decodeKey(s.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("encryption_key: %w", err)
	}
	for i, k := range s.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}
