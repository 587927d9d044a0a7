// Package config loads abacus settings from defaults, an optional YAML file,
// ABACUS_* environment variables and explicit overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override (ABACUS_STORE_KIND).
const EnvPrefix = "ABACUS_"

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the fully resolved configuration.
type Config struct {
	LogLevel     string           `mapstructure:"log_level" yaml:"log_level"`
	LogFormat    string           `mapstructure:"log_format" yaml:"log_format"`
	AngleMode    domain.AngleMode `mapstructure:"angle_mode" yaml:"angle_mode"`
	Theme        domain.Theme     `mapstructure:"theme" yaml:"theme"`
	MaxInputSize int              `mapstructure:"max_input_size" yaml:"max_input_size"`
	TapeDir      string           `mapstructure:"tape_dir" yaml:"tape_dir"`
	Store        StoreConfig      `mapstructure:"store" yaml:"store"`
	HTTP         HTTPConfig       `mapstructure:"http" yaml:"http"`
}

// StoreConfig selects and configures the session store.
type StoreConfig struct {
	Kind  string      `mapstructure:"kind" yaml:"kind"`
	Dir   string      `mapstructure:"dir" yaml:"dir"`
	Redis RedisConfig `mapstructure:"redis" yaml:"redis"`
	// EncryptionKey is a base64 AES-256 key. When set, states are sealed at rest.
	EncryptionKey string `mapstructure:"encryption_key" yaml:"encryption_key"`
	// PreviousKey still opens states sealed before a key rotation.
	PreviousKey string `mapstructure:"previous_key" yaml:"previous_key"`
}

// RedisConfig configures the redis store and its distributed locker.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
	LockTTL  time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr    string `mapstructure:"addr" yaml:"addr"`
	Metrics bool   `mapstructure:"metrics" yaml:"metrics"`
}

// Defaults returns the built-in settings as a nested map.
func Defaults() map[string]any {
	return map[string]any{
		"log_level":      "info",
		"log_format":     "text",
		"angle_mode":     string(domain.AngleDegrees),
		"theme":          string(domain.ThemeLight),
		"max_input_size": 4096,
		"tape_dir":       ".abacus/tapes",
		"store": map[string]any{
			"kind":           StoreMemory,
			"dir":            ".abacus/sessions",
			"encryption_key": "",
			"previous_key":   "",
			"redis": map[string]any{
				"addr":     "localhost:6379",
				"password": "",
				"db":       0,
				"prefix":   "abacus:session:",
				"ttl":      "0s",
				"lock_ttl": "30s",
			},
		},
		"http": map[string]any{
			"addr":    ":8080",
			"metrics": true,
		},
	}
}

type loader struct {
	path      string
	lookupEnv func(string) (string, bool)
	overrides map[string]any
}

// Option customizes Load.
type Option func(*loader)

// WithFile reads YAML settings from path. A missing file is an error.
func WithFile(path string) Option {
	return func(l *loader) {
		l.path = path
	}
}

// WithEnv replaces os.LookupEnv, mostly for tests.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(l *loader) {
		l.lookupEnv = lookup
	}
}

// WithOverride sets a dotted key ("store.kind") after file and environment.
// Command-line flags use this.
func WithOverride(key string, value any) Option {
	return func(l *loader) {
		l.overrides[key] = value
	}
}

// Load resolves the configuration.
func Load(opts ...Option) (*Config, error) {
	l := &loader{lookupEnv: os.LookupEnv, overrides: map[string]any{}}
	for _, opt := range opts {
		opt(l)
	}

	settings := Defaults()

	if l.path != "" {
		data, err := os.ReadFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", l.path, err)
		}
		var file map[string]any
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", l.path, err)
		}
		merge(settings, file)
	}

	for _, key := range Keys() {
		if v, ok := l.lookupEnv(EnvName(key)); ok {
			set(settings, key, v)
		}
	}
	for key, v := range l.overrides {
		set(settings, key, v)
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	var errs []error
	if !c.AngleMode.Valid() {
		errs = append(errs, fmt.Errorf("angle_mode must be deg or rad, got %q", c.AngleMode))
	}
	if !c.Theme.Valid() {
		errs = append(errs, fmt.Errorf("theme must be light or dark, got %q", c.Theme))
	}
	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("store.kind must be memory, file or redis, got %q", c.Store.Kind))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	if c.Store.PreviousKey != "" && c.Store.EncryptionKey == "" {
		errs = append(errs, fmt.Errorf("store.previous_key needs store.encryption_key"))
	}
	if c.MaxInputSize < 0 {
		errs = append(errs, fmt.Errorf("max_input_size must not be negative"))
	}
	return errors.Join(errs...)
}

// Keys lists every dotted key, sorted.
func Keys() []string {
	var keys []string
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			if sub, ok := v.(map[string]any); ok {
				walk(prefix+k+".", sub)
				continue
			}
			keys = append(keys, prefix+k)
		}
	}
	walk("", Defaults())
	sort.Strings(keys)
	return keys
}

// EnvName maps a dotted key to its environment variable.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func set(m map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		sub, ok := m[p].(map[string]any)
		if !ok {
			sub = map[string]any{}
			m[p] = sub
		}
		m = sub
	}
	m[parts[len(parts)-1]] = value
}

func merge(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				merge(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
}
