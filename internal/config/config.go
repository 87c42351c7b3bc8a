package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ferdiebergado/hrkit/internal/pkg/timex"
)

type Server struct {
	URL             string         `json:"url,omitempty"`
	Port            int            `json:"port,omitempty"`
	ReadTimeout     timex.Duration `json:"read_timeout,omitempty"`
	WriteTimeout    timex.Duration `json:"write_timeout,omitempty"`
	IdleTimeout     timex.Duration `json:"idle_timeout,omitempty"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout,omitempty"`
	MaxBodyBytes    int64          `json:"max_body_bytes,omitempty"`
}

type DB struct {
	Driver          string         `json:"driver,omitempty"`
	MaxOpenConns    int            `json:"max_open_conns,omitempty"`
	MaxIdleConns    int            `json:"max_idle_conns,omitempty"`
	ConnMaxIdleTime timex.Duration `json:"conn_max_idle_time,omitempty"`
	ConnMaxLifetime timex.Duration `json:"conn_max_lifetime,omitempty"`
	PingTimeout     timex.Duration `json:"ping_timeout,omitempty"`
}

type JWT struct {
	JTILength  uint32         `json:"jti_length,omitempty"`
	Issuer     string         `json:"issuer,omitempty"`
	TTL        timex.Duration `json:"ttl,omitempty"`
	RefreshTTL timex.Duration `json:"refresh_ttl,omitempty"`
}

type Cookie struct {
	Name   string         `json:"name,omitempty"`
	MaxAge timex.Duration `json:"max_age,omitempty"`
}

type Argon2 struct {
	Memory     uint32 `json:"memory,omitempty"`
	Iterations uint32 `json:"iterations,omitempty"`
	Threads    uint8  `json:"threads,omitempty"`
	SaltLength uint32 `json:"salt_length,omitempty"`
	KeyLength  uint32 `json:"key_length,omitempty"`
}

type Outbox struct {
	PollInterval   timex.Duration `json:"poll_interval,omitempty"`
	BatchSize      int            `json:"batch_size,omitempty"`
	Workers        int            `json:"workers,omitempty"`
	MaxAttempts    int            `json:"max_attempts,omitempty"`
	RetryBase      timex.Duration `json:"retry_base,omitempty"`
	RetryFactor    int            `json:"retry_factor,omitempty"`
	DeliverTimeout timex.Duration `json:"deliver_timeout,omitempty"`
	RatePerSecond  float64        `json:"rate_per_second,omitempty"`
	AllowPrivate   bool           `json:"allow_private,omitempty"`
}

type Cache struct {
	LookupTTL timex.Duration `json:"lookup_ttl,omitempty"`
}

type Badge struct {
	Prefix     string `json:"prefix,omitempty"`
	PadWidth   int    `json:"pad_width,omitempty"`
	MaxRetries int    `json:"max_retries,omitempty"`
}

type Config struct {
	Server *Server `json:"server,omitempty"`
	DB     *DB     `json:"db,omitempty"`
	JWT    *JWT    `json:"jwt,omitempty"`
	Cookie *Cookie `json:"cookie,omitempty"`
	Argon2 *Argon2 `json:"argon2,omitempty"`
	Outbox *Outbox `json:"outbox,omitempty"`
	Cache  *Cache  `json:"cache,omitempty"`
	Badge  *Badge  `json:"badge,omitempty"`
}

func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("server", c.Server),
		slog.Any("db", c.DB),
		slog.Any("jwt", c.JWT),
		slog.Any("cookie", c.Cookie),
		slog.Any("argon2", c.Argon2),
		slog.Any("outbox", c.Outbox),
		slog.Any("cache", c.Cache),
		slog.Any("badge", c.Badge),
	)
}

func Load(cfgFile string) (*Config, error) {
	slog.Info("Loading config...")
	cfg, err := parseCfgFile(cfgFile)
	if err != nil {
		return nil, err
	}

	if err := checkSections(cfg, cfgFile); err != nil {
		return nil, err
	}

	if err := overrideWithEnv(cfg); err != nil {
		return nil, err
	}

	slog.Info("Config loaded.", "config_file", cfgFile, slog.Any("config", cfg))
	return cfg, nil
}

func parseCfgFile(cfgFile string) (*Config, error) {
	cfgFile = filepath.Clean(cfgFile)
	b, err := os.ReadFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
	}

	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("decode json config %s: %w", cfgFile, err)
	}

	return &cfg, nil
}

// checkSections rejects a config file with missing sections up front, so a
// bad deploy fails with a message naming them instead of a nil dereference
// somewhere downstream.
func checkSections(cfg *Config, cfgFile string) error {
	var missing []string
	for _, section := range []struct {
		name string
		ok   bool
	}{
		{"server", cfg.Server != nil},
		{"db", cfg.DB != nil},
		{"jwt", cfg.JWT != nil},
		{"cookie", cfg.Cookie != nil},
		{"argon2", cfg.Argon2 != nil},
		{"outbox", cfg.Outbox != nil},
		{"cache", cfg.Cache != nil},
		{"badge", cfg.Badge != nil},
	} {
		if !section.ok {
			missing = append(missing, section.name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("config file %s is missing sections: %s", cfgFile, strings.Join(missing, ", "))
	}
	return nil
}

func overrideWithEnv(cfg *Config) error {
	if url, ok := os.LookupEnv("URL"); ok {
		cfg.Server.URL = url
	}

	if portStr, ok := os.LookupEnv("PORT"); ok {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("parse PORT: %w", err)
		}
		cfg.Server.Port = port
	}

	if allow, ok := os.LookupEnv("OUTBOX_ALLOW_PRIVATE"); ok {
		parsed, err := strconv.ParseBool(allow)
		if err != nil {
			return fmt.Errorf("parse OUTBOX_ALLOW_PRIVATE: %w", err)
		}
		cfg.Outbox.AllowPrivate = parsed
	}

	return nil
}
