// Package config reads service configuration from the environment. A .env
// file in the working directory is loaded first when present; variables
// already set in the environment win.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	JWTSigningKey   string
	JWTIssuer       string
	JWTAudience     string
	AdminToken      string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Geofence holds the verification policy knobs.
type Geofence struct {
	// StrictMode turns an outside-the-fence reading into a rejection for
	// every site, not only sites that demand it.
	StrictMode    bool
	SiteCacheTTL  time.Duration
	RetentionDays int
}

// Encryption configures coordinate sealing. Keys maps a key version to its
// secret; CurrentVersion names the one used for new records. No keys means
// coordinates are stored in the clear (development only).
type Encryption struct {
	CurrentVersion string
	Keys           map[string][]byte
}

type Database struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Facility configures the optional facility lookup collaborator.
type Facility struct {
	URL     string
	Timeout time.Duration
}

// Audit selects the audit sink: "kafka", "log" or "memory".
type Audit struct {
	Sink         string
	KafkaBrokers []string
	KafkaTopic   string
	Buffer       int
}

// RateLimit caps authenticated location requests per user. Requests 0
// disables the limit.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

type Logging struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type Config struct {
	Server     Server
	Geofence   Geofence
	Encryption Encryption
	Database   Database
	Redis      RedisConfig
	Facility   Facility
	Audit      Audit
	RateLimit  RateLimit
	Logging    Logging
}

// Load reads .env (if any) and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var errs []error
	e := env{errs: &errs}

	cfg := Config{
		Server: Server{
			Addr:            e.str("CLOCKGEO_ADDR", ":8080"),
			JWTSigningKey:   e.str("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:       e.str("JWT_ISSUER", "clockgeo"),
			JWTAudience:     e.str("JWT_AUDIENCE", "clockgeo-api"),
			AdminToken:      e.str("ADMIN_API_TOKEN", ""),
			RequestTimeout:  e.duration("HTTP_REQUEST_TIMEOUT", 15*time.Second),
			ShutdownTimeout: e.duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Geofence: Geofence{
			StrictMode:    e.boolean("GEOFENCE_STRICT_MODE", false),
			SiteCacheTTL:  e.duration("SITE_CACHE_TTL", 5*time.Minute),
			RetentionDays: e.integer("LOCATION_RETENTION_DAYS", 90),
		},
		Encryption: Encryption{
			CurrentVersion: e.str("LOCATION_KEY_VERSION", "v1"),
		},
		Database: Database{
			URL:             e.str("DATABASE_URL", ""),
			MaxOpenConns:    e.integer("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    e.integer("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: e.duration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          e.str("REDIS_URL", ""),
			PoolSize:     e.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: e.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  e.duration("REDIS_DIAL_TIMEOUT", 2*time.Second),
			ReadTimeout:  e.duration("REDIS_READ_TIMEOUT", 500*time.Millisecond),
			WriteTimeout: e.duration("REDIS_WRITE_TIMEOUT", 500*time.Millisecond),
		},
		Facility: Facility{
			URL:     e.str("FACILITY_LOOKUP_URL", ""),
			Timeout: e.duration("FACILITY_LOOKUP_TIMEOUT", 2*time.Second),
		},
		Audit: Audit{
			Sink:         strings.ToLower(e.str("AUDIT_SINK", "log")),
			KafkaBrokers: splitList(e.str("KAFKA_BROKERS", "")),
			KafkaTopic:   e.str("AUDIT_KAFKA_TOPIC", "clockgeo.audit"),
			Buffer:       e.integer("AUDIT_BUFFER", 256),
		},
		RateLimit: RateLimit{
			Requests: e.integer("RATE_LIMIT_REQUESTS", 30),
			Window:   e.duration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Logging: Logging{
			Level:      strings.ToLower(e.str("LOG_LEVEL", "info")),
			File:       e.str("LOG_FILE", ""),
			MaxSizeMB:  e.integer("LOG_MAX_SIZE_MB", 100),
			MaxBackups: e.integer("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: e.integer("LOG_MAX_AGE_DAYS", 28),
		},
	}
	cfg.Encryption.Keys = e.keys("LOCATION_KEYS")

	switch cfg.Audit.Sink {
	case "kafka":
		if len(cfg.Audit.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required when AUDIT_SINK=kafka"))
		}
	case "log", "memory":
	default:
		errs = append(errs, fmt.Errorf("AUDIT_SINK must be one of kafka, log, memory; got %q", cfg.Audit.Sink))
	}
	if cfg.Geofence.RetentionDays <= 0 {
		errs = append(errs, errors.New("LOCATION_RETENTION_DAYS must be positive"))
	}
	if cfg.RateLimit.Requests < 0 || cfg.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS must not be negative and RATE_LIMIT_WINDOW must be positive"))
	}
	if len(cfg.Encryption.Keys) > 0 {
		if _, ok := cfg.Encryption.Keys[cfg.Encryption.CurrentVersion]; !ok {
			errs = append(errs, fmt.Errorf("LOCATION_KEYS has no key for LOCATION_KEY_VERSION %q", cfg.Encryption.CurrentVersion))
		}
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

type env struct {
	errs *[]error
}

func (e env) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (e env) boolean(key string, def bool) bool {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*e.errs = append(*e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func (e env) integer(key string, def int) int {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*e.errs = append(*e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func (e env) duration(key string, def time.Duration) time.Duration {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*e.errs = append(*e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

// keys parses "v1:base64secret,v2:base64secret".
func (e env) keys(key string) map[string][]byte {
	raw := e.str(key, "")
	if raw == "" {
		return nil
	}
	out := make(map[string][]byte)
	for _, pair := range splitList(raw) {
		version, secret, ok := strings.Cut(pair, ":")
		if !ok || version == "" {
			*e.errs = append(*e.errs, fmt.Errorf("%s: entry %q must be version:base64secret", key, pair))
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(secret)
		if err != nil {
			*e.errs = append(*e.errs, fmt.Errorf("%s: key %s: %w", key, version, err))
			continue
		}
		out[version] = decoded
	}
	return out
}

// splitList splits a comma-separated value, trimming entries and dropping
// blanks and duplicates while keeping order.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
