package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joelkehle/ethiguide/internal/logging"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	Store         string        `yaml:"store"`
	DBPath        string        `yaml:"db_path"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	// Seed fixes the cosmetic randomness of every session when non-zero.
	Seed         uint64    `yaml:"seed"`
	CookieName   string    `yaml:"cookie_name"`
	CookieSecure bool      `yaml:"cookie_secure"`
	ChromePath   string    `yaml:"chrome_path"`
	Log          Log       `yaml:"log"`
	Telemetry    Telemetry `yaml:"telemetry"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Telemetry struct {
	// OTLPEndpoint is host:port of an OTLP/HTTP collector. Tracing is off when empty.
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
	ServiceName  string `yaml:"service_name"`
}

func Default() Config {
	return Config{
		Addr:          ":8080",
		Store:         StoreMemory,
		DBPath:        "./data/ethiguide.db",
		SessionTTL:    2 * time.Hour,
		SweepInterval: time.Minute,
		CookieName:    "ethiguide_session",
		Log:           Log{Level: "info", Format: logging.FormatText},
		Telemetry:     Telemetry{ServiceName: "ethiguide", Insecure: true},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if port := strings.TrimSpace(getenv("PORT")); port != "" {
		c.Addr = ":" + port
	}
	if v := strings.TrimSpace(getenv("STORE_BACKEND")); v != "" {
		c.Store = v
	}
	if v := strings.TrimSpace(getenv("DB_PATH")); v != "" {
		c.DBPath = v
	}
	if v := strings.TrimSpace(getenv("ETHIGUIDE_SESSION_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ETHIGUIDE_SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}
	if v := strings.TrimSpace(getenv("ETHIGUIDE_SEED")); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("ETHIGUIDE_SEED: %w", err)
		}
		c.Seed = n
	}
	if v := strings.TrimSpace(getenv("ETHIGUIDE_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(getenv("ETHIGUIDE_LOG_FORMAT")); v != "" {
		c.Log.Format = v
	}
	if v := strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT")); v != "" {
		c.Telemetry.OTLPEndpoint = v
	}
	if v := strings.TrimSpace(getenv("CHROME_PATH")); v != "" {
		c.ChromePath = v
	}
	return nil
}

func (c Config) Validate() error {
	var problems []error
	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, errors.New("addr is required"))
	}
	switch c.Store {
	case StoreMemory:
	case StoreSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			problems = append(problems, errors.New("db_path is required for the sqlite store"))
		}
	default:
		problems = append(problems, fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreMemory, StoreSQLite))
	}
	if c.SessionTTL <= 0 {
		problems = append(problems, errors.New("session_ttl must be positive"))
	}
	if c.SweepInterval <= 0 {
		problems = append(problems, errors.New("sweep_interval must be positive"))
	}
	if strings.TrimSpace(c.CookieName) == "" {
		problems = append(problems, errors.New("cookie_name is required"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err)
	}
	if !logging.ValidFormat(c.Log.Format) {
		problems = append(problems, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(problems...)
}
