package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	DurableSQLite = "sqlite"
	DurableRedis  = "redis"
)

// Config holds runtime settings for the reportcycle CLI.
//
// The three service base URLs may point at the same host; the API paths do
// not overlap. AppBaseURL is the web application origin: links sent by
// e-mail (sign-in, password reset) and the default avatar live there.
type Config struct {
	AuthBaseURL string
	CoreBaseURL string
	FileBaseURL string
	AppBaseURL  string

	// StateDir holds the SQLite durable session tier.
	StateDir string
	// DurableStore selects the "remember me" tier: sqlite or redis.
	DurableStore string
	RedisAddr    string

	// CountryISOCode and UploadDomain classify profile picture uploads.
	CountryISOCode string
	UploadDomain   int

	RequestTimeout time.Duration
}

// LoadDefaults points the client at a devstack on localhost.
func (c *Config) LoadDefaults() {
	c.AuthBaseURL = "http://127.0.0.1:8080"
	c.CoreBaseURL = "http://127.0.0.1:8080"
	c.FileBaseURL = "http://127.0.0.1:8080"
	c.AppBaseURL = "http://127.0.0.1:8080"
	c.StateDir = defaultStateDir()
	c.DurableStore = DurableSQLite
	c.RedisAddr = "127.0.0.1:6379"
	c.CountryISOCode = "GB"
	c.UploadDomain = 1
	c.RequestTimeout = 30 * time.Second
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "reportcycle")
	}
	return ".reportcycle"
}

// DBPath is the SQLite file of the durable tier.
func (c *Config) DBPath() string {
	return filepath.Join(c.StateDir, "state.db")
}

func (c *Config) Validate() error {
	switch c.DurableStore {
	case DurableSQLite, DurableRedis:
	default:
		return fmt.Errorf("durable_store must be %q or %q, got %q", DurableSQLite, DurableRedis, c.DurableStore)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// LoadConfig builds a Config from defaults, then the JSON file, then the
// environment, then command-line flags. Later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
