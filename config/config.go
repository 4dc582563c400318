package config

import (
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

// DefaultEnvFiles are loaded, in order, when present in the working directory.
var DefaultEnvFiles = []string{".env", ".env.local"}

type Config struct {
	APIBaseURL      string        `env:"ADMITERE_API_URL" envDefault:"http://localhost:8080"`
	SessionDBPath   string        `env:"ADMITERE_SESSION_DB" envDefault:"data/session.db"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPTimeout     time.Duration `env:"ADMITERE_HTTP_TIMEOUT" envDefault:"0s"`
	RequestIDHeader string        `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
	WorkerCount     int           `env:"WORKER_COUNT" envDefault:"4"`
	SearchDebounce  time.Duration `env:"ADMITERE_SEARCH_DEBOUNCE" envDefault:"200ms"`
	BannerTTL       time.Duration `env:"ADMITERE_BANNER_TTL" envDefault:"10s"`
	ExportDir       string        `env:"ADMITERE_EXPORT_DIR" envDefault:"exports"`
}

// LoadEnv loads the env files that exist and returns how many were loaded.
// Variables already present in the environment are never overridden.
func LoadEnv(files []string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads env files and the process environment into a validated Config.
func Load(files []string) (*Config, error) {
	if _, err := LoadEnv(files); err != nil {
		return nil, errors.Wrap(err, "load env files")
	}
	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Errorf("invalid ADMITERE_API_URL: %q", c.APIBaseURL)
	}
	if c.WorkerCount <= 0 {
		return errors.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount)
	}
	if c.HTTPTimeout < 0 {
		return errors.Errorf("ADMITERE_HTTP_TIMEOUT must not be negative, got %s", c.HTTPTimeout)
	}
	return nil
}
