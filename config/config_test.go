package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ADMITERE_API_URL", "")
	os.Unsetenv("ADMITERE_API_URL")

	c, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", c.APIBaseURL)
	require.Equal(t, 4, c.WorkerCount)
	require.Equal(t, 200*time.Millisecond, c.SearchDebounce)
	require.Equal(t, 10*time.Second, c.BannerTTL)
	require.Zero(t, c.HTTPTimeout)
}

func TestLoad_EnvFileDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("ADMITERE_API_URL=http://from-file:9000\nWORKER_COUNT=8\n"), 0o644))

	t.Setenv("ADMITERE_API_URL", "http://from-env:8080")
	t.Setenv("WORKER_COUNT", "")
	os.Unsetenv("WORKER_COUNT")

	c, err := Load([]string{file, filepath.Join(dir, ".env.local")})
	require.NoError(t, err)
	require.Equal(t, "http://from-env:8080", c.APIBaseURL)
	require.Equal(t, 8, c.WorkerCount)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"no scheme", func(c *Config) { c.APIBaseURL = "localhost:8080" }},
		{"zero workers", func(c *Config) { c.WorkerCount = 0 }},
		{"negative timeout", func(c *Config) { c.HTTPTimeout = -time.Second }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &Config{APIBaseURL: "http://localhost:8080", WorkerCount: 4}
			tc.mut(c)
			require.Error(t, c.Validate())
		})
	}
}
