package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beginnings/internal/config"
)

func TestFromReaderDefaults(t *testing.T) {
	cfg, err := config.FromReader(strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "data/openings.json", cfg.Data.Openings)
	assert.Equal(t, 10*time.Second, cfg.Data.Timeout)
	assert.Equal(t, "queenAnne", cfg.Openings.Buckets["queenAnne"])
	assert.ElementsMatch(t, []string{"queenAnne", "capitolHill"}, cfg.Openings.Recognized)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 5, cfg.Inquiries.Limit)
	assert.Equal(t, 10*time.Minute, cfg.Inquiries.Window)
	assert.False(t, cfg.HTTP.TrustProxy)
}

func TestFromReaderOverrides(t *testing.T) {
	yml := `
base_url: https://beginnings.example
http:
  address: ":9090"
  trust_proxy: true
inquiries:
  limit: 2
  window: 1m
data:
  config: https://cdn.example/site-config.json
  openings: /srv/data/openings.json
  content: /srv/data/content.json
  timeout: 3s
  watch: true
openings:
  buckets:
    qa: queenAnne
  recognized: [queenAnne]
database:
  disabled: true
logging:
  level: debug
  format: text
`
	cfg, err := config.FromReader(strings.NewReader(yml))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.Equal(t, 3*time.Second, cfg.Data.Timeout)
	assert.True(t, cfg.HTTP.TrustProxy)
	assert.Equal(t, 2, cfg.Inquiries.Limit)
	assert.True(t, cfg.Data.Watch)
	assert.Equal(t, map[string]string{"qa": "queenAnne"}, cfg.Openings.Buckets)
	assert.Equal(t, "https://beginnings.example", cfg.StructuredData.BaseURL)
	assert.True(t, cfg.Database.Disabled)
}

func TestFromReaderRejects(t *testing.T) {
	_, err := config.FromReader(strings.NewReader("unknown_key: 1\n"))
	assert.Error(t, err)

	_, err = config.FromReader(strings.NewReader("openings:\n  buckets:\n    fremont: fremont\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized bucket")
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	require.NotNil(t, cfg)
	assert.Equal(t, "change-me", cfg.Security.JWTSecret)
}

func TestAppURL(t *testing.T) {
	d := config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	u, err := d.AppURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", u)

	d = config.DatabaseConfig{URL: "postgres://x/y"}
	u, err = d.AppURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://x/y", u)
}
