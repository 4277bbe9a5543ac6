package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kda153882-hash/makuake-research/pkg/feed"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load(New())

	assert.Equal(t, feed.DefaultDiscoverURL, cfg.FeedURL)
	assert.Equal(t, SourcePage, cfg.Source)
	assert.Equal(t, RendererBrowser, cfg.Renderer)
	assert.Equal(t, StoreSheets, cfg.Store)
	assert.Equal(t, int64(1_000_000), cfg.MinFunding)
	assert.Equal(t, 3*time.Second, cfg.Delay)
	assert.Equal(t, 30*time.Second, cfg.CheckTimeout)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SHEET_ID", " sheet-123 ")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS", `{"type":"service_account"}`)
	t.Setenv("MIN_FUNDING", "5000000")
	t.Setenv("DELAY", "500ms")
	t.Setenv("STORE", "SQLite")
	t.Setenv("SMTP_SERVER", "smtp.example.com")
	t.Setenv("TO_EMAIL", "to@example.com")

	cfg := Load(New())

	assert.Equal(t, "sheet-123", cfg.SheetID)
	assert.Equal(t, int64(5_000_000), cfg.MinFunding)
	assert.Equal(t, 500*time.Millisecond, cfg.Delay)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "smtp.example.com", cfg.Email.SMTPServer)
	assert.Equal(t, "to@example.com", cfg.Email.ToEmail)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("MIN_FUNDING", "5000000")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int64(KeyMinFunding, 0, "")
	flags.Bool(KeyDryRun, false, "")
	require.NoError(t, flags.Parse([]string{"--min-funding=2000000", "--dry-run"}))

	v := New()
	require.NoError(t, BindFlags(v, flags))
	cfg := Load(v)

	assert.Equal(t, int64(2_000_000), cfg.MinFunding)
	assert.True(t, cfg.DryRun)
}

func TestValidate(t *testing.T) {
	valid := Load(New())
	valid.Store = StoreSQLite

	tests := []struct {
		name     string
		mutate   func(c *Config)
		wantErr  bool
		contains string
	}{
		{"sqlite_ok", func(c *Config) {}, false, ""},
		{"sheets_missing_credentials", func(c *Config) { c.Store = StoreSheets; c.SheetID = "x" }, true, "GOOGLE_SHEETS_CREDENTIALS"},
		{"sheets_missing_id", func(c *Config) { c.Store = StoreSheets; c.SheetsCredentials = "{}" }, true, "SHEET_ID"},
		{"sheets_ok", func(c *Config) { c.Store = StoreSheets; c.SheetsCredentials = "{}"; c.SheetID = "x" }, false, ""},
		{"unknown_store", func(c *Config) { c.Store = "csv" }, true, "STORE"},
		{"unknown_renderer", func(c *Config) { c.Renderer = "lynx" }, true, "RENDERER"},
		{"unknown_source", func(c *Config) { c.Source = "atom" }, true, "SOURCE"},
		{"zero_min_funding", func(c *Config) { c.MinFunding = 0 }, true, "MIN_FUNDING"},
		{"negative_delay", func(c *Config) { c.Delay = -time.Second }, true, "DELAY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestValidateFetchIgnoresStore(t *testing.T) {
	c := Load(New())
	c.Store = StoreSheets
	c.SheetsCredentials = ""

	assert.NoError(t, c.ValidateFetch())
	assert.ErrorIs(t, c.Validate(), ErrInvalid)
}
