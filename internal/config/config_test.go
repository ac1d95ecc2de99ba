package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DemoOnly(t *testing.T) {
	t.Setenv("SF_DEMO_ENABLED", "true")
	t.Setenv("SF_APP_PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Demo.Enabled)
	assert.False(t, cfg.LiveEnabled())
	assert.Equal(t, 9100, cfg.App.Port)
	assert.Equal(t, "anthropic", cfg.Generator.Provider)
	assert.Equal(t, 3*time.Minute, cfg.GenerationTimeout())
	assert.Equal(t, "shr_", cfg.Share.TokenPrefix)
}

func TestLoad_RequiresDatabaseOutsideDemo(t *testing.T) {
	t.Setenv("SF_DEMO_ENABLED", "false")
	t.Setenv("SF_DATABASE_DSN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			App:       AppCfg{Port: 8029},
			Database:  DatabaseCfg{DSN: "host=localhost"},
			Share:     ShareCfg{SecretPepper: "pepper"},
			Generator: GeneratorCfg{Provider: "openai", TimeoutSec: 180},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing pepper", mutate: func(c *Config) { c.Share.SecretPepper = "" }, wantErr: true},
		{name: "unknown provider", mutate: func(c *Config) { c.Generator.Provider = "llama" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Generator.TimeoutSec = 0 }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.App.Port = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthEnabled(t *testing.T) {
	c := Config{}
	assert.False(t, c.AuthEnabled())
	c.Supabase = SupabaseCfg{ProjectRef: "abcd", AnonKey: "key"}
	assert.True(t, c.AuthEnabled())
}
