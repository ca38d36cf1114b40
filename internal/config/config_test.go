package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "LOG_FORMAT", "SESSION_TTL", "SWEEP_INTERVAL", "VENUE_FILE", "LOCALE", "CORS_ALLOWED_ORIGINS", "STRIKE_SOUND_URL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, 2*time.Hour, cfg.SessionTTL)
	require.Equal(t, 5*time.Minute, cfg.SweepInterval)
	require.Equal(t, "/static/strike-sound.wav", cfg.StrikeSoundURL)
	require.Empty(t, cfg.CORSAllowedOrigins)
	require.Equal(t, "fr", baseOf(cfg.LocaleTag()))
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", " 9090 ")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOCALE", "en-GB")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr())
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, "en", baseOf(cfg.LocaleTag()))
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("SESSION_TTL", "0s")
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "SESSION_TTL")
	require.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "soon")
	_, err := Load()
	require.ErrorContains(t, err, "parse env")
}

func baseOf(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}
