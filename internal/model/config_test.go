package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every config variable for the duration of the test.
// Viper ignores empty environment values, so the file and defaults win.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(strings.ToUpper(key), "")
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, DefaultFromState, cfg.FromState)
	assert.Equal(t, DefaultToState, cfg.ToState)
	assert.Equal(t, DefaultRoundingBase, cfg.RoundingBase)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DryRun)

	interval, err := cfg.PollInterval()
	require.NoError(t, err)
	assert.Equal(t, DefaultPollInterval, interval)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	clearEnv(t)

	path := writeEnvFile(t, `HOST=https://tracker.example.com/
API_TOKEN=perm:file-token
ASSIGNEE=me
BOARD=Team Board
CUSTOM_FIELD_STATE_ID=123-4
USER_ID=1-1
WORKTIME_BACKEND_ID=98-0
POLL_INTERVAL=90s
ROUNDING_BASE=15
`)
	t.Setenv("API_TOKEN", "perm:env-token")
	t.Setenv("DRY_RUN", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://tracker.example.com", cfg.Host)
	assert.Equal(t, "perm:env-token", cfg.APIToken, "environment wins over the file")
	assert.Equal(t, "me", cfg.Assignee)
	assert.Equal(t, "Team Board", cfg.Board)
	assert.Equal(t, "123-4", cfg.CustomFieldStateID)
	assert.Equal(t, "1-1", cfg.UserID)
	assert.Equal(t, "98-0", cfg.WorktimeBackendID)
	assert.Equal(t, 15, cfg.RoundingBase)
	assert.True(t, cfg.DryRun)
	require.NoError(t, cfg.Validate())

	interval, err := cfg.PollInterval()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, interval)
}

func TestConfig_Validate(t *testing.T) {
	t.Run("reports every missing key", func(t *testing.T) {
		err := (&Config{Host: "https://x"}).Validate()
		require.Error(t, err)
		for _, key := range []string{"ASSIGNEE", "BOARD", "CUSTOM_FIELD_STATE_ID", "USER_ID"} {
			assert.Contains(t, err.Error(), key)
		}
		assert.NotContains(t, err.Error(), "HOST")
	})

	t.Run("custom query replaces assignee and board", func(t *testing.T) {
		cfg := &Config{
			Host:               "https://x",
			CustomQuery:        "project: PRJ",
			CustomFieldStateID: "1",
			UserID:             "2",
		}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("bad interval", func(t *testing.T) {
		cfg := &Config{
			Host: "https://x", Assignee: "me", Board: "B",
			CustomFieldStateID: "1", UserID: "2",
			PollIntervalRaw: "soon",
		}
		assert.Error(t, cfg.Validate())
	})
}

func TestConfig_PollInterval(t *testing.T) {
	tests := []struct {
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{"", DefaultPollInterval, false},
		{"600", 10 * time.Minute, false},
		{"2m30s", 150 * time.Second, false},
		{"0", 0, true},
		{"-1m", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := (&Config{PollIntervalRaw: tt.raw}).PollInterval()
		if tt.wantErr {
			assert.Error(t, err, "raw %q", tt.raw)
			continue
		}
		require.NoError(t, err, "raw %q", tt.raw)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
	}
}

func TestConfig_Query(t *testing.T) {
	cfg := &Config{Assignee: "me", Board: "Team Board"}
	assert.Equal(t, "for:me Board Team Board:{Current sprint} State:Unresolved", cfg.Query())

	cfg.CustomQuery = "project: PRJ #Unresolved"
	assert.Equal(t, "project: PRJ #Unresolved", cfg.Query())
}
