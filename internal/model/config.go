package model

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default values applied when a key is absent from both the environment
// and the dotenv file.
const (
	DefaultPollInterval = 10 * time.Minute
	DefaultRoundingBase = 30
	DefaultFromState    = "In Progress"
	DefaultToState      = "To Verify"
	DefaultEnvFile      = ".env"
)

// Config holds everything the poller needs to talk to the tracker and
// decide what to log.
type Config struct {
	// Host is the root URL of the tracker instance.
	Host string `mapstructure:"host"`

	// APIToken is the permanent token used for Bearer authentication.
	APIToken string `mapstructure:"api_token"`

	// Assignee is the value of the "for:" query attribute.
	Assignee string `mapstructure:"assignee"`

	// Board is the agile board whose current sprint is watched.
	Board string `mapstructure:"board"`

	// CustomFieldStateID identifies the State field in issue activities.
	CustomFieldStateID string `mapstructure:"custom_field_state_id"`

	// UserID is the author of posted work items.
	UserID string `mapstructure:"user_id"`

	// WorktimeBackendID is the work item type. Optional.
	WorktimeBackendID string `mapstructure:"worktime_backend_id"`

	// CustomQuery replaces the query built from Assignee and Board.
	CustomQuery string `mapstructure:"query"`

	PollIntervalRaw string `mapstructure:"poll_interval"`
	RoundingBase    int    `mapstructure:"rounding_base"`
	FromState       string `mapstructure:"from_state"`
	ToState         string `mapstructure:"to_state"`
	WorkItemText    string `mapstructure:"workitem_text"`
	LogLevel        string `mapstructure:"log_level"`
	DryRun          bool   `mapstructure:"dry_run"`
}

// configKeys lists every key LoadConfig binds to the environment.
var configKeys = []string{
	"host", "api_token", "assignee", "board",
	"custom_field_state_id", "user_id", "worktime_backend_id",
	"query", "poll_interval", "rounding_base",
	"from_state", "to_state", "workitem_text",
	"log_level", "dry_run",
}

// LoadConfig reads configuration from the dotenv file at path and from
// the process environment using Viper. Environment variables take
// precedence over the file. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	v.SetDefault("poll_interval", DefaultPollInterval.String())
	v.SetDefault("rounding_base", DefaultRoundingBase)
	v.SetDefault("from_state", DefaultFromState)
	v.SetDefault("to_state", DefaultToState)
	v.SetDefault("log_level", "info")
	v.SetDefault("dry_run", false)

	for _, key := range configKeys {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding env %s: %w", key, err)
		}
	}

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			var pathErr *os.PathError
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Host = strings.TrimRight(cfg.Host, "/")

	return cfg, nil
}

// Validate reports every missing required key at once. API_TOKEN is not
// checked here because it may still be resolved from the keyring.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"HOST", c.Host},
		{"ASSIGNEE", c.Assignee},
		{"BOARD", c.Board},
		{"CUSTOM_FIELD_STATE_ID", c.CustomFieldStateID},
		{"USER_ID", c.UserID},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if c.CustomQuery != "" {
		missing = removeKeys(missing, "ASSIGNEE", "BOARD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	if _, err := c.PollInterval(); err != nil {
		return err
	}
	if c.RoundingBase < 0 {
		return fmt.Errorf("ROUNDING_BASE must not be negative, got %d", c.RoundingBase)
	}
	return nil
}

// PollInterval parses POLL_INTERVAL. A bare integer is taken as seconds.
func (c *Config) PollInterval() (time.Duration, error) {
	raw := strings.TrimSpace(c.PollIntervalRaw)
	if raw == "" {
		return DefaultPollInterval, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		d, err = time.ParseDuration(raw + "s")
		if err != nil {
			return 0, fmt.Errorf("parsing POLL_INTERVAL %q: %w", raw, err)
		}
	}
	if d <= 0 {
		return 0, fmt.Errorf("POLL_INTERVAL must be positive, got %s", d)
	}
	return d, nil
}

// Query returns the issue search query: the configured override, or
// the space-joined "key:value" pairs for the assignee's current sprint.
func (c *Config) Query() string {
	if c.CustomQuery != "" {
		return c.CustomQuery
	}

	pairs := [][2]string{
		{"for", c.Assignee},
		{"Board " + c.Board, "{Current sprint}"},
		{"State", "Unresolved"},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p[0]+":"+p[1])
	}
	return strings.Join(parts, " ")
}

func removeKeys(keys []string, drop ...string) []string {
	out := keys[:0]
	for _, k := range keys {
		keep := true
		for _, d := range drop {
			if k == d {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, k)
		}
	}
	return out
}
