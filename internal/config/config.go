package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sadopc/mithaq/internal/week"
)

const envPrefix = "MITHAQ"

type Config struct {
	DBPath   string         `mapstructure:"db_path"`
	Log      LogConfig      `mapstructure:"log"`
	Week     WeekConfig     `mapstructure:"week"`
	Pomodoro PomodoroConfig `mapstructure:"pomodoro"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type WeekConfig struct {
	// DurableMarker keeps the rollover marker in the database instead of
	// process memory, so restarts on the start day do not roll over twice.
	// On unless the config file turns it off.
	DurableMarker bool   `mapstructure:"durable_marker"`
	YearBoundary  string `mapstructure:"year_boundary"`
	Cron          string `mapstructure:"cron"`
}

type PomodoroConfig struct {
	AutoStartDelay time.Duration `mapstructure:"auto_start_delay"`
}

// Dir returns ~/.config/mithaq.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "mithaq")
}

func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_path", filepath.Join(Dir(), "mithaq.db"))
	v.SetDefault("log.file", filepath.Join(Dir(), "mithaq.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("week.durable_marker", true)
	v.SetDefault("week.year_boundary", string(week.PolicyLiteral))
	v.SetDefault("week.cron", week.DefaultSchedule)
	v.SetDefault("pomodoro.auto_start_delay", "500ms")
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file is not an error; values come from defaults and
// MITHAQ_* environment variables (MITHAQ_LOG_LEVEL for log.level).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case !explicit && errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := week.ParsePolicy(c.Week.YearBoundary); err != nil {
		return fmt.Errorf("week.year_boundary: %w", err)
	}
	if c.Pomodoro.AutoStartDelay < 0 {
		return fmt.Errorf("pomodoro.auto_start_delay must not be negative")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	return nil
}

// YearBoundary returns the parsed week.year_boundary policy.
func (c *Config) YearBoundary() week.YearBoundaryPolicy {
	p, _ := week.ParsePolicy(c.Week.YearBoundary)
	return p
}
