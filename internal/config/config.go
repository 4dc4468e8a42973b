package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"harmonyscope/internal/application"
)

const (
	EnvPrefix       = "HARMONYSCOPE"
	DefaultPageSize = 20
	DefaultLogLevel = "warn"
)

// Config holds the settings shared by every harmonyscope binary
type Config struct {
	DB       string
	LogLevel string
	LogFile  string
	Watch    bool
	PageSize int
}

// Loader reads configuration from defaults, an optional YAML file,
// HARMONYSCOPE_* environment variables and bound flags, in increasing precedence.
type Loader struct {
	v        *viper.Viper
	explicit string
}

// NewLoader creates a loader. configFile may be empty to search the default locations.
func NewLoader(configFile string) *Loader {
	v := viper.New()
	v.SetDefault("db", "")
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.file", "")
	v.SetDefault("watch", false)
	v.SetDefault("page_size", DefaultPageSize)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir := DefaultDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}
	return &Loader{v: v, explicit: configFile}
}

// DefaultDir returns $XDG_CONFIG_HOME/harmonyscope, or "" when no config home is known
func DefaultDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "harmonyscope")
}

// BindFlags lets command line flags override every other source.
// Flags are matched by name: db, log-level, log-file, watch, page-size.
func (l *Loader) BindFlags(flags *pflag.FlagSet) error {
	for key, name := range map[string]string{
		"db":        "db",
		"log.level": "log-level",
		"log.file":  "log-file",
		"watch":     "watch",
		"page_size": "page-size",
	} {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the config file if there is one and returns the merged settings.
// A missing default config file is not an error; a missing explicit one is.
func (l *Loader) Load() (*Config, error) {
	if l.explicit != "" {
		if _, err := os.Stat(l.explicit); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		DB:       strings.TrimSpace(l.v.GetString("db")),
		LogLevel: l.v.GetString("log.level"),
		LogFile:  l.v.GetString("log.file"),
		Watch:    l.v.GetBool("watch"),
		PageSize: l.v.GetInt("page_size"),
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return cfg, nil
}

// ConfigFile returns the file the settings were read from, if any
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// Validate checks that a store location was configured
func (c *Config) Validate() error {
	return application.ValidateRequired("location", c.DB)
}
