package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	internal "github.com/vladstelmakh/clean-folder/cleanfolder"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/options"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/types"
)

// Config stores all configuration of the application.
// Values come from built-in defaults and command line flags only.
type Config struct {
	Verbose  bool           `mapstructure:"verbose"`
	LogLevel string         `mapstructure:"logLevel"`
	Organize OrganizeConfig `mapstructure:"organize"`
}

// OrganizeConfig stores the organizer settings.
type OrganizeConfig struct {
	Categories []types.Category `mapstructure:"categories"`
	Conflict   string           `mapstructure:"conflict"`
	DirPerm    uint32           `mapstructure:"dirPerm"`
}

// LoadConfig builds the configuration from defaults and the given flags.
// Flags that are not defined on the set are ignored.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("verbose", false)
	v.SetDefault("logLevel", internal.DefaultLogLevel.String())
	v.SetDefault("organize.categories", types.DefaultCategories())
	v.SetDefault("organize.conflict", string(options.ConflictOverwrite))
	v.SetDefault("organize.dirPerm", uint32(internal.DefaultDirPerm))

	if flags != nil {
		if flag := flags.Lookup("verbose"); flag != nil {
			if err := v.BindPFlag("verbose", flag); err != nil {
				return nil, fmt.Errorf("failed to bind verbose flag: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the loaded values are usable.
func (c *Config) Validate() error {
	if !options.ConflictStrategy(c.Organize.Conflict).Valid() {
		return fmt.Errorf("unknown conflict strategy: %q", c.Organize.Conflict)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if len(c.Organize.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}
	seen := make(map[string]struct{}, len(c.Organize.Categories))
	for _, category := range c.Organize.Categories {
		if category.Name == "" {
			return fmt.Errorf("category name cannot be empty")
		}
		if _, dup := seen[category.Name]; dup {
			return fmt.Errorf("duplicate category %q", category.Name)
		}
		seen[category.Name] = struct{}{}
	}
	return nil
}

// Level returns the log level; verbose mode always logs at debug.
func (c *Config) Level() zerolog.Level {
	if c.Verbose {
		return zerolog.DebugLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return internal.DefaultLogLevel
	}
	return level
}

// OrganizeOptions converts the settings into organizer options.
func (c *Config) OrganizeOptions() options.OrganizeOptions {
	return options.OrganizeOptions{
		Categories: c.Organize.Categories,
		Conflict:   options.ConflictStrategy(c.Organize.Conflict),
		DirPerm:    os.FileMode(c.Organize.DirPerm),
	}
}
