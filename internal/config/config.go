package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/spf13/viper"

	"github.com/smartcontractkit/chainlink-user-manager/pkg/logger"
)

const (
	// BackendMemory keeps records in a MemoryUserStore.
	BackendMemory = "memory"
	// BackendSQL keeps records in an in-process ramsql database.
	BackendSQL = "sql"

	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

var (
	ErrUnknownBackend = errors.New("unknown store backend")
	ErrUnknownFormat  = errors.New("unknown output format")
)

// Backends lists the supported store backends.
var Backends = []string{BackendMemory, BackendSQL}

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatYAML, FormatTOML}

// LogConfig is the configuration for the logger.
type LogConfig struct {
	Level    string `mapstructure:"level" yaml:"level"`       // debug, info, warn or error
	Encoding string `mapstructure:"encoding" yaml:"encoding"` // json or console
}

// StoreConfig selects the backend that holds user records.
type StoreConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"` // memory or sql
}

// OutputConfig controls how session results are rendered.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // json, yaml or toml
}

// Config wraps the entire configuration for the user manager.
type Config struct {
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Store  StoreConfig  `mapstructure:"store" yaml:"store"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Encoding: logger.EncodingJSON},
		Store:  StoreConfig{Backend: BackendMemory},
		Output: OutputConfig{Format: FormatJSON},
	}
}

// Validate checks that every value is one the user manager understands.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Encoding != logger.EncodingJSON && c.Log.Encoding != logger.EncodingConsole {
		return fmt.Errorf("log.encoding: unsupported log encoding %q", c.Log.Encoding)
	}
	if err := ValidateBackend(c.Store.Backend); err != nil {
		return fmt.Errorf("store.backend: %w", err)
	}
	if err := ValidateFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}

	return nil
}

// LoggerConfig converts the log section into a logger.Config.
func (c *Config) LoggerConfig() (logger.Config, error) {
	lvl, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return logger.Config{}, err
	}

	return logger.Config{Level: lvl, Encoding: c.Log.Encoding}, nil
}

// ValidateBackend returns ErrUnknownBackend if backend is not supported.
func ValidateBackend(backend string) error {
	if !slices.Contains(Backends, backend) {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}

	return nil
}

// ValidateFormat returns ErrUnknownFormat if format is not supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return nil
}

// Load loads the config from the file path, falling back to env vars if the file does not exist.
// If the file exists, any env vars that are set will override the values loaded from the file.
func Load(filePath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(filePath)

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	// If the config file exists, we continue to read it, otherwise we fallback to using
	// environment variables
	if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
		}
	}

	return unmarshal(v)
}

// LoadEnv loads the config from the environment variables.
func LoadEnv() (*Config, error) {
	v := newViper()

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	def := Default()
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.encoding", def.Log.Encoding)
	v.SetDefault("store.backend", def.Store.Backend)
	v.SetDefault("output.format", def.Output.Format)

	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

var (
	// envBindings maps each config key to the environment variables that can provide its value.
	// The first name is preferred; any following names are legacy aliases checked in order.
	envBindings = map[string][]string{
		"log.level":     {"USER_MANAGER_LOG_LEVEL", "LOG_LEVEL"},
		"log.encoding":  {"USER_MANAGER_LOG_ENCODING"},
		"store.backend": {"USER_MANAGER_STORE_BACKEND"},
		"output.format": {"USER_MANAGER_OUTPUT_FORMAT"},
	}
)

// bindEnvs binds the environment variables to the viper instance.
func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		// Prepend the config key to the start of the arguments
		inputs := slices.Insert(slices.Clone(envs), 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}
