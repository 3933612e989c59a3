package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	reapererrors "reaper/pkg/errors"
	"reaper/pkg/logging"
)

// EnvPrefix is prepended to every environment variable viper reads,
// e.g. REAPER_REGION or REAPER_LOGGING_LEVEL.
const EnvPrefix = "REAPER"

// Config represents the application configuration
type Config struct {
	// Region scanned when -r/--region is not given
	Region string `mapstructure:"region"`

	// Shared config profile passed to the AWS SDK
	Profile string `mapstructure:"profile"`

	// Fixture file read instead of EC2 when set
	Fixture string `mapstructure:"fixture"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	// Log directory path
	Directory string `mapstructure:"directory"`

	// Enable file logging
	FileLogging bool `mapstructure:"file_logging"`

	// Log level (debug, info, warn, error)
	Level string `mapstructure:"level"`
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var (
	// Global configuration instance
	cfg *Config
)

// Setup points viper at the config file and environment. An explicit
// configFile must exist; the default ~/.reaper.yaml is optional. It returns
// the file that was read, or "" when none was.
func Setup(configFile string) (string, error) {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(expandPath(configFile))
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".reaper")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", reapererrors.NewConfigError("failed to read config file", err)
	}
	return viper.ConfigFileUsed(), nil
}

// Load loads the configuration from file and environment variables
func Load() error {
	setDefaults()

	loaded := &Config{}
	if err := viper.Unmarshal(loaded); err != nil {
		return reapererrors.NewConfigError("failed to unmarshal configuration", err)
	}

	// Expand paths with tilde support
	loaded.Logging.Directory = expandPath(loaded.Logging.Directory)
	loaded.Fixture = expandPath(loaded.Fixture)
	loaded.Logging.Level = strings.ToLower(strings.TrimSpace(loaded.Logging.Level))

	if err := validate(loaded); err != nil {
		return err
	}

	cfg = loaded
	return nil
}

// Get returns the global configuration instance
func Get() *Config {
	if cfg == nil {
		setDefaults()
		cfg = &Config{
			Logging: LoggingConfig{
				Directory:   expandPath(viper.GetString("logging.directory")),
				FileLogging: viper.GetBool("logging.file_logging"),
				Level:       viper.GetString("logging.level"),
			},
		}
	}
	return cfg
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("region", "")
	viper.SetDefault("profile", "")
	viper.SetDefault("fixture", "")

	// An empty directory means the platform log directory
	viper.SetDefault("logging.directory", "")
	viper.SetDefault("logging.file_logging", true)
	viper.SetDefault("logging.level", "info")
}

// validate validates the configuration
func validate(cfg *Config) error {
	if !validLevels[cfg.Logging.Level] {
		return reapererrors.NewValidationError(fmt.Sprintf(
			"invalid logging.level %q (valid: debug, info, warn, error)", cfg.Logging.Level))
	}
	return nil
}

// Verbosity maps the configured log level onto a -v count, so that
// logging.level: debug behaves like -vv.
func (c *Config) Verbosity() int {
	if c.Logging.Level == "debug" {
		return logging.DebugVerbosity
	}
	return 0
}

// LoggingOptions returns the options used to initialise file logging.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Directory: c.Logging.Directory,
		Enabled:   c.Logging.FileLogging,
	}
}

// CreateSampleConfig creates a sample configuration file
func CreateSampleConfig(configPath string) error {
	sampleConfig := `# reaper configuration file
# Every key can also be set through the environment, e.g. REAPER_REGION

# Region scanned when -r/--region is not given (full name or shortcode such as apse2)
region: ""

# AWS shared config profile; empty uses the default credential chain
profile: ""

# Read instances from this YAML/JSON file instead of EC2
fixture: ""

# Logging configuration
logging:
  # Directory for log files; empty uses the platform default
  directory: ""

  # Enable file logging (in addition to console)
  file_logging: true

  # Log level: debug, info, warn, error
  level: "info"
`

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return reapererrors.NewConfigError("failed to create config directory", err)
	}

	if err := os.WriteFile(configPath, []byte(sampleConfig), 0600); err != nil {
		return reapererrors.NewConfigError("failed to write sample config", err)
	}

	return nil
}

// DefaultPath returns the default configuration file path
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".reaper.yaml")
}

// Exists reports whether a config file exists at path, or at DefaultPath
// when path is empty.
func Exists(path string) bool {
	if path == "" {
		path = DefaultPath()
	}
	_, err := os.Stat(expandPath(path))
	return err == nil
}

// InitFile writes the sample configuration to path (DefaultPath when empty)
// and returns where it went. An existing file is left alone.
func InitFile(path string) (string, error) {
	if path == "" {
		path = DefaultPath()
	}
	path = expandPath(path)

	if Exists(path) {
		return "", reapererrors.NewConfigError(fmt.Sprintf("config file %s already exists", path), nil).
			WithContext("path", path)
	}
	if err := CreateSampleConfig(path); err != nil {
		return "", err
	}
	return path, nil
}

// Reset clears the loaded configuration and viper state
func Reset() {
	cfg = nil
	viper.Reset()
}

// expandPath expands paths with tilde (~) to the user's home directory
func expandPath(path string) string {
	if path == "" {
		return path
	}

	// Handle tilde expansion
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path // Return original path if we can't get home dir
		}
		return filepath.Join(home, path[2:])
	}

	// Handle bare tilde
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	return path
}
