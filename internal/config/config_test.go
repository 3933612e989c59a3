package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reaper/internal/testutil"
	"reaper/pkg/errors"
	"reaper/pkg/logging"
)

func setup(t *testing.T) string {
	t.Helper()
	home := testutil.SetupReaperTestEnvironment(t)
	Reset()
	t.Cleanup(Reset)
	return home
}

func TestExpandPath(t *testing.T) {
	home := setup(t)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty path", "", ""},
		{"absolute path", "/tmp/test", "/tmp/test"},
		{"relative path", "test/path", "test/path"},
		{"bare tilde", "~", home},
		{"tilde prefix", "~/fleet.yaml", filepath.Join(home, "fleet.yaml")},
		{"tilde in the middle", "a/~/b", "a/~/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandPath(tt.input))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	setup(t)

	used, err := Setup("")
	require.NoError(t, err)
	assert.Empty(t, used, "no config file in a fresh home")

	require.NoError(t, Load())
	c := Get()
	assert.Empty(t, c.Region)
	assert.Empty(t, c.Profile)
	assert.Empty(t, c.Fixture)
	assert.True(t, c.Logging.FileLogging)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, 0, c.Verbosity())
}

func TestLoadFromDefaultFile(t *testing.T) {
	home := setup(t)
	content := `region: apse2
profile: ops
fixture: ~/fleet.yaml
logging:
  directory: ~/reaper-logs
  file_logging: false
  level: DEBUG
`
	require.NoError(t, os.WriteFile(filepath.Join(home, ".reaper.yaml"), []byte(content), 0600))
	assert.True(t, Exists(""))

	used, err := Setup("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".reaper.yaml"), used)

	require.NoError(t, Load())
	c := Get()
	assert.Equal(t, "apse2", c.Region)
	assert.Equal(t, "ops", c.Profile)
	assert.Equal(t, filepath.Join(home, "fleet.yaml"), c.Fixture)
	assert.Equal(t, filepath.Join(home, "reaper-logs"), c.Logging.Directory)
	assert.False(t, c.Logging.FileLogging)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, logging.DebugVerbosity, c.Verbosity())

	opts := c.LoggingOptions()
	assert.False(t, opts.Enabled)
	assert.Equal(t, c.Logging.Directory, opts.Directory)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := setup(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("region: use1\n"), 0600))

	t.Setenv("REAPER_REGION", "euw1")
	t.Setenv("REAPER_LOGGING_LEVEL", "warn")

	_, err := Setup(path)
	require.NoError(t, err)
	require.NoError(t, Load())

	assert.Equal(t, "euw1", Get().Region)
	assert.Equal(t, "warn", Get().Logging.Level)
}

func TestSetupExplicitFileMissing(t *testing.T) {
	dir := setup(t)

	_, err := Setup(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTypeConfig))
}

func TestSetupMalformedFile(t *testing.T) {
	dir := setup(t)
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("region: [unclosed\n"), 0600))

	_, err := Setup(path)
	assert.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		shouldErr bool
	}{
		{"debug", "debug", false},
		{"info", "info", false},
		{"warn", "warn", false},
		{"error", "error", false},
		{"unknown level", "verbose", true},
		{"empty level", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&Config{Logging: LoggingConfig{Level: tt.level}})
			if tt.shouldErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrTypeValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadRejectsInvalidLevel(t *testing.T) {
	setup(t)
	viper.Set("logging.level", "loud")

	err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg, "a rejected configuration is not installed")
}

func TestGetWithoutLoad(t *testing.T) {
	setup(t)

	c := Get()
	require.NotNil(t, c)
	assert.Equal(t, "info", c.Logging.Level)
	assert.True(t, c.Logging.FileLogging)
	assert.Same(t, c, Get())
}

func TestCreateSampleConfig(t *testing.T) {
	dir := setup(t)
	path := filepath.Join(dir, "nested", "reaper.yaml")

	require.NoError(t, CreateSampleConfig(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	_, err = Setup(path)
	require.NoError(t, err)
	require.NoError(t, Load())
	assert.Equal(t, "info", Get().Logging.Level)
	assert.True(t, Get().Logging.FileLogging)
}

func TestDefaultPath(t *testing.T) {
	home := setup(t)
	assert.Equal(t, filepath.Join(home, ".reaper.yaml"), DefaultPath())
	assert.False(t, Exists(""))
}

func TestInitFile(t *testing.T) {
	home := setup(t)

	path, err := InitFile("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".reaper.yaml"), path)
	assert.True(t, Exists(""))

	_, err = InitFile("~/.reaper.yaml")
	require.Error(t, err, "an existing config is never overwritten")
	assert.True(t, errors.Is(err, errors.ErrTypeConfig))

	custom, err := InitFile(filepath.Join(home, "conf", "reaper.yml"))
	require.NoError(t, err)
	assert.True(t, Exists(custom))
}
