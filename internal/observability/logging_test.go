package observability

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/dloc/internal/config"
)

// buildToFile builds the logger for cfg with its output redirected to a file
// and returns the logger's output after logging msg at error level.
func buildToFile(t *testing.T, cfg config.LoggingConfig, msg string) string {
	t.Helper()
	zapCfg, err := zapConfig(cfg)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "log")
	zapCfg.OutputPaths = []string{path}

	logger, err := build(zapCfg)
	require.NoError(t, err)
	logger.Error(msg)
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestZapConfig_WritesToStderr(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		zapCfg, err := zapConfig(config.LoggingConfig{Level: "info", Format: format})
		require.NoError(t, err, format)
		assert.Equal(t, []string{"stderr"}, zapCfg.OutputPaths, format)
		assert.Equal(t, []string{"stderr"}, zapCfg.ErrorOutputPaths, format)
	}
}

func TestZapConfig_Formats(t *testing.T) {
	jsonCfg, err := zapConfig(config.LoggingConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, "json", jsonCfg.Encoding)

	consoleCfg, err := zapConfig(config.LoggingConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.Equal(t, "console", consoleCfg.Encoding)
	assert.True(t, consoleCfg.DisableStacktrace)
}

func TestZapConfig_Rejects(t *testing.T) {
	_, err := zapConfig(config.LoggingConfig{Level: "trace", Format: "json"})
	assert.Error(t, err)
	_, err = NewLogger(config.LoggingConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNewLogger_LevelIsApplied(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel), "info must be disabled at warn")
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel), "error must be enabled at warn")
}

func TestLogger_JSONEntryIsNamed(t *testing.T) {
	out := buildToFile(t, config.LoggingConfig{Level: "info", Format: "json"}, "boom")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &entry))
	assert.Equal(t, "dloc", entry["logger"])
	assert.Equal(t, "boom", entry["msg"])
}

func TestLogger_ConsoleHasNoStacktrace(t *testing.T) {
	out := buildToFile(t, config.LoggingConfig{Level: "info", Format: "console"}, "boom")

	assert.Contains(t, out, "\tdloc\t")
	assert.Contains(t, out, "boom")
	assert.Equal(t, 1, strings.Count(out, "\n"), "an error entry must be a single line: %q", out)
}
