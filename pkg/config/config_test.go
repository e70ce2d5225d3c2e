package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".taskboard.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := writeConfig(t, "dir: /srv/tasks\nextension: txt\nlisten: 127.0.0.1:9999\nlog-level: debug\nwatch: false\n")
	t.Setenv("TASKBOARD_CONFIG_PATH", dir)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "/srv/tasks", cfg.Dir)
	assert.Equal(t, ".txt", cfg.Extension)
	assert.Equal(t, "127.0.0.1:9999", cfg.Listen)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Watch)
}

func TestLoadFlagsWinOverEnvironmentAndFile(t *testing.T) {
	dir := writeConfig(t, "dir: /from/file\n")
	t.Setenv("TASKBOARD_CONFIG_PATH", dir)
	t.Setenv("TASKBOARD_LOG_LEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(KeyDir, "", "")
	flags.String(KeyLogLevel, "info", "")
	require.NoError(t, flags.Parse([]string{"--dir", "/from/flag"}))

	cfg, err := Load(flags)
	require.NoError(t, err)

	assert.Equal(t, "/from/flag", cfg.Dir)
	assert.Equal(t, "warn", cfg.LogLevel, "unset flags must not mask the environment")
}

func TestExpandDir(t *testing.T) {
	got, err := ExpandDir("  ")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ExpandDir("~/tasks")
	require.NoError(t, err)
	assert.NotContains(t, got, "~")
	assert.Equal(t, "tasks", filepath.Base(got))
}
