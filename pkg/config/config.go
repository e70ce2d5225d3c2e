// Package config resolves taskboard settings from flags, the environment and an
// optional .taskboard config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys understood in the config file, as TASKBOARD_<KEY> and as flags.
const (
	KeyDir       = "dir"
	KeyExtension = "extension"
	KeyListen    = "listen"
	KeyLogLevel  = "log-level"
	KeyLogFormat = "log-format"
	KeyWatch     = "watch"
)

// Config is the resolved configuration.
type Config struct {
	// Dir is the task directory. Empty means none selected yet.
	Dir       string
	Extension string
	Listen    string
	LogLevel  string
	LogFormat string
	Watch     bool
}

// Load resolves configuration. Flags that were set on the command line win over
// the environment, which wins over the config file, which wins over defaults.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyDir, "")
	v.SetDefault(KeyExtension, ".json")
	v.SetDefault(KeyListen, "127.0.0.1:8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyWatch, true)

	v.SetConfigName(".taskboard") // extension is implicit
	v.SetEnvPrefix("TASKBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("TASKBOARD_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	if flags != nil {
		for _, key := range []string{KeyDir, KeyExtension, KeyListen, KeyLogLevel, KeyLogFormat, KeyWatch} {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind %s: %w", key, err)
				}
			}
		}
	}

	dir, err := ExpandDir(v.GetString(KeyDir))
	if err != nil {
		return nil, err
	}

	ext := v.GetString(KeyExtension)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return &Config{
		Dir:       dir,
		Extension: ext,
		Listen:    v.GetString(KeyListen),
		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
		Watch:     v.GetBool(KeyWatch),
	}, nil
}

// ExpandDir expands a leading ~ in a directory path.
func ExpandDir(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("config: expand %q: %w", dir, err)
	}
	return expanded, nil
}
