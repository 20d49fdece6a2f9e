package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// EnvPrefix marks the environment variables read into the configuration.
// A double underscore separates nesting levels:
// RECALL_SCHEDULER__STRATEGY sets scheduler.strategy.
const EnvPrefix = "RECALL_"

// ConfigFlag names the flag that points at the YAML file. It is not itself
// a configuration key.
const ConfigFlag = "config"

// flagKeys maps command-line flag names to configuration keys. Flags not
// listed here are ignored by the loader.
var flagKeys = map[string]string{
	"db":         "db",
	"log-level":  "log_level",
	"strategy":   "scheduler.strategy",
	"fuzz":       "scheduler.fuzz",
	"seed":       "scheduler.seed",
	"queue-mode": "queue.mode",
}

// DefaultConfigPath returns the path to the config file under the XDG
// config directory.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve user config dir")
	}
	return filepath.Join(dir, "recall", "config.yaml"), nil
}

// Load builds the configuration. path names the YAML file; when empty the
// default path is used if it exists. flags may be nil. Only flags the user
// set explicitly override earlier layers.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		p, err := DefaultConfigPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, errors.Wrapf(err, "load config file %s", path)
			}
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, errors.Wrap(err, "load environment")
	}

	if flags != nil {
		p := posflag.ProviderWithFlag(flags, ".", nil, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(p, nil); err != nil {
			return Config{}, errors.Wrap(err, "load flags")
		}
	}

	cfg := DefaultConfig()
	if k.Exists("scheduler.stability.weights") {
		// Replace rather than overlay the default vector.
		cfg.Scheduler.Stability.Weights = nil
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey turns RECALL_SCHEDULER__MAX_INTERVAL into scheduler.max_interval.
// Comma-separated weight lists become slices.
func envKey(name, value string) (string, interface{}) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if strings.HasSuffix(key, ".weights") {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return key, parts
	}
	return key, value
}
