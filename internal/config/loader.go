package config

import (
	"os"
	"path/filepath"

	"github.com/rileyhilliard/vitals/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".vitals.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/vitals"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'vitals init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .vitals.yaml in current directory
// 3. .vitals.yaml in parent directories (stops at git root or home)
// 4. ~/.config/vitals/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	if found := findUpward(cwd); found != "" {
		return found, nil
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// findUpward walks from dir toward the filesystem root looking for
// ConfigFileName. It stops after checking a git root or at the home dir.
func findUpward(dir string) string {
	home, _ := os.UserHomeDir()
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		if isGitRoot(dir) {
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir || (home != "" && parent == home) {
			return ""
		}
		dir = parent
	}
}

// LoadOrDefault loads config from the found path, or returns defaults if not found.
// The returned path is empty when defaults were used.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg := DefaultConfig()
		expandPaths(cfg)
		return cfg, "", nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	expandPaths(cfg)
	return cfg, nil
}

// setDefaults registers defaults with viper so partially specified nested
// sections still pick up the remaining values.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("version", cfg.Version)
	v.SetDefault("stream.transport", cfg.Stream.Transport)
	v.SetDefault("stream.event", cfg.Stream.Event)
	v.SetDefault("stream.reconnect_attempts", cfg.Stream.ReconnectAttempts)
	v.SetDefault("stream.timeout", cfg.Stream.Timeout.String())
	v.SetDefault("stream.reconnect_delay", cfg.Stream.ReconnectDelay.String())
	v.SetDefault("stream.reconnect_delay_max", cfg.Stream.ReconnectDelayMax.String())
	v.SetDefault("stream.mqtt.topic", cfg.Stream.MQTT.Topic)
	v.SetDefault("stream.mqtt.qos", cfg.Stream.MQTT.QoS)
	v.SetDefault("window.size", cfg.Window.Size)
	v.SetDefault("window.time_format", cfg.Window.TimeFormat)
	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.key", cfg.Storage.Key)
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("storage.redis.addr", cfg.Storage.Redis.Addr)
	v.SetDefault("storage.postgres.table", cfg.Storage.Postgres.Table)
	v.SetDefault("export.dir", cfg.Export.Dir)
	v.SetDefault("export.pdf_chart", cfg.Export.PDFChart)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}

// expandPaths resolves ~ and variables in local filesystem paths.
func expandPaths(cfg *Config) {
	cfg.Storage.Path = ExpandTilde(Expand(cfg.Storage.Path))
	cfg.Export.Dir = ExpandTilde(Expand(cfg.Export.Dir))
	cfg.Log.File = ExpandTilde(Expand(cfg.Log.File))
}

// GlobalConfigPath returns ~/.config/vitals/config.yaml.
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine home directory",
			"Set $HOME or pass --config explicitly")
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile), nil
}

// isGitRoot checks if a directory is a git repository root.
func isGitRoot(dir string) bool {
	gitPath := filepath.Join(dir, ".git")
	info, err := os.Stat(gitPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}
