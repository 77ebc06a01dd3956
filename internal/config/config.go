package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the top-level depscope configuration.
type Config struct {
	ProjectRoot   string   `mapstructure:"project_root"`
	BaseDirectory string   `mapstructure:"base_directory"`
	Exclude       []string `mapstructure:"exclude"`
	SDKPackage    string   `mapstructure:"sdk_package"`
	Output        Output   `mapstructure:"output"`
	Watch         Watch    `mapstructure:"watch"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// Watch defines file-watching preferences.
type Watch struct {
	// DebounceMs is how long to coalesce filesystem events before applying
	// incremental updates.
	DebounceMs int `mapstructure:"debounce_ms"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. A .env file in the
// working directory is loaded first so env-based overrides are visible.
func Load(cfgFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	v.SetDefault("project_root", cwd)
	v.SetDefault("base_directory", DefaultConfigDir)
	v.SetDefault("exclude", DefaultExcludes)
	v.SetDefault("sdk_package", DefaultSDKPackage)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("watch.debounce_ms", DefaultWatch.DebounceMs)

	v.SetEnvPrefix("DEPSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.ProjectRoot = expandPath(cfg.ProjectRoot)
	cfg.BaseDirectory = expandPath(cfg.BaseDirectory)

	return &cfg, nil
}

// TreePath returns the path where the saved tree JSON lives for this config.
func (c *Config) TreePath() string {
	return filepath.Join(c.BaseDirectory, DefaultTreeName)
}

// DBPath returns the full path to the scan-history SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
