// Package config loads todo-board settings from defaults, a TOML file,
// the environment and command-line overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"todo-board/store"
)

const (
	AppName = "todo-board"

	DefaultDriver    = store.DriverFile
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	EnvPrefix        = "TODO_BOARD_"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`

	// File is the config file that was read, empty when none was found.
	File string `toml:"-"`
}

type StorageConfig struct {
	Driver  string `toml:"driver"`
	Dir     string `toml:"dir"`
	DB      string `toml:"db"`
	DSN     string `toml:"dsn"`
	Backups int    `toml:"backups"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Overrides carries values set explicitly on the command line.
// Empty fields leave the lower layers untouched.
type Overrides struct {
	ConfigFile string
	Driver     string
	Dir        string
	DB         string
	DSN        string
	LogLevel   string
}

// Load resolves the configuration using the process environment.
func Load(o Overrides) (*Config, error) {
	return LoadWithEnv(o, os.Getenv)
}

// LoadWithEnv resolves the configuration in priority order:
// defaults, config file, environment, overrides.
func LoadWithEnv(o Overrides, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg, getenv)

	path, explicit := configPath(o, getenv)
	if path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			if !explicit && errors.Is(err, os.ErrNotExist) {
				path = ""
			} else {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}
	cfg.File = path

	if err := loadFromEnv(cfg, getenv); err != nil {
		return nil, err
	}
	applyOverrides(cfg, o)

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cfg, nil
}

// StoreOptions maps the storage section onto store.Open options.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Driver:  c.Storage.Driver,
		Dir:     c.Storage.Dir,
		DBPath:  c.Storage.DB,
		DSN:     c.Storage.DSN,
		Backups: c.Storage.Backups,
	}
}

// DefaultConfigFile returns $XDG_CONFIG_HOME/todo-board/config.toml or its
// platform equivalent.
func DefaultConfigFile(getenv func(string) string) string {
	if dir := getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, "config.toml")
}

// DefaultDataDir returns $XDG_DATA_HOME/todo-board or ~/.local/share/todo-board.
func DefaultDataDir(getenv func(string) string) string {
	if dir := getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	return filepath.Join("~", ".local", "share", AppName)
}

func setDefaults(cfg *Config, getenv func(string) string) {
	cfg.Storage.Driver = DefaultDriver
	cfg.Storage.Dir = DefaultDataDir(getenv)
	cfg.Storage.Backups = store.DefaultMaxBackups
	cfg.Log.Level = DefaultLogLevel
	cfg.Log.Format = DefaultLogFormat
}

func configPath(o Overrides, getenv func(string) string) (string, bool) {
	if o.ConfigFile != "" {
		return expandPath(o.ConfigFile), true
	}
	if v := getenv(EnvPrefix + "CONFIG"); v != "" {
		return expandPath(v), true
	}
	return DefaultConfigFile(getenv), false
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv(EnvPrefix + "STORAGE"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := getenv(EnvPrefix + "DATA_DIR"); v != "" {
		cfg.Storage.Dir = v
	}
	if v := getenv(EnvPrefix + "DB"); v != "" {
		cfg.Storage.DB = v
	}
	if v := getenv(EnvPrefix + "DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := getenv(EnvPrefix + "BACKUPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sBACKUPS=%q is not a number", ErrInvalidConfig, EnvPrefix, v)
		}
		cfg.Storage.Backups = n
	}
	if v := getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := getenv(EnvPrefix + "LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	return nil
}

func applyOverrides(cfg *Config, o Overrides) {
	if o.Driver != "" {
		cfg.Storage.Driver = o.Driver
	}
	if o.Dir != "" {
		cfg.Storage.Dir = o.Dir
	}
	if o.DB != "" {
		cfg.Storage.DB = o.DB
	}
	if o.DSN != "" {
		cfg.Storage.DSN = o.DSN
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
}

// finalizeConfig expands paths, derives the database and log file locations
// from the data dir when unset, and validates enumerated values.
func finalizeConfig(cfg *Config) error {
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	dir, err := absPath(cfg.Storage.Dir)
	if err != nil {
		return err
	}
	cfg.Storage.Dir = dir

	if cfg.Storage.DB == "" {
		cfg.Storage.DB = filepath.Join(dir, AppName+".db")
	} else if cfg.Storage.DB, err = absPath(cfg.Storage.DB); err != nil {
		return err
	}

	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(dir, AppName+".log")
	} else if cfg.Log.File, err = absPath(cfg.Log.File); err != nil {
		return err
	}

	switch cfg.Storage.Driver {
	case store.DriverFile, store.DriverSQLite, store.DriverMemory:
	case store.DriverMySQL:
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("%w: storage.dsn is required for the mysql driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: storage.driver %q (want file, sqlite, mysql or memory)", ErrInvalidConfig, cfg.Storage.Driver)
	}

	if cfg.Storage.Backups < 0 {
		return fmt.Errorf("%w: storage.backups must not be negative", ErrInvalidConfig)
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, cfg.Log.Format)
	}
	return nil
}

func absPath(p string) (string, error) {
	p = expandPath(p)
	if p == "" || filepath.IsAbs(p) {
		return p, nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	return abs, nil
}
