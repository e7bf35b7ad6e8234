package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Store drivers.
const (
	DriverRemote   = "remote"
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is shared by the siswa client and the siswad server.
type Config struct {
	// Driver picks the client's gateway: remote talks to siswad, the others
	// open a store in-process. siswad accepts every driver but remote.
	Driver      string
	APIBind     string
	Listen      string
	DBPath      string
	PostgresDSN string
	LogDir      string
	LogLevel    string
	LogFormat   string
	LongPoll    time.Duration
	Seed        bool
}

const (
	defaultConfigPath = "~/.config/siswa/config.toml"
	defaultLogDir     = "~/.local/share/siswa/logs"
	defaultDBPath     = "~/.local/share/siswa/siswa.db"
	defaultAPIBind    = "127.0.0.1:7490"
	defaultListen     = "127.0.0.1:7490"
	defaultLogLevel   = "info"
	defaultLogFormat  = "text"
	defaultLongPoll   = 25 * time.Second
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Driver:    DriverRemote,
		APIBind:   defaultAPIBind,
		Listen:    defaultListen,
		DBPath:    mustExpand(defaultDBPath),
		LogDir:    mustExpand(defaultLogDir),
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
		LongPoll:  defaultLongPoll,
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Driver      string `toml:"driver"`
		APIBind     string `toml:"api_bind"`
		Listen      string `toml:"listen"`
		DBPath      string `toml:"db_path"`
		PostgresDSN string `toml:"postgres_dsn"`
		LogDir      string `toml:"log_dir"`
		LogLevel    string `toml:"log_level"`
		LogFormat   string `toml:"log_format"`
		LongPoll    string `toml:"long_poll"`
		Seed        bool   `toml:"seed"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Driver = orDefault(strings.ToLower(raw.Driver), cfg.Driver)
	cfg.APIBind = orDefault(raw.APIBind, cfg.APIBind)
	cfg.Listen = orDefault(raw.Listen, cfg.Listen)
	cfg.DBPath = mustExpand(orDefault(raw.DBPath, defaultDBPath))
	cfg.PostgresDSN = strings.TrimSpace(raw.PostgresDSN)
	cfg.LogDir = mustExpand(orDefault(raw.LogDir, defaultLogDir))
	cfg.LogLevel = orDefault(strings.ToLower(raw.LogLevel), cfg.LogLevel)
	cfg.LogFormat = orDefault(strings.ToLower(raw.LogFormat), cfg.LogFormat)
	cfg.Seed = raw.Seed

	if value := strings.TrimSpace(raw.LongPoll); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse long_poll: %w", err)
		}
		cfg.LongPoll = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields a driver depends on.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverRemote, DriverMemory, DriverSQLite:
	case DriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("driver %q requires postgres_dsn", c.Driver)
		}
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	if c.LongPoll <= 0 {
		return fmt.Errorf("long_poll must be positive, got %s", c.LongPoll)
	}
	return nil
}

// LogPath returns the path of the client log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/siswa.log")
	}
	return filepath.Join(c.LogDir, "siswa.log")
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
