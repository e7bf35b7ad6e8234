package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/siswa/internal/config"
	"github.com/five82/siswa/internal/logging"
	"github.com/five82/siswa/internal/prefs"
	"github.com/five82/siswa/internal/ui"
)

// Options configure the siswa client.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/siswa/prefs.toml
	Driver     string // overrides the configured driver when set
	APIBind    string // overrides the configured api_bind when set
}

// Run boots the siswa TUI until the user exits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts.ConfigPath, opts.Driver, opts.APIBind)
	if err != nil {
		return err
	}

	logPath := cfg.LogPath()
	log, logFile, err := logging.OpenFile(logPath, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	log = log.With("component", "siswa")
	log.Info("starting", "driver", cfg.Driver, "api_bind", cfg.APIBind)

	gw, closeGateway, err := OpenGateway(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeGateway(); err != nil {
			log.Warn("close gateway failed", "err", err)
		}
	}()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		log.Warn("load prefs failed", "err", err)
	}

	err = ui.Run(ui.Options{
		Context:   ctx,
		Gateway:   gw,
		Logger:    log,
		LogPath:   logPath,
		ThemeName: userPrefs.Theme,
		ListOrder: userPrefs.ListOrder,
		PrefsPath: opts.PrefsPath,
	})
	log.Info("stopped", "err", err)
	return err
}

// LoadConfig reads the config file and applies non-empty overrides.
func LoadConfig(path, driver, apiBind string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if v := strings.ToLower(strings.TrimSpace(driver)); v != "" {
		cfg.Driver = v
	}
	if v := strings.TrimSpace(apiBind); v != "" {
		cfg.APIBind = v
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
