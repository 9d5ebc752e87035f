package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Danondso/micselect/internal/device"
)

// AudioConfig holds device discovery settings.
type AudioConfig struct {
	Backend         string `toml:"backend"`          // "portaudio" or "malgo"
	DeviceID        string `toml:"device_id"`        // empty selects the system default
	TransportFilter string `toml:"transport_filter"` // "usb_builtin" or "any"
	Dedupe          string `toml:"dedupe"`           // "label" or "id"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"` // relative paths live under DefaultDataDir
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// CustomTheme defines a user-provided color theme.
type CustomTheme struct {
	Name      string `toml:"name"`
	Primary   string `toml:"primary"`
	Secondary string `toml:"secondary"`
	Accent    string `toml:"accent"`
	Error     string `toml:"error"`
	Success   string `toml:"success"`
	Warning   string `toml:"warning"`
	Text      string `toml:"text"`
	Dimmed    string `toml:"dimmed"`
	Border    string `toml:"border"`
}

// Config is the top-level configuration.
type Config struct {
	Theme        string        `toml:"theme"`
	Audio        AudioConfig   `toml:"audio"`
	Log          LogConfig     `toml:"log"`
	CustomThemes []CustomTheme `toml:"custom_theme"`
}

// Default returns a Config populated with all default values.
func Default() *Config {
	return &Config{
		Theme: "synthwave",
		Audio: AudioConfig{
			Backend:         "portaudio",
			DeviceID:        "",
			TransportFilter: "usb_builtin",
			Dedupe:          "label",
		},
		Log: LogConfig{
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Options converts the audio settings into resolver options.
func (a AudioConfig) Options() (device.Options, error) {
	filter, err := device.ParseTransportFilter(a.TransportFilter)
	if err != nil {
		return device.Options{}, fmt.Errorf("audio.transport_filter: %w", err)
	}
	dedupe, err := device.ParseDedupePolicy(a.Dedupe)
	if err != nil {
		return device.Options{}, fmt.Errorf("audio.dedupe: %w", err)
	}
	return device.Options{Filter: filter, Dedupe: dedupe}, nil
}

// DefaultPath returns the default config file path (~/.config/micselect/config.toml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "micselect", "config.toml")
}

// DefaultDataDir returns the default data directory (~/.local/share/micselect).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "micselect")
}

// LogPath returns the absolute log file path, or "" when file logging is off.
func (l LogConfig) LogPath() string {
	if l.File == "" || filepath.IsAbs(l.File) {
		return l.File
	}
	return filepath.Join(DefaultDataDir(), l.File)
}

// Save writes the config as TOML to the given path, creating parent
// directories if needed. The write is atomic: data is written to a
// temporary file and renamed into place so a crash mid-write cannot
// corrupt the existing config.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".micselect-config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// Load reads the TOML config from path. If the file does not exist,
// it returns the default config without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	_, err = toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
