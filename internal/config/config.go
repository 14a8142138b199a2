package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the wizard configuration
type Config struct {
	CatalogDir      string       `mapstructure:"catalog_dir"`      // Directory of app catalog records
	Scan            ScanConfig   `mapstructure:"scan"`             // Wi-Fi scan settings
	LocaleCommand   []string     `mapstructure:"locale_command"`   // Lists available locales
	TimezoneCommand []string     `mapstructure:"timezone_command"` // Lists available timezones
	Editor          EditorConfig `mapstructure:"editor"`           // Record editor launch settings
	InstallCommand  []string     `mapstructure:"install_command"`  // Prefix for package installation
	RebootCommand   []string     `mapstructure:"reboot_command"`   // Command run by the finish screen

	path string // File the config was read from (or will be written to)
}

// ScanConfig controls the wireless network scan
type ScanConfig struct {
	SettleDelay time.Duration `mapstructure:"settle_delay"` // Pause before enumerating
	Command     []string      `mapstructure:"command"`      // Prints one SSID per line
}

// EditorConfig controls how catalog records are opened for editing
type EditorConfig struct {
	Editor           string   `mapstructure:"editor"`            // Editor run inside the terminal
	Terminal         string   `mapstructure:"terminal"`          // "auto" or a terminal emulator binary
	TerminalPriority []string `mapstructure:"terminal_priority"` // Auto-detection order
}

// envPrefix is the prefix for environment overrides (SHADOWMITE_CATALOG_DIR, ...)
const envPrefix = "SHADOWMITE"

// configFileName is the base name of the config file
const configFileName = "config.yaml"

// ConfigDir returns the directory containing shadowmite config files
func ConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "shadowmite")
}

// ConfigPath returns the path to the default config file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), configFileName)
}

// DefaultCatalogDir returns the default catalog record directory
func DefaultCatalogDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, "sm_conf", "apps")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog_dir", DefaultCatalogDir())
	v.SetDefault("scan.settle_delay", "300ms")
	v.SetDefault("scan.command", []string{"sudo", "nmcli", "-t", "-f", "SSID", "dev", "wifi", "list"})
	v.SetDefault("locale_command", []string{"locale", "-a"})
	v.SetDefault("timezone_command", []string{"timedatectl", "list-timezones"})
	v.SetDefault("editor.editor", "nano")
	v.SetDefault("editor.terminal", "auto")
	v.SetDefault("editor.terminal_priority", []string{"x-terminal-emulator", "gnome-terminal", "konsole", "xterm"})
	v.SetDefault("install_command", []string{"sudo", "apt", "install", "-y"})
	v.SetDefault("reboot_command", []string{"reboot"})
}

// Load reads configuration from path (or the default location when empty)
// and applies SHADOWMITE_* environment overrides. A missing file is not an
// error: the defaults are returned.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName(strings.TrimSuffix(configFileName, filepath.Ext(configFileName)))
		path = ConfigPath()
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.CatalogDir = ExpandHome(cfg.CatalogDir)
	return &cfg, nil
}

// Path returns the file this config is bound to
func (c *Config) Path() string {
	if c.path == "" {
		return ConfigPath()
	}
	return c.path
}

// Save writes the configuration to its file, creating the directory if needed
func (c *Config) Save() error {
	path := c.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("catalog_dir", c.CatalogDir)
	v.Set("scan.settle_delay", c.Scan.SettleDelay.String())
	v.Set("scan.command", c.Scan.Command)
	v.Set("locale_command", c.LocaleCommand)
	v.Set("timezone_command", c.TimezoneCommand)
	v.Set("editor.editor", c.Editor.Editor)
	v.Set("editor.terminal", c.Editor.Terminal)
	v.Set("editor.terminal_priority", c.Editor.TerminalPriority)
	v.Set("install_command", c.InstallCommand)
	v.Set("reboot_command", c.RebootCommand)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// ExpandHome replaces a leading "~" with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}
