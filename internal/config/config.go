package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"

	"sv/internal/imageio"
	"sv/internal/pixel"
	"sv/internal/viewer"
)

// Window size constants
const (
	DefaultWidth  = 800
	DefaultHeight = 600
	MinWidth      = 400
	MinHeight     = 300
)

const (
	appName              = "sv"
	fileName             = "config.toml"
	DefaultSearchPathEnv = "SV_SPATH"
)

type Config struct {
	WindowWidth     int                 `koanf:"window_width"`
	WindowHeight    int                 `koanf:"window_height"`
	Fullscreen      bool                `koanf:"fullscreen"`
	HelpFontSize    float64             `koanf:"help_font_size"`
	SortMethod      int                 `koanf:"sort_method"`
	CacheSize       int                 `koanf:"cache_size"`        // rendered images kept on the GPU
	Watch           bool                `koanf:"watch"`             // reload files when they change
	WatchDebounceMs int                 `koanf:"watch_debounce_ms"` // quiet time before a change is reported
	Keep            string              `koanf:"keep"`              // "none", "most" or "all"
	Mapping         string              `koanf:"mapping"`           // "raw" or "inverse"
	Channel         int                 `koanf:"channel"`           // -1 shows all channels
	ViewCommand     string              `koanf:"view_command"`      // external 3-D viewer
	SearchPathEnv   string              `koanf:"search_path_env"`   // variable naming the parameter file search path
	Keybindings     map[string][]string `koanf:"keybindings"`
}

// LoadResult contains the result of loading configuration
type LoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

// Default returns the configuration used when no file exists
func Default(keybindings map[string][]string) Config {
	return Config{
		WindowWidth:     DefaultWidth,
		WindowHeight:    DefaultHeight,
		HelpFontSize:    24.0,
		SortMethod:      imageio.SortNatural,
		CacheSize:       8,
		WatchDebounceMs: 100,
		Keep:            viewer.KeepNone.String(),
		Mapping:         pixel.MapRaw.String(),
		Channel:         pixel.ChannelAll,
		SearchPathEnv:   DefaultSearchPathEnv,
		Keybindings:     cloneKeybindings(keybindings),
	}
}

// Path returns the location of the configuration file
func Path() string {
	return filepath.Join(xdg.ConfigHome, appName, fileName)
}

// Load reads the configuration file, falling back to defaults for anything missing or invalid
func Load(defaultKeys map[string][]string) LoadResult {
	return LoadFromPath(Path(), defaultKeys)
}

func LoadFromPath(configPath string, defaultKeys map[string][]string) LoadResult {
	defaults := Default(defaultKeys)
	result := LoadResult{
		Config:   defaults,
		Warnings: []string{},
		Status:   "OK",
	}

	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		result.Status = "Default"
		return result
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
		log.WithField("file", configPath).WithError(err).Warn("Invalid config file, using defaults")
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	config := Default(defaultKeys)
	if err := k.Unmarshal("", &config); err != nil {
		log.WithField("file", configPath).WithError(err).Warn("Invalid config values, using defaults")
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config values: %v", err))
		return result
	}

	warn := func(msg string) {
		log.WithField("file", configPath).Warn(msg)
		result.Status = "Warning"
		result.Warnings = append(result.Warnings, msg)
	}

	if config.WindowWidth < MinWidth {
		config.WindowWidth = DefaultWidth
	}
	if config.WindowHeight < MinHeight {
		config.WindowHeight = DefaultHeight
	}

	// minimum 12px for readability
	if config.HelpFontSize <= 12.0 {
		config.HelpFontSize = defaults.HelpFontSize
	}

	if config.SortMethod < imageio.SortNatural || config.SortMethod > imageio.SortEntryOrder {
		config.SortMethod = imageio.SortNatural
	}

	if config.CacheSize < 1 {
		config.CacheSize = defaults.CacheSize
	} else if config.CacheSize > 64 {
		config.CacheSize = 64
	}

	if config.WatchDebounceMs < 0 {
		config.WatchDebounceMs = 0
	} else if config.WatchDebounceMs > 5000 {
		config.WatchDebounceMs = 5000
	}

	if _, err := viewer.ParseRetentionMode(config.Keep); err != nil {
		warn(fmt.Sprintf("Invalid keep mode: %v", err))
		config.Keep = defaults.Keep
	}
	if _, err := pixel.ParseMapping(config.Mapping); err != nil {
		warn(fmt.Sprintf("Invalid mapping: %v", err))
		config.Mapping = defaults.Mapping
	}
	if config.Channel < pixel.ChannelAll {
		config.Channel = pixel.ChannelAll
	}
	if config.SearchPathEnv == "" {
		config.SearchPathEnv = DefaultSearchPathEnv
	}

	// Fill in missing keybindings with defaults
	for action, keys := range defaultKeys {
		if _, exists := config.Keybindings[action]; !exists {
			config.Keybindings[action] = keys
		}
	}
	if err := ValidateKeybindings(config.Keybindings); err != nil {
		warn(fmt.Sprintf("Keybinding errors: %v", err))
		config.Keybindings = cloneKeybindings(defaultKeys)
	}

	result.Config = config
	return result
}

// Save writes config to the default location
func Save(config Config) error {
	path, err := xdg.ConfigFile(filepath.Join(appName, fileName))
	if err != nil {
		return err
	}
	return SaveToPath(config, path)
}

func SaveToPath(config Config, configPath string) error {
	// Don't save if size is too small
	if config.WindowWidth < MinWidth || config.WindowHeight < MinHeight {
		return fmt.Errorf("not saving config with invalid window size: %dx%d",
			config.WindowWidth, config.WindowHeight)
	}

	k := koanf.New(".")
	values := map[string]any{
		"window_width":      config.WindowWidth,
		"window_height":     config.WindowHeight,
		"fullscreen":        config.Fullscreen,
		"help_font_size":    config.HelpFontSize,
		"sort_method":       config.SortMethod,
		"cache_size":        config.CacheSize,
		"watch":             config.Watch,
		"watch_debounce_ms": config.WatchDebounceMs,
		"keep":              config.Keep,
		"mapping":           config.Mapping,
		"channel":           config.Channel,
		"view_command":      config.ViewCommand,
		"search_path_env":   config.SearchPathEnv,
	}
	for key, v := range values {
		if err := k.Set(key, v); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	for action, keys := range config.Keybindings {
		if err := k.Set("keybindings."+action, keys); err != nil {
			return fmt.Errorf("failed to set keybinding %s: %w", action, err)
		}
	}

	data, err := k.Marshal(toml.Parser())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0o644)
}

func cloneKeybindings(keybindings map[string][]string) map[string][]string {
	clone := make(map[string][]string, len(keybindings))
	for action, keys := range keybindings {
		clone[action] = append([]string(nil), keys...)
	}
	return clone
}
