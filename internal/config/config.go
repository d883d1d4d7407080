package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/imgajeed76/pgrid/internal/util"
)

// Config represents pgrid settings stored in the user's config directory
type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	Viewport  ViewportConfig  `toml:"viewport"`
	Selection SelectionConfig `toml:"selection"`
	Resize    ResizeConfig    `toml:"resize"`
	Display   DisplayConfig   `toml:"display"`
	Log       LogConfig       `toml:"log"`
}

// DatabaseConfig contains the default data source
type DatabaseConfig struct {
	URL string `toml:"url" config:"database.url" desc:"Default PostgreSQL URL (PGRID_URL overrides)"`
}

// ViewportConfig contains block loading settings
type ViewportConfig struct {
	MinBlockSize   int    `toml:"min_block_size" config:"viewport.min_block_size" default:"100" min:"10" max:"100000" desc:"Smallest number of rows per load"`
	LoadDebounceMs int    `toml:"load_debounce_ms" config:"viewport.load_debounce_ms" default:"200" min:"1" max:"10000" desc:"Quiet period before a scroll load fires"`
	LoadTimeout    string `toml:"load_timeout" config:"viewport.load_timeout" default:"30s" desc:"Timeout for one block load"`
}

// SelectionConfig contains fly-over settings
type SelectionConfig struct {
	FlyoverDebounceMs int `toml:"flyover_debounce_ms" config:"selection.flyover_debounce_ms" default:"100" min:"1" max:"10000" desc:"Quiet period before hover is reported"`
}

// ResizeConfig contains drag-resize floors
type ResizeConfig struct {
	MinWidth  int `toml:"min_width" config:"resize.min_width" default:"4" min:"2" max:"500" desc:"Narrowest column a drag can produce"`
	MinHeight int `toml:"min_height" config:"resize.min_height" default:"1" min:"1" max:"100" desc:"Lowest row a drag can produce"`
}

// DisplayConfig contains table rendering settings
type DisplayConfig struct {
	DefaultColWidth int  `toml:"default_col_width" config:"display.default_col_width" default:"20" min:"3" max:"500" desc:"Column width when values are unknown"`
	MaxColWidth     int  `toml:"max_col_width" config:"display.max_col_width" default:"60" min:"3" max:"1000" desc:"Widest auto-sized column"`
	Wrap            bool `toml:"wrap" config:"display.wrap" default:"false" desc:"Wrap long values onto several lines"`
}

// LogConfig contains log settings
type LogConfig struct {
	Level string `toml:"level" config:"log.level" default:"warn" desc:"debug, info, warn or error"`
	File  string `toml:"file" config:"log.file" desc:"Log file (empty = no log)"`
}

// Default returns a new config with default values
func Default() *Config {
	return &Config{
		Viewport: ViewportConfig{
			MinBlockSize:   100,
			LoadDebounceMs: 200,
			LoadTimeout:    "30s",
		},
		Selection: SelectionConfig{
			FlyoverDebounceMs: 100,
		},
		Resize: ResizeConfig{
			MinWidth:  4,
			MinHeight: 1,
		},
		Display: DisplayConfig{
			DefaultColWidth: 20,
			MaxColWidth:     60,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Path returns the path to the config file
func Path() string {
	return util.ConfigPath()
}

// Load reads the config file, falling back to defaults if it doesn't exist
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config file at path
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Zero means "not set" for every int key
	defaults := Default()
	if cfg.Viewport.MinBlockSize == 0 {
		cfg.Viewport.MinBlockSize = defaults.Viewport.MinBlockSize
	}
	if cfg.Viewport.LoadDebounceMs == 0 {
		cfg.Viewport.LoadDebounceMs = defaults.Viewport.LoadDebounceMs
	}
	if cfg.Viewport.LoadTimeout == "" {
		cfg.Viewport.LoadTimeout = defaults.Viewport.LoadTimeout
	}
	if cfg.Selection.FlyoverDebounceMs == 0 {
		cfg.Selection.FlyoverDebounceMs = defaults.Selection.FlyoverDebounceMs
	}
	if cfg.Resize.MinWidth == 0 {
		cfg.Resize.MinWidth = defaults.Resize.MinWidth
	}
	if cfg.Resize.MinHeight == 0 {
		cfg.Resize.MinHeight = defaults.Resize.MinHeight
	}
	if cfg.Display.DefaultColWidth == 0 {
		cfg.Display.DefaultColWidth = defaults.Display.DefaultColWidth
	}
	if cfg.Display.MaxColWidth == 0 {
		cfg.Display.MaxColWidth = defaults.Display.MaxColWidth
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}

	return cfg, nil
}

// Save writes the config file
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the config file at path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// DatabaseURL returns the data source URL, preferring PGRID_URL
func (c *Config) DatabaseURL() string {
	if url := os.Getenv("PGRID_URL"); url != "" {
		return url
	}
	return c.Database.URL
}

// LoadDebounce returns viewport.load_debounce_ms as a duration
func (c *Config) LoadDebounce() time.Duration {
	return time.Duration(c.Viewport.LoadDebounceMs) * time.Millisecond
}

// FlyoverDebounce returns selection.flyover_debounce_ms as a duration
func (c *Config) FlyoverDebounce() time.Duration {
	return time.Duration(c.Selection.FlyoverDebounceMs) * time.Millisecond
}

// LoadTimeout parses viewport.load_timeout. Zero disables the timeout.
func (c *Config) LoadTimeout() time.Duration {
	d, err := time.ParseDuration(c.Viewport.LoadTimeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// LogFile returns the log file with ~ expanded
func (c *Config) LogFile() string {
	if c.Log.File == "" {
		return ""
	}
	return util.ExpandHome(c.Log.File)
}

// GetValue returns a config value by key (uses reflection)
func (c *Config) GetValue(key string) (string, bool) {
	return getFieldValue(c, key)
}

// SetValue sets a config value by key (uses reflection with validation)
func (c *Config) SetValue(key, value string) error {
	return setFieldValue(c, key, value)
}
