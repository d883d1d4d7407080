package util

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	AppName    = "pgrid"
	ConfigFile = "config.toml"
	LogFile    = "pgrid.log"
)

// ConfigDir returns the pgrid config directory.
// Follows the XDG Base Directory layout on Linux, platform conventions elsewhere
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", AppName)
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), AppName)
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName)
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", AppName)
	}
}

// StateDir returns the directory for logs and other runtime state.
func StateDir() string {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName)
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".local", "state", AppName)
		}
	}
	return ConfigDir()
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), ConfigFile)
}

// DefaultLogPath returns where the log file goes when none is configured.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), LogFile)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// IsSQLiteFile checks the SQLite magic header of a file.
func IsSQLiteFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, 16)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return false, err
	}
	return n == 16 && string(buf) == "SQLite format 3\x00", nil
}
