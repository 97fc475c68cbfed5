package config

import (
	"os"
	"path/filepath"
)

// Paths holds all the file system paths used by the application
type Paths struct {
	Home         string // ~/.reqtty
	ConfigPath   string // ~/.reqtty/config.json
	RequestsPath string // ~/.reqtty/requests.json
	LogsRoot     string // ~/.reqtty/logs
}

// DefaultPaths returns the default paths configuration
func DefaultPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return PathsAt(filepath.Join(home, ".reqtty")), nil
}

// PathsAt lays out the standard files under root.
func PathsAt(root string) *Paths {
	return &Paths{
		Home:         root,
		ConfigPath:   filepath.Join(root, "config.json"),
		RequestsPath: filepath.Join(root, "requests.json"),
		LogsRoot:     filepath.Join(root, "logs"),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Home,
		p.LogsRoot,
		filepath.Dir(p.RequestsPath),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return nil
}
