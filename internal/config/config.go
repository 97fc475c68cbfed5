package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Request pane kinds.
const (
	RequestPaneTerminal = "terminal"
	RequestPaneEditor   = "editor"
)

// KeyMapConfig holds user overrides for keybindings.
type KeyMapConfig struct {
	Bindings map[string][]string `json:"bindings,omitempty"`
}

// BindingFor returns the configured keys for an action, if present.
func (k KeyMapConfig) BindingFor(action string) ([]string, bool) {
	if len(k.Bindings) == 0 {
		return nil, false
	}
	if keys, ok := k.Bindings[action]; ok {
		return keys, true
	}
	if keys, ok := k.Bindings[strings.ToLower(action)]; ok {
		return keys, true
	}
	return nil, false
}

// QueueConfig bounds the PTY reader queue.
type QueueConfig struct {
	MaxChunks      int // chunks held before new output coalesces into the newest one
	MaxBytes       int // total bytes held before the oldest chunks are dropped
	ReadBufferSize int // bytes per blocking read
}

// Config holds the application configuration
type Config struct {
	Paths        *Paths
	Command      string        // child command hosted in the request pane
	RequestPane  string        // RequestPaneTerminal or RequestPaneEditor
	PollInterval time.Duration // input poll timeout per loop tick
	ListWidth    int           // outer width of the request list column
	Queue        QueueConfig
	KeyMap       KeyMapConfig
	UI           UISettings
}

// DefaultConfig returns the default configuration
func DefaultConfig() (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return defaultConfigWithPaths(paths), nil
}

func defaultConfigWithPaths(paths *Paths) *Config {
	return &Config{
		Paths:        paths,
		Command:      "nano",
		RequestPane:  RequestPaneTerminal,
		PollInterval: 10 * time.Millisecond,
		ListWidth:    40,
		Queue: QueueConfig{
			MaxChunks:      256,
			MaxBytes:       4 << 20,
			ReadBufferSize: 2048,
		},
		KeyMap: KeyMapConfig{},
		UI:     defaultUISettings(),
	}
}

// fileConfig mirrors config.json. Pointers distinguish "unset" from zero.
type fileConfig struct {
	Command        *string `json:"command,omitempty"`
	RequestPane    *string `json:"request_pane,omitempty"`
	PollIntervalMs *int    `json:"poll_interval_ms,omitempty"`
	QueueMaxChunks *int    `json:"queue_max_chunks,omitempty"`
	QueueMaxBytes  *int    `json:"queue_max_bytes,omitempty"`
	ReadBufferSize *int    `json:"read_buffer_size,omitempty"`
	ListWidth      *int    `json:"list_width,omitempty"`

	KeyMap KeyMapConfig `json:"keymap,omitempty"`
}

// Load loads config overrides from ~/.reqtty/config.json if present.
func Load() (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return LoadFrom(paths)
}

// LoadFrom applies the overrides found at paths.ConfigPath to the defaults.
// A missing file is not an error.
func LoadFrom(paths *Paths) (*Config, error) {
	cfg := defaultConfigWithPaths(paths)

	data, err := os.ReadFile(paths.ConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var user fileConfig
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("parse %s: %w", paths.ConfigPath, err)
	}
	if err := cfg.apply(user); err != nil {
		return nil, fmt.Errorf("%s: %w", paths.ConfigPath, err)
	}
	cfg.UI = loadUISettings(paths.ConfigPath)
	return cfg, nil
}

func (c *Config) apply(user fileConfig) error {
	if user.Command != nil && strings.TrimSpace(*user.Command) != "" {
		c.Command = strings.TrimSpace(*user.Command)
	}
	if user.RequestPane != nil {
		if err := c.SetRequestPane(*user.RequestPane); err != nil {
			return err
		}
	}
	if user.PollIntervalMs != nil && *user.PollIntervalMs > 0 {
		c.PollInterval = time.Duration(*user.PollIntervalMs) * time.Millisecond
	}
	if user.QueueMaxChunks != nil && *user.QueueMaxChunks > 0 {
		c.Queue.MaxChunks = *user.QueueMaxChunks
	}
	if user.QueueMaxBytes != nil && *user.QueueMaxBytes > 0 {
		c.Queue.MaxBytes = *user.QueueMaxBytes
	}
	if user.ReadBufferSize != nil && *user.ReadBufferSize > 0 {
		c.Queue.ReadBufferSize = *user.ReadBufferSize
	}
	if user.ListWidth != nil && *user.ListWidth > 0 {
		c.ListWidth = *user.ListWidth
	}
	if len(user.KeyMap.Bindings) > 0 {
		c.KeyMap = user.KeyMap
	}
	return nil
}

// SetRequestPane validates and sets the request pane kind.
func (c *Config) SetRequestPane(kind string) error {
	switch k := strings.ToLower(strings.TrimSpace(kind)); k {
	case RequestPaneTerminal, RequestPaneEditor:
		c.RequestPane = k
		return nil
	default:
		return fmt.Errorf("unknown request_pane %q (want %q or %q)", kind, RequestPaneTerminal, RequestPaneEditor)
	}
}
