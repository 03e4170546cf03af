// Package config provides configuration management for the input bridge.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
)

// Config represents the application configuration
type Config struct {
	// Server configures the local command boundary
	Server ServerConfig `json:"server"`

	// Input configures the dispatch surface
	Input InputConfig `json:"input"`

	// General contains general application settings
	General GeneralConfig `json:"general"`
}

// ServerConfig configures the HTTP/WebSocket command server
type ServerConfig struct {
	// BindAddr is the interface to listen on (default: 127.0.0.1)
	BindAddr string `json:"bind_addr"`

	// Port is the listening port (default: 18181)
	Port int `json:"port"`

	// Token is an optional bearer token required on every command
	Token string `json:"token,omitempty"`

	// AllowedOrigins lists WebSocket origins accepted besides same-host ones
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
}

// InputConfig configures input dispatch
type InputConfig struct {
	// Trace logs every press, click and release step
	Trace bool `json:"trace"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	// StartOnBoot determines if app starts on login
	StartOnBoot bool `json:"start_on_boot"`

	// ShowTray shows the system tray icon
	ShowTray bool `json:"show_tray"`
}

// Addr returns host:port for the listener
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.BindAddr, strconv.Itoa(s.Port))
}

// IsLoopback reports whether the server only listens on loopback
func (s ServerConfig) IsLoopback() bool {
	if s.BindAddr == "localhost" {
		return true
	}
	ip := net.ParseIP(s.BindAddr)
	return ip != nil && ip.IsLoopback()
}

// Validate checks values that would keep the server from starting
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.BindAddr == "" {
		return fmt.Errorf("server bind address is empty")
	}
	return nil
}

// DefaultConfig returns a new Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BindAddr: "127.0.0.1",
			Port:     18181,
		},
		General: GeneralConfig{
			StartOnBoot: false,
			ShowTray:    true,
		},
	}
}

// Manager handles loading and saving configuration
type Manager struct {
	mu         sync.Mutex
	configPath string
	config     *Config
	overrides  []func(*Config)
	onChanged  func()
}

// NewManager creates a configuration manager for the per-user config file
func NewManager() (*Manager, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return NewManagerAt(configPath), nil
}

// NewManagerAt creates a configuration manager for an explicit file
func NewManagerAt(path string) *Manager {
	return &Manager{
		configPath: path,
		config:     DefaultConfig(),
	}
}

// getConfigPath returns the path to the configuration file
func getConfigPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "automator")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, "automator")
	default:
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(dir, "automator")
	}

	return filepath.Join(configDir, "config.json"), nil
}

// Path returns the configuration file location
func (m *Manager) Path() string {
	return m.configPath
}

// Load reads the configuration from disk. A missing file keeps the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		m.mu.Unlock()
		return nil
	}
	if err != nil {
		m.mu.Unlock()
		return err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("parse %s: %w", m.configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("invalid config %s: %w", m.configPath, err)
	}
	m.config = cfg
	onChanged := m.onChanged
	m.mu.Unlock()

	if onChanged != nil {
		onChanged()
	}
	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return err
	}

	log.Printf("Config: Saving configuration to %s (%d bytes)", m.configPath, len(data))
	return os.WriteFile(m.configPath, data, 0600)
}

// Get returns a copy of the current configuration with session overrides applied
func (m *Manager) Get() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg := m.fileConfig()
	for _, fn := range m.overrides {
		fn(&cfg)
	}
	return cfg
}

// fileConfig copies the values Save writes. Caller holds m.mu.
func (m *Manager) fileConfig() Config {
	cfg := *m.config
	cfg.Server.AllowedOrigins = append([]string(nil), m.config.Server.AllowedOrigins...)
	return cfg
}

// Set replaces the file values. Session overrides still apply on top.
func (m *Manager) Set(config Config) {
	m.mu.Lock()
	m.config = &config
	onChanged := m.onChanged
	m.mu.Unlock()
	if onChanged != nil {
		onChanged()
	}
}

// Update edits the file values in place, leaving session overrides out
func (m *Manager) Update(fn func(*Config)) {
	m.mu.Lock()
	cfg := m.fileConfig()
	fn(&cfg)
	m.config = &cfg
	onChanged := m.onChanged
	m.mu.Unlock()
	if onChanged != nil {
		onChanged()
	}
}

// Override adds a session-only change seen by Get but never written by Save
func (m *Manager) Override(fn func(*Config)) {
	m.mu.Lock()
	m.overrides = append(m.overrides, fn)
	onChanged := m.onChanged
	m.mu.Unlock()
	if onChanged != nil {
		onChanged()
	}
}

// RegisterChangeCallback registers a function to be called when config changes
func (m *Manager) RegisterChangeCallback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChanged = fn
}
