package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/NexusGPU/couchgo/internal/dburl"
	"github.com/NexusGPU/couchgo/internal/platform"
	"github.com/NexusGPU/couchgo/internal/utils"
	"github.com/spf13/viper"
)

const configFile = "config.json"

// Profile is the persisted connection profile
type Profile struct {
	DatabaseURI string `json:"database_uri"`
	Auth        string `json:"auth,omitempty"`
	ListenAddr  string `json:"listen_addr,omitempty"`
}

// RedactedURI returns the database URI with the password masked. Unparsable
// URIs are returned as "<invalid>".
func (p *Profile) RedactedURI() string {
	if p.DatabaseURI == "" {
		return ""
	}
	u, err := dburl.Parse(p.DatabaseURI)
	if err != nil {
		return "<invalid>"
	}
	return u.String()
}

// Manager manages the profile file
type Manager struct {
	configDir string
	mu        sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) *Manager {
	if configDir == "" {
		configDir = platform.DefaultPaths().ConfigDir()
	}
	return &Manager{configDir: configDir}
}

// ConfigPath returns the path to the profile file
func (m *Manager) ConfigPath() string {
	return filepath.Join(m.configDir, configFile)
}

// ConfigExists checks if the profile file exists
func (m *Manager) ConfigExists() bool {
	_, err := os.Stat(m.ConfigPath())
	return err == nil
}

// LoadProfile loads the profile, returning nil when none was saved
func (m *Manager) LoadProfile() (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return utils.LoadJSON[Profile](m.ConfigPath())
}

// SaveProfile saves the profile. The file holds credentials, so it is
// written owner-only.
func (m *Manager) SaveProfile(p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return err
	}
	return utils.SaveJSON(m.ConfigPath(), p, 0600)
}

// Apply layers the saved profile under v as defaults, so environment
// variables and explicit Set calls still win.
func (m *Manager) Apply(v *viper.Viper) error {
	p, err := m.LoadProfile()
	if err != nil || p == nil {
		return err
	}
	if p.DatabaseURI != "" {
		v.SetDefault(KeyDatabaseURI, p.DatabaseURI)
	}
	if p.Auth != "" {
		v.SetDefault(KeyAuth, p.Auth)
	}
	if p.ListenAddr != "" {
		v.SetDefault(KeyListenAddr, p.ListenAddr)
	}
	return nil
}
