package platform

import (
	"os"
	"path/filepath"
	"runtime"
)

const osWindows = "windows"

// Paths provides cross-platform path resolution for gcouch
type Paths struct {
	configDir string
	stateDir  string
	userDir   string
}

// DefaultPaths returns the default paths for the current platform
// All paths are stored in the user directory (~/.gcouch)
func DefaultPaths() *Paths {
	p := &Paths{}
	// Initialize userDir first as other paths depend on it
	p.userDir = p.defaultUserDir()
	p.configDir = envOr("GCOUCH_CONFIG_DIR", filepath.Join(p.userDir, "config"))
	p.stateDir = envOr("GCOUCH_STATE_DIR", filepath.Join(p.userDir, "state"))
	return p
}

// ConfigDir returns the configuration directory
// All platforms: ~/.gcouch/config (or UserDir/config)
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// StateDir returns the state directory for runtime data
func (p *Paths) StateDir() string {
	return p.stateDir
}

// UserDir returns the user-specific directory
// - Linux/macOS: ~/.gcouch
// - Windows: %USERPROFILE%\.gcouch
func (p *Paths) UserDir() string {
	return p.userDir
}

// LogDir returns the directory for rotated server logs
func (p *Paths) LogDir() string {
	return filepath.Join(p.stateDir, "logs")
}

func (p *Paths) defaultUserDir() string {
	if dir := os.Getenv("GCOUCH_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		switch runtime.GOOS {
		case osWindows:
			return `C:\Users\Default\.gcouch`
		default:
			return "/tmp/.gcouch"
		}
	}
	return filepath.Join(home, ".gcouch")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnsureAllDirs creates the config, state and log directories
func (p *Paths) EnsureAllDirs() error {
	for _, dir := range []string{p.configDir, p.stateDir, p.LogDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
