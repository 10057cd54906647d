package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
	"github.com/khanhduydev/portfolio-rag/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsStore is a TOML file-backed implementation of driven.SettingsStore.
// A missing file yields defaults; a partial file is normalised on load.
type SettingsStore struct {
	mu       sync.RWMutex
	filePath string
	settings domain.Settings
}

// NewSettingsStore creates a settings store rooted at configDir.
// If configDir is empty, defaults to ~/.portfolio-rag/config.toml.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".portfolio-rag")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &SettingsStore{
		filePath: filepath.Join(configDir, "config.toml"),
		settings: domain.DefaultSettings(),
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

// Settings returns the current configuration snapshot.
func (s *SettingsStore) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Save persists the configuration to disk.
func (s *SettingsStore) Save(settings domain.Settings) error {
	settings.Normalise()

	data, err := toml.Marshal(settings)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Write with restricted permissions; the file can hold API keys.
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return err
	}

	s.settings = settings
	return nil
}

// Reload re-reads the configuration from its backing file. A missing file
// resets to defaults.
func (s *SettingsStore) Reload() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.mu.Lock()
			s.settings = domain.DefaultSettings()
			s.mu.Unlock()
			return nil
		}
		return err
	}

	loaded := domain.DefaultSettings()
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}
	loaded.Normalise()

	s.mu.Lock()
	s.settings = loaded
	s.mu.Unlock()
	return nil
}

// Path returns the configuration file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}
