package driven

import "github.com/khanhduydev/portfolio-rag/internal/core/domain"

// SettingsStore loads and persists assistant configuration.
type SettingsStore interface {
	// Settings returns the current configuration snapshot.
	Settings() domain.Settings

	// Save persists the configuration.
	Save(settings domain.Settings) error

	// Reload re-reads the configuration from its backing file.
	Reload() error
}
