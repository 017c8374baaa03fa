package driven

import "github.com/papermind-ai/papermind/internal/core/domain"

// SettingsStore persists pipeline settings between runs.
type SettingsStore interface {
	// Load returns the stored settings, falling back to defaults for
	// values that are absent.
	Load() (domain.Settings, error)

	// Save writes the settings.
	Save(settings domain.Settings) error
}
