package settingsRepo

import (
	"context"

	"studyspace/models"
)

// SettingsProvider is a keyed lookup over provider configuration.
type SettingsProvider interface {
	// Get returns the settings for category/provider, or nil when none are stored.
	Get(ctx context.Context, category, provider string) (*models.ProviderSettings, error)
}
