package driving

import "github.com/custodia-labs/inkdash/internal/core/domain"

// SettingsService exposes the dashboard configuration.
type SettingsService interface {
	// Dashboard returns the validated dashboard configuration.
	Dashboard() (*domain.DashboardConfig, error)

	// ConfigPath returns where the configuration is read from.
	ConfigPath() string
}
