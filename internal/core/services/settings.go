package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
	"github.com/custodia-labs/inkdash/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for dashboard settings.
const (
	keyDefaultScreen  = "dashboard.default_screen"
	keyHandoffTimeout = "dashboard.handoff_timeout"
	keyRenderBackoff  = "dashboard.render_backoff"
	keyRenderTimeout  = "dashboard.render_timeout"
	keyHistoryKeep    = "dashboard.history_keep"
	keyDataDir        = "dashboard.data_dir"

	keyDisplayDriver = "display.driver"
	keySPIPort       = "display.spi_port"
	keyPNGPath       = "display.png_path"
	keyWidth         = "display.width"
	keyHeight        = "display.height"

	keyButtonDriver = "buttons.driver"
	keyDebounce     = "buttons.debounce"
	keyWatchDir     = "buttons.watch_dir"
	keyButtonMap    = "buttons.map"
	keyButtonPins   = "buttons.pins"

	keyLatitude  = "location.latitude"
	keyLongitude = "location.longitude"
	keyCity      = "location.city"
	keyTimezone  = "location.timezone"

	keyWeatherUnits = "weather.units"
)

// SettingsService builds the dashboard configuration from a ConfigStore.
// Keys missing from the store keep their defaults.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// ConfigPath returns where the configuration is read from.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// Dashboard returns the validated dashboard configuration.
func (s *SettingsService) Dashboard() (*domain.DashboardConfig, error) {
	cfg := domain.DefaultDashboardConfig()

	cfg.DefaultScreen = domain.ScreenID(s.getString(keyDefaultScreen, string(cfg.DefaultScreen)))
	cfg.HandoffTimeout = s.getDuration(keyHandoffTimeout, cfg.HandoffTimeout)
	cfg.RenderBackoff = s.getDuration(keyRenderBackoff, cfg.RenderBackoff)
	cfg.RenderTimeout = s.getDuration(keyRenderTimeout, cfg.RenderTimeout)
	cfg.HistoryKeep = s.getInt(keyHistoryKeep, cfg.HistoryKeep)
	cfg.DataDir = s.getString(keyDataDir, cfg.DataDir)

	cfg.Display.Driver = domain.DisplayDriver(s.getString(keyDisplayDriver, string(cfg.Display.Driver)))
	cfg.Display.SPIPort = s.getString(keySPIPort, cfg.Display.SPIPort)
	cfg.Display.PNGPath = s.getString(keyPNGPath, cfg.Display.PNGPath)
	cfg.Display.Width = s.getInt(keyWidth, cfg.Display.Width)
	cfg.Display.Height = s.getInt(keyHeight, cfg.Display.Height)

	cfg.Buttons.Driver = domain.ButtonDriver(s.getString(keyButtonDriver, string(cfg.Buttons.Driver)))
	cfg.Buttons.Debounce = s.getDuration(keyDebounce, cfg.Buttons.Debounce)
	cfg.Buttons.WatchDir = s.getString(keyWatchDir, cfg.Buttons.WatchDir)
	if m := s.configStore.GetStringMap(keyButtonMap); len(m) > 0 {
		cfg.Buttons.Map = make(map[string]domain.ScreenID, len(m))
		for label, id := range m {
			cfg.Buttons.Map[label] = domain.ScreenID(id)
		}
	}
	for label, pin := range s.configStore.GetStringMap(keyButtonPins) {
		cfg.Buttons.Pins[label] = pin
	}

	for i := range cfg.Screens {
		sc := &cfg.Screens[i]
		prefix := "screens." + sc.ID.String()
		sc.Interval = s.getDuration(prefix+".interval", sc.Interval)
		sc.Enabled = s.getBool(prefix+".enabled", sc.Enabled)
	}

	cfg.Location.Latitude = s.getFloat(keyLatitude, cfg.Location.Latitude)
	cfg.Location.Longitude = s.getFloat(keyLongitude, cfg.Location.Longitude)
	cfg.Location.City = s.getString(keyCity, cfg.Location.City)
	cfg.Location.Timezone = s.getString(keyTimezone, cfg.Location.Timezone)
	cfg.Weather.Units = domain.Units(s.getString(keyWeatherUnits, string(cfg.Weather.Units)))

	cfg.System.CPU = s.getThreshold("system.cpu", cfg.System.CPU)
	cfg.System.Memory = s.getThreshold("system.memory", cfg.System.Memory)
	cfg.System.Temperature = s.getThreshold("system.temperature", cfg.System.Temperature)
	cfg.System.Disk = s.getThreshold("system.disk", cfg.System.Disk)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", s.configStore.Path(), err)
	}
	return &cfg, nil
}

func (s *SettingsService) has(key string) bool {
	_, ok := s.configStore.Get(key)
	return ok
}

func (s *SettingsService) getString(key, def string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}

func (s *SettingsService) getInt(key string, def int) int {
	if !s.has(key) {
		return def
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, def bool) bool {
	if !s.has(key) {
		return def
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getFloat(key string, def float64) float64 {
	if !s.has(key) {
		return def
	}
	return s.configStore.GetFloat(key)
}

// getDuration keeps the default when the value is missing or unparseable.
// An explicit "0s" is honoured.
func (s *SettingsService) getDuration(key string, def time.Duration) time.Duration {
	if !s.has(key) {
		return def
	}
	if d := s.configStore.GetDuration(key); d != 0 || s.configStore.GetString(key) == "0s" {
		return d
	}
	return def
}

func (s *SettingsService) getThreshold(prefix string, def domain.Threshold) domain.Threshold {
	return domain.Threshold{
		Warning:  s.getFloat(prefix+"_warning", def.Warning),
		Critical: s.getFloat(prefix+"_critical", def.Critical),
	}
}
