package domain

import (
	"fmt"
	"sort"
	"time"
)

// DisplayDriver selects the display adapter.
type DisplayDriver string

// Available display drivers.
const (
	// DisplayTerminal previews frames in the terminal.
	DisplayTerminal DisplayDriver = "terminal"

	// DisplayEPaper drives a Waveshare e-paper HAT over SPI.
	DisplayEPaper DisplayDriver = "epaper"

	// DisplayPNG writes each frame to a PNG file.
	DisplayPNG DisplayDriver = "png"
)

// IsValid returns true if the display driver is recognised.
func (d DisplayDriver) IsValid() bool {
	switch d {
	case DisplayTerminal, DisplayEPaper, DisplayPNG:
		return true
	default:
		return false
	}
}

// ButtonDriver selects the input adapter.
type ButtonDriver string

// Available button drivers.
const (
	// ButtonsGPIO reads physical buttons through GPIO edge detection.
	ButtonsGPIO ButtonDriver = "gpio"

	// ButtonsTerminal reads key presses from the terminal preview.
	ButtonsTerminal ButtonDriver = "terminal"

	// ButtonsWatch treats files created in a directory as button presses.
	ButtonsWatch ButtonDriver = "watch"

	// ButtonsNone disables input; the default screen stays live until shutdown.
	ButtonsNone ButtonDriver = "none"
)

// IsValid returns true if the button driver is recognised.
func (d ButtonDriver) IsValid() bool {
	switch d {
	case ButtonsGPIO, ButtonsTerminal, ButtonsWatch, ButtonsNone:
		return true
	default:
		return false
	}
}

// DashboardConfig is the startup configuration of the dashboard.
type DashboardConfig struct {
	// DefaultScreen is shown at startup.
	DefaultScreen ScreenID

	// HandoffTimeout bounds how long a switch waits for the old worker.
	HandoffTimeout time.Duration

	// RenderBackoff is the wait before retrying a failed render.
	RenderBackoff time.Duration

	// RenderTimeout bounds a single render. Zero means no limit.
	RenderTimeout time.Duration

	// HistoryKeep is how many render records to keep per screen.
	HistoryKeep int

	// DataDir holds the history database. Empty means ~/.inkdash/data.
	DataDir string

	Display  DisplayConfig
	Buttons  ButtonsConfig
	Screens  []ScreenConfig
	Location Location
	Weather  WeatherConfig
	System   SystemThresholds
}

// DisplayConfig configures the display adapter.
type DisplayConfig struct {
	Driver  DisplayDriver
	SPIPort string
	PNGPath string
	Width   int
	Height  int
}

// ButtonsConfig configures the input adapter.
type ButtonsConfig struct {
	Driver   ButtonDriver
	Debounce time.Duration
	WatchDir string

	// Map binds input labels to screens.
	Map map[string]ScreenID

	// Pins binds input labels to GPIO pin names.
	Pins map[string]string
}

// Labels returns the bound labels in sorted order.
func (b ButtonsConfig) Labels() []string {
	labels := make([]string, 0, len(b.Map))
	for label := range b.Map {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Resolve maps an input label to a button event.
// Unbound labels produce an event with an empty ScreenID.
func (b ButtonsConfig) Resolve(label string, at time.Time) ButtonEvent {
	return ButtonEvent{Label: label, ScreenID: b.Map[label], At: at}
}

// ScreenConfig configures one screen.
type ScreenConfig struct {
	ID       ScreenID
	Interval time.Duration
	Enabled  bool
}

// Location is used by the weather and sky screens.
type Location struct {
	Latitude  float64
	Longitude float64
	City      string
	Timezone  string
}

// Units selects the measurement system of the weather screen.
type Units string

// Supported unit systems.
const (
	UnitsImperial Units = "imperial"
	UnitsMetric   Units = "metric"
)

// IsValid returns true if the unit system is recognised.
func (u Units) IsValid() bool {
	return u == UnitsImperial || u == UnitsMetric
}

// WeatherConfig configures the weather screen.
type WeatherConfig struct {
	Units Units
}

// Threshold is a warning/critical pair in percent or degrees.
type Threshold struct {
	Warning  float64
	Critical float64
}

// Level classifies a reading against the threshold.
func (t Threshold) Level(v float64) string {
	switch {
	case v >= t.Critical:
		return "critical"
	case v >= t.Warning:
		return "warning"
	default:
		return "ok"
	}
}

// SystemThresholds configures the system screen.
type SystemThresholds struct {
	CPU         Threshold
	Memory      Threshold
	Temperature Threshold
	Disk        Threshold
}

// Screen returns the configuration for a screen.
// Returns false if the screen is not configured.
func (c *DashboardConfig) Screen(id ScreenID) (ScreenConfig, bool) {
	for _, s := range c.Screens {
		if s.ID == id {
			return s, true
		}
	}
	return ScreenConfig{}, false
}

// EnabledScreens returns the enabled screens in configuration order.
func (c *DashboardConfig) EnabledScreens() []ScreenConfig {
	var enabled []ScreenConfig
	for _, s := range c.Screens {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}
	return enabled
}

// Validate checks the configuration for startup errors.
func (c *DashboardConfig) Validate() error {
	if c.HandoffTimeout <= 0 {
		return fmt.Errorf("%w: handoff timeout must be positive", ErrInvalidInput)
	}
	if c.RenderBackoff <= 0 {
		return fmt.Errorf("%w: render backoff must be positive", ErrInvalidInput)
	}
	if c.RenderTimeout < 0 {
		return fmt.Errorf("%w: render timeout must not be negative", ErrInvalidInput)
	}
	if !c.Display.Driver.IsValid() {
		return fmt.Errorf("%w: display driver %q", ErrInvalidInput, c.Display.Driver)
	}
	if !c.Buttons.Driver.IsValid() {
		return fmt.Errorf("%w: button driver %q", ErrInvalidInput, c.Buttons.Driver)
	}
	if !c.Weather.Units.IsValid() {
		return fmt.Errorf("%w: weather units %q", ErrInvalidInput, c.Weather.Units)
	}

	seen := make(map[ScreenID]bool, len(c.Screens))
	for _, s := range c.Screens {
		if seen[s.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateScreen, s.ID)
		}
		seen[s.ID] = true
		if s.Enabled && s.Interval <= 0 {
			return fmt.Errorf("%w: screen %s", ErrInvalidInterval, s.ID)
		}
	}
	if len(c.EnabledScreens()) == 0 {
		return ErrNoScreens
	}

	def, ok := c.Screen(c.DefaultScreen)
	if !ok || !def.Enabled {
		return fmt.Errorf("%w: default screen %q", ErrUnknownScreen, c.DefaultScreen)
	}
	for label, id := range c.Buttons.Map {
		if _, ok := c.Screen(id); !ok {
			return fmt.Errorf("%w: button %s is bound to %q", ErrUnknownScreen, label, id)
		}
	}
	return nil
}

// DefaultDashboardConfig returns the defaults for a four-button panel.
func DefaultDashboardConfig() DashboardConfig {
	return DashboardConfig{
		DefaultScreen:  ScreenArtwork,
		HandoffTimeout: 2 * time.Second,
		RenderBackoff:  30 * time.Second,
		RenderTimeout:  time.Minute,
		HistoryKeep:    500,
		Display: DisplayConfig{
			Driver: DisplayTerminal,
			Width:  250,
			Height: 122,
		},
		Buttons: ButtonsConfig{
			Driver:   ButtonsTerminal,
			Debounce: 300 * time.Millisecond,
			Map: map[string]ScreenID{
				"A": ScreenArtwork,
				"B": ScreenWeather,
				"C": ScreenSky,
				"D": ScreenSystem,
			},
			Pins: map[string]string{
				"A": "GPIO5",
				"B": "GPIO6",
				"C": "GPIO16",
				"D": "GPIO24",
			},
		},
		Screens: []ScreenConfig{
			{ID: ScreenArtwork, Interval: 30 * time.Minute, Enabled: true},
			{ID: ScreenQuotes, Interval: 30 * time.Minute, Enabled: true},
			{ID: ScreenWeather, Interval: 15 * time.Minute, Enabled: true},
			{ID: ScreenSky, Interval: time.Hour, Enabled: true},
			{ID: ScreenSystem, Interval: 5 * time.Minute, Enabled: true},
		},
		Location: Location{
			Latitude:  33.4484,
			Longitude: -112.0740,
			City:      "Phoenix, AZ",
			Timezone:  "America/Phoenix",
		},
		Weather: WeatherConfig{Units: UnitsImperial},
		System: SystemThresholds{
			CPU:         Threshold{Warning: 75, Critical: 90},
			Memory:      Threshold{Warning: 80, Critical: 95},
			Temperature: Threshold{Warning: 65, Critical: 80},
			Disk:        Threshold{Warning: 85, Critical: 95},
		},
	}
}
