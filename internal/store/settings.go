package store

import (
	"fmt"
	"math"
	"strings"
)

// Theme names understood by the TUI. Other values are stored verbatim.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// DefaultViewScale is applied when view_scale is absent.
const DefaultViewScale = 1.0

// View scale bounds and step used by the TUI zoom keys.
const (
	MinViewScale  = 0.5
	MaxViewScale  = 2.0
	ViewScaleStep = 0.1
)

var themeCycle = []string{ThemeSystem, ThemeLight, ThemeDark}

// AppSettings are the user preferences. ViewScale is optional; nil means
// "not set" and a set value must be positive.
type AppSettings struct {
	ThemePreference  string            `json:"theme_preference"`
	DepartmentColors map[string]string `json:"department_colors"`
	AutoSaveEnabled  bool              `json:"auto_save_enabled"`
	ViewScale        *float64          `json:"view_scale"`
}

// DefaultSettings returns "system", no colours, auto-save off, scale 1.0.
func DefaultSettings() AppSettings {
	scale := DefaultViewScale
	return AppSettings{
		ThemePreference:  ThemeSystem,
		DepartmentColors: map[string]string{},
		AutoSaveEnabled:  false,
		ViewScale:        &scale,
	}
}

// Scale returns the view scale or DefaultViewScale when unset.
func (s AppSettings) Scale() float64 {
	if s.ViewScale == nil {
		return DefaultViewScale
	}
	return *s.ViewScale
}

// WithScale returns a copy with the scale set.
func (s AppSettings) WithScale(v float64) AppSettings {
	out := s.Clone()
	out.ViewScale = &v
	return out
}

// Clone deep-copies the settings so callers can mutate the result freely.
func (s AppSettings) Clone() AppSettings {
	out := s
	out.DepartmentColors = make(map[string]string, len(s.DepartmentColors))
	for k, v := range s.DepartmentColors {
		out.DepartmentColors[k] = v
	}
	if s.ViewScale != nil {
		v := *s.ViewScale
		out.ViewScale = &v
	}
	return out
}

// Validate rejects a non-positive or non-finite view scale.
func (s AppSettings) Validate() error {
	if s.ViewScale != nil {
		v := *s.ViewScale
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("view_scale must be a positive number, got %v", v)
		}
	}
	return nil
}

// applyDefaults fills fields a hand-edited or older document may omit.
func (s *AppSettings) applyDefaults() {
	s.ThemePreference = strings.TrimSpace(s.ThemePreference)
	if s.ThemePreference == "" {
		s.ThemePreference = ThemeSystem
	}
	if s.DepartmentColors == nil {
		s.DepartmentColors = map[string]string{}
	}
}

// NextTheme cycles system → light → dark → system. Unknown themes restart
// the cycle.
func NextTheme(current string) string {
	for i, name := range themeCycle {
		if strings.EqualFold(name, current) {
			return themeCycle[(i+1)%len(themeCycle)]
		}
	}
	return themeCycle[0]
}

// ClampScale bounds v to the zoom range and rounds it to one decimal.
func ClampScale(v float64) float64 {
	v = math.Round(v/ViewScaleStep) * ViewScaleStep
	v = math.Round(v*10) / 10
	if v < MinViewScale {
		return MinViewScale
	}
	if v > MaxViewScale {
		return MaxViewScale
	}
	return v
}
