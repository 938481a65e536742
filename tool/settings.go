package tool

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/internal/fill"
)

// Limits and defaults for Settings.
const (
	MinBrushSize     = 1
	MaxBrushSize     = 100
	DefaultBrushSize = 3
	MaxColorHistory  = 10
)

// Settings holds the user-adjustable drawing state: the selected tool,
// brush width, fill tolerance and colours. It implements BrushConfig and
// Palette and persists as JSON.
type Settings struct {
	Tool      Kind          `json:"tool"`
	BrushSize int           `json:"brushSize"`
	Tolerance int           `json:"tolerance"`
	Primary   canvas.RGBA   `json:"primary"`
	Secondary canvas.RGBA   `json:"secondary"`
	History   []canvas.RGBA `json:"history"`
}

// DefaultSettings returns the settings used on first start.
func DefaultSettings() *Settings {
	return &Settings{
		Tool:      Pencil,
		BrushSize: DefaultBrushSize,
		Tolerance: 0,
		Primary:   canvas.Black,
		Secondary: canvas.White,
	}
}

// DefaultSettingsPath returns the per-user settings file location.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "canvas", "settings.json")
}

// LoadSettings reads settings from path. A missing file yields the
// defaults, which are written back to path. Out-of-range values are
// repaired with Validate.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s := DefaultSettings()
		if err := s.Save(path); err != nil {
			canvas.Logger().Warn("tool: cannot write default settings", "path", path, "err", err)
		}
		return s, nil
	}
	if err != nil {
		return DefaultSettings(), fmt.Errorf("tool: read settings: %w", err)
	}

	s := DefaultSettings()
	if err := json.Unmarshal(data, s); err != nil {
		return DefaultSettings(), fmt.Errorf("tool: parse settings: %w", err)
	}
	s.Validate()
	return s, nil
}

// Validate clamps numeric fields into range and normalises the colour
// history.
func (s *Settings) Validate() {
	s.BrushSize = max(MinBrushSize, min(s.BrushSize, MaxBrushSize))
	s.Tolerance = max(0, min(s.Tolerance, fill.MaxTolerance))
	if s.Tool < 0 || int(s.Tool) >= len(kindNames) {
		s.Tool = Pencil
	}

	var hist []canvas.RGBA
	for _, c := range s.History {
		if !slices.ContainsFunc(hist, func(h canvas.RGBA) bool { return sameColor(h, c) }) {
			hist = append(hist, c)
		}
	}
	if len(hist) > MaxColorHistory {
		hist = hist[:MaxColorHistory]
	}
	s.History = hist
}

// Save writes the settings to path as indented JSON, creating the
// directory if needed.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("tool: create settings dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("tool: encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("tool: write settings: %w", err)
	}
	return nil
}

// BrushWidth implements BrushConfig.
func (s *Settings) BrushWidth() int { return s.BrushSize }

// FillTolerance implements BrushConfig.
func (s *Settings) FillTolerance() int { return s.Tolerance }

// SetBrushSize sets the brush width, clamped to [MinBrushSize, MaxBrushSize].
func (s *Settings) SetBrushSize(n int) {
	s.BrushSize = max(MinBrushSize, min(n, MaxBrushSize))
}

// SetTolerance sets the fill tolerance, clamped to [0, 255].
func (s *Settings) SetTolerance(n int) {
	s.Tolerance = max(0, min(n, fill.MaxTolerance))
}

// PrimaryColor implements Palette.
func (s *Settings) PrimaryColor() canvas.RGBA { return s.Primary }

// SecondaryColor implements Palette.
func (s *Settings) SecondaryColor() canvas.RGBA { return s.Secondary }

// SetPrimaryColor changes the primary colour and records it in the history.
func (s *Settings) SetPrimaryColor(c canvas.RGBA) {
	if sameColor(s.Primary, c) {
		return
	}
	s.Primary = c
	s.remember(c)
}

// SetSecondaryColor changes the secondary colour and records it in the
// history.
func (s *Settings) SetSecondaryColor(c canvas.RGBA) {
	if sameColor(s.Secondary, c) {
		return
	}
	s.Secondary = c
	s.remember(c)
}

// Swap exchanges primary and secondary colours. The history is unchanged.
func (s *Settings) Swap() {
	s.Primary, s.Secondary = s.Secondary, s.Primary
}

// ClearHistory forgets all recently used colours.
func (s *Settings) ClearHistory() {
	s.History = nil
}

// remember moves c to the front of the history, adding it if new.
func (s *Settings) remember(c canvas.RGBA) {
	if i := slices.IndexFunc(s.History, func(h canvas.RGBA) bool { return sameColor(h, c) }); i >= 0 {
		s.History = slices.Delete(s.History, i, i+1)
	}
	s.History = slices.Insert(s.History, 0, c)
	if len(s.History) > MaxColorHistory {
		s.History = s.History[:MaxColorHistory]
	}
}

// sameColor compares colours at 8-bit precision.
func sameColor(a, b canvas.RGBA) bool {
	return a.NRGBA() == b.NRGBA()
}
