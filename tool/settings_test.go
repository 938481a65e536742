package tool

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/canvas"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Tool != Pencil {
		t.Errorf("Tool = %v, want pencil", s.Tool)
	}
	if s.BrushWidth() != DefaultBrushSize {
		t.Errorf("BrushWidth() = %d, want %d", s.BrushWidth(), DefaultBrushSize)
	}
	if s.FillTolerance() != 0 {
		t.Errorf("FillTolerance() = %d, want 0", s.FillTolerance())
	}
	if s.PrimaryColor() != canvas.Black || s.SecondaryColor() != canvas.White {
		t.Errorf("colors = %v/%v, want black/white", s.PrimaryColor(), s.SecondaryColor())
	}
	if len(s.History) != 0 {
		t.Errorf("len(History) = %d, want 0", len(s.History))
	}
}

func TestSettingsClamp(t *testing.T) {
	tests := []struct {
		in, brush, tol int
	}{
		{-5, MinBrushSize, 0},
		{0, MinBrushSize, 0},
		{50, 50, 50},
		{100, 100, 100},
		{300, MaxBrushSize, 255},
	}
	for _, tt := range tests {
		s := DefaultSettings()
		s.SetBrushSize(tt.in)
		s.SetTolerance(tt.in)
		if s.BrushWidth() != tt.brush {
			t.Errorf("SetBrushSize(%d): BrushWidth() = %d, want %d", tt.in, s.BrushWidth(), tt.brush)
		}
		if s.FillTolerance() != tt.tol {
			t.Errorf("SetTolerance(%d): FillTolerance() = %d, want %d", tt.in, s.FillTolerance(), tt.tol)
		}
	}
}

func TestColorHistory(t *testing.T) {
	s := DefaultSettings()

	s.SetPrimaryColor(canvas.Black)
	if len(s.History) != 0 {
		t.Fatalf("setting the current color recorded history: %v", s.History)
	}

	s.SetPrimaryColor(canvas.Red)
	s.SetSecondaryColor(canvas.Blue)
	s.SetPrimaryColor(canvas.Green)
	s.SetPrimaryColor(canvas.Red)

	want := []canvas.RGBA{canvas.Red, canvas.Green, canvas.Blue}
	if len(s.History) != len(want) {
		t.Fatalf("History = %v, want %v", s.History, want)
	}
	for i := range want {
		if s.History[i] != want[i] {
			t.Errorf("History[%d] = %v, want %v", i, s.History[i], want[i])
		}
	}
}

func TestColorHistoryBound(t *testing.T) {
	s := DefaultSettings()
	for i := range 15 {
		s.SetPrimaryColor(canvas.RGB(float64(i)/20, 0, 0))
	}
	if len(s.History) != MaxColorHistory {
		t.Fatalf("len(History) = %d, want %d", len(s.History), MaxColorHistory)
	}
	if s.History[0] != s.PrimaryColor() {
		t.Errorf("History[0] = %v, want the latest color %v", s.History[0], s.PrimaryColor())
	}

	s.ClearHistory()
	if len(s.History) != 0 {
		t.Errorf("len(History) after ClearHistory = %d", len(s.History))
	}
}

func TestSwapKeepsHistory(t *testing.T) {
	s := DefaultSettings()
	s.SetPrimaryColor(canvas.Red)
	s.Swap()

	if s.PrimaryColor() != canvas.White || s.SecondaryColor() != canvas.Red {
		t.Errorf("after Swap colors = %v/%v, want white/red", s.PrimaryColor(), s.SecondaryColor())
	}
	if len(s.History) != 1 {
		t.Errorf("len(History) = %d, want 1", len(s.History))
	}
}

func TestValidate(t *testing.T) {
	s := &Settings{
		Tool:      Kind(99),
		BrushSize: 0,
		Tolerance: 999,
		History:   []canvas.RGBA{canvas.Red, canvas.Red, canvas.Blue},
	}
	s.Validate()

	if s.Tool != Pencil {
		t.Errorf("Tool = %v, want pencil", s.Tool)
	}
	if s.BrushSize != MinBrushSize || s.Tolerance != 255 {
		t.Errorf("BrushSize, Tolerance = %d, %d, want %d, 255", s.BrushSize, s.Tolerance, MinBrushSize)
	}
	if len(s.History) != 2 {
		t.Errorf("History = %v, want red and blue", s.History)
	}
}

func TestSettingsSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	s := DefaultSettings()
	s.Tool = Rectangle
	s.SetBrushSize(12)
	s.SetTolerance(40)
	s.SetPrimaryColor(canvas.Red)

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, frag := range []string{`"tool": "rectangle"`, `"primary": "#ff0000ff"`} {
		if !strings.Contains(string(data), frag) {
			t.Errorf("saved JSON missing %s:\n%s", frag, data)
		}
	}

	got, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if got.Tool != Rectangle || got.BrushSize != 12 || got.Tolerance != 40 {
		t.Errorf("LoadSettings() = %+v", got)
	}
	if got.Primary != canvas.Red {
		t.Errorf("Primary = %v, want red", got.Primary)
	}
}

func TestLoadSettingsMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if s.BrushSize != DefaultBrushSize {
		t.Errorf("BrushSize = %d, want %d", s.BrushSize, DefaultBrushSize)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("defaults were not written: %v", err)
	}
}

func TestLoadSettingsUnwritable(t *testing.T) {
	var buf bytes.Buffer
	canvas.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { canvas.SetLogger(nil) })

	// The settings file is a dangling link into a directory that does not
	// exist, so reading reports it missing and writing fails.
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	if err := os.Symlink(filepath.Join(dir, "missing", "settings.json"), path); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if s.BrushSize != DefaultBrushSize {
		t.Errorf("BrushSize = %d, want %d", s.BrushSize, DefaultBrushSize)
	}
	if !strings.Contains(buf.String(), "cannot write default settings") {
		t.Errorf("log = %q, want a warning about the settings file", buf.String())
	}
}

func TestLoadSettingsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `{"tool": `},
		{"bad tool", `{"tool": "airbrush"}`},
		{"bad color", `{"primary": "#zz"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.json")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			s, err := LoadSettings(path)
			if err == nil {
				t.Error("LoadSettings() should fail")
			}
			if s == nil || s.BrushSize != DefaultBrushSize {
				t.Errorf("LoadSettings() = %+v, want defaults", s)
			}
		})
	}
}

func TestLoadSettingsRepairs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	raw, _ := json.Marshal(map[string]any{"brushSize": 1000, "tolerance": -3})
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if s.BrushSize != MaxBrushSize || s.Tolerance != 0 {
		t.Errorf("BrushSize, Tolerance = %d, %d, want %d, 0", s.BrushSize, s.Tolerance, MaxBrushSize)
	}
	if s.Primary != canvas.Black {
		t.Errorf("Primary = %v, want the default", s.Primary)
	}
}
