package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ToolbarConfig holds the captions and initial colors of the style toolbar.
type ToolbarConfig struct {
	Title      string       `yaml:"title"`
	Bold       ButtonConfig `yaml:"bold"`
	Background PickerConfig `yaml:"background"`
	FontColor  PickerConfig `yaml:"font_color"`
	Palette    []string     `yaml:"palette"`
}

type ButtonConfig struct {
	Caption string `yaml:"caption"`
	Tooltip string `yaml:"tooltip"`
}

type PickerConfig struct {
	Caption string `yaml:"caption"`
	Default string `yaml:"default"` // Hex color
}

// DefaultToolbarConfig is used when no toolbar file is configured.
func DefaultToolbarConfig() ToolbarConfig {
	return ToolbarConfig{
		Title:      "Spreadsheet Tutorial",
		Bold:       ButtonConfig{Caption: "B", Tooltip: "Bold"},
		Background: PickerConfig{Caption: "Background Color", Default: "#FFFFFF"},
		FontColor:  PickerConfig{Caption: "Font Color", Default: "#000000"},
		Palette:    []string{"#FFFFFF", "#000000", "#F44336", "#FFEB3B", "#4CAF50", "#2196F3"},
	}
}

// ParseToolbarConfig decodes YAML on top of DefaultToolbarConfig so a file
// only needs the fields it changes.
func ParseToolbarConfig(data []byte) (ToolbarConfig, error) {
	cfg := DefaultToolbarConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ToolbarConfig{}, fmt.Errorf("decode toolbar yaml: %w", err)
	}
	return cfg, nil
}

// LoadToolbarConfig reads the toolbar file at path; an empty path yields the
// defaults.
func LoadToolbarConfig(path string) (ToolbarConfig, error) {
	if path == "" {
		return DefaultToolbarConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ToolbarConfig{}, fmt.Errorf("read toolbar config %s: %w", path, err)
	}
	return ParseToolbarConfig(data)
}
