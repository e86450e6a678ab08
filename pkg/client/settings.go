package client

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings stores user preferences persisted as YAML next to the binary.
type Settings struct {
	BackendURL string `yaml:"backend_url"`
	LogLevel   string `yaml:"log_level,omitempty"`
	LogFormat  string `yaml:"log_format,omitempty"`
	AudioInput string `yaml:"audio_input,omitempty"`
	DataPath   string `yaml:"data_path,omitempty"`
}

// DefaultSettings returns default settings.
func DefaultSettings() *Settings {
	return &Settings{
		BackendURL: "http://localhost:8000",
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

func settingsPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "settings.yaml"
	}
	return filepath.Join(filepath.Dir(exe), "settings.yaml")
}

// KeystorePath returns where the credential database lives: DataPath when
// set, otherwise next to the binary.
func (s *Settings) KeystorePath() string {
	if s.DataPath != "" {
		return filepath.Join(s.DataPath, "hub.db")
	}
	exe, err := os.Executable()
	if err != nil {
		return "hub.db"
	}
	return filepath.Join(filepath.Dir(exe), "hub.db")
}

// LoadSettings loads settings from YAML or returns defaults.
func LoadSettings() *Settings {
	s := DefaultSettings()
	data, err := os.ReadFile(settingsPath())
	if err != nil {
		return s
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		slog.Error("parse settings", "err", err)
		return DefaultSettings()
	}
	if s.BackendURL == "" {
		s.BackendURL = DefaultSettings().BackendURL
	}
	return s
}

// Save writes settings to YAML.
func (s *Settings) Save() error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(settingsPath(), data, 0600)
}
