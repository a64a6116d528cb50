// Package config owns settings persistence and the tunable detection
// policy file. The settings file is JSON, read with a JSON5 parser so
// hand-edited files may carry comments and trailing commas.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/titanous/json5"
)

// Analysis modes.
const (
	ModeHeuristic = "heuristic"
	ModeHosted    = "hosted"
)

// Settings is the persisted CLI configuration.
type Settings struct {
	Mode       string `json:"mode"`                  // heuristic | hosted
	APIBase    string `json:"api_base,omitempty"`    // hosted mode endpoint
	APIKey     string `json:"api_key,omitempty"`     // hosted mode credential
	Model      string `json:"model,omitempty"`       // hosted mode model name
	Format     string `json:"format"`                // text | json
	PolicyPath string `json:"policy_path,omitempty"` // optional policy YAML
}

// DefaultSettings returns the out-of-the-box configuration.
func DefaultSettings() *Settings {
	return &Settings{
		Mode:   ModeHeuristic,
		Format: "text",
	}
}

// DefaultPath returns the settings file location under the user config dir.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "driftscan", "settings.json"), nil
}

// Load reads settings from path. A missing file is not an error: defaults
// are returned so first runs work without setup.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	s := DefaultSettings()
	if err := json5.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if s.Mode == "" {
		s.Mode = ModeHeuristic
	}
	if s.Format == "" {
		s.Format = "text"
	}
	return s, nil
}

// Save writes settings to path, creating parent directories as needed.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	// 0600: the file may hold an API key.
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Set updates one settings field by its JSON name.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "mode":
		if value != ModeHeuristic && value != ModeHosted {
			return fmt.Errorf("mode must be %q or %q", ModeHeuristic, ModeHosted)
		}
		s.Mode = value
	case "api_base":
		s.APIBase = value
	case "api_key":
		s.APIKey = value
	case "model":
		s.Model = value
	case "format":
		if value != "text" && value != "json" {
			return fmt.Errorf("format must be \"text\" or \"json\"")
		}
		s.Format = value
	case "policy_path":
		s.PolicyPath = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}
