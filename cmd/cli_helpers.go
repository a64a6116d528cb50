package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/probelabs/driftscan/internal/config"
	"github.com/probelabs/driftscan/pkg/report"
)

// resolveConfigPath honors --config, falling back to the user config dir.
func resolveConfigPath() (string, error) {
	if configPathFlag != "" {
		return configPathFlag, nil
	}
	return config.DefaultPath()
}

// loadSettings reads the settings file; missing files yield defaults.
func loadSettings() (*config.Settings, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// loadFacts reads an externally extracted fact list (JSON array).
func loadFacts(path string) ([]report.ExtractedFact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read facts: %w", err)
	}
	var facts []report.ExtractedFact
	if err := json.Unmarshal(data, &facts); err != nil {
		return nil, fmt.Errorf("parse facts %s: %w", path, err)
	}
	return facts, nil
}
