package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/probelabs/driftscan/internal/drift"
)

// policyFile is the YAML shape of a policy override file. Absent fields
// keep their defaults, so pointers distinguish "unset" from zero.
type policyFile struct {
	SimilarityThreshold *float64 `yaml:"similarity_threshold"`
	SignatureLength     *int     `yaml:"signature_length"`
	PreferenceDistance  *int     `yaml:"preference_distance"`
	SnippetLimit        *int     `yaml:"snippet_limit"`
	MemoryLimit         *int     `yaml:"memory_limit"`

	ResetSeverity   *int     `yaml:"reset_severity"`
	ResetConfidence *float64 `yaml:"reset_confidence"`
	FactSeverity    *int     `yaml:"fact_severity"`

	Weights      map[string]float64 `yaml:"weights"`
	ResetPhrases []string           `yaml:"reset_phrases"`
}

// LoadPolicy reads a YAML policy file and overlays it onto the defaults.
// An empty path returns the default policy unchanged.
func LoadPolicy(path string) (drift.Policy, error) {
	pol := drift.DefaultPolicy()
	if path == "" {
		return pol, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pol, fmt.Errorf("read policy: %w", err)
	}
	var pf policyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return pol, fmt.Errorf("parse policy %s: %w", path, err)
	}

	if pf.SimilarityThreshold != nil {
		pol.SimilarityThreshold = *pf.SimilarityThreshold
	}
	if pf.SignatureLength != nil {
		pol.SignatureLength = *pf.SignatureLength
	}
	if pf.PreferenceDistance != nil {
		pol.PreferenceDistance = *pf.PreferenceDistance
	}
	if pf.SnippetLimit != nil {
		pol.SnippetLimit = *pf.SnippetLimit
	}
	if pf.MemoryLimit != nil {
		pol.MemoryLimit = *pf.MemoryLimit
	}
	if pf.ResetSeverity != nil {
		pol.ResetSeverity = *pf.ResetSeverity
	}
	if pf.ResetConfidence != nil {
		pol.ResetConfidence = *pf.ResetConfidence
	}
	if pf.FactSeverity != nil {
		pol.FactSeverity = *pf.FactSeverity
	}
	if pf.Weights != nil {
		// Overrides merge over defaults: unnamed event types keep their
		// default weight rather than silently dropping to zero.
		for k, v := range pf.Weights {
			pol.Weights[k] = v
		}
	}
	if pf.ResetPhrases != nil {
		pol.ResetPhrases = pf.ResetPhrases
	}
	return pol, nil
}
