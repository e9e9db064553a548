// Package scoring implements the repohealth scoring policy: the
// configuration-driven formula that converts raw metric values collected from
// external sources into a single composite score, and the theoretical maximum
// that score could reach. Both the ingestion side and the read API import this
// package so the two never drift apart.
package scoring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Metric types supported by the scoring formula.
const (
	TypeDirect             = "direct"
	TypeDirectScaled       = "direct_scaled"
	TypeInvertedScaled     = "inverted_scaled"
	TypeInvertedPercentage = "inverted_percentage"
)

// MetricDefinition describes how one named metric from one source converts
// into a score contribution.
type MetricDefinition struct {
	Name         string  `yaml:"name" json:"name"`
	Source       string  `yaml:"source" json:"source"`
	Key          string  `yaml:"key" json:"key"`
	Weight       float64 `yaml:"weight" json:"weight"`
	Type         string  `yaml:"type" json:"type"`
	ScaleFactor  float64 `yaml:"scale_factor" json:"scale_factor,omitempty"`
	MaxScore     float64 `yaml:"max_score" json:"max_score,omitempty"`
	BaseMaxValue float64 `yaml:"base_max_value" json:"base_max_value,omitempty"`
}

// Config is the scoring formula configuration. It is immutable for the
// duration of one computation; callers load a fresh copy per request so that
// config file edits take effect on the next read.
type Config struct {
	Description      string             `yaml:"description" json:"description"`
	CalculationLogic string             `yaml:"calculation_logic" json:"calculation_logic"`
	Metrics          []MetricDefinition `yaml:"metrics" json:"metrics"`
}

// Load reads a scoring config file from the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scoring config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing scoring config: %w", err)
	}

	return cfg, nil
}

// scaleFactor returns the definition's scale factor, defaulting to 1.
func (d MetricDefinition) scaleFactor() float64 {
	if d.ScaleFactor == 0 {
		return 1
	}
	return d.ScaleFactor
}

// baseMaxValue returns the definition's base max value, defaulting to 10.
func (d MetricDefinition) baseMaxValue() float64 {
	if d.BaseMaxValue == 0 {
		return 10
	}
	return d.BaseMaxValue
}
