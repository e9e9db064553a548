package scoring

import (
	"math"
	"strconv"
)

// RawMetric is one collected (source, key, value) triple. Values are stored
// as text and coerced to numbers here; unparseable values are treated as
// absent rather than failing the computation.
type RawMetric struct {
	Source string
	Key    string
	Value  string
}

// Contribution computes the weighted score contribution of one metric
// definition for a raw numeric value. Pure and deterministic.
func Contribution(def MetricDefinition, rawValue float64) float64 {
	var score float64
	switch def.Type {
	case TypeDirect:
		score = rawValue
	case TypeDirectScaled:
		score = rawValue * def.scaleFactor()
	case TypeInvertedScaled:
		score = math.Max(0, def.MaxScore-rawValue*def.scaleFactor())
	case TypeInvertedPercentage:
		score = def.MaxScore - rawValue
	}
	return score * def.Weight
}

// Maximum computes the theoretical maximum contribution of one metric
// definition, independent of any collected data.
func Maximum(def MetricDefinition) float64 {
	switch def.Type {
	case TypeDirect:
		return 100 * def.Weight
	case TypeDirectScaled:
		return def.baseMaxValue() * def.scaleFactor() * def.Weight
	case TypeInvertedScaled, TypeInvertedPercentage:
		return def.MaxScore * def.Weight
	}
	return 0
}

// MaxTotal sums the theoretical maximum over every metric definition in the
// config, regardless of whether data for it was ever collected. A nil config
// yields 0.
func MaxTotal(cfg *Config) float64 {
	if cfg == nil {
		return 0
	}
	var total float64
	for _, def := range cfg.Metrics {
		total += Maximum(def)
	}
	return total
}

// Total computes the actual score for a scan's collected raw metrics. Only
// definitions whose (source, key) matches a parseable raw metric contribute;
// missing or non-numeric metrics are skipped entirely, shrinking the
// achievable score rather than being imputed. The second return value is the
// summed weight of the matched definitions; it is bookkeeping only and is
// never used to normalize the score.
func Total(cfg *Config, raw []RawMetric) (float64, float64) {
	if cfg == nil {
		return 0, 0
	}

	bySource := make(map[string]map[string]float64)
	for _, m := range raw {
		v, err := strconv.ParseFloat(m.Value, 64)
		if err != nil {
			continue
		}
		if bySource[m.Source] == nil {
			bySource[m.Source] = make(map[string]float64)
		}
		bySource[m.Source][m.Key] = v
	}

	var totalScore, totalWeight float64
	for _, def := range cfg.Metrics {
		value, ok := bySource[def.Source][def.Key]
		if !ok {
			continue
		}
		totalScore += Contribution(def, value)
		totalWeight += def.Weight
	}
	return totalScore, totalWeight
}

// Round2 rounds a score to two decimal places. Applied to the actual score at
// the point of persistence; the theoretical maximum is never rounded.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
