package scoring

import (
	"testing"
)

func TestContribution(t *testing.T) {
	tests := []struct {
		name string
		def  MetricDefinition
		raw  float64
		want float64
	}{
		{
			name: "direct applies weight",
			def:  MetricDefinition{Type: TypeDirect, Weight: 2},
			raw:  50,
			want: 100,
		},
		{
			name: "direct_scaled multiplies by scale factor",
			def:  MetricDefinition{Type: TypeDirectScaled, Weight: 2, ScaleFactor: 1},
			raw:  7.5,
			want: 15,
		},
		{
			name: "direct_scaled defaults scale factor to 1",
			def:  MetricDefinition{Type: TypeDirectScaled, Weight: 3},
			raw:  4,
			want: 12,
		},
		{
			name: "inverted_scaled subtracts from max",
			def:  MetricDefinition{Type: TypeInvertedScaled, Weight: 1, MaxScore: 50, ScaleFactor: 2},
			raw:  10,
			want: 30,
		},
		{
			name: "inverted_scaled clamps at zero",
			def:  MetricDefinition{Type: TypeInvertedScaled, Weight: 1, MaxScore: 10, ScaleFactor: 1},
			raw:  25,
			want: 0,
		},
		{
			name: "inverted_percentage can go negative",
			def:  MetricDefinition{Type: TypeInvertedPercentage, Weight: 1, MaxScore: 10},
			raw:  12,
			want: -2,
		},
		{
			name: "inverted types default max_score to zero",
			def:  MetricDefinition{Type: TypeInvertedPercentage, Weight: 2},
			raw:  5,
			want: -10,
		},
		{
			name: "unknown type contributes nothing",
			def:  MetricDefinition{Type: "bogus", Weight: 5},
			raw:  100,
			want: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Contribution(tc.def, tc.raw)
			if got != tc.want {
				t.Errorf("Contribution(%+v, %v) = %v, want %v", tc.def, tc.raw, got, tc.want)
			}
		})
	}
}

func TestContributionMonotonic(t *testing.T) {
	increasing := []MetricDefinition{
		{Type: TypeDirect, Weight: 1},
		{Type: TypeDirectScaled, Weight: 1, ScaleFactor: 2},
	}
	decreasing := []MetricDefinition{
		{Type: TypeInvertedScaled, Weight: 1, MaxScore: 100, ScaleFactor: 1},
		{Type: TypeInvertedPercentage, Weight: 1, MaxScore: 100},
	}

	for _, def := range increasing {
		lo := Contribution(def, 10)
		hi := Contribution(def, 20)
		if hi <= lo {
			t.Errorf("%s: expected contribution to increase with raw value, got %v then %v", def.Type, lo, hi)
		}
	}
	for _, def := range decreasing {
		lo := Contribution(def, 20)
		hi := Contribution(def, 10)
		if hi <= lo {
			t.Errorf("%s: expected contribution to decrease with raw value, got %v then %v", def.Type, hi, lo)
		}
	}
}

func TestMaximum(t *testing.T) {
	tests := []struct {
		name string
		def  MetricDefinition
		want float64
	}{
		{
			name: "direct maxes at 100",
			def:  MetricDefinition{Type: TypeDirect, Weight: 0.5},
			want: 50,
		},
		{
			name: "direct_scaled uses base_max_value",
			def:  MetricDefinition{Type: TypeDirectScaled, Weight: 2, ScaleFactor: 3, BaseMaxValue: 5},
			want: 30,
		},
		{
			name: "direct_scaled base_max_value defaults to 10",
			def:  MetricDefinition{Type: TypeDirectScaled, Weight: 2, ScaleFactor: 1},
			want: 20,
		},
		{
			name: "inverted_scaled maxes at max_score",
			def:  MetricDefinition{Type: TypeInvertedScaled, Weight: 1, MaxScore: 10, ScaleFactor: 4},
			want: 10,
		},
		{
			name: "inverted_percentage maxes at max_score",
			def:  MetricDefinition{Type: TypeInvertedPercentage, Weight: 3, MaxScore: 10},
			want: 30,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Maximum(tc.def)
			if got != tc.want {
				t.Errorf("Maximum(%+v) = %v, want %v", tc.def, got, tc.want)
			}
		})
	}
}

func testConfig() *Config {
	return &Config{
		Description: "test formula",
		Metrics: []MetricDefinition{
			{Name: "Coverage", Source: "sonarqube", Key: "coverage", Weight: 2, Type: TypeDirectScaled, ScaleFactor: 1, BaseMaxValue: 10},
			{Name: "Scorecard", Source: "openssf", Key: "overall_score", Weight: 1, Type: TypeInvertedPercentage, MaxScore: 10},
		},
	}
}

func TestTotal(t *testing.T) {
	cfg := testConfig()
	raw := []RawMetric{
		{Source: "sonarqube", Key: "coverage", Value: "7.5"},
		{Source: "openssf", Key: "overall_score", Value: "6"},
	}

	// 7.5*1*2 + (10-6)*1 = 19
	score, weight := Total(cfg, raw)
	if score != 19.0 {
		t.Errorf("Total score = %v, want 19.0", score)
	}
	if weight != 3 {
		t.Errorf("Total weight = %v, want 3", weight)
	}

	if max := MaxTotal(cfg); max != 30 {
		t.Errorf("MaxTotal = %v, want 30", max)
	}
}

func TestTotalSkipsMissingMetrics(t *testing.T) {
	cfg := testConfig()
	raw := []RawMetric{
		{Source: "sonarqube", Key: "coverage", Value: "7.5"},
		// openssf overall_score never collected
	}

	score, weight := Total(cfg, raw)
	if score != 15.0 {
		t.Errorf("Total score = %v, want 15.0 (missing metric contributes zero)", score)
	}
	if weight != 2 {
		t.Errorf("Total weight = %v, want 2 (missing metric excluded from weight)", weight)
	}

	// The maximum still counts every definition.
	if max := MaxTotal(cfg); max != 30 {
		t.Errorf("MaxTotal = %v, want 30", max)
	}
}

func TestTotalSkipsUnparseableValues(t *testing.T) {
	cfg := testConfig()
	raw := []RawMetric{
		{Source: "sonarqube", Key: "coverage", Value: "not-a-number"},
		{Source: "openssf", Key: "overall_score", Value: "6"},
	}

	score, weight := Total(cfg, raw)
	if score != 4.0 {
		t.Errorf("Total score = %v, want 4.0 (unparseable value treated as absent)", score)
	}
	if weight != 1 {
		t.Errorf("Total weight = %v, want 1", weight)
	}
}

func TestTotalNilConfigOrNoMetrics(t *testing.T) {
	if score, _ := Total(nil, []RawMetric{{Source: "s", Key: "k", Value: "1"}}); score != 0 {
		t.Errorf("Total with nil config = %v, want 0", score)
	}
	if score, _ := Total(testConfig(), nil); score != 0 {
		t.Errorf("Total with no metrics = %v, want 0", score)
	}
	if max := MaxTotal(nil); max != 0 {
		t.Errorf("MaxTotal(nil) = %v, want 0", max)
	}
}

func TestMaxTotalDeterministic(t *testing.T) {
	cfg := testConfig()
	first := MaxTotal(cfg)
	second := MaxTotal(cfg)
	if first != second {
		t.Errorf("MaxTotal not deterministic: %v then %v", first, second)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{19.0, 19.0},
		{3.14159, 3.14},
		{0.125, 0.13},
		{-3.333, -3.33},
	}
	for _, tc := range tests {
		if got := Round2(tc.in); got != tc.want {
			t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
