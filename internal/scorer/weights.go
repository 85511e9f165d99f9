// Package scorer turns merged exclusion records into risk assessments:
// weighted row scores, consensus multipliers, percentile thresholds and
// the final risk tiering with operational recommendations.
package scorer

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Weights parameterize per-record scoring. All maps key on canonical
// labels; anything not listed falls back to the "unspecified" entry.
type Weights struct {
	Category    map[string]float64 `yaml:"category"`
	Motivation  map[string]float64 `yaml:"motivation"`
	SectorScope float64            `yaml:"sector_scope"`
}

// DefaultWeights returns the calibrated scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Category: map[string]float64{
			"climate":            3.0,
			"human rights":       2.5,
			"governance":         2.5,
			"business practices": 1.5,
			"cannabis":           0.8,
			"unspecified":        1.0,
		},
		Motivation: map[string]float64{
			"thermal coal":            1.30,
			"corruption":              1.30,
			"forced labour":           1.30,
			"child labour":            1.30,
			"shale":                   1.20,
			"fossil expansion":        1.20,
			"oil & gas":               1.10,
			"human rights":            1.10,
			"labour rights":           1.10,
			"norms-based":             1.0,
			"controversial behaviour": 0.9,
			"unspecified":             1.0,
		},
		SectorScope: 1.15,
	}
}

// LoadWeights reads weight overrides from a YAML file and merges them
// over the defaults. The YAML has a top-level "weights" key.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()

	data, err := os.ReadFile(path)
	if err != nil {
		return w, eris.Wrapf(err, "scorer: read weights %s", path)
	}

	var wrapper struct {
		Weights Weights `yaml:"weights"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return w, eris.Wrap(err, "scorer: parse weights")
	}

	for k, v := range wrapper.Weights.Category {
		w.Category[strings.ToLower(k)] = v
	}
	for k, v := range wrapper.Weights.Motivation {
		w.Motivation[strings.ToLower(k)] = v
	}
	if wrapper.Weights.SectorScope > 0 {
		w.SectorScope = wrapper.Weights.SectorScope
	}

	if err := w.Validate(); err != nil {
		return DefaultWeights(), err
	}
	return w, nil
}

// Validate checks that all weights are usable.
func (w Weights) Validate() error {
	var errs []string

	for _, group := range []struct {
		name string
		m    map[string]float64
	}{
		{"category", w.Category},
		{"motivation", w.Motivation},
	} {
		if _, ok := group.m["unspecified"]; !ok {
			errs = append(errs, fmt.Sprintf("%s weights missing 'unspecified' fallback", group.name))
		}
		for _, k := range sortedKeys(group.m) {
			if group.m[k] <= 0 {
				errs = append(errs, fmt.Sprintf("%s weight %q must be > 0", group.name, k))
			}
		}
	}
	if w.SectorScope < 1 {
		errs = append(errs, "sector_scope must be >= 1")
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: weight validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (w Weights) categoryWeight(canonical string) float64 {
	if v, ok := w.Category[canonical]; ok {
		return v
	}
	return w.Category["unspecified"]
}

func (w Weights) motivationWeight(canonical string) float64 {
	if v, ok := w.Motivation[canonical]; ok {
		return v
	}
	return w.Motivation["unspecified"]
}
