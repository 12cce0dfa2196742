// Package ruleset holds the built-in validation rules and the project-local
// override mechanism. A Rules value is loaded once per run and read-only
// afterward.
package ruleset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// OverrideFileName is the optional project-local rule override file.
const OverrideFileName = ".plugcheckrc.json"

// ComplexityRules holds the thresholds of the structural complexity heuristic.
type ComplexityRules struct {
	WarnNestingDepth int `json:"warnNestingDepth"`
	HighNestingDepth int `json:"highNestingDepth"`
	WarnFunctions    int `json:"warnFunctions"`
	HighFunctions    int `json:"highFunctions"`
}

// Rules is the merged rule configuration for one validation run.
type Rules struct {
	RequiredFiles     []string        `json:"requiredFiles"`
	RecommendedFiles  []string        `json:"recommendedFiles"`
	EntryPoints       []string        `json:"entryPoints"`
	DocSections       []string        `json:"docSections"`
	CoverageThreshold float64         `json:"coverageThreshold"`
	Complexity        ComplexityRules `json:"complexity"`
}

// Defaults returns the built-in rule configuration.
func Defaults() Rules {
	return Rules{
		RequiredFiles:     []string{"package.json", "src/", "README.md", "test/"},
		RecommendedFiles:  []string{"LICENSE", "CHANGELOG.md", ".gitignore", ".github/"},
		EntryPoints:       []string{"src/index.js", "lib/index.js", "index.js"},
		DocSections:       []string{"Installation", "Usage", "Options"},
		CoverageThreshold: 80.0,
		Complexity: ComplexityRules{
			WarnNestingDepth: 4,
			HighNestingDepth: 6,
			WarnFunctions:    15,
			HighFunctions:    25,
		},
	}
}

// Load returns the defaults deep-merged with the package-local override file,
// if one exists. Override values win; default keys never disappear.
func Load(dir string) (Rules, error) {
	defaults := Defaults()

	data, err := os.ReadFile(filepath.Join(dir, OverrideFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("failed to read %s: %w", OverrideFileName, err)
	}

	var override map[string]any
	if err := json.Unmarshal(data, &override); err != nil {
		return defaults, fmt.Errorf("malformed %s: %w", OverrideFileName, err)
	}

	return merge(defaults, override)
}

// merge deep-merges the override map over the defaults and decodes the
// result back into a Rules value.
func merge(defaults Rules, override map[string]any) (Rules, error) {
	base, err := toMap(defaults)
	if err != nil {
		return defaults, err
	}

	merged := DeepMerge(base, override)

	data, err := json.Marshal(merged)
	if err != nil {
		return defaults, fmt.Errorf("failed to encode merged rules: %w", err)
	}
	var rules Rules
	if err := json.Unmarshal(data, &rules); err != nil {
		return defaults, fmt.Errorf("failed to decode merged rules: %w", err)
	}
	return rules, nil
}

// DeepMerge merges override into base key-wise: nested maps merge
// recursively (key-union), any other value from override replaces the
// base value. Neither input map is mutated.
func DeepMerge(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		if subOverride, ok := v.(map[string]any); ok {
			if subBase, ok := out[k].(map[string]any); ok {
				out[k] = DeepMerge(subBase, subOverride)
				continue
			}
		}
		out[k] = v
	}
	return out
}

func toMap(rules Rules) (map[string]any, error) {
	data, err := json.Marshal(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to encode default rules: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode default rules: %w", err)
	}
	return m, nil
}
