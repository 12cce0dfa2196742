package analyzer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/plugcheck/plugcheck/internal/ruleset"
	"github.com/plugcheck/plugcheck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scaffoldPackage creates a package directory with the given relative files.
func scaffoldPackage(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func findingMessages(findings []schema.Finding) []string {
	msgs := make([]string, 0, len(findings))
	for _, f := range findings {
		msgs = append(msgs, f.Message)
	}
	return msgs
}

func TestAnalyzeStructureEmptyPackage(t *testing.T) {
	dir := scaffoldPackage(t, map[string]string{
		"package.json": `{"name":"p","version":"1.0.0"}`,
	})
	rules := ruleset.Defaults()
	target := LoadTarget(dir, rules)

	findings := AnalyzeStructure(target, rules)

	msgs := findingMessages(findings)
	assert.Contains(t, msgs, "Missing required: src/")
	assert.Contains(t, msgs, "Missing required: README.md")
	assert.Contains(t, msgs, "Missing required: test/")
	assert.Contains(t, msgs, "Found required: package.json")
	assert.True(t, schema.HasFailure(findings))

	// Recommended entries warn, never fail
	for _, f := range findings {
		if strings.HasPrefix(f.Message, "Consider adding") {
			assert.Equal(t, schema.SeverityWarn, f.Severity)
		}
	}
}

func TestAnalyzeStructureFullPackage(t *testing.T) {
	dir := scaffoldPackage(t, map[string]string{
		"package.json":  `{"name":"metalsmith-p","version":"1.0.0"}`,
		"README.md":     "# p",
		"src/index.js":  "module.exports = function () {}\n",
		"test/index.js": "require('..')\n",
		"LICENSE":       "MIT",
		"CHANGELOG.md":  "## 1.0.0",
		".gitignore":    "node_modules/",
	})
	rules := ruleset.Defaults()
	target := LoadTarget(dir, rules)

	findings := AnalyzeStructure(target, rules)

	assert.False(t, schema.HasFailure(findings))
	assert.Contains(t, findingMessages(findings), "Found recommended: LICENSE")
}

func TestAnalyzeStructureFileWhereDirRequired(t *testing.T) {
	dir := scaffoldPackage(t, map[string]string{
		"src": "not a directory",
	})
	rules := ruleset.Defaults()
	target := LoadTarget(dir, rules)

	findings := AnalyzeStructure(target, rules)
	assert.Contains(t, findingMessages(findings), "Missing required: src/")
}

func TestComplexityHeuristic(t *testing.T) {
	deep := "function a() {\n" + strings.Repeat("if (x) {\n", 7) + strings.Repeat("}\n", 8)
	dir := scaffoldPackage(t, map[string]string{
		"src/index.js": deep,
	})
	rules := ruleset.Defaults()
	target := LoadTarget(dir, rules)

	findings := analyzeComplexity(target, rules.Complexity)

	require.NotEmpty(t, findings)
	assert.Equal(t, schema.SeverityWarn, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "Very deep nesting")
}

func TestComplexityMissingSourceIsInfo(t *testing.T) {
	dir := scaffoldPackage(t, nil)
	rules := ruleset.Defaults()
	target := LoadTarget(dir, rules)

	findings := analyzeComplexity(target, rules.Complexity)

	require.Len(t, findings, 1)
	assert.Equal(t, schema.SeverityInfo, findings[0].Severity)
}

func TestMaxNestingDepth(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int
	}{
		{"flat", "const x = 1;", 0},
		{"single block", "function f() { return 1 }", 1},
		{"nested", "function f() { if (a) { while (b) { c() } } }", 3},
		{"unbalanced close ignored", "}}} function f() { g() }", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maxNestingDepth(tt.source))
		})
	}
}
