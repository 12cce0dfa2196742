package analyzer

import (
	"testing"

	"github.com/plugcheck/plugcheck/internal/ruleset"
	"github.com/plugcheck/plugcheck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wellBehavedPlugin follows every convention the detectors look for.
const wellBehavedPlugin = `const debug = require('debug')('metalsmith-sample');

/**
 * A sample metalsmith plugin.
 * @param {Object} options - Plugin options.
 * @returns {Function} The plugin.
 */
module.exports = function (options) {
  return function (files, metalsmith, done) {
    debug('running with %o', options);
    try {
      Object.keys(files).forEach((file) => {
        files[file].processed = true;
      });
      done();
    } catch (err) {
      done(err);
    }
  };
};
`

func targetWithSource(t *testing.T, source string) *Target {
	t.Helper()
	dir := scaffoldPackage(t, map[string]string{
		"package.json": `{"name":"metalsmith-sample","version":"1.0.0"}`,
		"src/index.js": source,
	})
	return LoadTarget(dir, ruleset.Defaults())
}

func TestAnalyzeSecurityDetectsEval(t *testing.T) {
	target := targetWithSource(t, "const out = eval(userInput);\n")

	findings := AnalyzeSecurity(target)

	require.True(t, schema.HasFailure(findings))
	assert.Contains(t, findingMessages(findings), "Dynamic evaluation call detected (eval)")
}

func TestAnalyzeSecuritySubstringSensitive(t *testing.T) {
	// The same source with the anti-pattern removed must not fail.
	withEval := targetWithSource(t, "const out = eval(x);\n")
	assert.True(t, schema.HasFailure(AnalyzeSecurity(withEval)))

	without := targetWithSource(t, "const out = evaluateSafely(x);\n")
	assert.False(t, schema.HasFailure(AnalyzeSecurity(without)))
}

func TestAnalyzeSecurityHardCodedSecret(t *testing.T) {
	target := targetWithSource(t, `const apiKey = { api_key: "sk-1234567890abcdef" };`)

	findings := AnalyzeSecurity(target)
	require.True(t, schema.HasFailure(findings))
	assert.Contains(t, findingMessages(findings), "Hard-coded secret-looking string detected")
}

func TestAnalyzeSecurityCleanSource(t *testing.T) {
	findings := AnalyzeSecurity(targetWithSource(t, wellBehavedPlugin))

	assert.False(t, schema.HasFailure(findings))
	assert.Contains(t, findingMessages(findings), "No dangerous calls detected")
}

func TestAnalyzeSecurityChildProcessWarns(t *testing.T) {
	findings := AnalyzeSecurity(targetWithSource(t, "const cp = require('child_process');\n"))

	assert.False(t, schema.HasFailure(findings))
	require.Len(t, findings, 1)
	assert.Equal(t, schema.SeverityWarn, findings[0].Severity)
}

func TestAnalyzePerformanceSyncInAsyncPath(t *testing.T) {
	source := `module.exports = function () {
  return async function (files, metalsmith, done) {
    const data = readFileSync('config.json');
    done();
  };
};
`
	findings := AnalyzePerformance(targetWithSource(t, source))

	require.True(t, schema.HasFailure(findings))
	assert.Contains(t, findingMessages(findings), "Synchronous blocking call in an async code path (readFileSync)")
}

func TestAnalyzePerformanceSyncWithoutAsyncIsFine(t *testing.T) {
	source := "const data = readFileSync('config.json');\nmodule.exports = data;\n"
	findings := AnalyzePerformance(targetWithSource(t, source))

	assert.False(t, schema.HasFailure(findings))
}

func TestAnalyzePerformanceAwaitInLoop(t *testing.T) {
	source := `async function run(items) {
  for (const item of items) {
    await process(item);
  }
}
`
	findings := AnalyzePerformance(targetWithSource(t, source))

	assert.Contains(t, findingMessages(findings), "Sequential await inside a loop")
	// Warn, not fail: no sync call involved
	for _, f := range findings {
		if f.Message == "Sequential await inside a loop" {
			assert.Equal(t, schema.SeverityWarn, f.Severity)
		}
	}
}

func TestAnalyzeJSDoc(t *testing.T) {
	documented := AnalyzeJSDoc(targetWithSource(t, wellBehavedPlugin))
	assert.Contains(t, findingMessages(documented), "JSDoc annotations present")

	bare := AnalyzeJSDoc(targetWithSource(t, "module.exports = () => {};\n"))
	msgs := findingMessages(bare)
	assert.Contains(t, msgs, "No JSDoc block comments found")
	assert.Contains(t, msgs, "No @param annotations found")
	assert.Contains(t, msgs, "No @returns annotations found")
	assert.False(t, schema.HasFailure(bare))
}

func TestAnalyzeMetalsmithConventions(t *testing.T) {
	good := AnalyzeMetalsmith(targetWithSource(t, wellBehavedPlugin))
	msgs := findingMessages(good)
	assert.Contains(t, msgs, "Plugin exports a factory function")
	assert.Contains(t, msgs, "Standard plugin callback signature found")
	assert.False(t, schema.HasFailure(good))

	bare := AnalyzeMetalsmith(targetWithSource(t, "export const helper = 1;\n"))
	msgs = findingMessages(bare)
	assert.Contains(t, msgs, "Plugin does not appear to export a factory function")
	assert.False(t, schema.HasFailure(bare))
}

func TestPatternAnalyzersSkipMissingSource(t *testing.T) {
	dir := scaffoldPackage(t, map[string]string{
		"package.json": `{"name":"p","version":"1.0.0"}`,
	})
	target := LoadTarget(dir, ruleset.Defaults())

	for _, findings := range [][]schema.Finding{
		AnalyzeSecurity(target),
		AnalyzePerformance(target),
		AnalyzeJSDoc(target),
		AnalyzeMetalsmith(target),
	} {
		require.Len(t, findings, 1)
		assert.Equal(t, schema.SeverityInfo, findings[0].Severity)
	}
}

func TestAnalyzeDocs(t *testing.T) {
	dir := scaffoldPackage(t, map[string]string{
		"README.md": "# sample\n\n## Installation\n\n```sh\nnpm i\n```\n\n## Usage\n\n## Options\n",
	})
	target := LoadTarget(dir, ruleset.Defaults())

	findings := AnalyzeDocs(target, ruleset.Defaults().DocSections)
	assert.False(t, schema.HasFailure(findings))

	// Missing section fails the docs check
	dir = scaffoldPackage(t, map[string]string{
		"README.md": "# sample\n\n## Installation\n",
	})
	target = LoadTarget(dir, ruleset.Defaults())
	findings = AnalyzeDocs(target, ruleset.Defaults().DocSections)
	assert.True(t, schema.HasFailure(findings))
	assert.Contains(t, findingMessages(findings), "Missing documentation section: Usage")
}

func TestAnalyzeDocsMissingReadme(t *testing.T) {
	target := LoadTarget(scaffoldPackage(t, nil), ruleset.Defaults())

	findings := AnalyzeDocs(target, ruleset.Defaults().DocSections)
	require.Len(t, findings, 1)
	assert.Equal(t, schema.SeverityFail, findings[0].Severity)
	assert.Equal(t, "Missing README.md", findings[0].Message)
}

func TestAnalyzePackageManifest(t *testing.T) {
	dir := scaffoldPackage(t, map[string]string{
		"package.json": `{
			"name": "metalsmith-sample",
			"version": "1.0.0",
			"description": "sample",
			"license": "MIT",
			"keywords": ["metalsmith"],
			"repository": "github:user/sample"
		}`,
	})
	target := LoadTarget(dir, ruleset.Defaults())

	findings := AnalyzePackageManifest(target)
	assert.False(t, schema.HasFailure(findings))

	// Minimal manifest passes required fields but warns on conventions
	dir = scaffoldPackage(t, map[string]string{
		"package.json": `{"name":"sample","version":"1.0.0"}`,
	})
	target = LoadTarget(dir, ruleset.Defaults())
	findings = AnalyzePackageManifest(target)
	assert.False(t, schema.HasFailure(findings))
	assert.Contains(t, findingMessages(findings), "Package name does not follow the metalsmith-* convention")
}

func TestAnalyzePackageManifestMalformed(t *testing.T) {
	dir := scaffoldPackage(t, map[string]string{
		"package.json": `{"name":`,
	})
	target := LoadTarget(dir, ruleset.Defaults())

	findings := AnalyzePackageManifest(target)
	require.Len(t, findings, 1)
	assert.Equal(t, schema.SeverityFail, findings[0].Severity)
}
