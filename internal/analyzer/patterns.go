package analyzer

import (
	"regexp"
	"strings"

	"github.com/plugcheck/plugcheck/schema"
)

// detector is one independent signature check over source text.
// Detectors within a category never depend on each other's outcome;
// their order only fixes presentation order.
type detector struct {
	re *regexp.Regexp

	// whenFound is emitted when the signature matches; anti-patterns
	// carry fail severity here.
	whenFound *schema.Finding

	// whenMissing is emitted when the signature does not match; missing
	// best practices warn, they never fail.
	whenMissing *schema.Finding
}

// Security anti-pattern signatures. Matches fail the check.
// Detection is textual, so a commented-out anti-pattern still flags;
// that is an accepted false-positive tradeoff.
var securityDetectors = []detector{
	{
		re: regexp.MustCompile(`\beval\s*\(`),
		whenFound: &schema.Finding{
			Severity: schema.SeverityFail,
			Message:  "Dynamic evaluation call detected (eval)",
			Detail:   "eval executes arbitrary strings as code and is a common injection vector",
		},
	},
	{
		re: regexp.MustCompile(`new\s+Function\s*\(`),
		whenFound: &schema.Finding{
			Severity: schema.SeverityFail,
			Message:  "Dynamic evaluation call detected (new Function)",
		},
	},
	{
		re: regexp.MustCompile(`(?i)(password|secret|api[_-]?key|auth[_-]?token)\s*[:=]\s*['"][^'"]{8,}['"]`),
		whenFound: &schema.Finding{
			Severity: schema.SeverityFail,
			Message:  "Hard-coded secret-looking string detected",
			Detail:   "Credentials belong in environment variables or config files outside the repository",
		},
	},
	{
		re: regexp.MustCompile(`child_process|execSync\s*\(`),
		whenFound: &schema.Finding{
			Severity: schema.SeverityWarn,
			Message:  "Shell execution detected (child_process)",
			Detail:   "Verify that no user-controlled input reaches the shell",
		},
	},
}

// Performance signatures.
var performanceDetectors = []detector{
	{
		re: regexp.MustCompile(`JSON\.parse\s*\(\s*JSON\.stringify\s*\(`),
		whenFound: &schema.Finding{
			Severity: schema.SeverityWarn,
			Message:  "Deep clone via JSON.parse(JSON.stringify(...))",
			Detail:   "structuredClone or a dedicated clone helper is cheaper and preserves more types",
		},
	},
	{
		re: regexp.MustCompile(`(?s)for\s*\([^)]*\)\s*{[^}]*\bawait\b`),
		whenFound: &schema.Finding{
			Severity: schema.SeverityWarn,
			Message:  "Sequential await inside a loop",
			Detail:   "Batch independent work with Promise.all where ordering does not matter",
		},
	},
}

// syncCallRe and asyncMarkerRe together flag synchronous blocking calls
// inside an async code path, which is an explicit anti-pattern.
var (
	syncCallRe    = regexp.MustCompile(`\b(readFileSync|writeFileSync|readdirSync|execSync|existsSync)\s*\(`)
	asyncMarkerRe = regexp.MustCompile(`\basync\b|\bawait\b|\.then\s*\(`)
)

// JSDoc best-practice signatures. Missing ones warn.
var jsdocDetectors = []detector{
	{
		re: regexp.MustCompile(`/\*\*`),
		whenMissing: &schema.Finding{
			Severity: schema.SeverityWarn,
			Message:  "No JSDoc block comments found",
		},
	},
	{
		re: regexp.MustCompile(`@param\b`),
		whenMissing: &schema.Finding{
			Severity: schema.SeverityWarn,
			Message:  "No @param annotations found",
		},
	},
	{
		re: regexp.MustCompile(`@returns?\b`),
		whenMissing: &schema.Finding{
			Severity: schema.SeverityWarn,
			Message:  "No @returns annotations found",
		},
	},
}

// Metalsmith plugin convention signatures. Missing ones warn.
var metalsmithDetectors = []detector{
	{
		re: regexp.MustCompile(`module\.exports\s*=\s*(function|\w+\s*=>|\()|export\s+default\s+function`),
		whenFound: &schema.Finding{
			Severity: schema.SeverityPass,
			Message:  "Plugin exports a factory function",
		},
		whenMissing: &schema.Finding{
			Severity: schema.SeverityWarn,
			Message:  "Plugin does not appear to export a factory function",
			Detail:   "Metalsmith plugins conventionally export function(options) returning the plugin",
		},
	},
	{
		re: regexp.MustCompile(`\(\s*files\s*,\s*metalsmith\s*,\s*done\s*\)`),
		whenFound: &schema.Finding{
			Severity: schema.SeverityPass,
			Message:  "Standard plugin callback signature found",
		},
		whenMissing: &schema.Finding{
			Severity: schema.SeverityWarn,
			Message:  "Standard (files, metalsmith, done) callback signature not found",
		},
	},
	{
		re: regexp.MustCompile(`done\s*\(\s*(err|error)\b`),
		whenMissing: &schema.Finding{
			Severity: schema.SeverityWarn,
			Message:  "No done(err) error propagation found",
			Detail:   "Errors that are not passed to done() disappear silently from the build",
		},
	},
	{
		re: regexp.MustCompile(`\bdebug\s*\(`),
		whenMissing: &schema.Finding{
			Severity: schema.SeverityWarn,
			Message:  "No debug() instrumentation found",
			Detail:   "The debug package is the conventional way to trace metalsmith plugins",
		},
	},
}

// runDetectors evaluates a detector list against source text and stamps
// the category onto each finding.
func runDetectors(category schema.CheckName, detectors []detector, source string) []schema.Finding {
	var findings []schema.Finding
	for _, d := range detectors {
		matched := d.re.MatchString(source)
		if matched && d.whenFound != nil {
			f := *d.whenFound
			f.Category = category
			findings = append(findings, f)
		}
		if !matched && d.whenMissing != nil {
			f := *d.whenMissing
			f.Category = category
			findings = append(findings, f)
		}
	}
	return findings
}

// skippedSourceFinding is the graceful degradation for pattern categories
// when the package has no entry source at all.
func skippedSourceFinding(category schema.CheckName) []schema.Finding {
	return []schema.Finding{{
		Category: category,
		Severity: schema.SeverityInfo,
		Message:  "No entry source found; pattern analysis skipped",
	}}
}

// AnalyzeSecurity scans the entry source for dangerous call signatures.
func AnalyzeSecurity(t *Target) []schema.Finding {
	if !t.HasSource() {
		return skippedSourceFinding(schema.SecurityCheck)
	}

	findings := runDetectors(schema.SecurityCheck, securityDetectors, t.Source)
	if len(findings) == 0 {
		findings = append(findings, schema.Finding{
			Category: schema.SecurityCheck,
			Severity: schema.SeverityPass,
			Message:  "No dangerous calls detected",
		})
	}
	return findings
}

// AnalyzePerformance scans the entry source for performance anti-patterns.
func AnalyzePerformance(t *Target) []schema.Finding {
	if !t.HasSource() {
		return skippedSourceFinding(schema.PerformanceCheck)
	}

	findings := runDetectors(schema.PerformanceCheck, performanceDetectors, t.Source)

	if syncCallRe.MatchString(t.Source) && asyncMarkerRe.MatchString(t.Source) {
		call := syncCallRe.FindStringSubmatch(t.Source)
		findings = append(findings, schema.Finding{
			Category: schema.PerformanceCheck,
			Severity: schema.SeverityFail,
			Message:  "Synchronous blocking call in an async code path (" + call[1] + ")",
			Detail:   "Blocking the event loop stalls every concurrent build step",
		})
	}

	if len(findings) == 0 {
		findings = append(findings, schema.Finding{
			Category: schema.PerformanceCheck,
			Severity: schema.SeverityPass,
			Message:  "No performance anti-patterns detected",
		})
	}
	return findings
}

// AnalyzeJSDoc checks documentation annotations in the entry source.
func AnalyzeJSDoc(t *Target) []schema.Finding {
	if !t.HasSource() {
		return skippedSourceFinding(schema.JSDocCheck)
	}

	findings := runDetectors(schema.JSDocCheck, jsdocDetectors, t.Source)
	if len(findings) == 0 {
		findings = append(findings, schema.Finding{
			Category: schema.JSDocCheck,
			Severity: schema.SeverityPass,
			Message:  "JSDoc annotations present",
		})
	}
	return findings
}

// AnalyzeMetalsmith checks metalsmith plugin conventions in the entry source.
func AnalyzeMetalsmith(t *Target) []schema.Finding {
	if !t.HasSource() {
		return skippedSourceFinding(schema.MetalsmithCheck)
	}
	return runDetectors(schema.MetalsmithCheck, metalsmithDetectors, t.Source)
}

// AnalyzeDocs checks README presence and its required sections.
func AnalyzeDocs(t *Target, sections []string) []schema.Finding {
	if t.ReadmeErr != nil {
		return []schema.Finding{{
			Category: schema.DocsCheck,
			Severity: schema.SeverityFail,
			Message:  "Could not read README.md",
			Detail:   t.ReadmeErr.Error(),
		}}
	}
	if t.Readme == "" {
		return []schema.Finding{{
			Category: schema.DocsCheck,
			Severity: schema.SeverityFail,
			Message:  "Missing README.md",
		}}
	}

	var findings []schema.Finding
	lower := strings.ToLower(t.Readme)
	for _, section := range sections {
		if strings.Contains(lower, strings.ToLower(section)) {
			findings = append(findings, schema.Finding{
				Category: schema.DocsCheck,
				Severity: schema.SeverityPass,
				Message:  "Documentation section present: " + section,
			})
		} else {
			findings = append(findings, schema.Finding{
				Category: schema.DocsCheck,
				Severity: schema.SeverityFail,
				Message:  "Missing documentation section: " + section,
			})
		}
	}

	if !strings.Contains(t.Readme, "```") {
		findings = append(findings, schema.Finding{
			Category: schema.DocsCheck,
			Severity: schema.SeverityWarn,
			Message:  "README has no fenced code examples",
		})
	}

	return findings
}

// AnalyzePackageManifest checks package.json conventions. A missing or
// malformed manifest fails the check; weaker conventions only warn.
func AnalyzePackageManifest(t *Target) []schema.Finding {
	if t.ManifestErr != nil {
		return []schema.Finding{{
			Category: schema.PackageJSONCheck,
			Severity: schema.SeverityFail,
			Message:  "Could not load package.json",
			Detail:   t.ManifestErr.Error(),
		}}
	}
	m := t.Manifest

	var findings []schema.Finding

	addRequired := func(ok bool, field string) {
		if ok {
			findings = append(findings, schema.Finding{
				Category: schema.PackageJSONCheck,
				Severity: schema.SeverityPass,
				Message:  "Manifest declares " + field,
			})
		} else {
			findings = append(findings, schema.Finding{
				Category: schema.PackageJSONCheck,
				Severity: schema.SeverityFail,
				Message:  "Manifest missing required field: " + field,
			})
		}
	}
	addRecommended := func(ok bool, field, hint string) {
		if ok {
			findings = append(findings, schema.Finding{
				Category: schema.PackageJSONCheck,
				Severity: schema.SeverityPass,
				Message:  "Manifest declares " + field,
			})
		} else {
			findings = append(findings, schema.Finding{
				Category: schema.PackageJSONCheck,
				Severity: schema.SeverityWarn,
				Message:  "Manifest missing " + field,
				Detail:   hint,
			})
		}
	}

	addRequired(m.Name != "", "name")
	addRequired(m.Version != "", "version")
	addRecommended(m.Description != "", "description", "A one-line description improves npm search results")
	addRecommended(m.License != "", "license", "Consumers cannot legally use an unlicensed package")
	addRecommended(m.HasRepository(), "repository", "")
	addRecommended(len(m.Keywords) > 0, "keywords", "")

	if m.Name != "" && !strings.HasPrefix(m.Name, "metalsmith-") {
		findings = append(findings, schema.Finding{
			Category: schema.PackageJSONCheck,
			Severity: schema.SeverityWarn,
			Message:  "Package name does not follow the metalsmith-* convention",
		})
	}

	return findings
}
