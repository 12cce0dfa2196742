package schema

// Custom string types for type safety.
type (
	// CheckName represents one named dimension of quality evaluation.
	CheckName string

	// Severity represents the weight of a single finding.
	Severity string

	// OutputMode represents the format of the output.
	OutputMode string

	// HealthTier represents the discrete qualitative rating of a package.
	HealthTier string

	// DatabaseBackend represents the database backend for audit history.
	DatabaseBackend string
)

// All checks supported.
const (
	StructureCheck   CheckName = "structure"
	DocsCheck        CheckName = "docs"
	PackageJSONCheck CheckName = "package-json"
	SecurityCheck    CheckName = "security"
	PerformanceCheck CheckName = "performance"
	JSDocCheck       CheckName = "jsdoc"
	MetalsmithCheck  CheckName = "metalsmith"
	TestsCheck       CheckName = "tests"
	CoverageCheck    CheckName = "coverage"
)

// All finding severities supported.
const (
	SeverityPass Severity = "pass"
	SeverityWarn Severity = "warn"
	SeverityFail Severity = "fail"
	SeverityInfo Severity = "info"
)

// All output modes supported.
const (
	TextOut     OutputMode = "text" // default
	JSONOut     OutputMode = "json"
	MarkdownOut OutputMode = "markdown"
)

// All health tiers supported, best to worst.
const (
	ExcellentHealth HealthTier = "EXCELLENT"
	GoodHealth      HealthTier = "GOOD"
	FairHealth      HealthTier = "FAIR"
	NeedsWorkHealth HealthTier = "NEEDS IMPROVEMENT"
	PoorHealth      HealthTier = "POOR"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllChecks returns every registered check name in presentation order.
var AllChecks = []CheckName{
	StructureCheck,
	DocsCheck,
	PackageJSONCheck,
	SecurityCheck,
	PerformanceCheck,
	JSDocCheck,
	MetalsmithCheck,
	TestsCheck,
	CoverageCheck,
}

// ValidChecks lists all valid check names.
var ValidChecks = map[CheckName]struct{}{
	StructureCheck:   {},
	DocsCheck:        {},
	PackageJSONCheck: {},
	SecurityCheck:    {},
	PerformanceCheck: {},
	JSDocCheck:       {},
	MetalsmithCheck:  {},
	TestsCheck:       {},
	CoverageCheck:    {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:     {},
	JSONOut:     {},
	MarkdownOut: {},
}

// ValidHistoryBackends lists all valid history backends.
var ValidHistoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Health tier score thresholds. Tune tiers here, never in analyzer code.
const (
	ExcellentThreshold = 90.0
	GoodThreshold      = 75.0
	FairThreshold      = 60.0
	NeedsWorkThreshold = 40.0
)

// HealthForScore maps a 0-100 score onto a discrete health tier.
func HealthForScore(score float64) HealthTier {
	switch {
	case score >= ExcellentThreshold:
		return ExcellentHealth
	case score >= GoodThreshold:
		return GoodHealth
	case score >= FairThreshold:
		return FairHealth
	case score >= NeedsWorkThreshold:
		return NeedsWorkHealth
	default:
		return PoorHealth
	}
}
