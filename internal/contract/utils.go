package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/plugcheck/plugcheck/schema"
)

// Color variables for console output.
var (
	FailColor      = color.New(color.FgRed, color.Bold)    // failColor represents a blocking problem.
	WarnColor      = color.New(color.FgYellow)             // warnColor represents standard caution, not bold.
	PassColor      = color.New(color.FgGreen)              // passColor represents a satisfied rule.
	InfoColor      = color.New(color.FgCyan)               // infoColor represents an informational signal.
	ExcellentColor = color.New(color.FgGreen, color.Bold)  // excellentColor for the top health tier.
	PoorColor      = color.New(color.FgRed, color.Bold)    // poorColor for the bottom health tier.
	MidTierColor   = color.New(color.FgYellow, color.Bold) // midTierColor for everything in between.
)

// GetPlainSeverityLabel returns the plain text label for a severity.
// This is the core logic used for JSON, markdown, and table printing.
func GetPlainSeverityLabel(sev schema.Severity) string {
	switch sev {
	case schema.SeverityFail:
		return "FAIL"
	case schema.SeverityWarn:
		return "WARN"
	case schema.SeverityInfo:
		return "INFO"
	default:
		return "PASS"
	}
}

// GetColorSeverityLabel returns a colored severity label for console output.
// It uses GetPlainSeverityLabel to determine the string, and then applies
// the appropriate color.
func GetColorSeverityLabel(sev schema.Severity) string {
	text := GetPlainSeverityLabel(sev)

	switch sev {
	case schema.SeverityFail:
		return FailColor.Sprint(text)
	case schema.SeverityWarn:
		return WarnColor.Sprint(text)
	case schema.SeverityInfo:
		return InfoColor.Sprint(text)
	default: // pass
		return PassColor.Sprint(text)
	}
}

// GetColorHealthLabel returns a colored health tier label for console output.
func GetColorHealthLabel(tier schema.HealthTier) string {
	switch tier {
	case schema.ExcellentHealth:
		return ExcellentColor.Sprint(string(tier))
	case schema.PoorHealth:
		return PoorColor.Sprint(string(tier))
	default:
		return MidTierColor.Sprint(string(tier))
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for audit history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".plugcheck_history.db"
	}
	return filepath.Join(homeDir, ".plugcheck_history.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so there is room for the "..." prefix and at least
// one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
