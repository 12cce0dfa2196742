// Package analyzer inspects a plugin package's file tree, manifest and
// source text. Detection is deliberately line/regex-based: it tolerates
// false negatives and never blocks on parse errors.
package analyzer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/plugcheck/plugcheck/internal/manifest"
	"github.com/plugcheck/plugcheck/internal/ruleset"
)

// Target bundles the artifacts of one package that analyzers consume.
// It is loaded once per validation run and read-only afterward. Artifacts
// that could not be read carry their error so the owning check can degrade
// to a finding without failing the whole run.
type Target struct {
	Dir string

	Manifest    *manifest.Manifest
	ManifestErr error

	Source     string // concatenated entry point source, "" when absent
	SourcePath string // first entry point that resolved, "" when absent

	Readme    string
	ReadmeErr error
}

// LoadTarget reads the package artifacts for one validation run.
// Missing files are not errors here; each check decides how absence
// is scored.
func LoadTarget(dir string, rules ruleset.Rules) *Target {
	t := &Target{Dir: dir}

	t.Manifest, t.ManifestErr = manifest.Load(dir)

	for _, entry := range rules.EntryPoints {
		path := filepath.Join(dir, filepath.FromSlash(entry))
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		t.Source = string(data)
		t.SourcePath = entry
		break
	}

	readmePath := filepath.Join(dir, "README.md")
	data, err := os.ReadFile(readmePath)
	switch {
	case err == nil:
		t.Readme = string(data)
	case !os.IsNotExist(err):
		t.ReadmeErr = err
	}

	return t
}

// HasSource reports whether any entry point source was found.
func (t *Target) HasSource() bool {
	return t.SourcePath != ""
}

// entryExists checks a required/recommended manifest entry against the tree.
// Entries with a trailing slash must be directories.
func entryExists(dir, entry string) bool {
	wantDir := strings.HasSuffix(entry, "/")
	path := filepath.Join(dir, filepath.FromSlash(strings.TrimSuffix(entry, "/")))
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if wantDir {
		return info.IsDir()
	}
	return true
}
