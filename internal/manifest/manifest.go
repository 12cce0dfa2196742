// Package manifest reads the target package's manifest file (package.json).
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the manifest file every plugin package carries.
const FileName = "package.json"

// Manifest holds the fields of package.json that the engine consumes.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description"`
	Main            string            `json:"main"`
	License         string            `json:"license"`
	Keywords        []string          `json:"keywords"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`

	// Repository may be a plain string or a {type,url} object.
	Repository repositoryField `json:"repository"`
}

type repositoryField struct {
	URL string
}

// UnmarshalJSON accepts both the string and the object form of "repository".
func (r *repositoryField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.URL = s
		return nil
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.URL = obj.URL
	return nil
}

// HasRepository reports whether any repository reference is declared.
func (m *Manifest) HasRepository() bool {
	return m.Repository.URL != ""
}

// Script returns the named script, if declared.
func (m *Manifest) Script(name string) (string, bool) {
	s, ok := m.Scripts[name]
	return s, ok
}

// HasDependency reports whether dep appears in dependencies or devDependencies.
func (m *Manifest) HasDependency(dep string) bool {
	if _, ok := m.Dependencies[dep]; ok {
		return true
	}
	_, ok := m.DevDependencies[dep]
	return ok
}

// Load reads and parses the manifest of the package at dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("malformed %s: %w", FileName, err)
	}
	return &m, nil
}
