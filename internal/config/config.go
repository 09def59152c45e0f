// Package config builds the immutable configuration snapshot the server
// runs with. The snapshot is constructed exactly once at startup and passed
// by value into every component; it is never re-read from disk.
package config

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
)

// DefaultConfigPath is the fixed project-relative location of the optional
// project configuration file.
const DefaultConfigPath = "context7.json"

// Snapshot holds the process-lifetime configuration. Fields are set once in
// Load and treated as read-only afterwards.
type Snapshot struct {
	DefaultLang       string              `json:"defaultLang"`
	DefaultVersion    string              `json:"defaultVersion"`
	SupportedLangs    []string            `json:"supportedLangs"`
	SupportedVersions map[string][]string `json:"supportedVersions"`
}

// Defaults returns the built-in configuration used when no project file is
// present or the file cannot be parsed.
func Defaults() Snapshot {
	return Snapshot{
		DefaultLang:    "python",
		DefaultVersion: "3.11",
		SupportedLangs: []string{"python"},
		SupportedVersions: map[string][]string{
			"python": {"3.11"},
		},
	}
}

// fileConfig mirrors Snapshot with pointer fields so a key that is absent
// from the document can be told apart from a key set to its zero value.
// Unknown keys are ignored by the decoder.
type fileConfig struct {
	DefaultLang       *string              `json:"defaultLang"`
	DefaultVersion    *string              `json:"defaultVersion"`
	SupportedLangs    *[]string            `json:"supportedLangs"`
	SupportedVersions *map[string][]string `json:"supportedVersions"`
}

// Load builds the configuration snapshot. It never fails: a missing file
// yields the built-in defaults, and an unreadable or unparsable file yields
// the defaults after a warning. When the file parses, each top-level key
// present in the document replaces the corresponding default wholesale
// (shallow merge): supportedVersions is swapped as a whole map, never
// merged per key.
func Load(path string, logger zerolog.Logger) Snapshot {
	snapshot := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("path", path).Msg("cannot read project config, using defaults")
		}
		return snapshot
	}

	var file fileConfig
	if err := json.Unmarshal(data, &file); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("invalid project config, using defaults")
		return snapshot
	}

	if file.DefaultLang != nil {
		snapshot.DefaultLang = *file.DefaultLang
	}
	if file.DefaultVersion != nil {
		snapshot.DefaultVersion = *file.DefaultVersion
	}
	if file.SupportedLangs != nil {
		snapshot.SupportedLangs = *file.SupportedLangs
	}
	if file.SupportedVersions != nil {
		snapshot.SupportedVersions = *file.SupportedVersions
	}

	return snapshot
}
