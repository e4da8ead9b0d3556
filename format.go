// File: configurator/format.go
package configurator

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
)

// DetectFormat determines format from file extension.
// It returns "" when the extension does not identify a format.
func DetectFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".ini", ".cfg":
		return FormatINI
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".conf", ".config":
		// Try to detect from content
		return ""
	default:
		return ""
	}
}

// DetectFormatFromContent attempts to detect format by parsing.
// It returns "" when nothing parses.
func DetectFormatFromContent(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ""
	}

	// Try JSON first (strict format)
	if trimmed[0] == '{' && json.Valid(trimmed) {
		return FormatJSON
	}

	// TOML rejects bare words as values, which rules out most INI files
	var tomlTest map[string]any
	if _, err := toml.Decode(string(data), &tomlTest); err == nil {
		return FormatTOML
	}

	// YAML only counts when the root is a mapping; almost any text is a valid YAML scalar
	if _, err := parseYAMLDocument(data); err == nil {
		return FormatYAML
	}

	// INI last, it accepts nearly anything line oriented
	if _, err := ini.Load(data); err == nil {
		return FormatINI
	}

	return ""
}
