// FILE: configurator/cmd/confkit/settings.go
package main

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/HEROgold/configurator"
)

const (
	appName         = "confkit"
	settingsSection = "confkit"
)

// settings are confkit's own defaults, read from the [confkit] section of a
// confkit.{toml,ini,json,yaml} file. Command-line flags override them.
type settings struct {
	Compact  bool   `toml:"compact"`
	Encoding string `toml:"encoding"`
	Debug    bool   `toml:"debug"`
	Literals bool   `toml:"toml_literals"`
}

// defaultSettings lists every option of the [confkit] section.
var defaultSettings = []configurator.Setting{
	{Option: "compact", Default: false},
	{Option: "encoding", Default: ""},
	{Option: "debug", Default: false},
	{Option: "toml_literals", Default: false},
}

// loadSettings reads settings from path, or from a discovered file when path is empty.
// Finding no file is not an error.
func loadSettings(path string, discovery configurator.DiscoveryOptions) (settings, string, error) {
	var s settings
	if path == "" {
		path = configurator.Discover(discovery)
		if path == "" {
			return s, "", nil
		}
	}

	cfg, err := configurator.Open(path)
	if err != nil {
		return s, path, fmt.Errorf("failed to load settings: %w", err)
	}

	registry := configurator.NewRegistry(cfg, path)
	for _, setting := range defaultSettings {
		if err := registry.Register(settingsSection, setting.Option, setting.Default); err != nil {
			return s, path, err
		}
	}
	values, err := registry.Values(settingsSection)
	if err != nil {
		return s, path, err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &s,
		TagName:          "toml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return s, path, fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	if err := decoder.Decode(values); err != nil {
		return s, path, fmt.Errorf("invalid settings in '%s': %w", path, err)
	}
	return s, path, nil
}
