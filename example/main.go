// FILE: configurator/example/main.go
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/HEROgold/configurator"
)

const iniContent = `[DEFAULT]
base = /srv/app

[server]
host = localhost
port = 8080
log_dir = %(base)s/logs

[feature_flags]
beta = true
`

func main() {
	dir, err := os.MkdirTemp("", "configurator-example")
	if err != nil {
		log.Fatalf("Failed to create work dir: %v", err)
	}
	defer os.RemoveAll(dir)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)

	// =========================================================================
	// PART 1: READ AN INI FILE
	// =========================================================================
	iniPath := filepath.Join(dir, "app.ini")
	if err := os.WriteFile(iniPath, []byte(iniContent), 0644); err != nil {
		log.Fatalf("Failed to write example file: %v", err)
	}

	cfg, err := configurator.Open(iniPath, configurator.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to open config: %v", err)
	}

	host, _ := cfg.Get("server", "host")
	logDir, _ := cfg.Get("server", "log_dir")
	rawLogDir, _ := cfg.GetWithOptions("server", "log_dir", configurator.GetOptions{Raw: true})
	fmt.Printf("server.host    = %s\n", host)
	fmt.Printf("server.log_dir = %s (raw: %s)\n", logDir, rawLogDir)

	// DEFAULT options are visible from every section
	base, _ := cfg.Get("feature_flags", "base")
	fmt.Printf("feature_flags.base = %s\n", base)

	// =========================================================================
	// PART 2: FALLBACKS AND MISSING OPTIONS
	// =========================================================================
	timeout, _ := cfg.GetWithOptions("server", "timeout", configurator.GetOptions{
		Fallback: configurator.Fallback("30s"),
	})
	fmt.Printf("server.timeout = %s (fallback)\n", timeout)

	if _, err := cfg.Get("server", "timeout"); errors.Is(err, configurator.ErrMissingOption) {
		fmt.Printf("without fallback: %v\n", err)
	}

	// =========================================================================
	// PART 3: MUTATE AND CONVERT
	// =========================================================================
	if err := cfg.Set("server", "port", 9090); err != nil {
		log.Fatalf("Failed to set port: %v", err)
	}

	for _, format := range []configurator.Format{configurator.FormatJSON, configurator.FormatTOML, configurator.FormatYAML} {
		dst, err := configurator.New(format, configurator.WithLogger(logger))
		if err != nil {
			log.Fatalf("Failed to create %s adapter: %v", format, err)
		}
		if err := configurator.Copy(dst, cfg); err != nil {
			log.Fatalf("Failed to copy into %s: %v", format, err)
		}

		path := filepath.Join(dir, "app."+string(format))
		if err := configurator.SaveFile(dst, path, configurator.DefaultWriteOptions()); err != nil {
			log.Fatalf("Failed to save %s: %v", path, err)
		}

		data, _ := os.ReadFile(path)
		fmt.Printf("\n--- %s ---\n%s", filepath.Base(path), data)
	}

	// =========================================================================
	// PART 4: REGISTERED DEFAULTS
	// =========================================================================
	settingsPath := filepath.Join(dir, "settings.toml")
	registry := configurator.NewRegistry(configurator.NewTOML(configurator.WithLogger(logger)), settingsPath,
		configurator.WithWriteOnEdit(),
		configurator.WithRegistryLogger(logger),
	)
	for _, setting := range []configurator.Setting{
		{Section: "server", Option: "workers", Default: 4},
		{Section: "server", Option: "timeout", Default: "30s"},
	} {
		if err := registry.Register(setting.Section, setting.Option, setting.Default); err != nil {
			log.Fatalf("Failed to register %s.%s: %v", setting.Section, setting.Option, err)
		}
	}

	// The file does not exist yet, so Load writes it with every default
	if err := registry.Load(); err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if err := registry.Set("server", "workers", 8); err != nil {
		log.Fatalf("Failed to set workers: %v", err)
	}

	values, err := registry.Values("server")
	if err != nil {
		log.Fatalf("Failed to read settings: %v", err)
	}
	fmt.Printf("\nserver settings: workers=%s timeout=%s\n", values["workers"], values["timeout"])
}
