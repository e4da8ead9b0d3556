// File: configurator/doc.go

// Package configurator reads, queries, mutates and writes configuration files
// through one section/option interface, whatever the file syntax.
//
// Supported formats:
//   - INI, delegated to gopkg.in/ini.v1, with %(name)s interpolation and DEFAULT fallback
//   - JSON, an object of objects, key order preserved
//   - TOML, full read through BurntSushi/toml, flat [section] + key = value write
//   - YAML, a mapping of mappings through gopkg.in/yaml.v3
//
// Every adapter implements Adapter, so callers choose a format once and
// program against the interface afterwards.
//
// Quick Start:
//
//	cfg, err := configurator.Open("app.ini")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	port, err := cfg.Get("server", "port")
//	timeout, _ := cfg.GetWithOptions("server", "timeout", configurator.GetOptions{
//	    Fallback: configurator.Fallback("30"),
//	})
//
//	cfg.Set("server", "host", "0.0.0.0")
//	if err := configurator.SaveFile(cfg, "app.ini", configurator.DefaultWriteOptions()); err != nil {
//	    log.Fatal(err)
//	}
//
// Values:
// Get always returns strings. The JSON, TOML and YAML adapters keep native
// values internally (numbers, booleans, arrays) and stringify them on Get;
// nil reads back as "".
//
// Errors:
// Missing files match ErrNotFound, unreadable files ErrIO, malformed content
// ErrParse (as *ParseError), and absent options without a fallback
// ErrMissingOption (as *MissingOptionError). Use errors.Is to test the kind.
//
// Registered defaults:
// A Registry wraps an adapter and its file path. Options registered with a
// default are written into the document when missing, on Load or on first Get.
// WithWriteOnEdit saves the file after each such change.
//
// Concurrency:
// Adapters hold unsynchronized state. Share one across goroutines only
// behind your own lock, or through a Registry.
package configurator
