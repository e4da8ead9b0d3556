// FILE: configurator/cmd/confkit/root.go
package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/HEROgold/configurator"
)

// errAbsent makes `has` exit non-zero without printing anything.
var errAbsent = errors.New("absent")

// app carries the persistent flags and the state derived from them.
type app struct {
	format     string
	encoding   string
	compact    bool
	debug      bool
	literals   bool
	configPath string

	discovery configurator.DiscoveryOptions
	log       zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{
		discovery: configurator.DefaultDiscoveryOptions(appName),
		log:       zerolog.Nop(),
	}
	a.discovery.CLIFlag = ""

	root := &cobra.Command{
		Use:           "confkit",
		Short:         "Read, query, edit and convert configuration files",
		Long:          `confkit works on INI, JSON, TOML and YAML files through one section/option model.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.format, "format", "f", "", "File format (ini, json, toml, yaml); detected when empty")
	flags.StringVarP(&a.encoding, "encoding", "e", "", "Text encoding of input files (e.g. latin1, utf-16le)")
	flags.BoolVar(&a.compact, "compact", false, "Write without spaces around delimiters")
	flags.BoolVar(&a.literals, "toml-literals", false, "Write TOML values as typed literals")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&a.configPath, "config", "", "confkit settings file (default: discovered confkit.*)")

	root.AddCommand(
		newGetCmd(a),
		newSetCmd(a),
		newSectionsCmd(a),
		newOptionsCmd(a),
		newHasCmd(a),
		newDumpCmd(a),
		newConvertCmd(a),
	)
	return root
}

// init loads settings, applies them under any explicitly set flags and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	s, path, err := loadSettings(a.configPath, a.discovery)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("encoding") && s.Encoding != "" {
		a.encoding = s.Encoding
	}
	if !flags.Changed("compact") {
		a.compact = a.compact || s.Compact
	}
	if !flags.Changed("debug") {
		a.debug = a.debug || s.Debug
	}
	if !flags.Changed("toml-literals") {
		a.literals = a.literals || s.Literals
	}

	a.log = newLogger(cmd.ErrOrStderr(), a.debug)
	if path != "" {
		a.log.Debug().Str("path", path).Msg("settings loaded")
	}
	return nil
}

func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func (a *app) adapterOptions() []configurator.Option {
	opts := []configurator.Option{configurator.WithLogger(a.log)}
	if a.literals {
		opts = append(opts, configurator.WithTOMLLiterals())
	}
	return opts
}

func (a *app) readOptions() configurator.ReadOptions {
	return configurator.ReadOptions{Encoding: a.encoding}
}

func (a *app) writeOptions() configurator.WriteOptions {
	return configurator.WriteOptions{SpaceAroundDelimiters: !a.compact}
}

// formatFor resolves the format for path from --format or the extension.
func (a *app) formatFor(path string) (configurator.Format, error) {
	if a.format != "" {
		return configurator.Format(a.format), nil
	}
	if format := configurator.DetectFormat(path); format != "" {
		return format, nil
	}
	return "", fmt.Errorf("%w: cannot tell the format of '%s', use --format", configurator.ErrUnsupportedFormat, path)
}

// open reads path into an adapter.
func (a *app) open(path string) (configurator.Adapter, error) {
	if a.format == "" {
		return configurator.OpenWithOptions(path, a.readOptions(), a.adapterOptions()...)
	}
	cfg, err := configurator.New(configurator.Format(a.format), a.adapterOptions()...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ReadWithOptions(path, a.readOptions()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openOrCreate reads path, or returns an empty adapter when the file does not exist yet.
func (a *app) openOrCreate(path string) (configurator.Adapter, error) {
	cfg, err := a.open(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, configurator.ErrNotFound) {
		return nil, err
	}

	format, ferr := a.formatFor(path)
	if ferr != nil {
		return nil, ferr
	}
	a.log.Debug().Str("path", path).Str("format", string(format)).Msg("creating new file")
	return configurator.New(format, a.adapterOptions()...)
}
