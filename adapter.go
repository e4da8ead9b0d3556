// FILE: configurator/adapter.go
package configurator

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"gopkg.in/ini.v1"
)

// Format identifies the syntax of a configuration file.
type Format string

const (
	FormatINI  Format = "ini"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Adapter is the uniform section/option view of a configuration file.
// Callers program against Adapter and pick a concrete format once, at construction.
//
// An Adapter starts empty and is populated by Read, Set or AddSection.
// Adapters are not safe for concurrent use; callers sharing one must lock externally.
type Adapter interface {
	// Read loads the file at path, replacing the current document on success.
	Read(path string) error
	// ReadWithOptions is Read with an optional text encoding override.
	ReadWithOptions(path string, opts ReadOptions) error

	// Get returns the option's value as a string, or a *MissingOptionError.
	Get(section, option string) (string, error)
	// GetWithOptions is Get with fallback and interpolation controls.
	GetWithOptions(section, option string, opts GetOptions) (string, error)

	// HasSection reports whether the section exists.
	HasSection(section string) bool
	// AddSection creates an empty section.
	AddSection(section string) error
	// HasOption reports whether the option exists in an existing section.
	HasOption(section, option string) bool
	// Set stores value under option, creating the section if needed.
	// A nil value stores an empty option.
	Set(section, option string, value any) error

	// Write serializes the document to w with spaces around delimiters.
	Write(w io.Writer) error
	// WriteWithOptions serializes the document to w.
	WriteWithOptions(w io.Writer, opts WriteOptions) error

	// Format reports the adapter's file format.
	Format() Format
	// Sections lists section names in document order.
	Sections() []string
	// Options lists the options of a section in document order, nil if absent.
	Options(section string) []string
	// RemoveSection deletes a section and reports whether it existed.
	RemoveSection(section string) bool
	// RemoveOption deletes an option and reports whether it existed.
	RemoveOption(section, option string) bool
}

// ReadOptions configures Read.
type ReadOptions struct {
	// Encoding names the file's text encoding (e.g. "latin1", "utf-16le").
	// Empty means UTF-8.
	Encoding string
}

// GetOptions configures Get.
type GetOptions struct {
	// Fallback is returned when the option is absent. Nil means no fallback.
	Fallback *string

	// Raw disables value interpolation (INI only).
	Raw bool

	// Vars overlays extra values for interpolation and lookup (INI only).
	Vars map[string]string
}

// Fallback returns a pointer to v for use as GetOptions.Fallback.
func Fallback(v string) *string {
	return &v
}

// WriteOptions configures Write.
type WriteOptions struct {
	// SpaceAroundDelimiters writes "key = value" instead of "key=value",
	// and ": " instead of ":" between JSON keys and values.
	SpaceAroundDelimiters bool
}

// DefaultWriteOptions returns the options used by Write.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{SpaceAroundDelimiters: true}
}

// Option configures an adapter at construction.
type Option func(*adapterOptions)

type adapterOptions struct {
	logger       zerolog.Logger
	iniLoad      ini.LoadOptions
	tomlLiterals bool
}

func newAdapterOptions(opts []Option) adapterOptions {
	o := adapterOptions{
		logger: zerolog.Nop(),
		iniLoad: ini.LoadOptions{
			AllowBooleanKeys: true,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithLogger sets the logger adapters use for debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *adapterOptions) {
		o.logger = logger
	}
}

// WithINILoadOptions replaces the ini.v1 load options used by the INI adapter.
func WithINILoadOptions(load ini.LoadOptions) Option {
	return func(o *adapterOptions) {
		o.iniLoad = load
	}
}

// WithTOMLLiterals makes the TOML writer encode values as TOML literals
// (quoted strings, typed numbers) instead of their bare string form.
func WithTOMLLiterals() Option {
	return func(o *adapterOptions) {
		o.tomlLiterals = true
	}
}

// New returns an empty adapter for the given format.
func New(format Format, opts ...Option) (Adapter, error) {
	switch format {
	case FormatINI:
		return NewINI(opts...), nil
	case FormatJSON:
		return NewJSON(opts...), nil
	case FormatTOML:
		return NewTOML(opts...), nil
	case FormatYAML:
		return NewYAML(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatINI, FormatJSON, FormatTOML, FormatYAML}
}
