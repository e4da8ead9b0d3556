// FILE: configurator/errors.go
package configurator

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by adapter operations.
var (
	// ErrNotFound indicates the configuration file doesn't exist.
	ErrNotFound = errors.New("config file not found")

	// ErrIO indicates the configuration file could not be read or written.
	ErrIO = errors.New("config file I/O failure")

	// ErrParse indicates malformed content for the adapter's format.
	// Parse failures are reported as *ParseError, which matches ErrParse.
	ErrParse = errors.New("config parse failure")

	// ErrMissingOption indicates the section or option is absent and no fallback was given.
	// Reported as *MissingOptionError, which matches ErrMissingOption.
	ErrMissingOption = errors.New("missing option")

	// ErrDuplicateSection indicates AddSection on a section that already exists (INI only).
	ErrDuplicateSection = errors.New("section already exists")

	// ErrUnsupportedValue indicates a value the format's writer cannot represent.
	ErrUnsupportedValue = errors.New("value not supported by format")

	// ErrUnsupportedFormat indicates an unknown or undetectable file format.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrUnknownEncoding indicates a text encoding name that could not be resolved.
	ErrUnknownEncoding = errors.New("unknown text encoding")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Format is the format the content was parsed as.
	Format Format
	// Err is the underlying parser error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s config file '%s': %v", strings.ToUpper(string(e.Format)), e.Path, e.Err)
}

// Unwrap returns the underlying parser error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ErrParse as a match so callers can test the error kind.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// MissingOptionError is returned by Get when the option cannot be resolved.
type MissingOptionError struct {
	Section string
	Option  string
}

// Error implements the error interface.
func (e *MissingOptionError) Error() string {
	return fmt.Sprintf("missing option '%s' in section '%s'", e.Option, e.Section)
}

// Is reports ErrMissingOption as a match.
func (e *MissingOptionError) Is(target error) bool {
	return target == ErrMissingOption
}
