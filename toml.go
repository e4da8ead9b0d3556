// File: configurator/toml.go
package configurator

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// TOMLAdapter reads full TOML and writes a minimal flat-table subset:
// [section] headers followed by option = value lines.
//
// Values are written in their bare string form unless WithTOMLLiterals is set,
// so by default only documents whose values are TOML literals (numbers,
// booleans) read back unchanged. Nested tables inside a section cannot be written.
type TOMLAdapter struct {
	nestedDocument
	literals bool
}

var _ Adapter = (*TOMLAdapter)(nil)

// NewTOML returns an empty TOML adapter.
func NewTOML(opts ...Option) *TOMLAdapter {
	o := newAdapterOptions(opts)
	return &TOMLAdapter{
		nestedDocument: newNestedDocument(FormatTOML, o.logger),
		literals:       o.tomlLiterals,
	}
}

// Read loads a TOML file.
func (a *TOMLAdapter) Read(path string) error {
	return a.ReadWithOptions(path, ReadOptions{})
}

// ReadWithOptions loads a TOML file, decoding it from opts.Encoding first.
func (a *TOMLAdapter) ReadWithOptions(path string, opts ReadOptions) error {
	data, err := readFile(path, opts.Encoding)
	if err != nil {
		return err
	}

	fileConfig := make(map[string]any)
	meta, err := toml.Decode(string(data), &fileConfig)
	if err != nil {
		return &ParseError{Path: path, Format: FormatTOML, Err: err}
	}

	// Keep the file's key order
	order := make(keyOrder)
	for i, key := range meta.Keys() {
		order[strings.Join(key, "\x00")] = i
	}
	a.replace(path, orderedFromMap(fileConfig, nil, order))
	return nil
}

// Write serializes the document with spaces around "=".
func (a *TOMLAdapter) Write(w io.Writer) error {
	return a.WriteWithOptions(w, DefaultWriteOptions())
}

// WriteWithOptions serializes the document as flat TOML tables.
// Top-level plain values come first so they stay outside any table.
// Each table is followed by a blank line.
func (a *TOMLAdapter) WriteWithOptions(w io.Writer, opts WriteOptions) error {
	delimiter := "="
	if opts.SpaceAroundDelimiters {
		delimiter = " = "
	}

	var buf bytes.Buffer
	var sections []string
	for _, key := range a.data.Keys() {
		value, _ := a.data.Get(key)
		if _, ok := asSection(value); ok {
			sections = append(sections, key)
			continue
		}
		if err := a.writeLine(&buf, key, delimiter, value); err != nil {
			return err
		}
	}
	if buf.Len() > 0 && len(sections) > 0 {
		buf.WriteByte('\n')
	}

	for _, section := range sections {
		options, _ := a.section(section)
		header, err := a.key(section)
		if err != nil {
			return fmt.Errorf("section '%s': %w", section, err)
		}
		fmt.Fprintf(&buf, "[%s]\n", header)
		for _, option := range options.Keys() {
			value, _ := options.Get(option)
			if err := a.writeLine(&buf, option, delimiter, value); err != nil {
				return fmt.Errorf("section '%s': %w", section, err)
			}
		}
		buf.WriteByte('\n')
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: failed to write TOML config: %w", ErrIO, err)
	}
	a.log.Debug().Int("bytes", buf.Len()).Bool("literals", a.literals).Msg("configuration written")
	return nil
}

func (a *TOMLAdapter) writeLine(buf *bytes.Buffer, option, delimiter string, value any) error {
	if containsMapping(value) {
		return fmt.Errorf("%w: option '%s' holds a nested table", ErrUnsupportedValue, option)
	}

	text := stringify(value)
	if a.literals {
		var err error
		if text, err = tomlLiteral(value); err != nil {
			return fmt.Errorf("option '%s': %w", option, err)
		}
	}

	name, err := a.key(option)
	if err != nil {
		return fmt.Errorf("option '%s': %w", option, err)
	}
	buf.WriteString(name)
	buf.WriteString(delimiter)
	buf.WriteString(text)
	buf.WriteByte('\n')
	return nil
}

// key quotes names that are not bare keys when writing literals.
func (a *TOMLAdapter) key(name string) (string, error) {
	if !a.literals || isValidKeySegment(name) {
		return name, nil
	}
	return tomlKey(name)
}

// tomlKey quotes name the way the TOML encoder writes keys.
func tomlKey(name string) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(map[string]string{name: ""}); err != nil {
		return "", fmt.Errorf("%w: key %q: %w", ErrUnsupportedValue, name, err)
	}

	quoted, ok := strings.CutSuffix(strings.TrimSpace(buf.String()), ` = ""`)
	if !ok || strings.Contains(quoted, "\n") {
		return "", fmt.Errorf("%w: key %q cannot be written as a TOML key", ErrUnsupportedValue, name)
	}
	return quoted, nil
}

// tomlLiteral encodes a single value through the TOML encoder.
func tomlLiteral(value any) (string, error) {
	if value == nil {
		return `""`, nil
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(map[string]any{"v": value}); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}

	line := strings.TrimSpace(buf.String())
	literal, ok := strings.CutPrefix(line, "v = ")
	if !ok || strings.Contains(literal, "\n") {
		return "", fmt.Errorf("%w: %T cannot be written as a single TOML value", ErrUnsupportedValue, value)
	}
	return literal, nil
}
