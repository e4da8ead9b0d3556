// File: configurator/json.go
package configurator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iancoleman/orderedmap"
)

const jsonIndent = "    "

// JSONAdapter treats a JSON object-of-objects as sections of options.
// Flat documents (top-level plain values) are served too: a Get whose section
// is a plain value returns that value.
type JSONAdapter struct {
	nestedDocument
}

var _ Adapter = (*JSONAdapter)(nil)

// NewJSON returns an empty JSON adapter.
func NewJSON(opts ...Option) *JSONAdapter {
	o := newAdapterOptions(opts)
	return &JSONAdapter{nestedDocument: newNestedDocument(FormatJSON, o.logger)}
}

// Read loads a JSON file.
func (a *JSONAdapter) Read(path string) error {
	return a.ReadWithOptions(path, ReadOptions{})
}

// ReadWithOptions loads a JSON file, decoding it from opts.Encoding first.
func (a *JSONAdapter) ReadWithOptions(path string, opts ReadOptions) error {
	data, err := readFile(path, opts.Encoding)
	if err != nil {
		return err
	}

	doc, err := parseJSONDocument(data)
	if err != nil {
		return &ParseError{Path: path, Format: FormatJSON, Err: err}
	}
	a.replace(path, doc)
	return nil
}

// parseJSONDocument decodes data into ordered maps. Key order comes from
// orderedmap; numbers are taken from a second UseNumber decode so they keep
// every digit of the source.
func parseJSONDocument(data []byte) (*orderedmap.OrderedMap, error) {
	doc := newOrderedMap()
	if err := doc.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	if doc.Values() == nil {
		return nil, errors.New("document root must be an object")
	}
	normalizeMap(doc)

	var exact map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&exact); err != nil {
		return nil, err
	}
	restoreNumbers(doc, exact)
	return doc, nil
}

// restoreNumbers swaps the float64 numbers of m for the json.Number found at
// the same place in exact.
func restoreNumbers(m *orderedmap.OrderedMap, exact map[string]any) {
	for _, key := range m.Keys() {
		value, _ := m.Get(key)
		m.Set(key, exactNumber(value, exact[key]))
	}
}

func exactNumber(value, exact any) any {
	switch v := value.(type) {
	case *orderedmap.OrderedMap:
		if e, ok := exact.(map[string]any); ok {
			restoreNumbers(v, e)
		}
	case []any:
		if e, ok := exact.([]any); ok && len(e) == len(v) {
			for i := range v {
				v[i] = exactNumber(v[i], e[i])
			}
		}
	case float64:
		if n, ok := exact.(json.Number); ok {
			return n
		}
	}
	return value
}

// Write serializes the document as indented JSON with spaced separators.
func (a *JSONAdapter) Write(w io.Writer) error {
	return a.WriteWithOptions(w, DefaultWriteOptions())
}

// WriteWithOptions serializes the document as JSON indented by four spaces.
// SpaceAroundDelimiters selects ": " over ":" between keys and values.
func (a *JSONAdapter) WriteWithOptions(w io.Writer, opts WriteOptions) error {
	var buf bytes.Buffer
	enc := jsonWriter{buf: &buf, keySep: ":"}
	if opts.SpaceAroundDelimiters {
		enc.keySep = ": "
	}
	if err := enc.value(a.data, 0); err != nil {
		return err
	}
	buf.WriteByte('\n')

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: failed to write JSON config: %w", ErrIO, err)
	}
	a.log.Debug().Int("bytes", buf.Len()).Msg("configuration written")
	return nil
}

// jsonWriter lays out ordered maps with a fixed indent and key separator.
// Scalars and foreign values are delegated to encoding/json.
type jsonWriter struct {
	buf    *bytes.Buffer
	keySep string
}

func (j jsonWriter) indent(depth int) {
	j.buf.WriteString(strings.Repeat(jsonIndent, depth))
}

func (j jsonWriter) value(v any, depth int) error {
	switch t := v.(type) {
	case *orderedmap.OrderedMap:
		keys := t.Keys()
		if len(keys) == 0 {
			j.buf.WriteString("{}")
			return nil
		}
		j.buf.WriteString("{\n")
		for i, key := range keys {
			j.indent(depth + 1)
			if err := j.scalar(key); err != nil {
				return err
			}
			j.buf.WriteString(j.keySep)
			item, _ := t.Get(key)
			if err := j.value(item, depth+1); err != nil {
				return err
			}
			if i < len(keys)-1 {
				j.buf.WriteByte(',')
			}
			j.buf.WriteByte('\n')
		}
		j.indent(depth)
		j.buf.WriteByte('}')
		return nil

	case []any:
		if len(t) == 0 {
			j.buf.WriteString("[]")
			return nil
		}
		j.buf.WriteString("[\n")
		for i, item := range t {
			j.indent(depth + 1)
			if err := j.value(item, depth+1); err != nil {
				return err
			}
			if i < len(t)-1 {
				j.buf.WriteByte(',')
			}
			j.buf.WriteByte('\n')
		}
		j.indent(depth)
		j.buf.WriteByte(']')
		return nil
	}

	return j.scalar(v)
}

func (j jsonWriter) scalar(v any) error {
	data, err := marshalJSONValue(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}
	j.buf.Write(data)
	return nil
}
