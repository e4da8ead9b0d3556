// File: configurator/yaml.go
package configurator

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/iancoleman/orderedmap"
	"gopkg.in/yaml.v3"
)

// YAMLAdapter treats a YAML mapping of mappings as sections of options.
// YAML always writes "key: value", so WriteOptions has no effect on layout.
type YAMLAdapter struct {
	nestedDocument
}

var _ Adapter = (*YAMLAdapter)(nil)

// NewYAML returns an empty YAML adapter.
func NewYAML(opts ...Option) *YAMLAdapter {
	o := newAdapterOptions(opts)
	return &YAMLAdapter{nestedDocument: newNestedDocument(FormatYAML, o.logger)}
}

// Read loads a YAML file.
func (a *YAMLAdapter) Read(path string) error {
	return a.ReadWithOptions(path, ReadOptions{})
}

// ReadWithOptions loads a YAML file, decoding it from opts.Encoding first.
// An empty file yields an empty document.
func (a *YAMLAdapter) ReadWithOptions(path string, opts ReadOptions) error {
	data, err := readFile(path, opts.Encoding)
	if err != nil {
		return err
	}

	doc, err := parseYAMLDocument(data)
	if err != nil {
		return &ParseError{Path: path, Format: FormatYAML, Err: err}
	}
	a.replace(path, doc)
	return nil
}

func parseYAMLDocument(data []byte) (*orderedmap.OrderedMap, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return newOrderedMap(), nil
		}
		node = node.Content[0]
	}
	if node.Kind == 0 {
		return newOrderedMap(), nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, errors.New("document root must be a mapping")
	}

	value, err := yamlNodeValue(node)
	if err != nil {
		return nil, err
	}
	return value.(*orderedmap.OrderedMap), nil
}

// yamlNodeValue converts a node tree into ordered maps, slices and scalars.
func yamlNodeValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return yamlNodeValue(node.Content[0])

	case yaml.AliasNode:
		return yamlNodeValue(node.Alias)

	case yaml.MappingNode:
		m := newOrderedMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			key := keyNode.Value
			if keyNode.Kind != yaml.ScalarNode {
				k, err := yamlNodeValue(keyNode)
				if err != nil {
					return nil, err
				}
				key = stringify(k)
			}
			value, err := yamlNodeValue(valueNode)
			if err != nil {
				return nil, err
			}
			m.Set(key, value)
		}
		return m, nil

	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := yamlNodeValue(child)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return items, nil

	default:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, err
		}
		return value, nil
	}
}

// Write serializes the document as YAML.
func (a *YAMLAdapter) Write(w io.Writer) error {
	return a.WriteWithOptions(w, DefaultWriteOptions())
}

// WriteWithOptions serializes the document as YAML with a two-space indent.
func (a *YAMLAdapter) WriteWithOptions(w io.Writer, _ WriteOptions) error {
	root, err := yamlNode(a.data)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: failed to write YAML config: %w", ErrIO, err)
	}
	a.log.Debug().Int("bytes", buf.Len()).Msg("configuration written")
	return nil
}

// yamlNode builds a node tree that keeps ordered map key order.
func yamlNode(value any) (*yaml.Node, error) {
	switch v := value.(type) {
	case *orderedmap.OrderedMap:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, key := range v.Keys() {
			item, _ := v.Get(key)
			child, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				child,
			)
		}
		return node, nil

	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range v {
			child, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	}

	node := &yaml.Node{}
	if err := node.Encode(value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}
	return node, nil
}
