// File: configurator/nested.go
package configurator

import (
	"github.com/iancoleman/orderedmap"
	"github.com/rs/zerolog"
)

// unsetType marks an absent lookup result. It is never stored in a document,
// so it cannot collide with nil, "" or any other legitimate value.
type unsetType struct{}

var unset any = unsetType{}

// nestedDocument is the section -> option -> value tree shared by the
// JSON, TOML and YAML adapters. Key order follows the source file and
// then insertion order.
type nestedDocument struct {
	data   *orderedmap.OrderedMap
	format Format
	log    zerolog.Logger
}

func newNestedDocument(format Format, logger zerolog.Logger) nestedDocument {
	return nestedDocument{
		data:   newOrderedMap(),
		format: format,
		log:    logger.With().Str("format", string(format)).Logger(),
	}
}

func newOrderedMap() *orderedmap.OrderedMap {
	m := orderedmap.New()
	m.SetEscapeHTML(false)
	return m
}

// replace swaps in a freshly read document.
func (d *nestedDocument) replace(path string, data *orderedmap.OrderedMap) {
	d.data = data
	d.log.Debug().Str("path", path).Int("sections", len(d.Sections())).Msg("configuration read")
}

// lookup resolves option the way flat and sectioned documents are both served:
// a missing section falls back to the whole document, and a section holding a
// plain value yields that value regardless of option.
func (d *nestedDocument) lookup(section, option string) any {
	var scope any = d.data
	if v, ok := d.data.Get(section); ok {
		scope = v
	}

	if m, ok := asSection(scope); ok {
		if v, ok := m.Get(option); ok {
			return v
		}
		return unset
	}
	return scope
}

// Format reports the adapter's file format.
func (d *nestedDocument) Format() Format {
	return d.format
}

// Get returns the option's value as a string.
func (d *nestedDocument) Get(section, option string) (string, error) {
	return d.GetWithOptions(section, option, GetOptions{})
}

// GetWithOptions returns the option's value, or opts.Fallback when absent.
// Raw and Vars are accepted and ignored.
func (d *nestedDocument) GetWithOptions(section, option string, opts GetOptions) (string, error) {
	value := d.lookup(section, option)
	if value == unset && opts.Fallback != nil {
		value = *opts.Fallback
	}
	if value == unset {
		return "", &MissingOptionError{Section: section, Option: option}
	}
	return stringify(value), nil
}

// HasSection reports whether section names a mapping in the document.
func (d *nestedDocument) HasSection(section string) bool {
	_, ok := d.section(section)
	return ok
}

func (d *nestedDocument) section(name string) (*orderedmap.OrderedMap, bool) {
	v, ok := d.data.Get(name)
	if !ok {
		return nil, false
	}
	return asSection(v)
}

// AddSection creates an empty section. Adding an existing section is a no-op;
// a top-level plain value under the same name is replaced by the new section.
func (d *nestedDocument) AddSection(section string) error {
	d.ensureSection(section)
	return nil
}

func (d *nestedDocument) ensureSection(name string) *orderedmap.OrderedMap {
	if m, ok := d.section(name); ok {
		return m
	}
	m := newOrderedMap()
	d.data.Set(name, m)
	d.log.Debug().Str("section", name).Msg("section added")
	return m
}

// HasOption reports whether option exists in the section mapping.
func (d *nestedDocument) HasOption(section, option string) bool {
	m, ok := d.section(section)
	if !ok {
		return false
	}
	_, ok = m.Get(option)
	return ok
}

// Set stores value under option, creating the section if needed.
func (d *nestedDocument) Set(section, option string, value any) error {
	d.ensureSection(section).Set(option, value)
	d.log.Debug().Str("section", section).Str("option", option).Msg("option set")
	return nil
}

// Sections lists the mapping-valued top-level keys in document order.
func (d *nestedDocument) Sections() []string {
	var sections []string
	for _, key := range d.data.Keys() {
		if _, ok := d.section(key); ok {
			sections = append(sections, key)
		}
	}
	return sections
}

// Options lists the options of a section in document order.
func (d *nestedDocument) Options(section string) []string {
	m, ok := d.section(section)
	if !ok {
		return nil
	}
	return append([]string(nil), m.Keys()...)
}

// RemoveSection deletes a section and reports whether it existed.
func (d *nestedDocument) RemoveSection(section string) bool {
	if _, ok := d.section(section); !ok {
		return false
	}
	d.data.Delete(section)
	return true
}

// RemoveOption deletes an option and reports whether it existed.
func (d *nestedDocument) RemoveOption(section, option string) bool {
	m, ok := d.section(section)
	if !ok {
		return false
	}
	if _, ok := m.Get(option); !ok {
		return false
	}
	m.Delete(option)
	return true
}
