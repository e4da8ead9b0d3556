// File: configurator/helper.go
package configurator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/iancoleman/orderedmap"
)

// stringify renders a document value the way Get surfaces it.
// Attempts conversion from common types if the stored value isn't already a string.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(v).Int(), 10)
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(v).Uint(), 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	case *orderedmap.OrderedMap, orderedmap.OrderedMap, []any, map[string]any:
		if data, err := marshalJSONValue(v); err == nil {
			return string(data)
		}
	}
	return fmt.Sprint(value)
}

// marshalJSONValue encodes v as compact JSON without HTML escaping.
func marshalJSONValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// asSection returns v as a section mapping if it is one.
func asSection(v any) (*orderedmap.OrderedMap, bool) {
	m, ok := v.(*orderedmap.OrderedMap)
	return m, ok && m != nil
}

// normalizeValue replaces the by-value maps produced by orderedmap's decoder
// with pointers so nested mappings can be mutated in place.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case orderedmap.OrderedMap:
		m := &t
		normalizeMap(m)
		return m
	case *orderedmap.OrderedMap:
		normalizeMap(t)
		return t
	case []any:
		for i := range t {
			t[i] = normalizeValue(t[i])
		}
		return t
	}
	return v
}

func normalizeMap(m *orderedmap.OrderedMap) {
	for _, key := range m.Keys() {
		value, _ := m.Get(key)
		m.Set(key, normalizeValue(value))
	}
}

// keyOrder ranks key paths by first appearance in a source document.
type keyOrder map[string]int

func (o keyOrder) rank(path []string) int {
	if i, ok := o[strings.Join(path, "\x00")]; ok {
		return i
	}
	return len(o)
}

// orderedFromMap converts a decoded map[string]any tree into ordered maps.
// Keys are sorted by their rank in order, unknown keys last and alphabetically.
func orderedFromMap(m map[string]any, prefix []string, order keyOrder) *orderedmap.OrderedMap {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	base := prefix[:len(prefix):len(prefix)]
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := order.rank(append(base, keys[i])), order.rank(append(base, keys[j]))
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})

	result := orderedmap.New()
	result.SetEscapeHTML(false)
	for _, k := range keys {
		result.Set(k, orderedFromValue(m[k], append(base, k), order))
	}
	return result
}

func orderedFromValue(v any, path []string, order keyOrder) any {
	switch t := v.(type) {
	case map[string]any:
		return orderedFromMap(t, path, order)
	case []map[string]any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = orderedFromMap(item, path, order)
		}
		return items
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = orderedFromValue(item, path, order)
		}
		return items
	}
	return v
}

// containsMapping reports whether v is or holds a nested mapping.
func containsMapping(v any) bool {
	switch t := v.(type) {
	case *orderedmap.OrderedMap, orderedmap.OrderedMap, map[string]any, []map[string]any:
		return true
	case []any:
		for _, item := range t {
			if containsMapping(item) {
				return true
			}
		}
	}
	return false
}

// isValidKeySegment checks if a string is a valid TOML bare key.
func isValidKeySegment(s string) bool {
	if len(s) == 0 {
		return false
	}
	// TOML bare keys are sequences of ASCII letters, ASCII digits, underscores, and dashes (A-Za-z0-9_-).
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isUnderscore := r == '_'
		isDash := r == '-'

		if !(isLetter || isDigit || isUnderscore || isDash) {
			return false
		}
	}
	return true
}
