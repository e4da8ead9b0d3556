// FILE: configurator/adapter_test.go
package configurator

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eachFormat runs fn against a fresh adapter of every format.
func eachFormat(t *testing.T, fn func(t *testing.T, format Format, newAdapter func() Adapter)) {
	t.Helper()
	for _, format := range Formats() {
		t.Run(string(format), func(t *testing.T) {
			fn(t, format, func() Adapter {
				a, err := New(format, WithTOMLLiterals())
				require.NoError(t, err)
				return a
			})
		})
	}
}

func TestNew(t *testing.T) {
	eachFormat(t, func(t *testing.T, format Format, newAdapter func() Adapter) {
		a := newAdapter()
		assert.Equal(t, format, a.Format())
		assert.Empty(t, a.Sections())
		assert.False(t, a.HasSection("server"))
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		_, err := New("xml")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestSetGet(t *testing.T) {
	eachFormat(t, func(t *testing.T, _ Format, newAdapter func() Adapter) {
		a := newAdapter()

		t.Run("SetThenGet", func(t *testing.T) {
			require.NoError(t, a.Set("server", "port", "8080"))
			value, err := a.Get("server", "port")
			require.NoError(t, err)
			assert.Equal(t, "8080", value)
			assert.True(t, a.HasSection("server"))
			assert.True(t, a.HasOption("server", "port"))
		})

		t.Run("Overwrite", func(t *testing.T) {
			require.NoError(t, a.Set("server", "port", "9090"))
			value, err := a.Get("server", "port")
			require.NoError(t, err)
			assert.Equal(t, "9090", value)
			assert.Equal(t, []string{"port"}, a.Options("server"))
		})

		t.Run("NonStringValues", func(t *testing.T) {
			require.NoError(t, a.Set("types", "int", 42))
			require.NoError(t, a.Set("types", "float", 1.5))
			require.NoError(t, a.Set("types", "bool", true))
			require.NoError(t, a.Set("types", "nil", nil))

			for option, expected := range map[string]string{"int": "42", "float": "1.5", "bool": "true", "nil": ""} {
				value, err := a.Get("types", option)
				require.NoError(t, err, option)
				assert.Equal(t, expected, value, option)
			}
			assert.True(t, a.HasOption("types", "nil"))
		})

		t.Run("OrderPreserved", func(t *testing.T) {
			assert.Equal(t, []string{"server", "types"}, a.Sections())
			assert.Equal(t, []string{"int", "float", "bool", "nil"}, a.Options("types"))
		})
	})
}

func TestMissingOption(t *testing.T) {
	eachFormat(t, func(t *testing.T, _ Format, newAdapter func() Adapter) {
		a := newAdapter()
		require.NoError(t, a.Set("server", "port", "8080"))

		t.Run("MissingOption", func(t *testing.T) {
			_, err := a.Get("server", "host")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingOption)

			var missing *MissingOptionError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, "server", missing.Section)
			assert.Equal(t, "host", missing.Option)
			assert.Contains(t, err.Error(), "host")
			assert.Contains(t, err.Error(), "server")
		})

		t.Run("MissingSection", func(t *testing.T) {
			_, err := a.Get("database", "host")
			assert.ErrorIs(t, err, ErrMissingOption)
			assert.False(t, a.HasOption("database", "host"))
		})

		t.Run("Fallback", func(t *testing.T) {
			value, err := a.GetWithOptions("server", "host", GetOptions{Fallback: Fallback("localhost")})
			require.NoError(t, err)
			assert.Equal(t, "localhost", value)

			value, err = a.GetWithOptions("database", "host", GetOptions{Fallback: Fallback("")})
			require.NoError(t, err)
			assert.Equal(t, "", value)
		})

		t.Run("FallbackIgnoredWhenPresent", func(t *testing.T) {
			value, err := a.GetWithOptions("server", "port", GetOptions{Fallback: Fallback("1")})
			require.NoError(t, err)
			assert.Equal(t, "8080", value)
		})
	})
}

func TestAddSection(t *testing.T) {
	eachFormat(t, func(t *testing.T, format Format, newAdapter func() Adapter) {
		a := newAdapter()

		require.NoError(t, a.AddSection("empty"))
		assert.True(t, a.HasSection("empty"))
		assert.Empty(t, a.Options("empty"))
		assert.False(t, a.HasOption("empty", "anything"))

		require.NoError(t, a.Set("empty", "key", "value"))
		err := a.AddSection("empty")
		if format == FormatINI {
			assert.ErrorIs(t, err, ErrDuplicateSection)
		} else {
			assert.NoError(t, err)
		}

		// Existing options survive either way
		value, err := a.Get("empty", "key")
		require.NoError(t, err)
		assert.Equal(t, "value", value)
	})
}

func TestRemove(t *testing.T) {
	eachFormat(t, func(t *testing.T, _ Format, newAdapter func() Adapter) {
		a := newAdapter()
		require.NoError(t, a.Set("a", "x", "1"))
		require.NoError(t, a.Set("a", "y", "2"))
		require.NoError(t, a.Set("b", "z", "3"))

		assert.True(t, a.RemoveOption("a", "x"))
		assert.False(t, a.RemoveOption("a", "x"))
		assert.False(t, a.RemoveOption("missing", "x"))
		assert.Equal(t, []string{"y"}, a.Options("a"))

		assert.True(t, a.RemoveSection("b"))
		assert.False(t, a.RemoveSection("b"))
		assert.Equal(t, []string{"a"}, a.Sections())
		assert.Nil(t, a.Options("b"))
	})
}

func TestHasSectionImpliesHasOption(t *testing.T) {
	eachFormat(t, func(t *testing.T, _ Format, newAdapter func() Adapter) {
		a := newAdapter()
		require.NoError(t, a.Set("server", "host", "localhost"))
		require.NoError(t, a.Set("server", "port", "8080"))

		for _, section := range a.Sections() {
			assert.True(t, a.HasSection(section))
			for _, option := range a.Options(section) {
				assert.True(t, a.HasOption(section, option), "%s.%s", section, option)
			}
		}
	})
}

func TestRoundTrip(t *testing.T) {
	eachFormat(t, func(t *testing.T, format Format, newAdapter func() Adapter) {
		a := newAdapter()
		require.NoError(t, a.Set("server", "host", "localhost"))
		require.NoError(t, a.Set("server", "port", "8080"))
		require.NoError(t, a.Set("database", "name", "app"))
		require.NoError(t, a.AddSection("empty"))

		for _, opts := range []WriteOptions{{SpaceAroundDelimiters: true}, {SpaceAroundDelimiters: false}} {
			path := filepath.Join(t.TempDir(), "config."+string(format))
			require.NoError(t, SaveFile(a, path, opts))

			b := newAdapter()
			require.NoError(t, b.Read(path))

			assert.Equal(t, a.Sections(), b.Sections())
			for _, section := range a.Sections() {
				assert.Equal(t, a.Options(section), b.Options(section))
				for _, option := range a.Options(section) {
					expected, err := a.Get(section, option)
					require.NoError(t, err)
					actual, err := b.Get(section, option)
					require.NoError(t, err)
					assert.Equal(t, expected, actual, "%s.%s", section, option)
				}
			}
		}
	})
}

func TestWriteDefaultsToSpaced(t *testing.T) {
	eachFormat(t, func(t *testing.T, _ Format, newAdapter func() Adapter) {
		a := newAdapter()
		require.NoError(t, a.Set("server", "port", "8080"))

		var plain, spaced bytes.Buffer
		require.NoError(t, a.Write(&plain))
		require.NoError(t, a.WriteWithOptions(&spaced, DefaultWriteOptions()))
		assert.Equal(t, spaced.String(), plain.String())
	})
}

func TestReadReplacesDocument(t *testing.T) {
	eachFormat(t, func(t *testing.T, format Format, newAdapter func() Adapter) {
		source := newAdapter()
		require.NoError(t, source.Set("fresh", "key", "1"))
		path := filepath.Join(t.TempDir(), "config."+string(format))
		require.NoError(t, SaveFile(source, path, DefaultWriteOptions()))

		a := newAdapter()
		require.NoError(t, a.Set("stale", "key", "0"))
		require.NoError(t, a.Read(path))
		assert.Equal(t, []string{"fresh"}, a.Sections())

		// A failed read keeps the current document
		err := a.Read(filepath.Join(t.TempDir(), "missing."+string(format)))
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, []string{"fresh"}, a.Sections())
	})
}
