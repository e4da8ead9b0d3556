// FILE: configurator/json_test.go
package configurator

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestJSONRead(t *testing.T) {
	t.Run("Sections", func(t *testing.T) {
		a := NewJSON()
		require.NoError(t, a.Read(writeTestFile(t, "c.json", `{"server": {"port": "8080", "debug": true, "ratio": 0.25, "tags": ["a", "b"], "none": null}}`)))

		value, err := a.Get("server", "port")
		require.NoError(t, err)
		assert.Equal(t, "8080", value)

		for option, expected := range map[string]string{
			"debug": "true",
			"ratio": "0.25",
			"tags":  `["a","b"]`,
			"none":  "",
		} {
			value, err := a.Get("server", option)
			require.NoError(t, err, option)
			assert.Equal(t, expected, value, option)
		}
		assert.Equal(t, []string{"port", "debug", "ratio", "tags", "none"}, a.Options("server"))
	})

	t.Run("FlatDocument", func(t *testing.T) {
		a := NewJSON()
		require.NoError(t, a.Read(writeTestFile(t, "flat.json", `{"name": "app", "server": {"port": 80}}`)))

		// A plain top-level value answers for any option
		value, err := a.Get("name", "anything")
		require.NoError(t, err)
		assert.Equal(t, "app", value)

		assert.False(t, a.HasSection("name"))
		assert.Equal(t, []string{"server"}, a.Sections())
	})

	t.Run("NestedSectionValue", func(t *testing.T) {
		a := NewJSON()
		require.NoError(t, a.Read(writeTestFile(t, "nested.json", `{"server": {"tls": {"cert": "a.pem"}}}`)))

		value, err := a.Get("server", "tls")
		require.NoError(t, err)
		assert.Equal(t, `{"cert":"a.pem"}`, value)
	})

	t.Run("LargeNumbersKeepDigits", func(t *testing.T) {
		a := NewJSON()
		require.NoError(t, a.Read(writeTestFile(t, "big.json",
			`{"s": {"id": 9007199254740993, "big": 12345678901234567890, "exp": 1e3, "list": [1, 9007199254740993, {"n": 18446744073709551615}]}}`)))

		for option, expected := range map[string]string{
			"id":   "9007199254740993",
			"big":  "12345678901234567890",
			"exp":  "1e3",
			"list": `[1,9007199254740993,{"n":18446744073709551615}]`,
		} {
			value, err := a.Get("s", option)
			require.NoError(t, err, option)
			assert.Equal(t, expected, value, option)
		}

		// Untouched numbers survive a rewrite
		require.NoError(t, a.Set("s", "name", "x"))
		var buf bytes.Buffer
		require.NoError(t, a.WriteWithOptions(&buf, WriteOptions{}))
		assert.Contains(t, buf.String(), `"id":9007199254740993,`)
		assert.Contains(t, buf.String(), `"big":12345678901234567890,`)
		assert.Contains(t, buf.String(), `"n":18446744073709551615`)
	})

	t.Run("ParseError", func(t *testing.T) {
		a := NewJSON()
		path := writeTestFile(t, "bad.json", `{"server": `)
		err := a.Read(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrParse)

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, path, parseErr.Path)
		assert.Equal(t, FormatJSON, parseErr.Format)
	})

	t.Run("RootMustBeObject", func(t *testing.T) {
		a := NewJSON()
		err := a.Read(writeTestFile(t, "array.json", `[1, 2]`))
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestJSONWrite(t *testing.T) {
	a := NewJSON()
	require.NoError(t, a.Set("server", "port", "8080"))

	t.Run("Spaced", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, a.Write(&buf))
		assert.Equal(t, "{\n    \"server\": {\n        \"port\": \"8080\"\n    }\n}\n", buf.String())
	})

	t.Run("Compact", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, a.WriteWithOptions(&buf, WriteOptions{SpaceAroundDelimiters: false}))
		assert.Equal(t, "{\n    \"server\":{\n        \"port\":\"8080\"\n    }\n}\n", buf.String())
	})

	t.Run("Empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewJSON().Write(&buf))
		assert.Equal(t, "{}\n", buf.String())
	})

	t.Run("NativeValuesAndNoHTMLEscape", func(t *testing.T) {
		b := NewJSON()
		require.NoError(t, b.Set("s", "count", 3))
		require.NoError(t, b.Set("s", "html", "<a&b>"))
		require.NoError(t, b.Set("s", "list", []any{1, "x"}))
		require.NoError(t, b.Set("s", "none", nil))
		require.NoError(t, b.AddSection("e"))

		var buf bytes.Buffer
		require.NoError(t, b.Write(&buf))
		expected := `{
    "s": {
        "count": 3,
        "html": "<a&b>",
        "list": [
            1,
            "x"
        ],
        "none": null
    },
    "e": {}
}
`
		assert.Equal(t, expected, buf.String())
	})

	t.Run("KeepsReadOrder", func(t *testing.T) {
		b := NewJSON()
		require.NoError(t, b.Read(writeTestFile(t, "order.json", `{"z": {"b": 1, "a": 2}, "a": {"y": 1}}`)))
		require.NoError(t, b.Set("z", "c", 3))

		var buf bytes.Buffer
		require.NoError(t, b.WriteWithOptions(&buf, WriteOptions{}))
		assert.Equal(t, "{\n    \"z\":{\n        \"b\":1,\n        \"a\":2,\n        \"c\":3\n    },\n    \"a\":{\n        \"y\":1\n    }\n}\n", buf.String())
	})
}
