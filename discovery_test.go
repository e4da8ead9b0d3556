// FILE: configurator/discovery_test.go
package configurator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	t.Setenv("MYAPP_CONFIG", "")
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())

	base := DefaultDiscoveryOptions("myapp")
	base.UseCurrentDir = false

	t.Run("CLIFlag", func(t *testing.T) {
		opts := base
		opts.Args = []string{"serve", "--config", "/tmp/explicit.ini"}
		assert.Equal(t, "/tmp/explicit.ini", Discover(opts))

		opts.Args = []string{"--config=/tmp/inline.toml"}
		assert.Equal(t, "/tmp/inline.toml", Discover(opts))
	})

	t.Run("EnvVar", func(t *testing.T) {
		t.Setenv("MYAPP_CONFIG", "/tmp/from-env.json")
		assert.Equal(t, "/tmp/from-env.json", Discover(base))
	})

	t.Run("CustomPathsInExtensionOrder", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "myapp.json"), []byte("{}"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "myapp.ini"), []byte(""), 0644))

		opts := base
		opts.Paths = []string{dir}
		assert.Equal(t, filepath.Join(dir, "myapp.ini"), Discover(opts))
	})

	t.Run("XDGConfigHome", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", home)
		require.NoError(t, os.MkdirAll(filepath.Join(home, "myapp"), 0755))
		path := filepath.Join(home, "myapp", "myapp.yaml")
		require.NoError(t, os.WriteFile(path, []byte("a:\n  b: c\n"), 0644))

		assert.Equal(t, path, Discover(base))
	})

	t.Run("DirectoriesIgnored", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "myapp.toml"), 0755))

		opts := base
		opts.Paths = []string{dir}
		opts.UseXDG = false
		assert.Empty(t, Discover(opts))
	})

	t.Run("NothingFound", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		assert.Empty(t, Discover(base))
	})
}

func TestDefaultDiscoveryOptions(t *testing.T) {
	opts := DefaultDiscoveryOptions("myapp")
	assert.Equal(t, "myapp", opts.Name)
	assert.Equal(t, "MYAPP_CONFIG", opts.EnvVar)
	assert.Equal(t, "--config", opts.CLIFlag)
	assert.True(t, opts.UseXDG)
	assert.True(t, opts.UseCurrentDir)

	for _, ext := range opts.Extensions {
		if format := DetectFormat("x" + ext); format == "" {
			assert.Equal(t, ".conf", ext, "only .conf needs content detection")
		}
	}
}
