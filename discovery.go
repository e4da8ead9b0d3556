// FILE: configurator/discovery.go
package configurator

import (
	"os"
	"path/filepath"
	"strings"
)

// DiscoveryOptions configures automatic config file discovery
type DiscoveryOptions struct {
	// Base name of config file (without extension)
	Name string

	// Extensions to try (in order)
	Extensions []string

	// Custom search paths (in addition to defaults)
	Paths []string

	// Environment variable to check for explicit path
	EnvVar string

	// CLI flag to check (e.g., "--config" or "-c")
	CLIFlag string

	// Command-line arguments searched for CLIFlag
	Args []string

	// Whether to search in XDG config directories
	UseXDG bool

	// Whether to search in current directory
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns sensible defaults
func DefaultDiscoveryOptions(appName string) DiscoveryOptions {
	return DiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".toml", ".ini", ".json", ".yaml", ".yml", ".conf"},
		EnvVar:        strings.ToUpper(appName) + "_CONFIG",
		CLIFlag:       "--config",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// Discover returns the path of the first configuration file found, or "".
// An explicit CLI flag or environment variable wins without checking existence.
func Discover(opts DiscoveryOptions) string {
	// Check CLI args first (highest priority)
	if opts.CLIFlag != "" {
		for i, arg := range opts.Args {
			if arg == opts.CLIFlag && i+1 < len(opts.Args) {
				return opts.Args[i+1]
			}
			if strings.HasPrefix(arg, opts.CLIFlag+"=") {
				return strings.TrimPrefix(arg, opts.CLIFlag+"=")
			}
		}
	}

	// Check environment variable
	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			return path
		}
	}

	// Build search paths
	var searchPaths []string

	// Custom paths first
	searchPaths = append(searchPaths, opts.Paths...)

	// Current directory
	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
		}
	}

	// XDG paths
	if opts.UseXDG {
		searchPaths = append(searchPaths, getXDGConfigPaths(opts.Name)...)
	}

	for _, dir := range searchPaths {
		for _, ext := range opts.Extensions {
			path := filepath.Join(dir, opts.Name+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}

	// No file found is not an error - callers fall back to defaults
	return ""
}

// getXDGConfigPaths returns XDG-compliant config search paths
func getXDGConfigPaths(appName string) []string {
	var paths []string

	// XDG_CONFIG_HOME
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	// XDG_CONFIG_DIRS
	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		// Default system paths
		paths = append(paths,
			filepath.Join("/etc/xdg", appName),
			filepath.Join("/etc", appName),
		)
	}

	return paths
}
