// File: configurator/io.go
package configurator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/htmlindex"
)

// readFile reads a configuration file, decoding it from charset when one is given.
// The file is closed before returning on every path.
func readFile(path, charset string) ([]byte, error) {
	var decode func(io.Reader) io.Reader
	if charset != "" {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, charset)
		}
		decode = func(r io.Reader) io.Reader {
			return enc.NewDecoder().Reader(r)
		}
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: '%s'", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: failed to open config file '%s': %w", ErrIO, path, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if decode != nil {
		reader = decode(file)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file '%s': %w", ErrIO, path, err)
	}
	return data, nil
}

// Open detects the format of the file at path, builds the matching adapter and reads the file.
func Open(path string, opts ...Option) (Adapter, error) {
	return OpenWithOptions(path, ReadOptions{}, opts...)
}

// OpenWithOptions is Open with read options.
// The format comes from the file extension, or from the content when the extension is unknown.
func OpenWithOptions(path string, readOpts ReadOptions, opts ...Option) (Adapter, error) {
	format := DetectFormat(path)
	if format == "" {
		data, err := readFile(path, readOpts.Encoding)
		if err != nil {
			return nil, err
		}
		if format = DetectFormatFromContent(data); format == "" {
			return nil, fmt.Errorf("%w: unable to determine config format for file '%s'", ErrUnsupportedFormat, path)
		}
	}

	adapter, err := New(format, opts...)
	if err != nil {
		return nil, err
	}
	if err := adapter.ReadWithOptions(path, readOpts); err != nil {
		return nil, err
	}
	return adapter, nil
}

// SaveFile writes the adapter's document to path atomically: the output goes
// to a temporary file in the same directory which then replaces path.
func SaveFile(a Adapter, path string, opts WriteOptions) error {
	var buf bytes.Buffer
	if err := a.WriteWithOptions(&buf, opts); err != nil {
		return err
	}
	if err := atomicWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	removed := false
	defer func() {
		if !removed {
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file '%s': %w", tempPath, err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file '%s': %w", tempPath, err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file '%s': %w", tempPath, err)
	}

	// An existing file keeps its permissions
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tempPath, mode); err != nil {
		return fmt.Errorf("failed to set permissions on '%s': %w", tempPath, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file '%s' to '%s': %w", tempPath, path, err)
	}
	removed = true

	return nil
}
