// Package diskfile reads raw disk images from disk and names and
// writes the converted output.
package diskfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Load reads a whole image file, decompressing .gz and .zst files.
func Load(filename string) ([]byte, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	var data []byte
	switch DetectCompression(filename) {
	case CompressionGzip:
		data, err = gunzip(raw)
	case CompressionZstd:
		data, err = unzstd(raw)
	default:
		return raw, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", filename, err)
	}
	return data, nil
}

func gunzip(compressed []byte) ([]byte, error) {
	gzReader, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzReader.Close()

	data, err := io.ReadAll(gzReader)
	if err != nil {
		return nil, fmt.Errorf("invalid gzip stream: %w", err)
	}
	return data, nil
}

func unzstd(compressed []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer decoder.Close()

	data, err := decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid zstd stream: %w", err)
	}
	return data, nil
}

// ASCIIName encodes name as ASCII, replacing every code point above
// 0x7F (and every invalid UTF-8 byte) with '?'.
func ASCIIName(name string) string {
	return strings.Map(func(r rune) rune {
		if r > 0x7F {
			return '?'
		}
		return r
	}, name)
}

// DiskName derives a disk name from an input filename: the base name
// without its compression suffix and extension, encoded by ASCIIName.
func DiskName(filename string) string {
	name, _ := splitCompression(filepath.Base(filename))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return ASCIIName(name)
}

// OutputFilename returns the default output path for a disk named
// name: "<name>.bin" with MacBinary, "<name>.dc42" without, inside dir
// when dir is not empty.
func OutputFilename(name string, macBinary bool, dir string) string {
	ext := ".dc42"
	if macBinary {
		ext = ".bin"
	}
	filename := name + ext
	if dir != "" {
		filename = filepath.Join(dir, filename)
	}
	return filename
}

// Create writes filename through write. Output goes to a temporary
// file in the same directory that replaces filename only when write
// succeeds, so a failure leaves any existing file untouched.
func Create(filename string, write func(w io.Writer) error) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), ".dsk2dc-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpFilename := tmpFile.Name()
	defer os.Remove(tmpFilename) // no-op after a successful rename

	if err := write(tmpFile); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmpFile.Chmod(0644); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpFilename, filename); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
