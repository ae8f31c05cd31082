package diskfile

import (
	"path/filepath"
	"strings"
)

// Format represents a disk image file format
type Format int

const (
	// FormatUnknown represents an unknown or unrecognized format
	FormatUnknown Format = iota
	FormatRaw           // DSK, IMG or IMA format - a raw, sector-by-sector copy of the entire disk
	FormatDC42          // DC42 format - Apple Disk Copy 4.2 image
	FormatMacBinary     // BIN format - Disk Copy 4.2 image wrapped in MacBinary
)

// String returns the string representation of the Format
func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "Raw"
	case FormatDC42:
		return "DC42"
	case FormatMacBinary:
		return "MacBinary"
	default:
		return "Unknown"
	}
}

// Compression of an input file, detected from its last extension.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
)

// String returns the string representation of the Compression
func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	default:
		return "none"
	}
}

// splitCompression strips a trailing .gz or .zst from filename.
func splitCompression(filename string) (string, Compression) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".gz":
		return strings.TrimSuffix(filename, filepath.Ext(filename)), CompressionGzip
	case ".zst":
		return strings.TrimSuffix(filename, filepath.Ext(filename)), CompressionZstd
	default:
		return filename, CompressionNone
	}
}

// DetectCompression reports the compression implied by the filename.
func DetectCompression(filename string) Compression {
	_, c := splitCompression(filename)
	return c
}

// DetectFormat detects the image format from a filename based on its extension.
// The extension check is case-insensitive, and a compression suffix
// is skipped. Returns FormatUnknown if the format cannot be determined.
func DetectFormat(filename string) Format {
	name, _ := splitCompression(filename)
	ext := filepath.Ext(name)
	if ext == "" {
		return FormatUnknown
	}

	// Remove leading dot and convert to lowercase for case-insensitive comparison
	ext = strings.ToLower(ext[1:])

	switch ext {
	case "dsk", "img", "ima", "image", "raw":
		return FormatRaw
	case "dc42", "dc", "diskcopy":
		return FormatDC42
	case "bin":
		return FormatMacBinary
	default:
		return FormatUnknown
	}
}
