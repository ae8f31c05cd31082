package dc42

import "fmt"

// Encoding is the Disk Copy 4.2 disk encoding byte.
type Encoding uint8

const (
	GCR400K  Encoding = 0x00 // 400K single-sided GCR
	GCR800K  Encoding = 0x01 // 800K double-sided GCR
	MFM720K  Encoding = 0x02 // 720K double-density MFM
	MFM1440K Encoding = 0x03 // 1440K high-density MFM
)

// String returns the string representation of the Encoding
func (e Encoding) String() string {
	switch e {
	case GCR400K:
		return "GCR 400K"
	case GCR800K:
		return "GCR 800K"
	case MFM720K:
		return "MFM 720K"
	case MFM1440K:
		return "MFM 1440K"
	default:
		return fmt.Sprintf("unknown(0x%02X)", uint8(e))
	}
}

// DiskType describes one recognized raw image size.
type DiskType struct {
	Size       int64
	Encoding   Encoding
	FormatByte uint8
	Label      string // short name used on the command line
}

// Recognized sizes, ordered by size.
var diskTypes = [...]DiskType{
	{409600, GCR400K, 0x02, "400k"},
	{737280, MFM720K, 0x22, "720k"},
	{819200, GCR800K, 0x22, "800k"},
	{1474560, MFM1440K, 0x22, "1440k"},
}

var diskTypeBySize = func() map[int64]DiskType {
	m := make(map[int64]DiskType, len(diskTypes))
	for _, t := range diskTypes {
		m[t.Size] = t
	}
	return m
}()

// Classify maps the exact byte length of a raw image to its disk type.
func Classify(size int64) (DiskType, error) {
	t, ok := diskTypeBySize[size]
	if !ok {
		return DiskType{}, &UnsupportedSizeError{Size: size}
	}
	return t, nil
}

// DiskTypes returns all recognized disk types, ordered by size.
func DiskTypes() []DiskType {
	out := make([]DiskType, len(diskTypes))
	copy(out, diskTypes[:])
	return out
}

// LookupLabel finds a disk type by its label, e.g. "800k".
func LookupLabel(label string) (DiskType, bool) {
	for _, t := range diskTypes {
		if t.Label == label {
			return t, true
		}
	}
	return DiskType{}, false
}
