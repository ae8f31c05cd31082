package dc42

import (
	"fmt"

	"github.com/sergev/dsk2dc/checksum"
)

const (
	// HeaderSize is the length of a Disk Copy 4.2 header.
	HeaderSize = 84

	// MaxNameLength is the capacity of the Pascal-string name fields.
	MaxNameLength = 63

	// Magic is the private word that ends every Disk Copy 4.2 header.
	Magic = 0x0100
)

var headerLayout = layout{
	{"nameLength", 1, fieldUint},
	{"name", MaxNameLength, fieldBytes},
	{"dataSize", 4, fieldUint},
	{"tagSize", 4, fieldUint},
	{"dataChecksum", 4, fieldUint},
	{"tagChecksum", 4, fieldUint},
	{"diskEncoding", 1, fieldUint},
	{"formatByte", 1, fieldUint},
	{"magic", 2, fieldUint},
}

// Header represents the Disk Copy 4.2 file header
type Header struct {
	Name         string
	DataSize     uint32
	TagSize      uint32 // tag data is never produced, always 0 on write
	DataChecksum uint32
	TagChecksum  uint32
	Encoding     Encoding
	FormatByte   uint8
	Magic        uint16
}

// PadName pads name with zero bytes to exactly width bytes.
// Names longer than width are rejected rather than truncated.
func PadName(name string, width int) ([]byte, error) {
	if len(name) > width {
		return nil, &NameTooLongError{Name: name, Limit: width}
	}
	buf := make([]byte, width)
	copy(buf, name)
	return buf, nil
}

// BuildHeader returns the 84-byte Disk Copy 4.2 header for data.
func BuildHeader(name string, data []byte, encoding Encoding, formatByte uint8) ([]byte, error) {
	h := Header{
		Name:         name,
		DataSize:     uint32(len(data)),
		DataChecksum: checksum.DC42(data),
		Encoding:     encoding,
		FormatByte:   formatByte,
		Magic:        Magic,
	}
	return h.MarshalBinary()
}

// MarshalBinary encodes the header in its big-endian on-disk layout.
func (h Header) MarshalBinary() ([]byte, error) {
	padded, err := PadName(h.Name, MaxNameLength)
	if err != nil {
		return nil, err
	}
	r := newRecord()
	r.nums["nameLength"] = uint32(len(h.Name))
	r.bytes["name"] = padded
	r.nums["dataSize"] = h.DataSize
	r.nums["tagSize"] = h.TagSize
	r.nums["dataChecksum"] = h.DataChecksum
	r.nums["tagChecksum"] = h.TagChecksum
	r.nums["diskEncoding"] = uint32(h.Encoding)
	r.nums["formatByte"] = uint32(h.FormatByte)
	r.nums["magic"] = uint32(h.Magic)
	return headerLayout.encode(make([]byte, 0, HeaderSize), r)
}

// UnmarshalBinary decodes a header from the first 84 bytes of data.
func (h *Header) UnmarshalBinary(data []byte) error {
	r, err := headerLayout.decode(data)
	if err != nil {
		return fmt.Errorf("failed to read Disk Copy 4.2 header: %w", err)
	}
	nameLen := int(r.nums["nameLength"])
	if nameLen > MaxNameLength {
		return fmt.Errorf("invalid disk name length %d: %w", nameLen, ErrNameTooLong)
	}
	*h = Header{
		Name:         string(r.bytes["name"][:nameLen]),
		DataSize:     r.nums["dataSize"],
		TagSize:      r.nums["tagSize"],
		DataChecksum: r.nums["dataChecksum"],
		TagChecksum:  r.nums["tagChecksum"],
		Encoding:     Encoding(r.nums["diskEncoding"]),
		FormatByte:   uint8(r.nums["formatByte"]),
		Magic:        uint16(r.nums["magic"]),
	}
	return nil
}

// ParseHeader decodes and sanity-checks a Disk Copy 4.2 header.
func ParseHeader(data []byte) (Header, error) {
	var h Header
	if err := h.UnmarshalBinary(data); err != nil {
		return Header{}, err
	}
	if h.Magic != Magic {
		return Header{}, fmt.Errorf("%w: 0x%04X (expected 0x%04X)", ErrBadMagic, h.Magic, Magic)
	}
	return h, nil
}
