package dc42

import (
	"encoding/binary"
	"fmt"
)

// fieldKind tells how a field of a fixed-layout structure is serialized.
type fieldKind uint8

const (
	fieldUint     fieldKind = iota // big-endian unsigned integer of 1, 2 or 4 bytes
	fieldBytes                     // fixed-width byte string, zero padded
	fieldReserved                  // always zero on encode, ignored on decode
)

// field is one entry of a layout.
type field struct {
	name  string
	width int
	kind  fieldKind
}

// layout is an ordered list of fields, serialized back to back.
type layout []field

// record holds field values by name. Missing entries encode as zero.
type record struct {
	nums  map[string]uint32
	bytes map[string][]byte
}

func newRecord() record {
	return record{
		nums:  make(map[string]uint32),
		bytes: make(map[string][]byte),
	}
}

// size returns the encoded length in bytes.
func (l layout) size() int {
	n := 0
	for _, f := range l {
		n += f.width
	}
	return n
}

// offset returns the byte offset of the named field, or -1.
func (l layout) offset(name string) int {
	n := 0
	for _, f := range l {
		if f.name == name {
			return n
		}
		n += f.width
	}
	return -1
}

// encode appends the serialized record to dst.
func (l layout) encode(dst []byte, r record) ([]byte, error) {
	for _, f := range l {
		switch f.kind {
		case fieldUint:
			v := r.nums[f.name]
			switch f.width {
			case 1:
				if v > 0xFF {
					return nil, fmt.Errorf("field %s: value %d does not fit in 1 byte", f.name, v)
				}
				dst = append(dst, byte(v))
			case 2:
				if v > 0xFFFF {
					return nil, fmt.Errorf("field %s: value %d does not fit in 2 bytes", f.name, v)
				}
				dst = binary.BigEndian.AppendUint16(dst, uint16(v))
			case 4:
				dst = binary.BigEndian.AppendUint32(dst, v)
			default:
				return nil, fmt.Errorf("field %s: unsupported integer width %d", f.name, f.width)
			}
		case fieldBytes:
			b := r.bytes[f.name]
			if len(b) > f.width {
				return nil, fmt.Errorf("field %s: %d bytes exceed width %d", f.name, len(b), f.width)
			}
			dst = append(dst, b...)
			dst = append(dst, make([]byte, f.width-len(b))...)
		case fieldReserved:
			dst = append(dst, make([]byte, f.width)...)
		}
	}
	return dst, nil
}

// decode parses the leading l.size() bytes of src.
func (l layout) decode(src []byte) (record, error) {
	if len(src) < l.size() {
		return record{}, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, l.size(), len(src))
	}
	r := newRecord()
	pos := 0
	for _, f := range l {
		chunk := src[pos : pos+f.width]
		switch f.kind {
		case fieldUint:
			switch f.width {
			case 1:
				r.nums[f.name] = uint32(chunk[0])
			case 2:
				r.nums[f.name] = uint32(binary.BigEndian.Uint16(chunk))
			case 4:
				r.nums[f.name] = binary.BigEndian.Uint32(chunk)
			default:
				return record{}, fmt.Errorf("field %s: unsupported integer width %d", f.name, f.width)
			}
		case fieldBytes:
			r.bytes[f.name] = append([]byte(nil), chunk...)
		}
		pos += f.width
	}
	return r, nil
}
