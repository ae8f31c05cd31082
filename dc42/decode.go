package dc42

import (
	"fmt"

	"github.com/sergev/dsk2dc/checksum"
)

// Decoded is the result of parsing a Disk Copy 4.2 file, bare or
// wrapped in MacBinary.
type Decoded struct {
	MacBinary *MacBinary // nil for a bare image
	Header    Header
	Data      []byte
	Checksum  uint32 // checksum recomputed over Data
}

// Valid reports whether the recomputed checksum matches the header.
func (d *Decoded) Valid() bool {
	return d.Checksum == d.Header.DataChecksum
}

// Decode parses an image produced by Assemble. The data checksum is
// recomputed but a mismatch is not an error; see Verify.
func Decode(image []byte) (*Decoded, error) {
	d := &Decoded{}
	body := image
	if looksLikeMacBinary(image) {
		m, err := ParseMacBinary(image)
		if err != nil {
			return nil, err
		}
		body = image[MacBinaryHeaderSize:]
		if int(m.DataForkLength) > len(body) {
			return nil, fmt.Errorf("%w: data fork of %d bytes, have %d", ErrTruncated, m.DataForkLength, len(body))
		}
		body = body[:m.DataForkLength]
		d.MacBinary = &m
	}

	h, err := ParseHeader(body)
	if err != nil {
		return nil, err
	}
	body = body[HeaderSize:]
	if int64(h.DataSize) > int64(len(body)) {
		return nil, fmt.Errorf("%w: header declares %d data bytes, have %d", ErrTruncated, h.DataSize, len(body))
	}
	d.Header = h
	d.Data = body[:h.DataSize]
	d.Checksum = checksum.DC42(d.Data)
	return d, nil
}

// Verify decodes image and checks both its MacBinary CRC (if wrapped)
// and its data checksum.
func Verify(image []byte) (*Decoded, error) {
	d, err := Decode(image)
	if err != nil {
		return nil, err
	}
	if !d.Valid() {
		return d, fmt.Errorf("%w: header 0x%08X, computed 0x%08X", ErrChecksumMismatch, d.Header.DataChecksum, d.Checksum)
	}
	if _, err := Classify(int64(len(d.Data))); err != nil {
		return d, err
	}
	return d, nil
}
