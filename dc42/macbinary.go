package dc42

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/sergev/dsk2dc/checksum"
)

const (
	// MacBinaryHeaderSize is the length of a MacBinary header block.
	MacBinaryHeaderSize = 128

	// macBinaryCRCOffset is where the header CRC is stored; the CRC
	// covers every byte before it.
	macBinaryCRCOffset = 124

	// MacEpochOffset is the number of seconds between 1 Jan 1904
	// and 1 Jan 1970.
	MacEpochOffset = 2082844800

	// MacBinary II version bytes.
	macBinaryVersion = 129

	FileType    = "dImg"
	FileCreator = "dCpy"
)

var macBinaryLayout = layout{
	{"oldVersion", 1, fieldUint},
	{"nameLength", 1, fieldUint},
	{"name", MaxNameLength, fieldBytes},
	{"fileType", 4, fieldBytes},
	{"fileCreator", 4, fieldBytes},
	{"finderFlagsHigh", 1, fieldUint},
	{"filler1", 1, fieldReserved},
	{"vertical", 2, fieldUint},
	{"horizontal", 2, fieldUint},
	{"folderID", 2, fieldUint},
	{"protected", 1, fieldUint},
	{"filler2", 1, fieldReserved},
	{"dataForkLength", 4, fieldUint},
	{"resourceForkLength", 4, fieldUint},
	{"created", 4, fieldUint},
	{"modified", 4, fieldUint},
	{"commentLength", 2, fieldUint},
	{"finderFlagsLow", 1, fieldUint},
	{"reserved", 14, fieldReserved},
	{"unpackedSize", 4, fieldUint},
	{"secondaryHeaderLength", 2, fieldUint},
	{"versionWritten", 1, fieldUint},
	{"versionNeeded", 1, fieldUint},
}

// MacBinary holds the fields of a MacBinary header that this tool
// writes or inspects. Everything else is zero.
type MacBinary struct {
	Name               string
	FileType           string
	FileCreator        string
	DataForkLength     uint32
	ResourceForkLength uint32
	Created            uint32 // seconds since 1 Jan 1904
	Modified           uint32
	VersionWritten     uint8
	VersionNeeded      uint8
	CRC                uint16
}

// MacTime converts t to Macintosh time, seconds since 1 Jan 1904.
// The result wraps modulo 2^32 like the classic Mac OS clock.
func MacTime(t time.Time) uint32 {
	return uint32(t.Unix() + MacEpochOffset)
}

// FromMacTime converts a Macintosh timestamp to time.Time in UTC.
func FromMacTime(ts uint32) time.Time {
	return time.Unix(int64(ts)-MacEpochOffset, 0).UTC()
}

// MarshalBinary encodes the 128-byte header, computing the CRC over
// the first 124 bytes. The CRC field of m is ignored.
func (m MacBinary) MarshalBinary() ([]byte, error) {
	padded, err := PadName(m.Name, MaxNameLength)
	if err != nil {
		return nil, err
	}
	r := newRecord()
	r.nums["nameLength"] = uint32(len(m.Name))
	r.bytes["name"] = padded
	r.bytes["fileType"] = []byte(m.FileType)
	r.bytes["fileCreator"] = []byte(m.FileCreator)
	r.nums["dataForkLength"] = m.DataForkLength
	r.nums["resourceForkLength"] = m.ResourceForkLength
	r.nums["created"] = m.Created
	r.nums["modified"] = m.Modified
	r.nums["versionWritten"] = uint32(m.VersionWritten)
	r.nums["versionNeeded"] = uint32(m.VersionNeeded)

	buf, err := macBinaryLayout.encode(make([]byte, 0, MacBinaryHeaderSize), r)
	if err != nil {
		return nil, err
	}
	buf = binary.BigEndian.AppendUint16(buf, checksum.CRC16XModem(buf))
	buf = append(buf, 0, 0)
	return buf, nil
}

// UnmarshalBinary decodes a MacBinary header and verifies its CRC.
func (m *MacBinary) UnmarshalBinary(data []byte) error {
	if len(data) < MacBinaryHeaderSize {
		return fmt.Errorf("%w: MacBinary header needs %d bytes, have %d", ErrTruncated, MacBinaryHeaderSize, len(data))
	}
	r, err := macBinaryLayout.decode(data)
	if err != nil {
		return err
	}
	stored := binary.BigEndian.Uint16(data[macBinaryCRCOffset:])
	computed := checksum.CRC16XModem(data[:macBinaryCRCOffset])
	if stored != computed {
		return fmt.Errorf("%w: stored 0x%04X, computed 0x%04X", ErrBadCRC, stored, computed)
	}
	nameLen := int(r.nums["nameLength"])
	if nameLen > MaxNameLength {
		return fmt.Errorf("invalid file name length %d: %w", nameLen, ErrNameTooLong)
	}
	*m = MacBinary{
		Name:               string(r.bytes["name"][:nameLen]),
		FileType:           string(r.bytes["fileType"]),
		FileCreator:        string(r.bytes["fileCreator"]),
		DataForkLength:     r.nums["dataForkLength"],
		ResourceForkLength: r.nums["resourceForkLength"],
		Created:            r.nums["created"],
		Modified:           r.nums["modified"],
		VersionWritten:     uint8(r.nums["versionWritten"]),
		VersionNeeded:      uint8(r.nums["versionNeeded"]),
		CRC:                stored,
	}
	return nil
}

// ParseMacBinary decodes a MacBinary header and verifies its CRC.
func ParseMacBinary(data []byte) (MacBinary, error) {
	var m MacBinary
	if err := m.UnmarshalBinary(data); err != nil {
		return MacBinary{}, err
	}
	return m, nil
}

// BuildMacBinaryHeader returns the 128-byte MacBinary header that wraps
// dc42Header followed by data. Both timestamps are set to now.
func BuildMacBinaryHeader(name string, dc42Header, data []byte, now time.Time) ([]byte, error) {
	ts := MacTime(now)
	m := MacBinary{
		Name:           name,
		FileType:       FileType,
		FileCreator:    FileCreator,
		DataForkLength: uint32(len(data) + len(dc42Header)),
		Created:        ts,
		Modified:       ts,
		VersionWritten: macBinaryVersion,
		VersionNeeded:  macBinaryVersion,
	}
	return m.MarshalBinary()
}

// MacBinaryFooter returns the zero padding that rounds the data fork
// up to a multiple of 128 bytes.
func MacBinaryFooter(dc42Header, data []byte) []byte {
	return make([]byte, footerLength(len(dc42Header)+len(data)))
}

func footerLength(forkLength int) int {
	return 127 - (forkLength+127)%128
}

// looksLikeMacBinary reports whether data starts with a valid
// MacBinary header: zero version byte, zero filler and a good CRC.
func looksLikeMacBinary(data []byte) bool {
	if len(data) < MacBinaryHeaderSize || data[0] != 0 || data[74] != 0 || data[82] != 0 {
		return false
	}
	stored := binary.BigEndian.Uint16(data[macBinaryCRCOffset:])
	return stored == checksum.CRC16XModem(data[:macBinaryCRCOffset])
}
