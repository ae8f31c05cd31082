package dc42

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedSize  = errors.New("unsupported raw image size")
	ErrNameTooLong      = errors.New("disk name too long")
	ErrTruncated        = errors.New("truncated image")
	ErrBadMagic         = errors.New("bad Disk Copy 4.2 magic number")
	ErrBadCRC           = errors.New("MacBinary header CRC mismatch")
	ErrChecksumMismatch = errors.New("data checksum mismatch")
)

// UnsupportedSizeError reports a raw image whose length is not one
// of the recognized disk sizes.
type UnsupportedSizeError struct {
	Size int64
}

func (e *UnsupportedSizeError) Error() string {
	return fmt.Sprintf("input raw image size %d is not a recognized size", e.Size)
}

func (e *UnsupportedSizeError) Unwrap() error { return ErrUnsupportedSize }

// NameTooLongError reports a disk name that does not fit its field.
type NameTooLongError struct {
	Name  string
	Limit int
}

func (e *NameTooLongError) Error() string {
	return fmt.Sprintf("string %q too long; must be no more than %d bytes", e.Name, e.Limit)
}

func (e *NameTooLongError) Unwrap() error { return ErrNameTooLong }
