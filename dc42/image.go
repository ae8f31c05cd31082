// Package dc42 builds Apple Disk Copy 4.2 images from raw sector dumps,
// optionally wrapped in a MacBinary envelope.
package dc42

import (
	"bytes"
	"fmt"
	"io"
	"time"
)

// DiskImage is a raw disk image ready to be converted.
type DiskImage struct {
	Name string
	Data []byte
	Type DiskType
}

// New classifies data by its length and checks the disk name.
func New(name string, data []byte) (*DiskImage, error) {
	diskType, err := Classify(int64(len(data)))
	if err != nil {
		return nil, err
	}
	if len(name) > MaxNameLength {
		return nil, &NameTooLongError{Name: name, Limit: MaxNameLength}
	}
	return &DiskImage{Name: name, Data: data, Type: diskType}, nil
}

// Header returns the Disk Copy 4.2 header of the image.
func (img *DiskImage) Header() ([]byte, error) {
	return BuildHeader(img.Name, img.Data, img.Type.Encoding, img.Type.FormatByte)
}

// OutputSize returns the length of the assembled image.
func (img *DiskImage) OutputSize(macBinary bool) int {
	n := HeaderSize + len(img.Data)
	if macBinary {
		n += MacBinaryHeaderSize + footerLength(n)
	}
	return n
}

// parts builds every piece of the output before anything is written.
func (img *DiskImage) parts(macBinary bool, now time.Time) ([][]byte, error) {
	header, err := img.Header()
	if err != nil {
		return nil, fmt.Errorf("failed to build Disk Copy 4.2 header: %w", err)
	}
	if !macBinary {
		return [][]byte{header, img.Data}, nil
	}
	mbHeader, err := BuildMacBinaryHeader(img.Name, header, img.Data, now)
	if err != nil {
		return nil, fmt.Errorf("failed to build MacBinary header: %w", err)
	}
	return [][]byte{mbHeader, header, img.Data, MacBinaryFooter(header, img.Data)}, nil
}

// Assemble returns the complete output image. With macBinary set the
// Disk Copy 4.2 image becomes the data fork of a MacBinary file whose
// timestamps are taken from now.
func Assemble(img *DiskImage, macBinary bool, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(img.OutputSize(macBinary))
	if _, err := WriteTo(&buf, img, macBinary, now); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo streams the same bytes as Assemble to w. Nothing is written
// if a header cannot be built.
func WriteTo(w io.Writer, img *DiskImage, macBinary bool, now time.Time) (int64, error) {
	parts, err := img.parts(macBinary, now)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, p := range parts {
		n, err := w.Write(p)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
