// Package checksum implements the CRC-16 used by MacBinary and the
// Disk Copy 4.2 data checksum.
package checksum

// Polynomial of the CRC-16/XMODEM variant used by MacBinary headers.
const CRC16Poly = 0x1021

// crc16Step folds one byte into the CRC register, MSB first.
func crc16Step(reg uint16, b byte) uint16 {
	reg ^= uint16(b) << 8
	for i := 0; i < 8; i++ {
		if reg&0x8000 != 0 {
			reg = reg<<1 ^ CRC16Poly
		} else {
			reg <<= 1
		}
	}
	return reg
}

// CRC16 continues a CRC-16 computation from register reg over data.
// There is no final XOR.
func CRC16(reg uint16, data []byte) uint16 {
	for _, b := range data {
		reg = crc16Step(reg, b)
	}
	return reg
}

// CRC16XModem returns the CRC-16/XMODEM checksum of data
// (initial register zero).
func CRC16XModem(data []byte) uint16 {
	return CRC16(0, data)
}
