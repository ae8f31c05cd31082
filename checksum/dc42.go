package checksum

// DC42 computes the Disk Copy 4.2 data checksum.
//
// Data is summed as big-endian 16-bit words, rotating the 32-bit
// accumulator right by one bit after each addition.
// A trailing odd byte is taken as the high half of a final word.
func DC42(data []byte) uint32 {
	var sum uint32
	for i := 0; i < len(data); i += 2 {
		word := uint32(data[i]) << 8
		if i+1 < len(data) {
			word |= uint32(data[i+1])
		}
		sum = dc42Step(sum, word)
	}
	return sum
}

func dc42Step(sum, word uint32) uint32 {
	sum += word
	return sum>>1 | sum<<31
}
