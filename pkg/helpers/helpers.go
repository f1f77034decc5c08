package helpers

// Convert from string to null terminated byte slice
func String2Bytes(str string) []byte {
	bytes := []byte(str)
	bytes = append(bytes, '\x00')

	return bytes
}

// Get the first string from a byte stream, the stream must contain a null terminator
func GetString(bytes []byte) (string, bool) {
	for i, v := range bytes {
		if v == '\x00' {
			return string(bytes[:i]), true
		}
	}

	return "", false
}

// Round n up to a multiple of align, align must be a power of two
func AlignTo(n, align uint32) uint32 {
	if align == 0 {
		return n
	}

	return (n + align - 1) &^ (align - 1)
}
