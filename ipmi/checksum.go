package ipmi

// checksum computes the IPMI 8-bit two's-complement checksum of data: the
// sum of all bytes mod 256, negated. Appending the result to data makes the
// extended span sum to zero mod 256. Grounded on the teacher's
// buildIPMIMessage checksum arithmetic (go-sol/rmcp.go), generalized into a
// standalone helper shared by both message checksums.
func checksum(data []byte) uint8 {
	var sum uint8
	for _, b := range data {
		sum += b
	}
	return -sum
}

// join packs high's low splitIndex bits into the top splitIndex bits of the
// result, and low's low (8-splitIndex) bits into the remaining low bits.
// MSB-first, matching spec.md 4.1's join(high, low, split_index) and
// scenario D (join(0x1, 0x04, 4) == 0x14).
func join(high, low uint8, splitIndex uint) uint8 {
	lowBits := 8 - splitIndex
	return (high<<lowBits | (low & ((1 << lowBits) - 1)))
}

// padConfidentiality applies the IPMI confidentiality-trailer padding
// convention (spec.md 4.1): if len(payload) is already a multiple of 16, no
// padding is added. Otherwise a strictly increasing byte sequence
// 0x01, 0x02, ... is appended whose length is 16-(len%16)-1, followed by one
// final byte equal to that pad length. The result is always block-aligned.
//
// This is the corrected formula (16 - (len mod 16)); spec.md 9.1 notes the
// source this library is modeled on had a sibling helper using the wrong
// formula (len mod 16) and that the correct rewrite uses this one.
func padConfidentiality(payload []byte) []byte {
	rem := len(payload) % 16
	if rem == 0 {
		return append([]byte(nil), payload...)
	}
	padLen := 16 - rem - 1
	out := make([]byte, 0, len(payload)+padLen+1)
	out = append(out, payload...)
	for i := 1; i <= padLen; i++ {
		out = append(out, byte(i))
	}
	out = append(out, byte(padLen))
	return out
}

// unpadConfidentiality strips the trailing confidentiality pad added by
// padConfidentiality: the last byte is the pad length L, so L+1 trailing
// bytes are removed.
func unpadConfidentiality(padded []byte) ([]byte, error) {
	if len(padded) == 0 {
		return nil, &WrongLengthError{Structure: "confidentiality pad", Want: 1, Got: 0}
	}
	padLen := int(padded[len(padded)-1])
	if padLen+1 > len(padded) {
		return nil, &WrongLengthError{Structure: "confidentiality pad", Want: padLen + 1, Got: len(padded)}
	}
	return padded[:len(padded)-padLen-1], nil
}
