package ipmi

// nextHeaderConstant is the fixed "Next Header" byte in the integrity
// trailer (spec.md 4.7); IPMI 2.0 reserves 0x07 for this purpose and no
// other value is ever produced or accepted.
const nextHeaderConstant = 0x07

// Packet is the fully-framed unit exchanged with a BMC: an RMCP header, an
// IPMI session header, and an optional payload. It is a value: once built
// or decoded it is never mutated in place (spec.md Data Model).
//
// Grounded on the teacher's buildIPMI15Packet/buildRMCPPacket
// (go-sol/rmcp.go) for the unencrypted assembly, and its
// encryptPayload/decryptPayload (go-sol/crypto.go) plus
// buildAuthenticatedPacket (go-sol/session.go) for the encrypted v2
// envelope — but the teacher never verified the incoming integrity
// trailer and always skipped straight to AES-CBC decrypt; this rewrite
// adds DecodePacket's integrity check (spec.md 9.4) ahead of decryption.
type Packet struct {
	RMCP    RMCPHeader
	Session SessionHeader
	Payload []byte
}

// EncodeUnencrypted concatenates the RMCP header, session header and
// payload, setting the header's payload-length field first. Used for every
// pre-Established exchange (Discovery, Open Session, RAKP1/RAKP3).
func EncodeUnencrypted(rmcp RMCPHeader, session SessionHeader, payload []byte) []byte {
	if session.V1 != nil {
		session.V1.PayloadLength = uint8(len(payload))
	} else {
		session.V2.PayloadLength = uint16(len(payload))
	}
	out := make([]byte, 0, rmcpHeaderSize+32+len(payload))
	out = append(out, rmcp.Encode()...)
	out = append(out, session.Encode()...)
	out = append(out, payload...)
	return out
}

// EncodeEncryptedV2 builds the confidentiality+integrity envelope used once
// a session is Established (spec.md 4.7). header must have
// PayloadType/SessionID/SessionSeqNumber already set; PayloadEncrypted,
// PayloadAuthed and PayloadLength are set here. k1 is the integrity key
// (HMAC-SHA256-128), k2 the first 16 bytes of the confidentiality key
// (AES-128-CBC).
func EncodeEncryptedV2(rmcp RMCPHeader, header IPMIV2Header, k1, k2 []byte, payload []byte) ([]byte, error) {
	header.PayloadEncrypted = true
	header.PayloadAuthed = true
	header.PayloadLength = uint16(len(payload))

	iv, err := randomIV()
	if err != nil {
		return nil, err
	}
	padded := padConfidentiality(payload)
	ciphertext, err := aes128CBCEncrypt(k2[:16], iv, padded)
	if err != nil {
		return nil, err
	}

	headerBytes := header.encode()
	integrityProtected := make([]byte, 0, len(headerBytes)+len(iv)+len(ciphertext))
	integrityProtected = append(integrityProtected, headerBytes...)
	integrityProtected = append(integrityProtected, iv...)
	integrityProtected = append(integrityProtected, ciphertext...)

	padNeeded := (4 - ((len(integrityProtected) + 2) % 4)) % 4
	trailer := make([]byte, 0, len(integrityProtected)+padNeeded+2)
	trailer = append(trailer, integrityProtected...)
	for i := 0; i < padNeeded; i++ {
		trailer = append(trailer, 0xFF)
	}
	trailer = append(trailer, uint8(padNeeded), nextHeaderConstant)

	mac := hmacSHA256_128(k1, trailer)

	out := make([]byte, 0, rmcpHeaderSize+len(trailer)+len(mac))
	out = append(out, rmcp.Encode()...)
	out = append(out, trailer...)
	out = append(out, mac...)
	return out, nil
}

// DecodePacket parses an incoming datagram. If the session header is v2.0
// and marks the payload encrypted, k1/k2 must be non-nil: the integrity
// trailer is verified against k1 (spec.md 9.4) before the ciphertext is
// decrypted with k2 and unpadded. For every other combination k1/k2 are
// ignored and may be nil.
func DecodePacket(data []byte, k1, k2 []byte) (*Packet, error) {
	rmcpHdr, err := DecodeRMCPHeader(data)
	if err != nil {
		return nil, err
	}
	rest := data[rmcpHeaderSize:]
	session, hdrLen, err := DecodeSessionHeader(rest)
	if err != nil {
		return nil, err
	}

	if session.V2 == nil || !session.V2.PayloadEncrypted {
		plen := int(payloadLengthOf(session))
		body := rest[hdrLen:]
		if len(body) < plen {
			return nil, &WrongLengthError{Structure: "Packet payload", Want: plen, Got: len(body)}
		}
		return &Packet{RMCP: rmcpHdr, Session: session, Payload: append([]byte(nil), body[:plen]...)}, nil
	}

	v2 := session.V2
	afterHeader := rest[hdrLen:]

	// Ciphertext runs from after the IV up to the start of the integrity
	// pad/trailer (or to the end of the datagram if unauthenticated).
	ciphertextEnd := len(afterHeader)
	if v2.PayloadAuthed {
		trailerStart, mac, err := splitIntegrityTrailer(afterHeader)
		if err != nil {
			return nil, err
		}
		if k1 == nil {
			return nil, &BadIntegrityTrailerError{}
		}
		// The integrity-protected region I||pad||pad_len||next_header runs
		// from the session header's AuthType byte through everything in
		// the datagram except the final 16-byte MAC.
		protected := rest[:len(rest)-len(mac)]
		want := hmacSHA256_128(k1, protected)
		if !constantTimeEqual(want, mac) {
			return nil, &BadIntegrityTrailerError{}
		}
		ciphertextEnd = trailerStart
	}

	if len(afterHeader) < 16 {
		return nil, &WrongLengthError{Structure: "Packet IV", Want: 16, Got: len(afterHeader)}
	}
	iv := afterHeader[:16]
	ciphertext := afterHeader[16:ciphertextEnd]
	if k2 == nil {
		return nil, &BadIntegrityTrailerError{}
	}
	plaintext, err := aes128CBCDecrypt(k2[:16], iv, ciphertext)
	if err != nil {
		return nil, err
	}
	unpadded, err := unpadConfidentiality(plaintext)
	if err != nil {
		return nil, err
	}
	return &Packet{RMCP: rmcpHdr, Session: session, Payload: unpadded}, nil
}

// splitIntegrityTrailer locates the 16-byte HMAC-SHA256-128 trailer within
// afterHeader (the bytes following the session header: IV || ciphertext ||
// pad || pad_len || next_header || trailer), returning the offset where
// the trailer begins (== length of IV||ciphertext||pad||pad_len||next_header)
// and the trailer bytes themselves.
func splitIntegrityTrailer(afterHeader []byte) (int, []byte, error) {
	const macLen = 16
	if len(afterHeader) < macLen+2 {
		return 0, nil, &WrongLengthError{Structure: "integrity trailer", Want: macLen + 2, Got: len(afterHeader)}
	}
	trailerStart := len(afterHeader) - macLen
	mac := afterHeader[trailerStart:]
	// Validate the pad_len/next_header framing just before the trailer.
	nextHeader := afterHeader[trailerStart-1]
	if nextHeader != nextHeaderConstant {
		return 0, nil, &WrongLengthError{Structure: "next header constant", Want: int(nextHeaderConstant), Got: int(nextHeader)}
	}
	padLen := int(afterHeader[trailerStart-2])
	if trailerStart-2-padLen < 0 {
		return 0, nil, &WrongLengthError{Structure: "integrity pad", Want: padLen, Got: trailerStart - 2}
	}
	return trailerStart - 2 - padLen, mac, nil
}

func payloadLengthOf(s SessionHeader) uint16 {
	if s.V1 != nil {
		return uint16(s.V1.PayloadLength)
	}
	return s.V2.PayloadLength
}
