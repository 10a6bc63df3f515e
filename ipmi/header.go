package ipmi

import "encoding/binary"

// SessionHeader is the tagged union of the two IPMI session header
// variants. AuthType discriminates them: AuthTypeRMCPPlus selects V2, any
// other value selects V1 (spec.md Data Model / 4.4).
//
// Grounded on the teacher's ipmi15SessionHeader/ipmi20SessionHeader
// (go-sol/rmcp.go), which only ever emitted a v2.0 header; this rewrite
// adds the v1.5 variant (needed for the unencrypted Discovery exchange)
// and bidirectional parse/encode for both, along with the asymmetric
// endianness spec.md 4.6 calls out (v1.5 session id/sequence are
// big-endian; v2.0's are little-endian).
type SessionHeader struct {
	V1 *IPMIV1Header
	V2 *IPMIV2Header
}

// IPMIV1Header is the IPMI v1.5 session header: 10 bytes when AuthType is
// None, 26 bytes otherwise (the extra 16 bytes being the auth code).
type IPMIV1Header struct {
	AuthType         AuthType
	SessionSeqNumber uint32
	SessionID        uint32
	AuthCode         *[16]byte // present iff AuthType != AuthTypeNone
	PayloadLength    uint8
}

func (h *IPMIV1Header) size() int {
	if h.AuthType == AuthTypeNone {
		return 10
	}
	return 26
}

func (h *IPMIV1Header) encode() []byte {
	buf := make([]byte, h.size())
	buf[0] = uint8(h.AuthType)
	binary.BigEndian.PutUint32(buf[1:5], h.SessionSeqNumber)
	binary.BigEndian.PutUint32(buf[5:9], h.SessionID)
	if h.AuthType == AuthTypeNone {
		buf[9] = h.PayloadLength
		return buf
	}
	if h.AuthCode != nil {
		copy(buf[9:25], h.AuthCode[:])
	}
	buf[25] = h.PayloadLength
	return buf
}

// decodeIPMIV1Header parses a v1.5 session header. The caller has already
// validated data[0] selects this variant.
func decodeIPMIV1Header(data []byte) (*IPMIV1Header, error) {
	if len(data) < 10 {
		return nil, &WrongLengthError{Structure: "IPMIV1Header", Want: 10, Got: len(data)}
	}
	h := &IPMIV1Header{
		AuthType:         AuthType(data[0]),
		SessionSeqNumber: binary.BigEndian.Uint32(data[1:5]),
		SessionID:        binary.BigEndian.Uint32(data[5:9]),
	}
	if h.AuthType == AuthTypeNone {
		h.PayloadLength = data[9]
		return h, nil
	}
	if len(data) < 26 {
		return nil, &WrongLengthError{Structure: "IPMIV1Header", Want: 26, Got: len(data)}
	}
	var code [16]byte
	copy(code[:], data[9:25])
	h.AuthCode = &code
	h.PayloadLength = data[25]
	return h, nil
}

// IPMIV2Header is the IPMI v2.0 / RMCP+ session header: 12 bytes for
// non-OEM payload types, 18 bytes for OEM (which carries an extra IANA
// enterprise number and OEM payload id).
type IPMIV2Header struct {
	PayloadEncrypted   bool
	PayloadAuthed      bool
	PayloadType        PayloadType
	OEMIANA            uint32 // valid iff PayloadType == PayloadTypeOEM
	OEMPayloadID       uint16 // valid iff PayloadType == PayloadTypeOEM
	SessionID          uint32
	SessionSeqNumber   uint32
	PayloadLength      uint16
}

func (h *IPMIV2Header) size() int {
	if h.PayloadType == PayloadTypeOEM {
		return 18
	}
	return 12
}

func (h *IPMIV2Header) encode() []byte {
	buf := make([]byte, h.size())
	buf[0] = uint8(AuthTypeRMCPPlus)
	var enc, auth uint8
	if h.PayloadEncrypted {
		enc = 1
	}
	if h.PayloadAuthed {
		auth = 1
	}
	// byte1 = enc:1 | auth:1 | rsvd:2 | payload_type:4
	buf[1] = enc<<7 | auth<<6 | uint8(h.PayloadType)&0x3F
	off := 2
	if h.PayloadType == PayloadTypeOEM {
		binary.LittleEndian.PutUint32(buf[off:off+4], h.OEMIANA)
		binary.LittleEndian.PutUint16(buf[off+4:off+6], h.OEMPayloadID)
		off += 6
	}
	binary.LittleEndian.PutUint32(buf[off:off+4], h.SessionID)
	binary.LittleEndian.PutUint32(buf[off+4:off+8], h.SessionSeqNumber)
	binary.LittleEndian.PutUint16(buf[off+8:off+10], h.PayloadLength)
	return buf
}

// decodeIPMIV2Header parses a v2.0 session header. The caller has already
// validated data[0] == AuthTypeRMCPPlus.
func decodeIPMIV2Header(data []byte) (*IPMIV2Header, error) {
	if len(data) < 2 {
		return nil, &WrongLengthError{Structure: "IPMIV2Header", Want: 2, Got: len(data)}
	}
	b1 := data[1]
	pt := PayloadType(b1 & 0x3F)
	if !pt.valid() {
		return nil, &UnsupportedPayloadTypeError{PayloadType: byte(pt)}
	}
	h := &IPMIV2Header{
		PayloadEncrypted: b1&0x80 != 0,
		PayloadAuthed:    b1&0x40 != 0,
		PayloadType:      pt,
	}
	need := h.size()
	if len(data) < need {
		return nil, &WrongLengthError{Structure: "IPMIV2Header", Want: need, Got: len(data)}
	}
	off := 2
	if pt == PayloadTypeOEM {
		h.OEMIANA = binary.LittleEndian.Uint32(data[off : off+4])
		h.OEMPayloadID = binary.LittleEndian.Uint16(data[off+4 : off+6])
		off += 6
	}
	h.SessionID = binary.LittleEndian.Uint32(data[off : off+4])
	h.SessionSeqNumber = binary.LittleEndian.Uint32(data[off+4 : off+8])
	h.PayloadLength = binary.LittleEndian.Uint16(data[off+8 : off+10])
	return h, nil
}

// headerLen returns the byte length of the session header given its first
// two bytes, per spec.md 4.4's header_len(first, second).
func headerLen(first, second byte) (int, error) {
	at := AuthType(first)
	if !at.valid() {
		return 0, &UnsupportedAuthTypeError{AuthType: first}
	}
	if at != AuthTypeRMCPPlus {
		if at == AuthTypeNone {
			return 10, nil
		}
		return 26, nil
	}
	pt := PayloadType(second & 0x3F)
	if !pt.valid() {
		return 0, &UnsupportedPayloadTypeError{PayloadType: byte(pt)}
	}
	if pt == PayloadTypeOEM {
		return 18, nil
	}
	return 12, nil
}

// DecodeSessionHeader parses a session header from data, dispatching on the
// first byte's AuthType.
func DecodeSessionHeader(data []byte) (SessionHeader, int, error) {
	if len(data) < 1 {
		return SessionHeader{}, 0, &WrongLengthError{Structure: "SessionHeader", Want: 1, Got: 0}
	}
	n, err := headerLen(data[0], secondByteOrZero(data))
	if err != nil {
		return SessionHeader{}, 0, err
	}
	if len(data) < n {
		return SessionHeader{}, 0, &WrongLengthError{Structure: "SessionHeader", Want: n, Got: len(data)}
	}
	if AuthType(data[0]) == AuthTypeRMCPPlus {
		v2, err := decodeIPMIV2Header(data[:n])
		if err != nil {
			return SessionHeader{}, 0, err
		}
		return SessionHeader{V2: v2}, n, nil
	}
	v1, err := decodeIPMIV1Header(data[:n])
	if err != nil {
		return SessionHeader{}, 0, err
	}
	return SessionHeader{V1: v1}, n, nil
}

func secondByteOrZero(data []byte) byte {
	if len(data) < 2 {
		return 0
	}
	return data[1]
}

// Encode serializes whichever variant is populated.
func (s SessionHeader) Encode() []byte {
	if s.V2 != nil {
		return s.V2.encode()
	}
	return s.V1.encode()
}
