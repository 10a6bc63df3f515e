package ipmi

// MessageClass identifies the RMCP payload class carried after the 4-byte
// RMCP header.
type MessageClass uint8

const (
	MessageClassASF  MessageClass = 6
	MessageClassIPMI MessageClass = 7
	MessageClassOEM  MessageClass = 8
)

func (c MessageClass) valid() bool {
	return c == MessageClassASF || c == MessageClassIPMI || c == MessageClassOEM
}

// RMCPHeader is the 4-byte outer frame common to every datagram exchanged
// with a BMC: [version][reserved][sequence][ack:1|rsvd:3|class:4].
// Grounded on the teacher's rmcpHeader (go-sol/rmcp.go), generalized with
// parse/validate and the packed ack+class byte spec.md requires (the
// teacher never set ack or parsed an incoming header, only emitted one).
type RMCPHeader struct {
	Version  uint8
	Sequence uint8
	Ack      bool
	Class    MessageClass
}

// DefaultRMCPHeader is the header this library emits on every outgoing
// packet: version 0x06, no ACK requested, IPMI message class.
func DefaultRMCPHeader() RMCPHeader {
	return RMCPHeader{Version: 0x06, Sequence: 0xFF, Ack: false, Class: MessageClassIPMI}
}

const rmcpHeaderSize = 4

// Encode serializes the header to its 4-byte wire form.
func (h RMCPHeader) Encode() []byte {
	var ackBit uint8
	if h.Ack {
		ackBit = 1
	}
	return []byte{
		h.Version,
		0x00,
		h.Sequence,
		join(ackBit, uint8(h.Class), 1),
	}
}

// DecodeRMCPHeader parses the first 4 bytes of data as an RMCP header.
func DecodeRMCPHeader(data []byte) (RMCPHeader, error) {
	if len(data) < rmcpHeaderSize {
		return RMCPHeader{}, &WrongLengthError{Structure: "RMCPHeader", Want: rmcpHeaderSize, Got: len(data)}
	}
	last := data[3]
	class := MessageClass(last & 0x0F)
	if !class.valid() {
		return RMCPHeader{}, &UnsupportedMessageClassError{Class: byte(last & 0x0F)}
	}
	return RMCPHeader{
		Version:  data[0],
		Sequence: data[2],
		Ack:      last&0x80 != 0,
		Class:    class,
	}, nil
}
