package ipmi

import (
	"bytes"
	"testing"
)

func TestEncodeUnencryptedSetsPayloadLengthAndRoundTrips(t *testing.T) {
	t.Parallel()
	rmcp := DefaultRMCPHeader()
	session := SessionHeader{V1: &IPMIV1Header{AuthType: AuthTypeNone, SessionSeqNumber: 0, SessionID: 0}}
	payload := []byte{0x20, 0x18, 0xC8, 0x81, 0x20, 0x38, 0x8E, 0x04, 0x55}

	encoded := EncodeUnencrypted(rmcp, session, payload)
	pkt, err := DecodePacket(encoded, nil, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(pkt.Payload, payload) {
		t.Fatalf("payload = %v, want %v", pkt.Payload, payload)
	}
	if pkt.Session.V1 == nil || pkt.Session.V1.PayloadLength != uint8(len(payload)) {
		t.Fatalf("payload length not set correctly: %+v", pkt.Session.V1)
	}
}

func TestEncodeUnencryptedV2RoundTrips(t *testing.T) {
	t.Parallel()
	rmcp := DefaultRMCPHeader()
	session := SessionHeader{V2: &IPMIV2Header{
		PayloadType:      PayloadTypeOpenSessionReq,
		SessionID:        0,
		SessionSeqNumber: 0,
	}}
	payload := []byte{0x01, 0x00, 0x00, 0x00}

	encoded := EncodeUnencrypted(rmcp, session, payload)
	pkt, err := DecodePacket(encoded, nil, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(pkt.Payload, payload) {
		t.Fatalf("payload = %v, want %v", pkt.Payload, payload)
	}
}

func TestEncodeEncryptedV2RoundTrips(t *testing.T) {
	t.Parallel()
	rmcp := DefaultRMCPHeader()
	header := IPMIV2Header{
		PayloadType:      PayloadTypeIPMI,
		SessionID:        0x01020304,
		SessionSeqNumber: 1,
	}
	k1 := bytes.Repeat([]byte{0xAA}, 32)
	k2 := bytes.Repeat([]byte{0xBB}, 32)
	payload := NewRequest(NetFnAppReq, CmdGetChannelAuthCapabilities, []byte{0x8E, 0x04}).Encode()

	encoded, err := EncodeEncryptedV2(rmcp, header, k1, k2, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	pkt, err := DecodePacket(encoded, k1, k2)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(pkt.Payload, payload) {
		t.Fatalf("payload = %v, want %v", pkt.Payload, payload)
	}
	if !pkt.Session.V2.PayloadEncrypted || !pkt.Session.V2.PayloadAuthed {
		t.Fatal("decoded header should report encrypted+authed")
	}
}

func TestEncodeEncryptedV2ProducesBlockAlignedCiphertext(t *testing.T) {
	t.Parallel()
	rmcp := DefaultRMCPHeader()
	header := IPMIV2Header{PayloadType: PayloadTypeIPMI, SessionID: 1, SessionSeqNumber: 1}
	k1 := bytes.Repeat([]byte{0x01}, 32)
	k2 := bytes.Repeat([]byte{0x02}, 32)

	for n := 0; n < 40; n++ {
		payload := make([]byte, n)
		encoded, err := EncodeEncryptedV2(rmcp, header, k1, k2, payload)
		if err != nil {
			t.Fatalf("n=%d: encode: %v", n, err)
		}
		pkt, err := DecodePacket(encoded, k1, k2)
		if err != nil {
			t.Fatalf("n=%d: decode: %v", n, err)
		}
		if len(pkt.Payload) != n {
			t.Fatalf("n=%d: decoded payload length = %d", n, len(pkt.Payload))
		}
	}
}

func TestDecodePacketRejectsTamperedIntegrityTrailer(t *testing.T) {
	t.Parallel()
	rmcp := DefaultRMCPHeader()
	header := IPMIV2Header{PayloadType: PayloadTypeIPMI, SessionID: 1, SessionSeqNumber: 1}
	k1 := bytes.Repeat([]byte{0xCC}, 32)
	k2 := bytes.Repeat([]byte{0xDD}, 32)
	payload := []byte{0x01, 0x02, 0x03, 0x04}

	encoded, err := EncodeEncryptedV2(rmcp, header, k1, k2, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	encoded[len(encoded)-1] ^= 0xFF

	if _, err := DecodePacket(encoded, k1, k2); err == nil {
		t.Fatal("expected BadIntegrityTrailerError for tampered MAC")
	} else if _, ok := err.(*BadIntegrityTrailerError); !ok {
		t.Fatalf("error type = %T, want *BadIntegrityTrailerError", err)
	}
}

func TestDecodePacketRejectsTamperedCiphertext(t *testing.T) {
	t.Parallel()
	rmcp := DefaultRMCPHeader()
	header := IPMIV2Header{PayloadType: PayloadTypeIPMI, SessionID: 1, SessionSeqNumber: 1}
	k1 := bytes.Repeat([]byte{0xEE}, 32)
	k2 := bytes.Repeat([]byte{0xFF}, 32)
	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	encoded, err := EncodeEncryptedV2(rmcp, header, k1, k2, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// Flip a byte inside the ciphertext region (after RMCP header + v2 header + IV).
	encoded[rmcpHeaderSize+12+16] ^= 0xFF

	if _, err := DecodePacket(encoded, k1, k2); err == nil {
		t.Fatal("expected BadIntegrityTrailerError for tampered ciphertext")
	}
}

func TestDecodePacketWithWrongKeyFails(t *testing.T) {
	t.Parallel()
	rmcp := DefaultRMCPHeader()
	header := IPMIV2Header{PayloadType: PayloadTypeIPMI, SessionID: 1, SessionSeqNumber: 1}
	k1 := bytes.Repeat([]byte{0x10}, 32)
	k2 := bytes.Repeat([]byte{0x20}, 32)
	wrongK1 := bytes.Repeat([]byte{0x99}, 32)
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	encoded, err := EncodeEncryptedV2(rmcp, header, k1, k2, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodePacket(encoded, wrongK1, k2); err == nil {
		t.Fatal("expected failure decoding with wrong integrity key")
	}
}

func TestDecodePacketScenarioFGeometry(t *testing.T) {
	t.Parallel()
	// Mirrors the spec's worked example: 12-byte v2 header, 16-byte IV,
	// and a 32-byte ciphertext (24 bytes of payload padded to 32).
	rmcp := DefaultRMCPHeader()
	header := IPMIV2Header{PayloadType: PayloadTypeIPMI, SessionID: 7, SessionSeqNumber: 1}
	k1 := bytes.Repeat([]byte{0x55}, 32)
	k2 := bytes.Repeat([]byte{0x66}, 32)
	payload := make([]byte, 24)
	for i := range payload {
		payload[i] = byte(i)
	}

	encoded, err := EncodeEncryptedV2(rmcp, header, k1, k2, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	pkt, err := DecodePacket(encoded, k1, k2)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(pkt.Payload, payload) {
		t.Fatalf("payload mismatch")
	}
}
