package ipmi

import "testing"

func TestRMCPHeaderEncodeScenarioB(t *testing.T) {
	t.Parallel()
	h := DefaultRMCPHeader()
	got := h.Encode()
	want := []byte{0x06, 0x00, 0xFF, 0x07}
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = 0x%02X, want 0x%02X", i, got[i], want[i])
		}
	}
}

func TestRMCPHeaderRoundTrip(t *testing.T) {
	t.Parallel()
	h := RMCPHeader{Version: 0x06, Sequence: 0x42, Ack: true, Class: MessageClassASF}
	encoded := h.Encode()
	got, err := DecodeRMCPHeader(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != h {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestRMCPHeaderRejectsUnknownClass(t *testing.T) {
	t.Parallel()
	data := []byte{0x06, 0x00, 0x00, 0x0F}
	if _, err := DecodeRMCPHeader(data); err == nil {
		t.Fatal("expected error for unsupported message class")
	}
}

func TestRMCPHeaderRejectsShortInput(t *testing.T) {
	t.Parallel()
	if _, err := DecodeRMCPHeader([]byte{0x06, 0x00}); err == nil {
		t.Fatal("expected error for truncated header")
	}
}
