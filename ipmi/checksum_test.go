package ipmi

import "testing"

func TestChecksumScenarioA(t *testing.T) {
	t.Parallel()
	got := checksum([]byte{0x20, 0x18})
	if got != 0xC8 {
		t.Fatalf("checksum = 0x%02X, want 0xC8", got)
	}
	span := append([]byte{0x20, 0x18}, got)
	if checksum(span) != 0 {
		t.Fatalf("span including checksum does not sum to zero mod 256")
	}
}

func TestJoinScenarioD(t *testing.T) {
	t.Parallel()
	cases := []struct {
		high, low uint8
		split     uint
		want      uint8
	}{
		{0x0, 0x0E, 4, 0x0E},
		{0x1, 0x04, 4, 0x14},
		{0, 7, 1, 0x07},
	}
	for _, c := range cases {
		if got := join(c.high, c.low, c.split); got != c.want {
			t.Errorf("join(0x%X, 0x%X, %d) = 0x%02X, want 0x%02X", c.high, c.low, c.split, got, c.want)
		}
	}
}

func TestPadConfidentialityScenarioF(t *testing.T) {
	t.Parallel()
	payload := make([]byte, 20)
	padded := padConfidentiality(payload)
	if len(padded)%16 != 0 {
		t.Fatalf("padded length %d is not block-aligned", len(padded))
	}
	unpadded, err := unpadConfidentiality(padded)
	if err != nil {
		t.Fatalf("unpad: %v", err)
	}
	if len(unpadded) != len(payload) {
		t.Fatalf("unpadded length = %d, want %d", len(unpadded), len(payload))
	}
}

func TestPadConfidentialityAlreadyAligned(t *testing.T) {
	t.Parallel()
	payload := make([]byte, 32)
	for i := range payload {
		payload[i] = byte(i)
	}
	padded := padConfidentiality(payload)
	if len(padded) != len(payload) {
		t.Fatalf("16-byte-multiple payload should not grow: got %d, want %d", len(padded), len(payload))
	}
}

func TestPadConfidentialityRoundTripAllRemainders(t *testing.T) {
	t.Parallel()
	for n := 0; n < 64; n++ {
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(i)
		}
		padded := padConfidentiality(payload)
		if len(padded)%16 != 0 {
			t.Fatalf("n=%d: padded length %d not block aligned", n, len(padded))
		}
		got, err := unpadConfidentiality(padded)
		if err != nil {
			t.Fatalf("n=%d: unpad error: %v", n, err)
		}
		if len(got) != n {
			t.Fatalf("n=%d: unpadded length %d", n, len(got))
		}
		for i := range got {
			if got[i] != payload[i] {
				t.Fatalf("n=%d: byte %d mismatch", n, i)
			}
		}
	}
}

// integrityPadNeeded mirrors the arithmetic in EncodeEncryptedV2 and
// spec.md scenario F: with a 12-byte v2 header, 16-byte IV, and 32-byte
// ciphertext, pad_needed should be 2.
func TestIntegrityPadNeededScenarioF(t *testing.T) {
	t.Parallel()
	headerLen, ivLen, ctLen := 12, 16, 32
	got := (4 - ((headerLen + ivLen + ctLen + 2) % 4)) % 4
	if got != 2 {
		t.Fatalf("pad_needed = %d, want 2", got)
	}
}
