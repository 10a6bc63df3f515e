package ipmi

import (
	"bytes"
	"testing"
)

func TestAES128CBCRoundTrip(t *testing.T) {
	t.Parallel()
	key := bytes.Repeat([]byte{0x11}, 16)
	iv := bytes.Repeat([]byte{0x22}, 16)
	plaintext := bytes.Repeat([]byte{0x33}, 48)

	ciphertext, err := aes128CBCEncrypt(key, iv, plaintext)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Equal(ciphertext, plaintext) {
		t.Fatal("ciphertext must not equal plaintext")
	}
	got, err := aes128CBCDecrypt(key, iv, ciphertext)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("decrypted = %v, want %v", got, plaintext)
	}
}

func TestAES128CBCDecryptRejectsUnalignedCiphertext(t *testing.T) {
	t.Parallel()
	key := bytes.Repeat([]byte{0x11}, 16)
	iv := bytes.Repeat([]byte{0x22}, 16)
	if _, err := aes128CBCDecrypt(key, iv, make([]byte, 17)); err == nil {
		t.Fatal("expected error for non-block-aligned ciphertext")
	}
}

func TestHMACSHA256_128TruncatesTo16Bytes(t *testing.T) {
	t.Parallel()
	mac := hmacSHA256_128([]byte("key"), []byte("data"))
	if len(mac) != 16 {
		t.Fatalf("length = %d, want 16", len(mac))
	}
	full := hmacSHA256([]byte("key"), []byte("data"))
	if !bytes.Equal(mac, full[:16]) {
		t.Fatal("truncated MAC must be the prefix of the full HMAC-SHA256")
	}
}

func TestConstantTimeEqual(t *testing.T) {
	t.Parallel()
	a := []byte{1, 2, 3}
	b := []byte{1, 2, 3}
	c := []byte{1, 2, 4}
	if !constantTimeEqual(a, b) {
		t.Fatal("identical slices should compare equal")
	}
	if constantTimeEqual(a, c) {
		t.Fatal("differing slices should not compare equal")
	}
	if constantTimeEqual(a, []byte{1, 2}) {
		t.Fatal("differing lengths should not compare equal")
	}
}

func TestRandomIVIsBlockSizedAndVaries(t *testing.T) {
	t.Parallel()
	a, err := randomIV()
	if err != nil {
		t.Fatalf("randomIV: %v", err)
	}
	if len(a) != 16 {
		t.Fatalf("length = %d, want 16", len(a))
	}
	b, _ := randomIV()
	if bytes.Equal(a, b) {
		t.Fatal("two random IVs should not collide")
	}
}

func TestZeroize(t *testing.T) {
	t.Parallel()
	key := []byte{1, 2, 3, 4}
	zeroize(key)
	for i, b := range key {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0", i, b)
		}
	}
}
