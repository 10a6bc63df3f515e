package ipmi

import "testing"

func TestDecodeChannelAuthCapabilities(t *testing.T) {
	t.Parallel()
	data := []byte{0x01, 0x80 | 0x04, 0x01 | 0x04, 0x34, 0x12, 0x00, 0x00, 0x77}
	got, err := DecodeChannelAuthCapabilities(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.IPMIv20Supported {
		t.Fatal("expected IPMIv20Supported set from bit 7 of auth type support byte")
	}
	if !got.AnonymousLoginEnabled || !got.NonNullUsernameEnabled {
		t.Fatalf("status bitmask decoded wrong: %+v", got)
	}
	if got.OEMIANA != 0x001234 {
		t.Fatalf("OEM IANA = 0x%06X, want 0x001234", got.OEMIANA)
	}
}

func TestDecodeChannelAuthCapabilitiesRejectsShortInput(t *testing.T) {
	t.Parallel()
	if _, err := DecodeChannelAuthCapabilities([]byte{0x01}); err == nil {
		t.Fatal("expected error for truncated response")
	}
}

func TestGetChannelAuthCapabilitiesRequestDataSetsV20Bit(t *testing.T) {
	t.Parallel()
	got := GetChannelAuthCapabilitiesRequestData(ChannelCurrent, PrivilegeAdministrator)
	if got[0] != ChannelCurrent|0x80 {
		t.Fatalf("channel byte = 0x%02X, want request-v2.0 bit set", got[0])
	}
	if got[1] != uint8(PrivilegeAdministrator) {
		t.Fatalf("privilege byte = 0x%02X", got[1])
	}
}

func TestGetChannelCipherSuitesRequestDataCarriesPayloadTypeByte(t *testing.T) {
	t.Parallel()
	got := GetChannelCipherSuitesRequestData(ChannelCurrent, 2)
	want := []byte{ChannelCurrent, 0x00, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = 0x%02X, want 0x%02X", i, got[i], want[i])
		}
	}
}

func TestParseCipherSuiteRecordsAndSelectBest(t *testing.T) {
	t.Parallel()
	// Two records: suite 1 (MD5/MD5-128/None), suite 3 (SHA256/SHA256-128/AESCBC128).
	data := []byte{
		cipherSuiteRecordDelimiter, 1, uint8(AuthAlgorithmHMACMD5), uint8(IntegrityAlgorithmHMACMD5_128), uint8(ConfidentialityAlgorithmNone),
		cipherSuiteRecordDelimiter, 3, uint8(AuthAlgorithmHMACSHA256), uint8(IntegrityAlgorithmHMACSHA256_128), uint8(ConfidentialityAlgorithmAESCBC128),
	}
	suites := ParseCipherSuiteRecords(data)
	if len(suites) != 2 {
		t.Fatalf("parsed %d suites, want 2", len(suites))
	}
	best := SelectBestCipherSuite(suites)
	if best.SuiteID != 3 {
		t.Fatalf("best suite id = %d, want 3", best.SuiteID)
	}
}

func TestSelectBestCipherSuiteFallsBackToNull(t *testing.T) {
	t.Parallel()
	got := SelectBestCipherSuite(nil)
	if got != NullCipherSuite {
		t.Fatalf("got %+v, want NullCipherSuite", got)
	}
}

func TestCipherSuiteScoreOrdering(t *testing.T) {
	t.Parallel()
	weak := CipherSuite{Auth: AuthAlgorithmHMACMD5, Integrity: IntegrityAlgorithmMD5_128, Confidentiality: ConfidentialityAlgorithmRC4_40}
	strong := CipherSuite{Auth: AuthAlgorithmHMACSHA256, Integrity: IntegrityAlgorithmHMACSHA256_128, Confidentiality: ConfidentialityAlgorithmAESCBC128}
	if cipherSuiteScore(strong) <= cipherSuiteScore(weak) {
		t.Fatalf("strong suite should outscore weak: strong=%d weak=%d", cipherSuiteScore(strong), cipherSuiteScore(weak))
	}
}
