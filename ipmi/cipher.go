package ipmi

// Channel and command constants used by the session-setup path (spec.md
// 4.8). These are the only three commands this library's core issues
// itself; everything else is opaque NetFn/Command/data handed to
// SendRawRequest by the caller.
const (
	ChannelCurrent uint8 = 0x0E

	CmdGetChannelAuthCapabilities uint8 = 0x38
	CmdGetChannelCipherSuites     uint8 = 0x54
	CmdSetSessionPrivilegeLevel   uint8 = 0x3B
	CmdCloseSession               uint8 = 0x3C
)

// ChannelAuthCapabilities is the parsed Get Channel Authentication
// Capabilities response. Supplemented from original_source (rust-ipmi's
// src/ipmi/data/app/channel.rs) beyond what spec.md's high-level
// description covers: the status bitmask and OEM fields are modeled in
// full so a caller inspecting this command's raw response (e.g. issued
// manually via SendRawRequest before a session exists) gets structured
// data, not just the single v2.0-support bit Discovery itself needs.
type ChannelAuthCapabilities struct {
	ChannelNumber          uint8
	AuthTypeSupport        uint8 // bitmask: None/MD2/MD5/PasswordOrKey/OEM
	IPMIv20Supported       bool
	AnonymousLoginEnabled  bool
	NullUsernameEnabled    bool
	NonNullUsernameEnabled bool
	UserLevelAuthDisabled  bool
	PerMessageAuthDisabled bool
	OEMIANA                uint32
	OEMAuxData             uint8
}

// DecodeChannelAuthCapabilities parses a Get Channel Authentication
// Capabilities response body (the bytes after the completion code).
func DecodeChannelAuthCapabilities(data []byte) (ChannelAuthCapabilities, error) {
	if len(data) < 8 {
		return ChannelAuthCapabilities{}, &WrongLengthError{Structure: "ChannelAuthCapabilities", Want: 8, Got: len(data)}
	}
	status := data[2]
	c := ChannelAuthCapabilities{
		ChannelNumber:          data[0],
		AuthTypeSupport:        data[1],
		IPMIv20Supported:       data[1]&0x80 != 0,
		AnonymousLoginEnabled:  status&0x01 != 0,
		NullUsernameEnabled:    status&0x02 != 0,
		NonNullUsernameEnabled: status&0x04 != 0,
		UserLevelAuthDisabled:  status&0x10 != 0,
		PerMessageAuthDisabled: status&0x20 != 0,
		OEMIANA:                uint32(data[3]) | uint32(data[4])<<8 | uint32(data[5])<<16,
		OEMAuxData:             data[7],
	}
	return c, nil
}

// GetChannelAuthCapabilitiesRequestData builds the request data bytes for
// Get Channel Authentication Capabilities: channel with the "request
// IPMI v2.0 data" bit set, plus the requested max privilege.
func GetChannelAuthCapabilitiesRequestData(channel uint8, maxPrivilege Privilege) []byte {
	return []byte{channel | 0x80, uint8(maxPrivilege)}
}

// GetChannelCipherSuitesRequestData builds the request data bytes for Get
// Channel Cipher Suites at the given list index. Supplemented from
// original_source (rust-ipmi's cipher.rs): the request carries a fixed
// payload_type byte (0x00, "IPMI") before channel/list_index, which
// spec.md's higher-level description elides but the wire format requires.
func GetChannelCipherSuitesRequestData(channel uint8, listIndex uint8) []byte {
	return []byte{channel, 0x00, listIndex}
}

const cipherSuiteRecordDelimiter = 0xC0

// cipherSuiteScore ranks a cipher suite triple by the fixed preference
// order spec.md 4.8 step 4 specifies: AuthSha256 > Sha1 > MD5; integrity
// Sha256-128 > Md5-128 > Sha1-96 > Md5 (the bare, non-HMAC variant); and
// confidentiality AesCbc128 > Rc4-128 > Rc4-40. Higher is better.
func cipherSuiteScore(s CipherSuite) int {
	score := 0
	switch s.Auth {
	case AuthAlgorithmHMACSHA256:
		score += 300
	case AuthAlgorithmHMACSHA1:
		score += 200
	case AuthAlgorithmHMACMD5:
		score += 100
	}
	switch s.Integrity {
	case IntegrityAlgorithmHMACSHA256_128:
		score += 40
	case IntegrityAlgorithmHMACMD5_128:
		score += 30
	case IntegrityAlgorithmHMACSHA1_96:
		score += 20
	case IntegrityAlgorithmMD5_128:
		score += 10
	}
	switch s.Confidentiality {
	case ConfidentialityAlgorithmAESCBC128:
		score += 3
	case ConfidentialityAlgorithmRC4_128:
		score += 2
	case ConfidentialityAlgorithmRC4_40:
		score += 1
	}
	return score
}

// ParseCipherSuiteRecords splits the accumulated Get Channel Cipher Suites
// response bytes on the 0xC0 delimiter and decodes each following 4-byte
// group as (suite_id, auth_alg, integrity_alg, confidentiality_alg), per
// spec.md 4.8 step 4.
func ParseCipherSuiteRecords(data []byte) []CipherSuite {
	var suites []CipherSuite
	for i := 0; i+4 < len(data); i++ {
		if data[i] != cipherSuiteRecordDelimiter {
			continue
		}
		suites = append(suites, CipherSuite{
			SuiteID:         data[i+1],
			Auth:            AuthAlgorithm(data[i+2] & 0x3F),
			Integrity:       IntegrityAlgorithm(data[i+3] & 0x3F),
			Confidentiality: ConfidentialityAlgorithm(data[i+4] & 0x3F),
		})
		i += 4
	}
	return suites
}

// SelectBestCipherSuite picks the highest-scoring suite from the parsed
// records, falling back to NullCipherSuite if none parsed.
func SelectBestCipherSuite(suites []CipherSuite) CipherSuite {
	if len(suites) == 0 {
		return NullCipherSuite
	}
	best := suites[0]
	bestScore := cipherSuiteScore(best)
	for _, s := range suites[1:] {
		if sc := cipherSuiteScore(s); sc > bestScore {
			best, bestScore = s, sc
		}
	}
	return best
}
