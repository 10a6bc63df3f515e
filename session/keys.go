package session

import (
	"encoding/binary"

	"ipmiclient/ipmi"
)

// deriveSIK computes the Session Integrity Key per spec.md 4.8 step 4 /
// scenario E: HMAC-SHA256(password_key, R_c || R_m || role_byte ||
// username_len || username).
func deriveSIK(passwordKey []byte, rc, rm [16]byte, roleByte byte, username string) []byte {
	buf := make([]byte, 0, 16+16+1+1+len(username))
	buf = append(buf, rc[:]...)
	buf = append(buf, rm[:]...)
	buf = append(buf, roleByte, uint8(len(username)))
	buf = append(buf, username...)
	return hmacSHA256Exported(passwordKey, buf)
}

// deriveK1 computes the integrity key per spec.md 4.8 step 4:
// HMAC-SHA256(SIK, 0x01 repeated 20 times).
func deriveK1(sik []byte) []byte {
	return hmacSHA256Exported(sik, repeatedByte(0x01, 20))
}

// deriveK2 computes the confidentiality key per spec.md 4.8 step 4:
// HMAC-SHA256(SIK, 0x02 repeated 20 times).
func deriveK2(sik []byte) []byte {
	return hmacSHA256Exported(sik, repeatedByte(0x02, 20))
}

func repeatedByte(b byte, n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = b
	}
	return buf
}

// rakp3AuthCode computes the RAKP3 auth code per spec.md 4.8 step 5:
// HMAC-SHA256(password_key, R_m || remote_console_session_id || role_byte
// || username_len || username).
func rakp3AuthCode(passwordKey []byte, rm [16]byte, remoteConsoleSessionID uint32, roleByte byte, username string) []byte {
	buf := make([]byte, 0, 16+4+1+1+len(username))
	buf = append(buf, rm[:]...)
	sid := make([]byte, 4)
	binary.LittleEndian.PutUint32(sid, remoteConsoleSessionID)
	buf = append(buf, sid...)
	buf = append(buf, roleByte, uint8(len(username)))
	buf = append(buf, username...)
	return hmacSHA256Exported(passwordKey, buf)
}

// rakp4ExpectedIntegrityCheck computes spec.md 4.8 step 6's expected
// integrity check value: HMAC-SHA256(SIK, R_c || managed_system_session_id
// || managed_system_guid)[0..16].
func rakp4ExpectedIntegrityCheck(sik []byte, rc [16]byte, managedSystemSessionID uint32, guid [16]byte) []byte {
	buf := make([]byte, 0, 16+4+16)
	buf = append(buf, rc[:]...)
	sid := make([]byte, 4)
	binary.LittleEndian.PutUint32(sid, managedSystemSessionID)
	buf = append(buf, sid...)
	buf = append(buf, guid[:]...)
	full := hmacSHA256Exported(sik, buf)
	return full[:16]
}

// rakp2ExpectedAuthCode computes the HMAC this library checks RAKP2's
// key_exchange_auth_code against: HMAC-SHA256(password_key, R_m ||
// remote_console_session_id || managed_system_session_id || R_c ||
// managed_system_guid || role_byte || username_len || username) — the
// layout IPMI 2.0 table 13-19 specifies for RAKP2.
func rakp2ExpectedAuthCode(passwordKey []byte, rm [16]byte, remoteConsoleSessionID, managedSystemSessionID uint32, rc [16]byte, guid [16]byte, roleByte byte, username string) []byte {
	buf := make([]byte, 0, 4+4+16+16+16+1+1+len(username))
	rcSid := make([]byte, 4)
	binary.LittleEndian.PutUint32(rcSid, remoteConsoleSessionID)
	buf = append(buf, rcSid...)
	msSid := make([]byte, 4)
	binary.LittleEndian.PutUint32(msSid, managedSystemSessionID)
	buf = append(buf, msSid...)
	buf = append(buf, rc[:]...)
	buf = append(buf, rm[:]...)
	buf = append(buf, guid[:]...)
	buf = append(buf, roleByte, uint8(len(username)))
	buf = append(buf, username...)
	return hmacSHA256Exported(passwordKey, buf)
}

// hmacSHA256Exported calls through to ipmi's crypto primitive; this
// indirection exists only because the ipmi package keeps hmacSHA256
// unexported (it is an internal wire-codec primitive, not part of the
// package's public surface) while the session state machine still needs it
// for key derivation.
func hmacSHA256Exported(key, data []byte) []byte {
	return ipmi.HMACSHA256(key, data)
}
