package session

import (
	"crypto/rand"
	"fmt"

	log "github.com/sirupsen/logrus"

	"ipmiclient/ipmi"
	"ipmiclient/transport"
)

// remoteConsoleSessionIDSeed matches the teacher's choice of a fixed,
// recognizable client session id (go-sol/session.go generated one
// randomly; spec.md 4.8 step 1 suggests e.g. 0xA0A2A3A4 as an example of a
// "client-chosen" id). This library generates a fresh random one per
// Establish call instead of hardcoding a single constant, so two
// concurrent Client instances against the same BMC do not collide.
func randomSessionID() (uint32, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

func randomNonce16() ([16]byte, error) {
	var b [16]byte
	_, err := rand.Read(b[:])
	return b, err
}

// authenticate runs spec.md 4.8's Authentication phase: Open Session
// Request/Response, then RAKP1-4, deriving SIK/K1/K2 and validating the
// RAKP2 and RAKP4 authentication codes.
func authenticate(s *Session, conn *transport.Conn) error {
	sid, err := randomSessionID()
	if err != nil {
		return fmt.Errorf("generate session id: %w", err)
	}
	s.remoteConsoleSessionID = sid

	if err := openSession(s, conn); err != nil {
		return err
	}
	return rakpHandshake(s, conn)
}

// openSession sends the RMCP+ Open Session Request and records the
// managed system's assigned session id (spec.md 4.8 Authentication step 1).
func openSession(s *Session, conn *transport.Conn) error {
	req := ipmi.OpenSessionRequest{
		MessageTag:             0,
		MaxPrivilege:           ipmi.PrivilegeAdministrator,
		RemoteConsoleSessionID: s.remoteConsoleSessionID,
		Auth:                   s.cipher.Auth,
		Integrity:              s.cipher.Integrity,
		Confidentiality:        s.cipher.Confidentiality,
	}
	rmcp := ipmi.DefaultRMCPHeader()
	header := ipmi.SessionHeader{V2: &ipmi.IPMIV2Header{PayloadType: ipmi.PayloadTypeOpenSessionReq}}
	packet := ipmi.EncodeUnencrypted(rmcp, header, req.Encode())

	raw, err := conn.SendReceive(packet)
	if err != nil {
		return err
	}
	decoded, err := ipmi.DecodePacket(raw, nil, nil)
	if err != nil {
		return err
	}
	resp, err := ipmi.DecodeOpenSessionResponse(decoded.Payload)
	if err != nil {
		return err
	}
	if resp.Status != ipmi.StatusNoErrors {
		return &ipmi.FailedToOpenSessionError{Code: resp.Status}
	}
	s.managedSystemSessionID = resp.ManagedSystemSessionID
	log.Debugf("session: open session succeeded, managed_system_session_id=0x%08X", s.managedSystemSessionID)
	return nil
}

// rakpHandshake runs RAKP1 through RAKP4, deriving and validating session
// keys along the way (spec.md 4.8 Authentication steps 2-6).
func rakpHandshake(s *Session, conn *transport.Conn) error {
	rc, err := randomNonce16()
	if err != nil {
		return fmt.Errorf("generate RAKP1 random: %w", err)
	}
	s.remoteConsoleRandom = rc

	rakp1 := ipmi.RAKPMessage1{
		ManagedSystemSessionID: s.managedSystemSessionID,
		RemoteConsoleRandom:    rc,
		InheritRole:            true,
		MaxPrivilege:           ipmi.PrivilegeAdministrator,
		Username:               s.username,
	}
	rakp1Bytes, err := rakp1.Encode()
	if err != nil {
		return err
	}

	rmcp := ipmi.DefaultRMCPHeader()
	rakp2Raw, err := sendRAKPStep(conn, rmcp, ipmi.PayloadTypeRAKP1, rakp1Bytes)
	if err != nil {
		return fmt.Errorf("RAKP1: %w", err)
	}
	rakp2, err := ipmi.DecodeRAKPMessage2(rakp2Raw)
	if err != nil {
		return fmt.Errorf("RAKP2 decode: %w", err)
	}
	if rakp2.Status != ipmi.StatusNoErrors {
		return &ipmi.FailedToOpenSessionError{Code: rakp2.Status}
	}
	s.managedSystemRandom = rakp2.ManagedSystemRandom
	s.managedSystemGUID = rakp2.ManagedSystemGUID

	roleByte := ipmi.RoleByte(true, ipmi.PrivilegeAdministrator)
	if len(rakp2.KeyExchangeAuthCode) > 0 {
		want := rakp2ExpectedAuthCode(s.password, s.managedSystemRandom, s.remoteConsoleSessionID,
			s.managedSystemSessionID, s.remoteConsoleRandom, s.managedSystemGUID, roleByte, s.username)
		if !ipmi.ConstantTimeEqualExported(want[:len(rakp2.KeyExchangeAuthCode)], rakp2.KeyExchangeAuthCode) {
			return &ipmi.FailedToValidateRAKP2Error{}
		}
	}

	s.sik = deriveSIK(s.password, s.remoteConsoleRandom, s.managedSystemRandom, roleByte, s.username)
	s.k1 = deriveK1(s.sik)
	s.k2 = deriveK2(s.sik)

	authCode := rakp3AuthCode(s.password, s.managedSystemRandom, s.remoteConsoleSessionID, roleByte, s.username)
	rakp3 := ipmi.RAKPMessage3{
		Status:                 ipmi.StatusNoErrors,
		ManagedSystemSessionID: s.managedSystemSessionID,
		AuthCode:               authCode,
	}
	rakp4Raw, err := sendRAKPStep(conn, rmcp, ipmi.PayloadTypeRAKP3, rakp3.Encode())
	if err != nil {
		return fmt.Errorf("RAKP3: %w", err)
	}
	rakp4, err := ipmi.DecodeRAKPMessage4(rakp4Raw)
	if err != nil {
		return fmt.Errorf("RAKP4 decode: %w", err)
	}
	if rakp4.Status != ipmi.StatusNoErrors {
		return &ipmi.FailedToOpenSessionError{Code: rakp4.Status}
	}
	if len(rakp4.IntegrityCheckValue) > 0 {
		want := rakp4ExpectedIntegrityCheck(s.sik, s.remoteConsoleRandom, s.managedSystemSessionID, s.managedSystemGUID)
		if !ipmi.ConstantTimeEqualExported(want, rakp4.IntegrityCheckValue) {
			return &ipmi.MismatchedKeyExchangeAuthCodeError{}
		}
	}
	log.Debug("session: RAKP handshake complete, SIK/K1/K2 derived")
	return nil
}

// sendRAKPStep wraps payload in an unencrypted v2.0 session header carrying
// payloadType, sends it, and returns the decoded response payload bytes.
func sendRAKPStep(conn *transport.Conn, rmcp ipmi.RMCPHeader, payloadType ipmi.PayloadType, payload []byte) ([]byte, error) {
	header := ipmi.SessionHeader{V2: &ipmi.IPMIV2Header{PayloadType: payloadType}}
	packet := ipmi.EncodeUnencrypted(rmcp, header, payload)
	raw, err := conn.SendReceive(packet)
	if err != nil {
		return nil, err
	}
	decoded, err := ipmi.DecodePacket(raw, nil, nil)
	if err != nil {
		return nil, err
	}
	return decoded.Payload, nil
}
