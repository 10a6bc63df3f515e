package session

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"ipmiclient/ipmi"
	"ipmiclient/transport"
)

// maxCipherSuiteListIndex bounds the Get Channel Cipher Suites loop; a
// well-behaved BMC terminates far sooner (spec.md 4.8 step 3: a short
// final record group), this is only a backstop against a BMC that never
// shortens its reply.
const maxCipherSuiteListIndex = 32

// discover runs spec.md 4.8's Discovery phase: Get Channel Authentication
// Capabilities, then the Get Channel Cipher Suites loop, then cipher
// selection. s.cipher is set on success.
func discover(s *Session, conn *transport.Conn) error {
	caps, err := getChannelAuthCapabilities(conn)
	if err != nil {
		return err
	}
	if !caps.IPMIv20Supported {
		return &ipmi.UnsupportedVersionError{}
	}

	records, err := getAllCipherSuiteRecords(conn)
	if err != nil {
		return err
	}
	suites := ipmi.ParseCipherSuiteRecords(records)
	s.cipher = ipmi.SelectBestCipherSuite(suites)
	log.Infof("session: negotiated cipher suite %d (auth=0x%02X integrity=0x%02X confidentiality=0x%02X)",
		s.cipher.SuiteID, s.cipher.Auth, s.cipher.Integrity, s.cipher.Confidentiality)
	return nil
}

// getChannelAuthCapabilities sends the unencrypted v1.5 request spec.md
// 4.8 step 1 describes and parses the response.
func getChannelAuthCapabilities(conn *transport.Conn) (ipmi.ChannelAuthCapabilities, error) {
	req := ipmi.NewRequest(ipmi.NetFnAppReq, ipmi.CmdGetChannelAuthCapabilities,
		ipmi.GetChannelAuthCapabilitiesRequestData(ipmi.ChannelCurrent, ipmi.PrivilegeAdministrator))

	respData, err := sendUnencryptedV1(conn, req)
	if err != nil {
		return ipmi.ChannelAuthCapabilities{}, err
	}
	if respData.CompletionCode != ipmi.CompletedNormally {
		return ipmi.ChannelAuthCapabilities{}, fmt.Errorf("session: get channel auth capabilities: completion code %v", respData.CompletionCode)
	}
	return ipmi.DecodeChannelAuthCapabilities(respData.Data)
}

// getAllCipherSuiteRecords issues Get Channel Cipher Suites requests,
// incrementing list_index until a response returns fewer than 16 record
// bytes (spec.md 4.8 step 3).
func getAllCipherSuiteRecords(conn *transport.Conn) ([]byte, error) {
	var all []byte
	for idx := uint8(0); idx < maxCipherSuiteListIndex; idx++ {
		req := ipmi.NewRequest(ipmi.NetFnAppReq, ipmi.CmdGetChannelCipherSuites,
			ipmi.GetChannelCipherSuitesRequestData(ipmi.ChannelCurrent, idx))
		resp, err := sendUnencryptedV1(conn, req)
		if err != nil {
			return nil, err
		}
		if resp.CompletionCode != ipmi.CompletedNormally {
			return nil, fmt.Errorf("session: get channel cipher suites (index %d): completion code %v", idx, resp.CompletionCode)
		}
		// First byte of the response data echoes the channel number; the
		// record bytes follow it.
		if len(resp.Data) < 1 {
			break
		}
		records := resp.Data[1:]
		all = append(all, records...)
		if len(records) < 16 {
			break
		}
	}
	return all, nil
}

// sendUnencryptedV1 wraps req in an IPMI v1.5, AuthType=None session header
// (session id and sequence zero, no auth code) and returns the parsed
// response message, per spec.md 4.8 step 1's framing.
func sendUnencryptedV1(conn *transport.Conn, req ipmi.Message) (ipmi.Message, error) {
	rmcp := ipmi.DefaultRMCPHeader()
	session := ipmi.SessionHeader{V1: &ipmi.IPMIV1Header{AuthType: ipmi.AuthTypeNone}}
	packet := ipmi.EncodeUnencrypted(rmcp, session, req.Encode())

	raw, err := conn.SendReceive(packet)
	if err != nil {
		return ipmi.Message{}, err
	}
	decoded, err := ipmi.DecodePacket(raw, nil, nil)
	if err != nil {
		return ipmi.Message{}, err
	}
	return ipmi.DecodeMessage(decoded.Payload)
}
