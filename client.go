package ipmiclient

import (
	"fmt"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"ipmiclient/ipmi"
	"ipmiclient/metrics"
	"ipmiclient/session"
	"ipmiclient/transport"
)

// Client is the thin public boundary spec.md 4.9 specifies: dial, optional
// timeout configuration, establish, and send raw requests. It owns exactly
// one connected UDP socket and one session; concurrent calls on the same
// instance are not supported (spec.md 5).
//
// Grounded on the teacher's Session/Config/New/Connect (go-sol/sol.go),
// generalized from a SOL-console-specific session to the generic
// send-one-request-get-one-response client spec.md 4.9 describes, and from
// go.mod's go-sol dependency itself (removed — see DESIGN.md) to this
// package's own implementation.
type Client struct {
	conn *transport.Conn
	sess *session.Session

	metrics *metrics.Collector

	requestsSent    atomic.Uint64
	requestsErrored atomic.Uint64
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithMetrics attaches a prometheus-backed collector to c. Omit this option
// to run with zero metrics overhead (SPEC_FULL.md 4.11).
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Client) { c.metrics = collector }
}

// New binds a UDP socket to 0.0.0.0:0, connects it to address (default BMC
// port 623 if no port is given), and sets a default read timeout of 20
// seconds (spec.md 4.9).
func New(address string, opts ...Option) (*Client, error) {
	conn, err := transport.Dial(address)
	if err != nil {
		return nil, err
	}
	c := &Client{conn: conn}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetReadTimeout changes the deadline applied to every subsequent socket
// read (spec.md 4.9).
func (c *Client) SetReadTimeout(d time.Duration) {
	c.conn.SetReadTimeout(d)
}

// EstablishConnection runs the full Discovery → Authentication state
// machine (spec.md 4.8) and leaves the client ready for SendRawRequest.
// password is used as the HMAC key exactly as supplied; username must be
// 255 bytes or shorter.
func (c *Client) EstablishConnection(username, password string) error {
	c.metrics.EstablishAttempt()
	start := time.Now()

	sess := session.New(username, password)
	err := session.Establish(sess, c.conn)

	c.metrics.ObserveEstablishDuration(time.Since(start).Seconds())
	if err != nil {
		c.metrics.EstablishFailure(establishFailureStage(sess))
		log.Errorf("ipmiclient: establish connection failed: %v", err)
		return err
	}
	c.sess = sess
	return nil
}

func establishFailureStage(sess *session.Session) string {
	if sess.State == session.StateDiscovery {
		return "discovery"
	}
	return "authentication"
}

// SendRawRequest issues one IPMI request over the established session and
// returns the parsed response (spec.md 4.9). Completion codes other than
// CompletedNormally are returned as data on the response, not as an error
// (spec.md 7).
func (c *Client) SendRawRequest(fn ipmi.NetFn, command uint8, data []byte) (ipmi.Message, error) {
	if c.sess == nil || c.sess.State != session.StateEstablished {
		c.metrics.RawRequestError("session_not_established")
		return ipmi.Message{}, &ipmi.SessionNotEstablishedError{}
	}
	if err := c.ensurePrivilege(); err != nil {
		c.metrics.RawRequestError("set_privilege")
		return ipmi.Message{}, err
	}

	c.metrics.RawRequest(fn.String())
	log.Debugf("ipmiclient: send_raw_request net_fn=%s command=0x%02X", fn, command)
	c.requestsSent.Add(1)

	resp, err := c.sendEstablished(ipmi.NewRequest(fn, command, data))
	if err != nil {
		c.metrics.RawRequestError(errorKind(err))
		c.requestsErrored.Add(1)
		return ipmi.Message{}, err
	}
	log.Debugf("ipmiclient: send_raw_request completion_code=%v", resp.CompletionCode)
	return resp, nil
}

// ensurePrivilege negotiates Set Session Privilege Level once per session
// (spec.md 4.8 Established: "subsequent commands skip this step while the
// cached privilege holds").
func (c *Client) ensurePrivilege() error {
	if _, ok := c.sess.CachedPrivilege(); ok {
		return nil
	}
	resp, err := c.sendEstablished(ipmi.NewRequest(ipmi.NetFnAppReq, ipmi.CmdSetSessionPrivilegeLevel,
		[]byte{uint8(ipmi.PrivilegeAdministrator)}))
	if err != nil {
		return err
	}
	if resp.CompletionCode != ipmi.CompletedNormally {
		return fmt.Errorf("ipmiclient: set session privilege level: completion code %v", resp.CompletionCode)
	}
	c.sess.SetCachedPrivilege(ipmi.PrivilegeAdministrator)
	return nil
}

// CloseSession sends App / Close Session (0x3C) so the BMC frees this
// session's slot, then marks the client's session unusable. Grounded on the
// teacher's closeSession (go-sol/session.go) and original_source's
// src/commands/app/channel.rs CloseSession helper (SPEC_FULL.md).
func (c *Client) CloseSession() error {
	if c.sess == nil || c.sess.State != session.StateEstablished {
		return &ipmi.SessionNotEstablishedError{}
	}
	data := make([]byte, 4)
	sid := c.sess.ManagedSystemSessionID()
	data[0] = byte(sid)
	data[1] = byte(sid >> 8)
	data[2] = byte(sid >> 16)
	data[3] = byte(sid >> 24)
	_, err := c.sendEstablished(ipmi.NewRequest(ipmi.NetFnAppReq, ipmi.CmdCloseSession, data))
	c.sess.Close()
	c.sess = nil
	return err
}

// sendEstablished encrypts req per the Established-state envelope (spec.md
// 4.7 encrypted path) and decodes the response.
func (c *Client) sendEstablished(req ipmi.Message) (ipmi.Message, error) {
	k1, k2 := c.sess.Keys()
	rmcp := ipmi.DefaultRMCPHeader()
	header := ipmi.IPMIV2Header{
		PayloadType:      ipmi.PayloadTypeIPMI,
		SessionID:        c.sess.ManagedSystemSessionID(),
		SessionSeqNumber: c.sess.NextSequence(),
	}
	packet, err := ipmi.EncodeEncryptedV2(rmcp, header, k1, k2, req.Encode())
	if err != nil {
		return ipmi.Message{}, err
	}

	raw, err := c.conn.SendReceive(packet)
	if err != nil {
		return ipmi.Message{}, err
	}
	decoded, err := ipmi.DecodePacket(raw, k1, k2)
	if err != nil {
		return ipmi.Message{}, err
	}
	return ipmi.DecodeMessage(decoded.Payload)
}

func errorKind(err error) string {
	switch err.(type) {
	case *ipmi.BadIntegrityTrailerError, *ipmi.BadChecksumError, *ipmi.WrongLengthError:
		return "packet"
	default:
		if err == transport.ErrNoResponse {
			return "no_response"
		}
		return "other"
	}
}

// Close releases the underlying socket. It does not attempt to close the
// BMC-side session first; call CloseSession for that.
func (c *Client) Close() error {
	return c.conn.Close()
}

// The methods below satisfy statusserver.StatusProvider, giving the
// optional introspection HTTP server (SPEC_FULL.md 4.12) a read-only view
// of session state without exposing any mutable internals.

// Established reports whether the session has completed the RAKP
// handshake.
func (c *Client) Established() bool {
	return c.sess != nil && c.sess.State == session.StateEstablished
}

// CipherSuite returns the negotiated cipher suite, if a session exists.
func (c *Client) CipherSuite() (ipmi.CipherSuite, bool) {
	if c.sess == nil {
		return ipmi.CipherSuite{}, false
	}
	return c.sess.Cipher(), true
}

// SessionIDs returns both session ids, if a session exists.
func (c *Client) SessionIDs() (remoteConsole, managedSystem uint32, ok bool) {
	if c.sess == nil {
		return 0, 0, false
	}
	return c.sess.RemoteConsoleSessionID(), c.sess.ManagedSystemSessionID(), true
}

// EstablishedSince returns how long the session has been Established,
// zero if not yet established.
func (c *Client) EstablishedSince() time.Duration {
	if c.sess == nil {
		return 0
	}
	return c.sess.EstablishedDuration()
}

// CachedPrivilege returns the privilege level cached by the last Set
// Session Privilege Level exchange, if any.
func (c *Client) CachedPrivilege() (ipmi.Privilege, bool) {
	if c.sess == nil {
		return 0, false
	}
	return c.sess.CachedPrivilege()
}

// RequestCounts returns the number of SendRawRequest calls made and how
// many of those errored.
func (c *Client) RequestCounts() (sent, errored uint64) {
	return c.requestsSent.Load(), c.requestsErrored.Load()
}
