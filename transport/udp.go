// Package transport wraps the connected UDP socket this library speaks
// RMCP+ over. It owns no protocol knowledge; callers hand it bytes to send
// and get bytes back.
//
// Grounded on the teacher's Session.Connect/sendRecv
// (go-sol/sol.go, go-sol/session.go), which dialed with net.DialTimeout and
// did send-then-read with a per-call deadline; this rewrite splits that out
// into a standalone type so the session state machine and the raw-request
// path share one connection instead of each dialing its own. golang.org/x/sys
// is used for SO_RCVBUF/SO_SNDBUF tuning the way glennswest-ipmiserial and
// dantte-lp-gobfd/internal/netio reach past net.UDPConn when they need
// socket-level control the stdlib doesn't expose.
package transport

import (
	"fmt"
	"net"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

const (
	defaultPort       = 623
	defaultReadBuffer = 64 * 1024
	maxDatagramSize   = 1500
)

// Conn is a connected UDP socket to a single BMC peer.
type Conn struct {
	udp         *net.UDPConn
	readTimeout time.Duration
}

// Dial binds a UDP socket to 0.0.0.0:0 and connects it to addr (host or
// host:port; default port 623 is applied if absent), per spec.md 4.9's
// "new(address)". The socket's receive/send buffers are tuned via
// SO_RCVBUF/SO_SNDBUF before use.
func Dial(addr string) (*Conn, error) {
	host, port, err := splitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("transport: bad address %q: %w", addr, err)
	}
	raddr := &net.UDPAddr{IP: net.ParseIP(host), Port: port}
	if raddr.IP == nil {
		resolved, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", host, port))
		if err != nil {
			return nil, fmt.Errorf("transport: resolve %q: %w", addr, err)
		}
		raddr = resolved
	}

	udp, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}

	if err := tuneSocketBuffers(udp); err != nil {
		log.Warnf("transport: socket buffer tuning skipped: %v", err)
	}

	c := &Conn{udp: udp, readTimeout: 20 * time.Second}
	return c, nil
}

func splitHostPort(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, defaultPort, nil
	}
	var port int
	if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
		return "", 0, fmt.Errorf("invalid port %q", portStr)
	}
	return host, port, nil
}

// tuneSocketBuffers widens the kernel's receive/send buffers for the UDP
// socket backing conn, following the teacher's low-level-tuning pattern
// with golang.org/x/sys/unix (Go's net package does not expose SO_RCVBUF).
func tuneSocketBuffers(udp *net.UDPConn) error {
	raw, err := udp.SyscallConn()
	if err != nil {
		return err
	}
	var sockErr error
	err = raw.Control(func(fd uintptr) {
		if e := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, defaultReadBuffer); e != nil {
			sockErr = e
			return
		}
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, defaultReadBuffer)
	})
	if err != nil {
		return err
	}
	return sockErr
}

// SetReadTimeout changes the deadline applied to every subsequent
// SendReceive call (spec.md 4.9's set_read_timeout).
func (c *Conn) SetReadTimeout(d time.Duration) {
	c.readTimeout = d
}

// SendReceive writes payload to the peer and blocks for exactly one
// datagram in reply, per spec.md 5's "no reordering buffer" ordering
// guarantee: send then receive, strictly alternating, no retransmission.
func (c *Conn) SendReceive(payload []byte) ([]byte, error) {
	if err := c.udp.SetDeadline(time.Now().Add(c.readTimeout)); err != nil {
		return nil, fmt.Errorf("transport: set deadline: %w", err)
	}
	if _, err := c.udp.Write(payload); err != nil {
		return nil, fmt.Errorf("transport: send: %w", err)
	}
	buf := make([]byte, maxDatagramSize)
	n, err := c.udp.Read(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, ErrNoResponse
		}
		return nil, fmt.Errorf("transport: receive: %w", err)
	}
	return buf[:n], nil
}

// Close releases the underlying socket.
func (c *Conn) Close() error {
	return c.udp.Close()
}

// ErrNoResponse is returned by SendReceive when the read deadline elapses
// before a datagram arrives, per spec.md 7's recoverable transport-timeout
// category. The session state is left untouched by this error.
var ErrNoResponse = fmt.Errorf("transport: no response within read timeout")
