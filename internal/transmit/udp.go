package transmit

import (
	"fmt"
	"io"
	"net"

	"github.com/eytandecker/mavforge/pkg/types"
)

// UDPSink writes each frame as one datagram, the way ground stations
// listen on udp:14550.
type UDPSink struct {
	conn *net.UDPConn
	addr string
}

// OpenUDP resolves addr (host:port) and connects a datagram socket to it.
func OpenUDP(addr string) (*UDPSink, error) {
	if addr == "" {
		return nil, ErrNoTarget
	}
	ua, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transmit: resolve udp %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, ua)
	if err != nil {
		return nil, fmt.Errorf("transmit: dial udp %s: %w", addr, err)
	}
	return &UDPSink{conn: conn, addr: addr}, nil
}

// Send writes one frame as a single datagram.
func (u *UDPSink) Send(frame []byte) error {
	n, err := u.conn.Write(frame)
	if err != nil {
		return &types.TransportError{Err: err, Op: "udp write " + u.addr, Recoverable: true}
	}
	if n != len(frame) {
		return &types.TransportError{Err: io.ErrShortWrite, Op: "udp write " + u.addr, Recoverable: true}
	}
	return nil
}

// Close closes the socket.
func (u *UDPSink) Close() error {
	return u.conn.Close()
}

// String describes the sink for logs and run summaries.
func (u *UDPSink) String() string {
	return "udp " + u.addr
}
