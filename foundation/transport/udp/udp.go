// Package udp provides the datagram transport used between nodes. Delivery
// is unordered and unacknowledged; a dropped datagram is never retried.
package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/ardanlabs/powchain/foundation/transport"
	"go.uber.org/multierr"
)

// Conn represents a bound UDP socket for one node.
type Conn struct {
	conn        *net.UDPConn
	maxDatagram int
}

// Listen binds a socket to the specified host. A maxDatagram of zero uses
// transport.MaxDatagram.
func Listen(host string, maxDatagram int) (*Conn, error) {
	if maxDatagram <= 0 {
		maxDatagram = transport.MaxDatagram
	}

	addr, err := net.ResolveUDPAddr("udp", host)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", host, err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("binding %s: %w", host, err)
	}

	c := Conn{
		conn:        conn,
		maxDatagram: maxDatagram,
	}

	return &c, nil
}

// Host returns the address the socket is bound to.
func (c *Conn) Host() string {
	return c.conn.LocalAddr().String()
}

// Close releases the socket.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// Receive waits up to timeout for a datagram.
func (c *Conn) Receive(ctx context.Context, timeout time.Duration) (transport.Received, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}

	// One spare byte tells a full datagram from a truncated one.
	buf := make([]byte, c.maxDatagram+1)
	n, addr, err := c.conn.ReadFromUDP(buf)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return transport.Timeout{}, nil
		}
		return nil, err
	}

	if n > c.maxDatagram {
		return nil, fmt.Errorf("datagram from %s over %d bytes: %w", addr, c.maxDatagram, transport.ErrTooLarge)
	}

	return transport.Message{From: addr.String(), Data: buf[:n]}, nil
}

// Send writes the data to the specified host as a single datagram.
func (c *Conn) Send(host string, data []byte) error {
	if len(data) > c.maxDatagram {
		return fmt.Errorf("%d bytes to %s: %w", len(data), host, transport.ErrTooLarge)
	}

	addr, err := net.ResolveUDPAddr("udp", host)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", host, err)
	}

	if _, err := c.conn.WriteToUDP(data, addr); err != nil {
		return fmt.Errorf("sending to %s: %w", host, err)
	}

	return nil
}

// Broadcast sends the data to every host. A failure for one host does not
// stop the send to the others.
func (c *Conn) Broadcast(hosts []string, data []byte) error {
	var err error
	for _, host := range hosts {
		err = multierr.Append(err, c.Send(host, data))
	}

	return err
}
