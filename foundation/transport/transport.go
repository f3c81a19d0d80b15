// Package transport defines the result of waiting on the network for a
// chain broadcast by another participant.
package transport

import "errors"

// MaxDatagram is the practical ceiling on a single message. A chain larger
// than this can't be broadcast since fragmentation is not supported.
const MaxDatagram = 9216

// ErrTooLarge is returned when a message would not fit in one datagram.
var ErrTooLarge = errors.New("message exceeds datagram size")

// Received represents the outcome of a bounded receive. It is either a
// Message or a Timeout and is consumed with a type switch.
type Received interface {
	received()
}

// Message represents a datagram received from another participant.
type Message struct {
	From string
	Data []byte
}

// Timeout represents a receive that ended with nothing to read.
type Timeout struct{}

func (Message) received() {}
func (Timeout) received() {}
