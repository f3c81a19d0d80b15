// Package memory provides an in-process transport with the same delivery
// guarantees as UDP: messages are copied, may be dropped when an inbox is
// full, and are never acknowledged.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/powchain/foundation/transport"
	"go.uber.org/multierr"
)

// inboxSize is the number of messages an endpoint can hold before new
// messages are dropped.
const inboxSize = 64

// Hub connects endpoints by host name.
type Hub struct {
	mu        sync.RWMutex
	endpoints map[string]*Endpoint
}

// NewHub constructs an empty hub.
func NewHub() *Hub {
	return &Hub{
		endpoints: make(map[string]*Endpoint),
	}
}

// Join registers a new endpoint for the host.
func (h *Hub) Join(host string) *Endpoint {
	h.mu.Lock()
	defer h.mu.Unlock()

	ep := Endpoint{
		hub:   h,
		host:  host,
		inbox: make(chan transport.Message, inboxSize),
	}
	h.endpoints[host] = &ep

	return &ep
}

// Leave removes the host so messages sent to it are dropped.
func (h *Hub) Leave(host string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.endpoints, host)
}

// deliver copies the data into the inbox of the host.
func (h *Hub) deliver(from string, to string, data []byte) error {
	if len(data) > transport.MaxDatagram {
		return fmt.Errorf("%d bytes to %s: %w", len(data), to, transport.ErrTooLarge)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	ep, exists := h.endpoints[to]
	if !exists {
		return nil
	}

	msg := transport.Message{
		From: from,
		Data: append([]byte(nil), data...),
	}

	select {
	case ep.inbox <- msg:
	default:
	}

	return nil
}

// =============================================================================

// Endpoint represents one node attached to the hub.
type Endpoint struct {
	hub   *Hub
	host  string
	inbox chan transport.Message
}

// Host returns the host name the endpoint joined with.
func (ep *Endpoint) Host() string {
	return ep.host
}

// Receive waits up to timeout for a message.
func (ep *Endpoint) Receive(ctx context.Context, timeout time.Duration) (transport.Received, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-ep.inbox:
		return msg, nil
	case <-timer.C:
		return transport.Timeout{}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Send delivers the data to the specified host.
func (ep *Endpoint) Send(host string, data []byte) error {
	return ep.hub.deliver(ep.host, host, data)
}

// Broadcast delivers the data to every host.
func (ep *Endpoint) Broadcast(hosts []string, data []byte) error {
	var err error
	for _, host := range hosts {
		err = multierr.Append(err, ep.hub.deliver(ep.host, host, data))
	}

	return err
}
