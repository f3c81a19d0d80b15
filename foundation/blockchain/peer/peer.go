// Package peer maintains the closed set of participants a node broadcasts
// its chain to.
package peer

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ErrUnknownPort is returned when a port is not one of the participants.
var ErrUnknownPort = errors.New("port is not a known participant")

// Peer represents information about a Node in the network.
type Peer struct {
	Host string `json:"host"`
}

// New constructs a new peer value.
func New(host string) Peer {
	return Peer{
		Host: host,
	}
}

// Match validates if the specified host matches this node.
func (p Peer) Match(host string) bool {
	return p.Host == host
}

// String implements the fmt.Stringer interface.
func (p Peer) String() string {
	return p.Host
}

// Host forms the address of a participant.
func Host(ip string, port int) string {
	return net.JoinHostPort(ip, strconv.Itoa(port))
}

// ValidatePort checks the port belongs to the set of known participants.
func ValidatePort(port int, known []int) error {
	for _, k := range known {
		if k == port {
			return nil
		}
	}

	return fmt.Errorf("port %d, known %v: %w", port, known, ErrUnknownPort)
}

// =============================================================================

// PeerStatus represents the status of a node as reported to clients.
type PeerStatus struct {
	Mode            string      `json:"mode"`
	LatestBlockHash common.Hash `json:"latest_block_hash"`
	BlockCount      int         `json:"block_count"`
	KnownPeers      []Peer      `json:"known_peers"`
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Participants constructs the set of every participant on the same ip.
func Participants(ip string, ports []int) *PeerSet {
	ps := NewPeerSet()
	for _, port := range ports {
		ps.Add(New(Host(ip, port)))
	}

	return ps
}

// Add adds a new node to the set.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer]
	if !exists {
		ps.set[peer] = struct{}{}
		return true
	}

	return false
}

// Remove removes a node from the set.
func (ps *PeerSet) Remove(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, peer)
}

// Copy returns a sorted list of the known peers excluding the specified host.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	var peers []Peer
	for peer := range ps.set {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	sort.Slice(peers, func(i, j int) bool { return peers[i].Host < peers[j].Host })

	return peers
}

// Hosts returns the hosts of the known peers excluding the specified host.
func (ps *PeerSet) Hosts(host string) []string {
	peers := ps.Copy(host)

	hosts := make([]string, len(peers))
	for i, peer := range peers {
		hosts[i] = peer.Host
	}

	return hosts
}
