// Package worker implements the node's control loop. The loop alternates
// between listening for chains broadcast by other participants and making a
// bounded mining attempt whenever a receive times out.
package worker

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/transport"
)

// Defaults used when the configuration leaves a value unset.
const (
	defaultReceiveTimeout = time.Second
	defaultMiningBudget   = 1000
)

// Transport represents the behavior required from the network. A receive
// waits at most timeout and reports a transport.Timeout when nothing arrived.
type Transport interface {
	Receive(ctx context.Context, timeout time.Duration) (transport.Received, error)
	Broadcast(hosts []string, data []byte) error
}

// Config represents the configuration required to run a node.
type Config struct {
	Host           string        // Host of this node, excluded from broadcasts.
	MinerAccount   uint16        // Account credited for mined blocks.
	KnownPeers     *peer.PeerSet // Participants that receive broadcasts.
	Transport      Transport
	Genesis        genesis.Genesis
	ReceiveTimeout time.Duration
	MiningBudget   uint64
	Clock          func() time.Time
	EvHandler      state.EventHandler
}

// Stats represents counters for what the loop has done so far.
type Stats struct {
	Received      uint64 `json:"received"`
	Adopted       uint64 `json:"adopted"`
	Discarded     uint64 `json:"discarded"`
	Attempts      uint64 `json:"mining_attempts"`
	Mined         uint64 `json:"mined"`
	ReceiveErrors uint64 `json:"receive_errors"`
}

// =============================================================================

// Worker manages the control loop for a node.
type Worker struct {
	cfg      Config
	snapshot atomic.Pointer[state.Snapshot]
	stats    struct {
		received, adopted, discarded, attempts, mined, failed atomic.Uint64
	}
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Run constructs a worker from the genesis state and starts the control
// loop. The loop is the only writer of the node's state.
func Run(cfg Config) (*Worker, error) {
	if cfg.Transport == nil {
		return nil, errors.New("transport is required")
	}

	if cfg.KnownPeers == nil {
		cfg.KnownPeers = peer.NewPeerSet()
	}

	if cfg.ReceiveTimeout <= 0 {
		cfg.ReceiveTimeout = defaultReceiveTimeout
	}

	if cfg.MiningBudget == 0 {
		cfg.MiningBudget = defaultMiningBudget
	}

	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	ev := cfg.EvHandler
	cfg.EvHandler = func(v string, args ...any) {
		if ev != nil {
			ev(v, args...)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := Worker{
		cfg:    cfg,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	st := state.New(cfg.Genesis, w.now())
	w.publish(st)

	// We don't want to return until we know the G is up and running.
	hasStarted := make(chan bool)

	go func() {
		defer close(w.done)
		hasStarted <- true
		w.err = w.controlLoop(ctx, st)
	}()

	<-hasStarted

	return &w, nil
}

// Shutdown stops the control loop and waits for it to return.
func (w *Worker) Shutdown() {
	w.cfg.EvHandler("worker: shutdown: started")
	defer w.cfg.EvHandler("worker: shutdown: completed")

	w.cancel()
	<-w.done
}

// Done returns a channel that is closed when the control loop returns.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Err returns the error that stopped the control loop. It is only valid
// after Done is closed and is nil after a clean shutdown.
func (w *Worker) Err() error {
	select {
	case <-w.done:
		return w.err
	default:
		return nil
	}
}

// Snapshot returns the most recently published state of the node.
func (w *Worker) Snapshot() state.Snapshot {
	return *w.snapshot.Load()
}

// Stats returns the loop counters.
func (w *Worker) Stats() Stats {
	return Stats{
		Received:      w.stats.received.Load(),
		Adopted:       w.stats.adopted.Load(),
		Discarded:     w.stats.discarded.Load(),
		Attempts:      w.stats.attempts.Load(),
		Mined:         w.stats.mined.Load(),
		ReceiveErrors: w.stats.failed.Load(),
	}
}

// =============================================================================

// controlLoop runs until the context is cancelled or a local invariant is
// broken.
func (w *Worker) controlLoop(ctx context.Context, st state.State) error {
	w.cfg.EvHandler("worker: controlLoop: G started: host[%s]: blocks[%d]", w.cfg.Host, st.Blocks())
	defer w.cfg.EvHandler("worker: controlLoop: G completed")

	for {
		next, err := w.step(ctx, st)
		if err != nil {
			if ctx.Err() != nil {
				w.cfg.EvHandler("worker: controlLoop: received shut signal")
				return nil
			}
			w.cfg.EvHandler("worker: controlLoop: ERROR: %s", err)
			return err
		}

		st = next
		w.publish(st)
	}
}

// step performs one receive and then either processes the chain that arrived
// or makes a mining attempt. A failed receive only ends the loop when the
// context is done or the transport is closed.
func (w *Worker) step(ctx context.Context, st state.State) (state.State, error) {
	recv, err := w.cfg.Transport.Receive(ctx, w.cfg.ReceiveTimeout)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
			return st, err
		}
		w.stats.failed.Add(1)
		w.cfg.EvHandler("worker: step: receive: WARNING: %s", err)
		return st, nil
	}

	switch r := recv.(type) {
	case transport.Message:
		return w.runReceiveOperation(st, r), nil

	case transport.Timeout:
		return w.runMiningOperation(ctx, st.Timeout())
	}

	return st, nil
}

// runReceiveOperation applies the longest valid chain rule to a chain
// received from the network.
func (w *Worker) runReceiveOperation(st state.State, msg transport.Message) state.State {
	w.cfg.EvHandler("worker: runReceiveOperation: from[%s]: bytes[%d]", msg.From, len(msg.Data))
	w.stats.received.Add(1)

	next, dec := st.Receive(msg.Data, w.now(), w.cfg.EvHandler)
	if !dec.Adopted {
		w.stats.discarded.Add(1)
		return next
	}

	w.stats.adopted.Add(1)
	w.cfg.EvHandler("viewer: adopted: {\"from\":%q,\"blocks\":%d,\"hash\":%q}", msg.From, next.Blocks(), next.Tip())

	return next
}

// runMiningOperation makes one bounded mining attempt and broadcasts the
// whole chain when a block is found.
func (w *Worker) runMiningOperation(ctx context.Context, st state.State) (state.State, error) {
	w.stats.attempts.Add(1)

	next, mined, err := st.Mine(ctx, state.MineArgs{
		Miner:     w.cfg.MinerAccount,
		Budget:    w.cfg.MiningBudget,
		Timestamp: w.now(),
		EvHandler: w.cfg.EvHandler,
	})
	if err != nil {
		return st, err
	}

	if !mined.Found {
		return next, nil
	}

	w.stats.mined.Add(1)
	w.cfg.EvHandler("viewer: mined: {\"blocks\":%d,\"hash\":%q}", next.Blocks(), mined.Hash)

	// Delivery is not guaranteed so a failed send is only logged.
	hosts := w.cfg.KnownPeers.Hosts(w.cfg.Host)
	if err := w.cfg.Transport.Broadcast(hosts, mined.Chain); err != nil {
		w.cfg.EvHandler("worker: runMiningOperation: broadcast: WARNING: %s", err)
	}
	w.cfg.EvHandler("worker: runMiningOperation: broadcast: peers[%d]: bytes[%d]", len(hosts), len(mined.Chain))

	return next, nil
}

// publish stores a snapshot of the state for readers outside the loop.
func (w *Worker) publish(st state.State) {
	snap := st.Snapshot()
	w.snapshot.Store(&snap)
}

// now returns the clock as a header timestamp.
func (w *Worker) now() uint32 {
	return uint32(w.cfg.Clock().UTC().Unix())
}
