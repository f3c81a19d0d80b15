// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/ardanlabs/powchain/foundation/blockchain/balance"
	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/blockchain/worker"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Node represents the behavior required to report on a running node.
type Node interface {
	Snapshot() state.Snapshot
	Stats() worker.Stats
}

// Handlers manages the set of public endpoints.
type Handlers struct {
	Log     *zap.SugaredLogger
	Host    string
	Node    Node
	Peers   *peer.PeerSet
	Genesis genesis.Genesis
	WS      websocket.Upgrader
	Evts    *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// The upgrade hijacked the connection so there is no status to write.
	web.SetStatusCode(ctx, http.StatusSwitchingProtocols)

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Status returns what the node is doing and the tip of its chain.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	snap := h.Node.Snapshot()

	resp := status{
		PeerStatus: peer.PeerStatus{
			Mode:            snap.Mode.String(),
			LatestBlockHash: snap.Tip,
			BlockCount:      snap.Blocks,
			KnownPeers:      h.Peers.Copy(h.Host),
		},
		Host:   h.Host,
		Cursor: toCursor(snap.Cursor),
		Stats:  h.Node.Stats(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// GenesisInfo returns the genesis information.
func (h Handlers) GenesisInfo(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.Genesis, http.StatusOK)
}

// Blocks returns the blocks of the node's chain. A block number selects a
// single block.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	snap := h.Node.Snapshot()

	entries, err := chain.Blocks(snap.Chain)
	if err != nil {
		return web.NewShutdownError("local chain is malformed: " + err.Error())
	}

	number := web.Param(r, "number")
	if number == "" {
		blocks := make([]block, 0, len(entries))
		for _, entry := range entries {
			blocks = append(blocks, toBlock(entry))
		}
		return web.Respond(ctx, w, blocks, http.StatusOK)
	}

	n, err := strconv.Atoi(number)
	if err != nil {
		return errs.NewTrusted(errors.New("block number must be an integer"), http.StatusBadRequest)
	}

	if n < 1 || n > len(entries) {
		return errs.NewTrusted(errors.New("block not found"), http.StatusNotFound)
	}

	return web.Respond(ctx, w, toBlock(entries[n-1]), http.StatusOK)
}

// Balances returns the rewards each account has earned on the node's chain.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	snap := h.Node.Snapshot()

	sheet, err := balance.FromChain(snap.Chain)
	if err != nil {
		return web.NewShutdownError("local chain is malformed: " + err.Error())
	}

	resp := balances{
		LatestBlock: snap.Tip,
		Balances:    sheet.Copy(),
	}

	if account := web.Param(r, "account"); account != "" {
		n, err := strconv.ParseUint(account, 10, 16)
		if err != nil {
			return errs.NewTrusted(errors.New("account must be a number between 0 and 65535"), http.StatusBadRequest)
		}

		resp.Balances = nil
		if e, exists := sheet.Query(uint16(n)); exists {
			resp.Balances = []balance.Entry{e}
		}
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
