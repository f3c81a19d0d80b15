// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ardanlabs/powchain/business/sys/validate"
	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/web"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// Node represents the behavior required to compare a chain with the one the
// node holds.
type Node interface {
	Snapshot() state.Snapshot
}

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log  *zap.SugaredLogger
	Node Node
}

// Chain returns the node's encoded chain.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	snap := h.Node.Snapshot()

	resp := chainDoc{
		Blocks: snap.Blocks,
		Tip:    snap.Tip,
		Chain:  hexutil.Encode(snap.Chain),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// ValidateChain checks a chain with the same rules used for chains received
// from the network and reports whether the node would adopt it. The node's
// state is never changed.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req validateRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	data, err := hexutil.Decode(req.Chain)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("chain: %w", err), http.StatusBadRequest)
	}

	snap := h.Node.Snapshot()

	res, err := chain.Validate(data)

	resp := validateResponse{
		Valid:       res.Valid,
		Blocks:      res.Blocks,
		LastHash:    res.LastHash,
		LocalBlocks: snap.Blocks,
		Adoptable:   res.Valid && res.Blocks > snap.Blocks,
	}
	if err != nil {
		resp.Error = err.Error()
	}

	h.Log.Infow("validate chain", "traceid", v.TraceID, "valid", resp.Valid, "blocks", resp.Blocks, "adoptable", resp.Adoptable)

	return web.Respond(ctx, w, resp, http.StatusOK)
}
