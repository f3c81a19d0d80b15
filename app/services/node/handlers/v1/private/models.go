package private

import "github.com/ethereum/go-ethereum/common"

type validateRequest struct {
	Chain string `json:"chain" validate:"required,startswith=0x,hexadecimal"`
}

type validateResponse struct {
	Valid       bool        `json:"valid"`
	Blocks      int         `json:"blocks"`
	LastHash    common.Hash `json:"last_hash"`
	Error       string      `json:"error,omitempty"`
	LocalBlocks int         `json:"local_blocks"`
	Adoptable   bool        `json:"adoptable"`
}

type chainDoc struct {
	Blocks int         `json:"blocks"`
	Tip    common.Hash `json:"tip"`
	Chain  string      `json:"chain"`
}
