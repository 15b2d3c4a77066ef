package chain

import (
	"math/big"

	"github.com/abhi0166/custom-crypto-coin/internal/ledger/block"
)

// Replace validates candidate and, if it is both valid and strictly longer
// than the current chain, swaps it in wholesale and resets currentTarget
// from the candidate's own tip target — without re-deriving retargeting.
// This mirrors resolve_conflicts exactly, including the known limitation
// flagged in §9(c): the adopted target is whatever the winning tip
// happens to carry, not a freshly recomputed one.
//
// Returns true if the chain was replaced.
func (c *Chain) Replace(candidate []*block.Block) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(candidate) <= len(c.blocks) {
		return false, nil
	}
	if err := ValidateChain(candidate); err != nil {
		return false, err
	}

	tip := candidate[len(candidate)-1]
	newTarget, ok := new(big.Int).SetString(tip.Target, 16)
	if !ok {
		newTarget = new(big.Int).Set(InitialTarget)
	}

	c.blocks = candidate
	c.currentTarget = newTarget
	return true, nil
}
