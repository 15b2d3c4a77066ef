package chain

import (
	"math/big"

	"github.com/abhi0166/custom-crypto-coin/internal/ledger/block"
)

// retargetLocked recomputes currentTarget from the span of the most recent
// RecalculationInterval blocks, following §4.4 exactly, including its edge
// rules. Caller must hold c.mu.
func (c *Chain) retargetLocked() {
	n := len(c.blocks)
	if n < RecalculationInterval {
		return
	}

	var first *block.Block
	if n == RecalculationInterval {
		first = c.blocks[0]
	} else {
		idx := n - RecalculationInterval
		if idx < 0 {
			return
		}
		first = c.blocks[idx]
	}
	last := c.blocks[n-1]

	actual := last.Timestamp - first.Timestamp
	expected := float64(RecalculationInterval * TargetBlockTime)

	if expected == 0 {
		return
	}
	if actual <= 0 {
		actual = expected
	}

	factor := actual / expected
	if factor < 1.0/BoundDivisor {
		factor = 1.0 / BoundDivisor
	}
	if factor > BoundDivisor {
		factor = BoundDivisor
	}

	newTarget := scaleTarget(c.currentTarget, factor)
	if newTarget.Cmp(MaxTarget) > 0 {
		newTarget = new(big.Int).Set(MaxTarget)
	}
	one := big.NewInt(1)
	if newTarget.Cmp(one) < 0 {
		newTarget = one
	}

	c.currentTarget = newTarget
}

// scaleTarget computes round(target * factor), halves rounding up, using a
// big.Float wide enough to hold the product of a 256-bit target and a
// float64 factor exactly.
func scaleTarget(target *big.Int, factor float64) *big.Int {
	bf := new(big.Float).SetPrec(512).SetInt(target)
	bf.Mul(bf, big.NewFloat(factor))
	bf.Add(bf, big.NewFloat(0.5))
	result, _ := bf.Int(nil)
	return result
}
