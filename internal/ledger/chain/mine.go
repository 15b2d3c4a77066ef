package chain

import (
	"math/big"
	"time"

	"github.com/abhi0166/custom-crypto-coin/internal/ledger/block"
	"github.com/abhi0166/custom-crypto-coin/internal/ledger/tx"
)

// CoinbaseAmount is the fixed reward credited to whoever mines a block.
const CoinbaseAmount = 1.0

// Mine runs the proof-of-work search against the current tip and, on
// success, appends the winning block (reward transaction plus the
// mempool snapshot handed in) to the chain and clears it from the caller's
// responsibility — the mempool itself is not touched here; internal/node
// owns clearing it after a successful Mine call.
//
// The search is sequential and single-threaded, as spec'd: it is CPU-bound
// and does not suspend, so it is safe to run while not holding any other
// lock, but it does hold the chain's own lock for its full duration since
// it reads and then mutates chain state atomically with respect to other
// appends.
func (c *Chain) Mine(rewardRecipient string, pending []*tx.Transaction) (*block.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tip := c.blocks[len(c.blocks)-1]
	tipHash, err := tip.Hash()
	if err != nil {
		return nil, err
	}
	target := new(big.Int).Set(c.currentTarget)
	targetHex := target.Text(16)

	winningProof, winningTimestamp, err := searchProof(tip.Index+1, tipHash, targetHex, target)
	if err != nil {
		return nil, err
	}

	reward := tx.NewCoinbase(rewardRecipient, CoinbaseAmount, winningTimestamp)
	txs := make([]*tx.Transaction, 0, len(pending)+1)
	txs = append(txs, pending...)
	txs = append(txs, reward)

	mined := &block.Block{
		Header: block.Header{
			Index:        tip.Index + 1,
			Timestamp:    winningTimestamp,
			PreviousHash: tipHash,
			Proof:        winningProof,
			Target:       targetHex,
		},
		Transactions: txs,
	}

	if err := c.appendLocked(mined); err != nil {
		return nil, err
	}
	c.retargetLocked()
	return mined, nil
}

// searchProof finds the smallest proof (starting at 0) such that the
// header hash {index, timestamp, previous_hash, proof, target} beats
// target, sampling a fresh wall-clock timestamp on every attempt. The
// timestamp of the winning attempt is returned alongside the proof and
// must be recorded verbatim in the resulting block header — it is not
// resampled after the search concludes.
func searchProof(index int, previousHash, targetHex string, target *big.Int) (proof uint64, timestamp float64, err error) {
	for proof = 0; ; proof++ {
		attemptTimestamp := nowSeconds()
		h, herr := block.HashHeader(index, attemptTimestamp, previousHash, proof, targetHex)
		if herr != nil {
			return 0, 0, herr
		}
		ok, merr := block.MeetsTarget(h, targetHex)
		if merr != nil {
			return 0, 0, merr
		}
		if ok {
			return proof, attemptTimestamp, nil
		}
	}
}

func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
