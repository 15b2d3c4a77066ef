// Package mempool holds transactions that have been verified but not yet
// mined into a block.
package mempool

import (
	"sync"

	"github.com/abhi0166/custom-crypto-coin/internal/ledger/tx"
)

// Pool is an ordered collection of pending transactions. Insertion
// appends; there is no fee-based ordering or eviction policy — both are
// explicit Non-goals here, unlike the UTXO-aware pool this package is
// adapted from.
type Pool struct {
	mu  sync.Mutex
	txs []*tx.Transaction
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{}
}

// Add appends a transaction to the end of the pool. Callers must have
// already verified the transaction's signature — the pool performs no
// verification of its own.
func (p *Pool) Add(t *tx.Transaction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.txs = append(p.txs, t)
}

// Snapshot returns a copy of the pool's current contents, in insertion
// order, safe for the caller to mine against without holding the pool's
// lock for the duration of a PoW search.
func (p *Pool) Snapshot() []*tx.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*tx.Transaction, len(p.txs))
	copy(out, p.txs)
	return out
}

// Clear empties the pool, used after a local mine successfully appends a
// block.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.txs = nil
}

// RemoveConfirmed drops every pending transaction whose signature matches
// one carried by a newly accepted peer block.
func (p *Pool) RemoveConfirmed(confirmed []*tx.Transaction) {
	if len(confirmed) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(confirmed))
	for _, t := range confirmed {
		seen[t.Signature] = struct{}{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	remaining := p.txs[:0:0]
	for _, t := range p.txs {
		if _, ok := seen[t.Signature]; ok {
			continue
		}
		remaining = append(remaining, t)
	}
	p.txs = remaining
}

// Count returns the number of pending transactions.
func (p *Pool) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.txs)
}
