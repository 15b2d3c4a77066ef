// Package node wires together the wallet, chain, mempool, and peer set
// behind a single write lock, and exposes the operations the RPC layer
// calls into.
package node

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhi0166/custom-crypto-coin/internal/ledger/block"
	"github.com/abhi0166/custom-crypto-coin/internal/ledger/chain"
	"github.com/abhi0166/custom-crypto-coin/internal/ledger/tx"
	"github.com/abhi0166/custom-crypto-coin/internal/log"
	"github.com/abhi0166/custom-crypto-coin/internal/mempool"
	"github.com/abhi0166/custom-crypto-coin/internal/peerset"
	"github.com/abhi0166/custom-crypto-coin/internal/replication"
	"github.com/abhi0166/custom-crypto-coin/internal/wallet"
)

// ErrMineAppendFailed indicates a locally-mined block failed to append to
// our own chain — a local invariant violation, not a caller error.
var ErrMineAppendFailed = errors.New("node: mined block failed to append locally")

// Node is the process-singleton that owns this instance's Chain, Mempool,
// PeerSet and Wallet, and serializes every mutation behind a single
// mutex, as spec'd by the concurrency model: /mine, /transactions/*,
// /blocks/receive, and /nodes/* all mutate shared state and must not
// interleave.
type Node struct {
	mu sync.Mutex

	Wallet  *wallet.Wallet
	Chain   *chain.Chain
	Mempool *mempool.Pool
	Peers   *peerset.PeerSet

	repl          *replication.Client
	autoBroadcast bool
}

// New constructs a Node from its already-initialized collaborators.
func New(w *wallet.Wallet, c *chain.Chain, m *mempool.Pool, p *peerset.PeerSet, autoBroadcast bool) *Node {
	return &Node{
		Wallet:        w,
		Chain:         c,
		Mempool:       m,
		Peers:         p,
		repl:          replication.New(),
		autoBroadcast: autoBroadcast,
	}
}

// Identity returns this node's public key PEM string.
func (n *Node) Identity() (string, error) {
	return n.Wallet.PublicKeyPEM()
}

// SubmitTransaction verifies and appends a user-submitted transaction,
// then, when auto-broadcast is enabled, forwards it once to every known
// peer. Forwarding happens without
// holding the node's write lock, so a slow peer cannot stall other
// requests.
func (n *Node) SubmitTransaction(ctx context.Context, t *tx.Transaction) error {
	if err := t.Verify(); err != nil {
		return err
	}

	n.mu.Lock()
	n.Mempool.Add(t)
	peers := n.Peers.Members()
	n.mu.Unlock()

	if n.autoBroadcast && len(peers) > 0 {
		if errs := n.repl.BroadcastTransaction(ctx, peers, t); len(errs) > 0 {
			for _, e := range errs {
				log.Replication.Warn().Err(e).Msg("transaction broadcast failed")
			}
		}
	}
	return nil
}

// ReceiveTransaction verifies and appends a transaction forwarded by a
// peer, without re-forwarding it — loop prevention is a single hop.
func (n *Node) ReceiveTransaction(t *tx.Transaction) error {
	if err := t.Verify(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Mempool.Add(t)
	return nil
}

// Mine runs proof-of-work against the current mempool snapshot, appends
// the winning block locally, clears the mempool, and broadcasts the new
// block to every peer.
func (n *Node) Mine(ctx context.Context) (*block.Block, error) {
	n.mu.Lock()
	identity, err := n.Wallet.PublicKeyPEM()
	if err != nil {
		n.mu.Unlock()
		return nil, err
	}
	pending := n.Mempool.Snapshot()
	mined, err := n.Chain.Mine(identity, pending)
	if err != nil {
		n.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrMineAppendFailed, err)
	}
	n.Mempool.Clear()
	peers := n.Peers.Members()
	n.mu.Unlock()

	if len(peers) > 0 {
		if errs := n.repl.BroadcastBlock(ctx, peers, mined); len(errs) > 0 {
			for _, e := range errs {
				log.Replication.Warn().Err(e).Msg("block broadcast failed")
			}
		}
	}
	return mined, nil
}

// ReceiveBlock validates and appends a peer-broadcast block, pruning the
// mempool of any transaction the block confirms.
func (n *Node) ReceiveBlock(b *block.Block) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.Chain.Append(b); err != nil {
		return err
	}
	n.Mempool.RemoveConfirmed(b.Transactions)
	return nil
}

// RegisterPeers normalizes and adds every address to the peer set,
// reporting how many were accepted versus rejected.
func (n *Node) RegisterPeers(addrs []string) (added []string, failed []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, a := range addrs {
		normalized, err := n.Peers.Add(a)
		if err != nil {
			failed = append(failed, a)
			continue
		}
		added = append(added, normalized)
	}
	return added, failed
}

// Resolve pulls every peer's chain and replaces the local chain with the
// longest valid one found, per the longest-chain consensus rule.
func (n *Node) Resolve(ctx context.Context) (replaced bool, err error) {
	n.mu.Lock()
	peers := n.Peers.Members()
	n.mu.Unlock()

	results, chains := n.repl.FetchAll(ctx, peers)
	for _, r := range results {
		if r.Err != nil {
			log.Replication.Warn().Err(r.Err).Str("peer", r.Peer).Msg("chain pull failed")
		}
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	localLen := n.Chain.Height()
	var winner []*block.Block
	maxLen := localLen
	for peer, candidate := range chains {
		if len(candidate) <= maxLen {
			continue
		}
		if verr := chain.ValidateChain(candidate); verr != nil {
			log.Replication.Warn().Err(verr).Str("peer", peer).Msg("peer chain invalid")
			continue
		}
		maxLen = len(candidate)
		winner = candidate
	}

	if winner == nil {
		return false, nil
	}
	replaced, err = n.Chain.Replace(winner)
	return replaced, err
}

// FullChain returns a snapshot of the local chain's blocks.
func (n *Node) FullChain() []*block.Block {
	return n.Chain.Blocks()
}

// Balance computes this node's wallet balance against the current chain
// and mempool snapshots.
func (n *Node) Balance() (float64, error) {
	n.mu.Lock()
	chainBlocks := n.Chain.Blocks()
	mempoolTxs := n.Mempool.Snapshot()
	n.mu.Unlock()

	var chainTxs []*tx.Transaction
	for _, b := range chainBlocks {
		chainTxs = append(chainTxs, b.Transactions...)
	}
	return n.Wallet.Balance(chainTxs, mempoolTxs)
}
