package node

import (
	"context"
	"testing"

	"github.com/abhi0166/custom-crypto-coin/internal/ledger/chain"
	"github.com/abhi0166/custom-crypto-coin/internal/ledger/tx"
	"github.com/abhi0166/custom-crypto-coin/internal/mempool"
	"github.com/abhi0166/custom-crypto-coin/internal/peerset"
	"github.com/abhi0166/custom-crypto-coin/internal/wallet"
)

func newTestNode(t *testing.T) *Node {
	t.Helper()
	w, err := wallet.Generate()
	if err != nil {
		t.Fatalf("wallet.Generate: %v", err)
	}
	c, err := chain.NewGenesis(1000)
	if err != nil {
		t.Fatalf("chain.NewGenesis: %v", err)
	}
	return New(w, c, mempool.New(), peerset.New(), false)
}

func TestSubmitTransactionAddsToMempool(t *testing.T) {
	n := newTestNode(t)
	other, err := wallet.Generate()
	if err != nil {
		t.Fatalf("wallet.Generate: %v", err)
	}
	pub, _ := n.Identity()
	txn, err := other.Sign(pub, 1.5)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if err := n.SubmitTransaction(context.Background(), txn); err != nil {
		t.Fatalf("SubmitTransaction: %v", err)
	}
	if n.Mempool.Count() != 1 {
		t.Fatalf("expected 1 pending transaction, got %d", n.Mempool.Count())
	}
}

func TestSubmitTransactionRejectsInvalidSignature(t *testing.T) {
	n := newTestNode(t)
	txn := &tx.Transaction{SenderPublicKey: "bogus", Recipient: "x", Amount: 1, Signature: "00"}

	if err := n.SubmitTransaction(context.Background(), txn); err == nil {
		t.Fatal("expected error for invalid transaction")
	}
	if n.Mempool.Count() != 0 {
		t.Fatalf("expected mempool to stay empty, got %d", n.Mempool.Count())
	}
}

func TestMineAppendsBlockAndClearsMempool(t *testing.T) {
	n := newTestNode(t)
	other, err := wallet.Generate()
	if err != nil {
		t.Fatalf("wallet.Generate: %v", err)
	}
	pub, _ := n.Identity()
	txn, err := other.Sign(pub, 2)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := n.SubmitTransaction(context.Background(), txn); err != nil {
		t.Fatalf("SubmitTransaction: %v", err)
	}

	mined, err := n.Mine(context.Background())
	if err != nil {
		t.Fatalf("Mine: %v", err)
	}
	if mined.Index != 1 {
		t.Fatalf("expected mined block index 1, got %d", mined.Index)
	}
	if n.Mempool.Count() != 0 {
		t.Fatalf("expected mempool cleared after mining, got %d", n.Mempool.Count())
	}
	if n.Chain.Height() != 2 {
		t.Fatalf("expected chain height 2 after mining, got %d", n.Chain.Height())
	}
}

func TestReceiveBlockPrunesConfirmedMempoolEntries(t *testing.T) {
	n := newTestNode(t)
	other, err := wallet.Generate()
	if err != nil {
		t.Fatalf("wallet.Generate: %v", err)
	}
	pub, _ := n.Identity()
	txn, err := other.Sign(pub, 3)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := n.SubmitTransaction(context.Background(), txn); err != nil {
		t.Fatalf("SubmitTransaction: %v", err)
	}

	mined, err := n.Mine(context.Background())
	if err != nil {
		t.Fatalf("Mine: %v", err)
	}

	n2 := newTestNode(t)
	n2.Chain = mustGenesisLike(t, n)
	n2.Mempool.Add(txn)
	if err := n2.ReceiveBlock(mined); err != nil {
		t.Fatalf("ReceiveBlock: %v", err)
	}
	if n2.Chain.Height() != 2 {
		t.Fatalf("expected height 2, got %d", n2.Chain.Height())
	}
	if n2.Mempool.Count() != 0 {
		t.Fatalf("expected confirmed transaction pruned from mempool, got %d pending", n2.Mempool.Count())
	}
}

// mustGenesisLike rebuilds a fresh chain sharing the same genesis block as n,
// so a block mined on top of n's chain still validates against n2's tip.
func mustGenesisLike(t *testing.T, n *Node) *chain.Chain {
	t.Helper()
	genesis := n.Chain.Blocks()[0]
	c, err := chain.NewGenesis(genesis.Timestamp)
	if err != nil {
		t.Fatalf("chain.NewGenesis: %v", err)
	}
	return c
}

func TestRegisterPeersSplitsAcceptedAndRejected(t *testing.T) {
	n := newTestNode(t)
	added, failed := n.RegisterPeers([]string{"http://localhost:5001", "", "localhost:5002"})
	if len(added) != 2 {
		t.Fatalf("expected 2 accepted peers, got %d (%v)", len(added), added)
	}
	if len(failed) != 1 {
		t.Fatalf("expected 1 rejected peer, got %d (%v)", len(failed), failed)
	}
}

func TestResolveWithNoPeersIsNoop(t *testing.T) {
	n := newTestNode(t)
	replaced, err := n.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if replaced {
		t.Fatal("expected no replacement with zero peers")
	}
}

func TestFullChainReturnsSnapshot(t *testing.T) {
	n := newTestNode(t)
	blocks := n.FullChain()
	if len(blocks) != 1 {
		t.Fatalf("expected genesis-only chain, got %d blocks", len(blocks))
	}
}

func TestBalanceStartsAtZero(t *testing.T) {
	n := newTestNode(t)
	balance, err := n.Balance()
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected zero balance, got %v", balance)
	}
}
