package chain

import (
	"testing"

	"github.com/abhi0166/custom-crypto-coin/internal/cryptoutil"
	"github.com/abhi0166/custom-crypto-coin/internal/ledger/tx"
)

func newTestChain(t *testing.T) *Chain {
	t.Helper()
	c, err := NewGenesis(1700000000)
	if err != nil {
		t.Fatalf("NewGenesis: %v", err)
	}
	return c
}

func TestGenesisShape(t *testing.T) {
	c := newTestChain(t)
	tip := c.Tip()
	if tip.Index != 0 || tip.PreviousHash != "0" || tip.Proof != 1 {
		t.Fatalf("unexpected genesis shape: %+v", tip.Header)
	}
	if c.CurrentTarget().Cmp(InitialTarget) != 0 {
		t.Fatal("expected genesis target to equal InitialTarget")
	}
}

func TestMineAppendsCoinbaseBlock(t *testing.T) {
	c := newTestChain(t)
	mined, err := c.Mine("miner-pub", nil)
	if err != nil {
		t.Fatalf("Mine: %v", err)
	}
	if mined.Index != 1 {
		t.Fatalf("expected index 1, got %d", mined.Index)
	}
	if len(mined.Transactions) != 1 || !mined.Transactions[0].IsCoinbase() {
		t.Fatalf("expected single coinbase transaction, got %+v", mined.Transactions)
	}
	if c.Height() != 2 {
		t.Fatalf("expected height 2 after mining, got %d", c.Height())
	}
}

func TestMineWithPendingTransactions(t *testing.T) {
	c := newTestChain(t)
	kp, err := cryptoutil.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	pub, err := kp.PublicKeyPEM()
	if err != nil {
		t.Fatalf("PublicKeyPEM: %v", err)
	}
	txn := &tx.Transaction{SenderPublicKey: pub, Recipient: "someone", Amount: 3, Timestamp: 1700000001}
	digest, err := txn.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	txn.Signature = kp.Sign(digest)

	mined, err := c.Mine("miner-pub", []*tx.Transaction{txn})
	if err != nil {
		t.Fatalf("Mine: %v", err)
	}
	if len(mined.Transactions) != 2 {
		t.Fatalf("expected pending tx plus coinbase, got %d transactions", len(mined.Transactions))
	}
}

func TestAppendRejectsIndexGap(t *testing.T) {
	c := newTestChain(t)
	mined, err := c.Mine("miner-pub", nil)
	if err != nil {
		t.Fatalf("Mine: %v", err)
	}
	mined.Index = 5
	if err := c.Append(mined); err == nil {
		t.Fatal("expected index gap rejection")
	}
}

func TestValidateChainAcceptsMinedChain(t *testing.T) {
	c := newTestChain(t)
	for i := 0; i < 3; i++ {
		if _, err := c.Mine("miner-pub", nil); err != nil {
			t.Fatalf("Mine: %v", err)
		}
	}
	if err := ValidateChain(c.Blocks()); err != nil {
		t.Fatalf("ValidateChain: %v", err)
	}
}

func TestValidateChainRejectsEmpty(t *testing.T) {
	if err := ValidateChain(nil); err == nil {
		t.Fatal("expected error for empty chain")
	}
}

func TestReplaceRejectsShorterOrEqualChain(t *testing.T) {
	c := newTestChain(t)
	if _, err := c.Mine("miner-pub", nil); err != nil {
		t.Fatalf("Mine: %v", err)
	}
	// candidate is only the genesis block: shorter than our 2-block chain.
	replaced, err := c.Replace(c.Blocks()[:1])
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if replaced {
		t.Fatal("expected shorter candidate chain to be rejected")
	}
}

func TestReplaceAcceptsLongerValidChain(t *testing.T) {
	c := newTestChain(t)
	other := newTestChain(t)
	for i := 0; i < 3; i++ {
		if _, err := other.Mine("other-miner", nil); err != nil {
			t.Fatalf("Mine: %v", err)
		}
	}
	replaced, err := c.Replace(other.Blocks())
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if !replaced {
		t.Fatal("expected longer valid candidate chain to replace ours")
	}
	if c.Height() != 4 {
		t.Fatalf("expected height 4 after replace, got %d", c.Height())
	}
}
