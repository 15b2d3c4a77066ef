package tx

import (
	"testing"

	"github.com/abhi0166/custom-crypto-coin/internal/cryptoutil"
)

func signedTx(t *testing.T, recipient string, amount, ts float64) (*Transaction, *cryptoutil.KeyPair) {
	t.Helper()
	kp, err := cryptoutil.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	pub, err := kp.PublicKeyPEM()
	if err != nil {
		t.Fatalf("PublicKeyPEM: %v", err)
	}
	txn := &Transaction{
		SenderPublicKey: pub,
		Recipient:       recipient,
		Amount:          amount,
		Timestamp:       ts,
	}
	digest, err := txn.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	txn.Signature = kp.Sign(digest)
	return txn, kp
}

func TestTransactionVerifyRoundTrip(t *testing.T) {
	txn, _ := signedTx(t, "recipient-key", 12.5, 1700000000)
	if err := txn.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestTransactionVerifyRejectsTamperedAmount(t *testing.T) {
	txn, _ := signedTx(t, "recipient-key", 12.5, 1700000000)
	txn.Amount = 999
	if err := txn.Verify(); err == nil {
		t.Fatal("expected verify failure after tampering with amount")
	}
}

func TestCoinbaseSkipsVerification(t *testing.T) {
	txn := NewCoinbase("miner-key", 1.0, 1700000000)
	if !txn.IsCoinbase() {
		t.Fatal("expected coinbase transaction")
	}
	if err := txn.Verify(); err != nil {
		t.Fatalf("coinbase Verify should always succeed, got %v", err)
	}
}

func TestPreimageMissingFields(t *testing.T) {
	txn := &Transaction{}
	if _, err := txn.Preimage(); err == nil {
		t.Fatal("expected error for missing fields")
	}
}
