// Package tx defines the transaction record and its signing/verification
// contract.
package tx

import (
	"errors"
	"fmt"

	"github.com/abhi0166/custom-crypto-coin/internal/cryptoutil"
)

// CoinbaseSender is the sentinel sender_public_key value used for mining
// reward transactions, which carry no real signature.
const CoinbaseSender = "0"

// CoinbaseSignature is the fixed signature string stamped on mining reward
// transactions in place of a real ECDSA signature.
const CoinbaseSignature = "mining_reward"

// ErrMissingField is returned when a transaction is missing a field needed
// to sign or verify it.
var ErrMissingField = errors.New("tx: missing required field")

// Transaction is a single value transfer, signed by the sender's wallet.
type Transaction struct {
	SenderPublicKey string  `json:"sender_public_key"`
	Recipient       string  `json:"recipient"`
	Amount          float64 `json:"amount"`
	Timestamp       float64 `json:"timestamp"`
	Signature       string  `json:"signature"`
}

// IsCoinbase reports whether t is a mining reward transaction.
func (t *Transaction) IsCoinbase() bool {
	return t.SenderPublicKey == CoinbaseSender
}

// Preimage returns the canonical bytes that are hashed and signed, matching
// the reference node's create_signable_transaction_data contract: sender,
// recipient, amount and timestamp, sorted by key. The signature field
// itself is never part of the preimage.
func (t *Transaction) Preimage() ([]byte, error) {
	if t.SenderPublicKey == "" || t.Recipient == "" {
		return nil, fmt.Errorf("%w: sender_public_key/recipient", ErrMissingField)
	}
	return cryptoutil.CanonicalJSON(map[string]any{
		"sender_public_key": t.SenderPublicKey,
		"recipient":         t.Recipient,
		"amount":            t.Amount,
		"timestamp":         t.Timestamp,
	})
}

// Digest returns the SHA-256 digest of the transaction's preimage.
func (t *Transaction) Digest() ([32]byte, error) {
	preimage, err := t.Preimage()
	if err != nil {
		return [32]byte{}, err
	}
	return cryptoutil.Sha256(preimage), nil
}

// Verify checks the transaction's signature against its own
// sender_public_key. Coinbase transactions (sender "0") are never
// cryptographically verified — their legitimacy is asserted by the miner
// that minted them, exactly as the reference node skips signature checks
// when sender_public_key == "0".
func (t *Transaction) Verify() error {
	if t.IsCoinbase() {
		return nil
	}
	digest, err := t.Digest()
	if err != nil {
		return err
	}
	return cryptoutil.VerifySignature(t.SenderPublicKey, digest, t.Signature)
}

// NewCoinbase builds the mining reward transaction credited to recipient.
func NewCoinbase(recipient string, amount float64, timestamp float64) *Transaction {
	return &Transaction{
		SenderPublicKey: CoinbaseSender,
		Recipient:       recipient,
		Amount:          amount,
		Timestamp:       timestamp,
		Signature:       CoinbaseSignature,
	}
}
