// Package wallet holds a node's key pair and the signing/balance
// operations performed with it, plus on-disk persistence (cleartext PEM,
// an optional encrypted keystore, and a mnemonic backup phrase).
package wallet

import (
	"errors"
	"time"

	"github.com/abhi0166/custom-crypto-coin/internal/cryptoutil"
	"github.com/abhi0166/custom-crypto-coin/internal/ledger/tx"
)

// ErrKeysUnset is returned by Sign when the wallet has no key pair loaded.
var ErrKeysUnset = errors.New("wallet: keys are not set")

// Wallet holds a single secp256k1 key pair. A node's identity is its
// public key PEM string — used as the mining-reward recipient and
// returned verbatim by GET /wallet/balance.
type Wallet struct {
	keys *cryptoutil.KeyPair
}

// Generate creates a fresh wallet with a new key pair.
func Generate() (*Wallet, error) {
	kp, err := cryptoutil.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return &Wallet{keys: kp}, nil
}

// FromKeyPair wraps an already-loaded key pair (e.g. restored from disk or
// a backup phrase) as a Wallet.
func FromKeyPair(kp *cryptoutil.KeyPair) *Wallet {
	return &Wallet{keys: kp}
}

// PublicKeyPEM returns the wallet's public key as a PEM
// SubjectPublicKeyInfo string — this node's identity.
func (w *Wallet) PublicKeyPEM() (string, error) {
	if w.keys == nil {
		return "", ErrKeysUnset
	}
	return w.keys.PublicKeyPEM()
}

// Sign builds and signs a transaction sending amount to recipient, using
// the current wall-clock time as the transaction's timestamp.
func (w *Wallet) Sign(recipient string, amount float64) (*tx.Transaction, error) {
	if w.keys == nil {
		return nil, ErrKeysUnset
	}
	pub, err := w.keys.PublicKeyPEM()
	if err != nil {
		return nil, err
	}
	txn := &tx.Transaction{
		SenderPublicKey: pub,
		Recipient:       recipient,
		Amount:          amount,
		Timestamp:       float64(time.Now().UnixNano()) / 1e9,
	}
	digest, err := txn.Digest()
	if err != nil {
		return nil, err
	}
	txn.Signature = w.keys.Sign(digest)
	return txn, nil
}

// Balance scans every transaction in chainTxs and mempoolTxs, crediting
// amount when recipient is our public key and debiting it when
// sender_public_key is our public key. Mempool contributions are included
// knowingly at risk of double-counting against transactions that are
// later mined — this node's balance calculation has no notion of
// confirmation depth.
func (w *Wallet) Balance(chainTxs, mempoolTxs []*tx.Transaction) (float64, error) {
	pub, err := w.PublicKeyPEM()
	if err != nil {
		return 0, err
	}
	var total float64
	scan := func(txs []*tx.Transaction) {
		for _, t := range txs {
			if t == nil {
				continue
			}
			if t.Recipient == pub {
				total += t.Amount
			}
			if t.SenderPublicKey == pub {
				total -= t.Amount
			}
		}
	}
	scan(chainTxs)
	scan(mempoolTxs)
	return total, nil
}
