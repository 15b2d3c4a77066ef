// Package block defines the block header/body model and its hash
// contract.
package block

import (
	"encoding/json"
	"math/big"

	"github.com/abhi0166/custom-crypto-coin/internal/cryptoutil"
	"github.com/abhi0166/custom-crypto-coin/internal/ledger/tx"
)

// Header carries the fields that are hashed to produce a block's identity
// and that proof-of-work is mined against.
type Header struct {
	Index        int     `json:"index"`
	Timestamp    float64 `json:"timestamp"`
	PreviousHash string  `json:"previous_hash"`
	Proof        uint64  `json:"proof"`
	Target       string  `json:"target"`
}

// Block is a header plus its transactions.
type Block struct {
	Header
	Transactions []*tx.Transaction `json:"transactions"`
}

// Hash computes the block's header hash. Transactions and the hash field
// itself are deliberately excluded from the preimage — only the five
// header fields participate, matching the reference node's
// compute_hash contract exactly.
func (b *Block) Hash() (string, error) {
	return HashHeader(b.Index, b.Timestamp, b.PreviousHash, b.Proof, b.Target)
}

// blockWire is the on-wire block dict: the header fields plus
// transactions plus a derived "hash" field, matching the reference
// node's block.py:to_dict() shape (spec.md §3, §6). hash is never
// stored on Block itself — it is recomputed from the header on every
// marshal, so there is no risk of it drifting out of sync.
type blockWire struct {
	Header
	Transactions []*tx.Transaction `json:"transactions"`
	Hash         string            `json:"hash"`
}

// MarshalJSON adds the derived hash field that receivers don't need
// (validation recomputes it) but that reference clients key off of.
func (b Block) MarshalJSON() ([]byte, error) {
	hash, err := b.Hash()
	if err != nil {
		return nil, err
	}
	return json.Marshal(blockWire{
		Header:       b.Header,
		Transactions: b.Transactions,
		Hash:         hash,
	})
}

// UnmarshalJSON accepts the wire shape, ignoring the incoming hash field
// since receivers always recompute it from the header rather than trust
// a peer-supplied value.
func (b *Block) UnmarshalJSON(data []byte) error {
	var wire blockWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	b.Header = wire.Header
	b.Transactions = wire.Transactions
	return nil
}

// HashHeader computes the canonical hash of a header given its raw fields,
// without needing a constructed Block — used both by Block.Hash and by the
// mining search loop, which hashes many candidate headers per second.
func HashHeader(index int, timestamp float64, previousHash string, proof uint64, target string) (string, error) {
	preimage, err := cryptoutil.CanonicalJSON(map[string]any{
		"index":         index,
		"timestamp":     timestamp,
		"previous_hash": previousHash,
		"proof":         proof,
		"target":        target,
	})
	if err != nil {
		return "", err
	}
	return cryptoutil.Sha256Hex(preimage), nil
}

// MeetsTarget reports whether hexHash, interpreted as a big-endian integer,
// is strictly less than the target (also given as a hex string) — the
// proof-of-work acceptance rule.
func MeetsTarget(hexHash, target string) (bool, error) {
	hashInt, ok := new(big.Int).SetString(hexHash, 16)
	if !ok {
		return false, errBadHex("hash", hexHash)
	}
	targetInt, ok := new(big.Int).SetString(target, 16)
	if !ok {
		return false, errBadHex("target", target)
	}
	return hashInt.Cmp(targetInt) < 0, nil
}

func errBadHex(field, value string) error {
	return &badHexError{field: field, value: value}
}

type badHexError struct {
	field string
	value string
}

func (e *badHexError) Error() string {
	return "block: " + e.field + " is not valid hex: " + e.value
}
