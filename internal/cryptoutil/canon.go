// Package cryptoutil provides the cryptographic primitives shared by the
// ledger: canonical hashing and secp256k1 ECDSA signing/verification.
package cryptoutil

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
)

// CanonicalJSON encodes a mapping with lexicographically sorted keys, as
// json.dumps(data, sort_keys=True) does, but with compact separators and
// encoding/json's number formatting (100.0 encodes as 100), so its bytes
// differ from Python's default json.dumps output. Hash agreement across nodes depends on every node producing identical
// bytes for identical field values, so this is the one place in the repo
// that is NOT free to pick whatever serialization is convenient.
func CanonicalJSON(fields map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := make([]byte, 0, 256)
	buf = append(buf, '{')
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		valJSON, err := json.Marshal(fields[k])
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", k, err)
		}
		buf = append(buf, keyJSON...)
		buf = append(buf, ':')
		buf = append(buf, valJSON...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// Sha256 hashes data and returns the digest.
func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Sha256Hex hashes data and returns the lowercase hex digest.
func Sha256Hex(data []byte) string {
	h := Sha256(data)
	return fmt.Sprintf("%x", h[:])
}
