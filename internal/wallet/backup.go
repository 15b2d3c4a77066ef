package wallet

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"

	"github.com/abhi0166/custom-crypto-coin/internal/cryptoutil"
)

// BackupPhrase encodes the wallet's 32-byte private scalar directly as its
// own BIP-39 entropy, producing a 24-word recovery phrase. This node has
// one key pair per wallet, not an HD tree, so the phrase round-trips back
// to exactly the original scalar rather than seeding further derivation.
func (w *Wallet) BackupPhrase() (string, error) {
	if w.keys == nil {
		return "", ErrKeysUnset
	}
	mnemonic, err := bip39.NewMnemonic(w.keys.Private.Serialize())
	if err != nil {
		return "", fmt.Errorf("encode backup phrase: %w", err)
	}
	return mnemonic, nil
}

// RestoreFromBackupPhrase rebuilds a wallet from a 24-word recovery phrase
// produced by BackupPhrase.
func RestoreFromBackupPhrase(mnemonic string) (*Wallet, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("wallet: invalid backup phrase")
	}
	scalar, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("decode backup phrase: %w", err)
	}
	kp, err := cryptoutil.KeyPairFromScalar(scalar)
	if err != nil {
		return nil, fmt.Errorf("rebuild key pair: %w", err)
	}
	return FromKeyPair(kp), nil
}
