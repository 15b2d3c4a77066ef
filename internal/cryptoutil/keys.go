package cryptoutil

import (
	"encoding/asn1"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// ErrInvalidSignature is returned when a signature fails to verify against
// the supplied public key and digest.
var ErrInvalidSignature = errors.New("cryptoutil: invalid signature")

// id-ecPublicKey and the secp256k1 named-curve OID, RFC 5480.
var (
	oidPublicKeyEC = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidSecp256k1   = asn1.ObjectIdentifier{1, 3, 132, 0, 10}
)

// pkixPublicKey mirrors the SubjectPublicKeyInfo ASN.1 shape. Go's
// crypto/x509 only recognizes the NIST P-curve OIDs in this path, so
// secp256k1 keys need their own (tiny) encoder/decoder.
type pkixPublicKey struct {
	Algorithm pkixAlgorithmIdentifier
	PublicKey asn1.BitString
}

type pkixAlgorithmIdentifier struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.ObjectIdentifier
}

// ecPrivateKey mirrors RFC 5915's ECPrivateKey, the shape Go's unexported
// crypto/x509/sec1.go uses for NIST curves. Reimplemented here because
// secp256k1 never reaches that code path either.
type ecPrivateKey struct {
	Version       int
	PrivateKey    []byte
	NamedCurveOID asn1.ObjectIdentifier `asn1:"optional,explicit,tag:0"`
	PublicKey     asn1.BitString        `asn1:"optional,explicit,tag:1"`
}

// KeyPair holds a secp256k1 key pair used to sign and verify transactions.
type KeyPair struct {
	Private *secp256k1.PrivateKey
	Public  *secp256k1.PublicKey
}

// GenerateKeyPair creates a fresh secp256k1 key pair.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate private key: %w", err)
	}
	return &KeyPair{Private: priv, Public: priv.PubKey()}, nil
}

// KeyPairFromScalar reconstructs a key pair from a 32-byte private scalar,
// as used when restoring a wallet from a saved key file or backup phrase.
func KeyPairFromScalar(scalar []byte) (*KeyPair, error) {
	if len(scalar) != 32 {
		return nil, fmt.Errorf("cryptoutil: private scalar must be 32 bytes, got %d", len(scalar))
	}
	priv := secp256k1.PrivKeyFromBytes(scalar)
	return &KeyPair{Private: priv, Public: priv.PubKey()}, nil
}

// Sign produces a DER-encoded ECDSA signature over a pre-hashed digest,
// returned as lowercase hex — the same shape the reference wallet produces
// via ec.ECDSA(utils.Prehashed(hashes.SHA256())).
func (k *KeyPair) Sign(digest [32]byte) string {
	sig := ecdsa.Sign(k.Private, digest[:])
	return hex.EncodeToString(sig.Serialize())
}

// VerifySignature checks a hex-encoded DER ECDSA signature against a
// pre-hashed digest and a PEM-encoded SubjectPublicKeyInfo public key.
func VerifySignature(publicKeyPEM string, digest [32]byte, signatureHex string) error {
	pub, err := ParsePublicKeyPEM(publicKeyPEM)
	if err != nil {
		return fmt.Errorf("parse public key: %w", err)
	}
	sigBytes, err := hex.DecodeString(signatureHex)
	if err != nil {
		return fmt.Errorf("decode signature hex: %w", err)
	}
	sig, err := ecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return fmt.Errorf("parse DER signature: %w", err)
	}
	if !sig.Verify(digest[:], pub) {
		return ErrInvalidSignature
	}
	return nil
}

// PublicKeyPEM renders the public key as a PEM-encoded SubjectPublicKeyInfo
// block, matching the output of Python's
// serialization.Encoding.PEM + PublicFormat.SubjectPublicKeyInfo for an
// EC public key.
func (k *KeyPair) PublicKeyPEM() (string, error) {
	return EncodePublicKeyPEM(k.Public)
}

// EncodePublicKeyPEM renders a secp256k1 public key as a PEM-encoded
// SubjectPublicKeyInfo block.
func EncodePublicKeyPEM(pub *secp256k1.PublicKey) (string, error) {
	uncompressed := pub.SerializeUncompressed() // 0x04 || X || Y, 65 bytes
	spki := pkixPublicKey{
		Algorithm: pkixAlgorithmIdentifier{
			Algorithm:  oidPublicKeyEC,
			Parameters: oidSecp256k1,
		},
		PublicKey: asn1.BitString{
			Bytes:     uncompressed,
			BitLength: len(uncompressed) * 8,
		},
	}
	der, err := asn1.Marshal(spki)
	if err != nil {
		return "", fmt.Errorf("marshal SubjectPublicKeyInfo: %w", err)
	}
	block := &pem.Block{Type: "PUBLIC KEY", Bytes: der}
	return string(pem.EncodeToMemory(block)), nil
}

// ParsePublicKeyPEM parses a PEM-encoded SubjectPublicKeyInfo block back
// into a secp256k1 public key.
func ParsePublicKeyPEM(pemStr string) (*secp256k1.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, errors.New("cryptoutil: no PEM block found")
	}
	var spki pkixPublicKey
	if _, err := asn1.Unmarshal(block.Bytes, &spki); err != nil {
		return nil, fmt.Errorf("unmarshal SubjectPublicKeyInfo: %w", err)
	}
	if !spki.Algorithm.Algorithm.Equal(oidPublicKeyEC) {
		return nil, fmt.Errorf("cryptoutil: unexpected algorithm OID %v", spki.Algorithm.Algorithm)
	}
	if !spki.Algorithm.Parameters.Equal(oidSecp256k1) {
		return nil, fmt.Errorf("cryptoutil: unexpected curve OID %v", spki.Algorithm.Parameters)
	}
	pub, err := secp256k1.ParsePubKey(spki.PublicKey.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key point: %w", err)
	}
	return pub, nil
}

// PrivateKeyPEM renders the private key as a PEM-encoded EC PRIVATE KEY
// block (RFC 5915 shape), for the node's own unencrypted key files.
func (k *KeyPair) PrivateKeyPEM() (string, error) {
	return EncodePrivateKeyPEM(k.Private)
}

// EncodePrivateKeyPEM renders a secp256k1 private key as a PEM-encoded
// EC PRIVATE KEY block.
func EncodePrivateKeyPEM(priv *secp256k1.PrivateKey) (string, error) {
	pub := priv.PubKey().SerializeUncompressed()
	ecKey := ecPrivateKey{
		Version:       1,
		PrivateKey:    priv.Serialize(),
		NamedCurveOID: oidSecp256k1,
		PublicKey:     asn1.BitString{Bytes: pub, BitLength: len(pub) * 8},
	}
	der, err := asn1.Marshal(ecKey)
	if err != nil {
		return "", fmt.Errorf("marshal EC private key: %w", err)
	}
	block := &pem.Block{Type: "EC PRIVATE KEY", Bytes: der}
	return string(pem.EncodeToMemory(block)), nil
}

// ParsePrivateKeyPEM parses a PEM-encoded EC PRIVATE KEY block back into a
// key pair.
func ParsePrivateKeyPEM(pemStr string) (*KeyPair, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, errors.New("cryptoutil: no PEM block found")
	}
	var ecKey ecPrivateKey
	if _, err := asn1.Unmarshal(block.Bytes, &ecKey); err != nil {
		return nil, fmt.Errorf("unmarshal EC private key: %w", err)
	}
	scalar := new(big.Int).SetBytes(ecKey.PrivateKey).Bytes()
	if len(scalar) < 32 {
		padded := make([]byte, 32)
		copy(padded[32-len(scalar):], scalar)
		scalar = padded
	}
	return KeyPairFromScalar(scalar)
}
