package cryptoutil

import (
	"bytes"
	"testing"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	pemStr, err := kp.PublicKeyPEM()
	if err != nil {
		t.Fatalf("PublicKeyPEM: %v", err)
	}
	digest := Sha256([]byte("hello ledger"))
	sig := kp.Sign(digest)

	if err := VerifySignature(pemStr, digest, sig); err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
}

func TestVerifySignatureRejectsTamperedDigest(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	pemStr, err := kp.PublicKeyPEM()
	if err != nil {
		t.Fatalf("PublicKeyPEM: %v", err)
	}
	digest := Sha256([]byte("hello ledger"))
	sig := kp.Sign(digest)

	tampered := Sha256([]byte("hello ledger!"))
	if err := VerifySignature(pemStr, tampered, sig); err == nil {
		t.Fatal("expected verification failure for tampered digest")
	}
}

func TestPrivateKeyPEMRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	pemStr, err := kp.PrivateKeyPEM()
	if err != nil {
		t.Fatalf("PrivateKeyPEM: %v", err)
	}
	restored, err := ParsePrivateKeyPEM(pemStr)
	if err != nil {
		t.Fatalf("ParsePrivateKeyPEM: %v", err)
	}
	if !bytes.Equal(restored.Private.Serialize(), kp.Private.Serialize()) {
		t.Fatal("restored private scalar does not match original")
	}
}

func TestCanonicalJSONSortsKeys(t *testing.T) {
	fields := map[string]any{
		"recipient": "abc",
		"amount":    1.5,
		"sender_public_key": "0",
		"timestamp": 100.0,
	}
	out, err := CanonicalJSON(fields)
	if err != nil {
		t.Fatalf("CanonicalJSON: %v", err)
	}
	want := `{"amount":1.5,"recipient":"abc","sender_public_key":"0","timestamp":100}`
	if string(out) != want {
		t.Fatalf("got %s, want %s", out, want)
	}
}
