package block

import (
	"encoding/json"
	"testing"
)

func TestHashHeaderIsDeterministic(t *testing.T) {
	h1, err := HashHeader(1, 1700000000.123, "abc", 42, "00ffff")
	if err != nil {
		t.Fatalf("HashHeader: %v", err)
	}
	h2, err := HashHeader(1, 1700000000.123, "abc", 42, "00ffff")
	if err != nil {
		t.Fatalf("HashHeader: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected deterministic hash, got %s vs %s", h1, h2)
	}
}

func TestHashHeaderExcludesTransactions(t *testing.T) {
	b := &Block{Header: Header{Index: 1, Timestamp: 5, PreviousHash: "0", Proof: 1, Target: "ff"}}
	h1, err := b.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b.Transactions = append(b.Transactions, nil)
	h2, err := b.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 != h2 {
		t.Fatal("expected header hash to be independent of transactions")
	}
}

func TestMarshalJSONIncludesDerivedHash(t *testing.T) {
	b := &Block{Header: Header{Index: 1, Timestamp: 5, PreviousHash: "0", Proof: 1, Target: "ff"}}
	wantHash, err := b.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal to map: %v", err)
	}
	got, ok := decoded["hash"].(string)
	if !ok {
		t.Fatalf("expected string \"hash\" field in wire shape, got %+v", decoded)
	}
	if got != wantHash {
		t.Fatalf("hash field = %s, want %s", got, wantHash)
	}
}

func TestUnmarshalJSONRoundTripsHeader(t *testing.T) {
	orig := &Block{Header: Header{Index: 2, Timestamp: 9, PreviousHash: "abc", Proof: 7, Target: "00ff"}}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Block
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Header != orig.Header {
		t.Fatalf("header mismatch after round trip: got %+v, want %+v", decoded.Header, orig.Header)
	}
}

func TestMeetsTarget(t *testing.T) {
	ok, err := MeetsTarget("0000000000000000000000000000000000000000000000000000000000000001", "ff")
	if err != nil {
		t.Fatalf("MeetsTarget: %v", err)
	}
	if !ok {
		t.Fatal("expected tiny hash to meet a large target")
	}

	ok, err = MeetsTarget("ff", "01")
	if err != nil {
		t.Fatalf("MeetsTarget: %v", err)
	}
	if ok {
		t.Fatal("expected large hash to miss a small target")
	}
}
