package signer

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
)

type mockTSA struct{ reply []byte }

func (m *mockTSA) Timestamp(_ []byte) ([]byte, error) { return m.reply, nil }

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func TestSignProducesExpectedTimestampHash(t *testing.T) {
	key := testKey(t)
	raw := []byte(`{"entity":{"self":{"prov:label":"x","prov:type":"File","provtool:datahash":"deadbeef"}}}`)
	tsa := &mockTSA{reply: []byte("timestampreply")}

	result, err := Sign(raw, "Lovelace", "Ada", key, tsa)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(result.SignedContainer, &doc); err != nil {
		t.Fatalf("unmarshal signed container: %v", err)
	}
	sig, _ := doc["signature"].(map[string]interface{})
	wantTSHash := sha256.Sum256(tsa.reply)
	if sig["provtool:timestampsignature"] != hex.EncodeToString(wantTSHash[:]) {
		t.Fatalf("timestampsignature mismatch: got %v", sig["provtool:timestampsignature"])
	}

	if err := VerifyPSS(&key.PublicKey, mustDigest(raw), result.SignatureBytes); err != nil {
		t.Fatalf("VerifyPSS: %v", err)
	}
}

func TestSignHashStableAcrossSignaturePresence(t *testing.T) {
	raw := []byte(`{"a":1,"b":2}`)
	unsigned, err := SignHash(raw)
	if err != nil {
		t.Fatalf("SignHash unsigned: %v", err)
	}

	withSig := []byte(`{"a":1,"b":2,"signature":{"person:familyName":"x"}}`)
	signed, err := SignHash(withSig)
	if err != nil {
		t.Fatalf("SignHash signed: %v", err)
	}

	if hex.EncodeToString(unsigned) != hex.EncodeToString(signed) {
		t.Fatalf("sign-hash must be invariant to the signature field: %x vs %x", unsigned, signed)
	}
}

func mustDigest(raw []byte) []byte {
	sum := sha256.Sum256(raw)
	return sum[:]
}
