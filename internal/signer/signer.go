// Package signer implements the detached-signature protocol of spec.md
// §4.8: an RSA-PSS signature over the raw (pre-signature) container bytes,
// plus an RFC 3161 timestamp over the same bytes' SHA-256 digest, both
// folded into a new `signature` field and re-canonicalized.
//
// Grounded on the donor's pkg/anchor_proof signing helpers for the
// parse-sign-reserialize shape; RSA-PSS and RFC 3161 have no analogue
// anywhere in the retrieval pack (every pack repo that signs uses
// ECDSA/Ed25519 over blockchain transactions, not PSS over a JSON
// document), so crypto/rsa and crypto/sha256 are used directly — the
// justified standard-library exception recorded in DESIGN.md.
package signer

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dlr-sp/provtool-go/internal/canon"
)

// TimestampAuthority posts an RFC 3161 query to a TSA and returns the raw
// DER-encoded reply. Swapped out in tests for a mock that returns a fixed
// byte string, mirroring test_sign.py's mocked `requests.post`.
type TimestampAuthority interface {
	Timestamp(query []byte) ([]byte, error)
}

// HTTPTimestampAuthority POSTs to a real RFC 3161 TSA endpoint over HTTP,
// the Go equivalent of the donor's `requests.post(..., headers={'Content-Type':
// 'application/timestamp-query'})`.
type HTTPTimestampAuthority struct {
	URL    string
	Client *http.Client
}

func NewHTTPTimestampAuthority(url string) *HTTPTimestampAuthority {
	return &HTTPTimestampAuthority{URL: url, Client: http.DefaultClient}
}

func (a *HTTPTimestampAuthority) Timestamp(query []byte) ([]byte, error) {
	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Post(a.URL, "application/timestamp-query", bytes.NewReader(query))
	if err != nil {
		return nil, &Error{Op: "timestamp", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Op: "timestamp", Err: fmt.Errorf("timestamp authority returned status %d", resp.StatusCode)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: "timestamp", Err: err}
	}
	return body, nil
}

// Result carries the three blobs a successful Sign produces (spec.md §4.8
// step 6): the signed container (new cid), the raw PSS signature bytes, and
// the raw timestamp reply bytes. The caller persists all three.
type Result struct {
	SignedContainer []byte
	CID             string
	SignatureBytes  []byte
	TimestampReply  []byte
}

// Sign signs rawProv (the raw, "self"-keyed canonical bytes a container.Builder
// produced) with privateKey using RSA-PSS (MGF1-SHA256, max salt length), and
// round-trips a timestamp query for SHA256(rawProv) through tsa. It returns
// the re-canonicalized, signed container and the two blobs to persist
// alongside it.
//
// Sign never sees or stores the container form; it signs the raw bytes
// directly, matching the donor's sign(rawprov, ...) signature.
func Sign(rawProv []byte, familyName, givenName string, privateKey *rsa.PrivateKey, tsa TimestampAuthority) (*Result, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(rawProv, &doc); err != nil {
		return nil, &Error{Op: "sign", Err: fmt.Errorf("invalid raw provenance json: %w", err)}
	}

	digest := sha256.Sum256(rawProv)
	sigBytes, err := rsa.SignPSS(rand.Reader, privateKey, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
		Hash:       crypto.SHA256,
	})
	if err != nil {
		return nil, &Error{Op: "sign", Err: err}
	}

	query, err := BuildTimestampQuery(digest[:])
	if err != nil {
		return nil, &Error{Op: "sign", Err: err}
	}
	tsReply, err := tsa.Timestamp(query)
	if err != nil {
		return nil, err
	}

	sigHashBytes := sha256.Sum256(sigBytes)
	tsHashBytes := sha256.Sum256(tsReply)

	doc["signature"] = map[string]interface{}{
		"person:familyName":          familyName,
		"person:givenName":           givenName,
		"provtool:signature":         hex.EncodeToString(sigHashBytes[:]),
		"provtool:timestampsignature": hex.EncodeToString(tsHashBytes[:]),
	}

	signed, err := canon.Marshal(doc)
	if err != nil {
		return nil, &Error{Op: "sign", Err: err}
	}
	cidSum := sha256.Sum256(signed)

	return &Result{
		SignedContainer: signed,
		CID:             hex.EncodeToString(cidSum[:]),
		SignatureBytes:  sigBytes,
		TimestampReply:  tsReply,
	}, nil
}

// SignHash computes the sign-hash of a container document (spec.md §4.8
// "Sign-hash rule"): strip any `signature` field, re-canonicalize, hash.
// A container with no signature at all must produce the same sign-hash as
// its signed counterpart, since Sign only ever adds the field.
func SignHash(containerJSON []byte) ([]byte, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(containerJSON, &doc); err != nil {
		return nil, fmt.Errorf("signer: sign-hash: invalid json: %w", err)
	}
	delete(doc, "signature")
	canonical, err := canon.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("signer: sign-hash: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return sum[:], nil
}

// VerifyPSS checks sigBytes against digest using pub with the same
// MGF1-SHA256/max-salt-length parameters Sign used.
func VerifyPSS(pub *rsa.PublicKey, digest, sigBytes []byte) error {
	return rsa.VerifyPSS(pub, crypto.SHA256, digest, sigBytes, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
		Hash:       crypto.SHA256,
	})
}
