package signer

import (
	"crypto"
	"encoding/asn1"
	"fmt"
	"math/big"
)

// These OIDs are fixed constants of RFC 3161; they are not configuration.
var (
	oidSHA256        = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 1}
	oidContentTypeTSQ = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 16, 1, 4}
)

// messageImprint is the RFC 3161 MessageImprint structure: an algorithm
// identifier plus the digest of the data being timestamped.
type messageImprint struct {
	HashAlgorithm algorithmIdentifier
	HashedMessage []byte
}

type algorithmIdentifier struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.RawValue `asn1:"optional"`
}

// timeStampReq is the RFC 3161 TimeStampReq structure, trimmed to the fields
// every TSA implementation accepts: version 1, a SHA-256 message imprint,
// and certReq=true so the reply embeds the TSA's signing certificate (the
// donor's openssl invocation passes -cert for the same reason).
type timeStampReq struct {
	Version        int
	MessageImprint messageImprint
	Nonce          *big.Int `asn1:"optional"`
	CertReq        bool     `asn1:"optional"`
}

// BuildTimestampQuery encodes an RFC 3161 timestamp query for digest (the
// SHA-256 of the raw provenance bytes), mirroring the donor's shelled-out
// `openssl ts -query -cert -sha256 -digest <hex>` call without the
// subprocess.
func BuildTimestampQuery(digest []byte) ([]byte, error) {
	if len(digest) != crypto.SHA256.Size() {
		return nil, fmt.Errorf("signer: timestamp query: digest must be %d bytes sha256, got %d", crypto.SHA256.Size(), len(digest))
	}
	req := timeStampReq{
		Version: 1,
		MessageImprint: messageImprint{
			HashAlgorithm: algorithmIdentifier{Algorithm: oidSHA256},
			HashedMessage: digest,
		},
		CertReq: true,
	}
	return asn1.Marshal(req)
}
