package container

import "errors"

var (
	// ErrMissingSelf is returned when a raw document's entity map lacks the
	// "self" placeholder key required before an id can be computed.
	ErrMissingSelf = errors.New("container: entity missing \"self\" placeholder")

	// ErrMissingDataHash is returned when provtool:datahash is absent from
	// the entity's attributes.
	ErrMissingDataHash = errors.New("container: entity missing provtool:datahash")

	// ErrHashMismatch is returned when a cid or datahash does not match the
	// bytes it is supposed to fingerprint.
	ErrHashMismatch = errors.New("container: hash mismatch")
)
