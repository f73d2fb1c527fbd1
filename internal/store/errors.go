package store

import "errors"

var (
	// ErrMissingContainer is returned when no registered reader could locate
	// a <cid>.prov file for the requested id.
	ErrMissingContainer = errors.New("store: container not found")

	// ErrMissingPayload is returned when a container was found but its
	// payload file (named by provtool:datahash) could not be located, even
	// after the sibling-scan fallback.
	ErrMissingPayload = errors.New("store: payload not found")

	// ErrHashMismatch is returned when a file's content does not hash to
	// the id/datahash that names it.
	ErrHashMismatch = errors.New("store: hash mismatch")

	// ErrReaderError names a plugin reader's own failure. The registry's Read
	// does not return it: it skips every failing reader and returns
	// ErrMissingContainer when none resolves the id (container integrity is
	// self-verifying — there is no trust placed in any single reader, per
	// spec.md §4.3).
	ErrReaderError = errors.New("store: reader error")
)
