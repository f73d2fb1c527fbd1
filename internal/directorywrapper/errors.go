package directorywrapper

import "errors"

var (
	// ErrUnsafeLabel is returned when an entity's prov:label contains
	// characters outside [A-Za-z0-9._ -].
	ErrUnsafeLabel = errors.New("directorywrapper: unsafe label")

	// ErrTargetExists is returned when unpacking would overwrite an
	// existing plain file.
	ErrTargetExists = errors.New("directorywrapper: target already exists")
)
