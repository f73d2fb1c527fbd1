package validator

import "errors"

// ErrNoFileLocation names the condition of having no "file" reader to read
// from. Check does not return it: with no "file" reader registered, Check
// records the target as a single invalid entry.
var ErrNoFileLocation = errors.New("validator: no file location configured")
