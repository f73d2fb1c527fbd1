package comparator

import "errors"

// ErrDirNotFound is returned when DirCompare is given a directory that does
// not exist, mirroring the donor's FileNotFoundError check.
var ErrDirNotFound = errors.New("comparator: directory does not exist")
