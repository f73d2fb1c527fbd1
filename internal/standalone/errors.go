package standalone

import "errors"

// ErrDirtyRepo is returned by RunRepo when the working tree has uncommitted
// changes (standalone.py: "Repository is dirty. Please commit before using
// this tool").
var ErrDirtyRepo = errors.New("standalone: repository has uncommitted changes")
