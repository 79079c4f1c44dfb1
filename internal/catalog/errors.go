package catalog

import "errors"

var ErrStaleSnapshot = errors.New("snapshot is older than the one currently applied")
