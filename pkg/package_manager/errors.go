package packagemanager

import "errors"

// ErrNoPackageManager is returned by Load when none of the supported package
// managers is available on the host.
var ErrNoPackageManager = errors.New("no supported package manager found")
