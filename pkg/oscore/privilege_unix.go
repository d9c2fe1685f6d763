//go:build linux || darwin

package oscore

import "golang.org/x/sys/unix"

// IsSuperuser reports whether the process runs with effective uid 0.
func IsSuperuser() bool {
	return unix.Geteuid() == 0
}
