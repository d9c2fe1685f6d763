//go:build linux || darwin

package oscore

import (
	"context"
	"os"
	"path/filepath"
)

// ChownR recursively changes the ownership of all files and directories under path.
// Based on https://github.com/gutengo/fil/blob/6109b2e0b5cfdefdef3a254cc1a3eaa35bc89284/file.go#L27
func ChownR(ctx context.Context, path string, uid, gid int) error {
	return filepath.Walk(path, func(name string, info os.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			// Ignore invalid
			//nolint:nilerr
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			// Changing the target of a symlink could escape the tree.
			return os.Lchown(name, uid, gid)
		}

		return os.Chown(name, uid, gid)
	})
}
