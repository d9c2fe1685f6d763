//go:build linux || darwin
// +build linux darwin

package utils

import (
	"io/fs"
	"log"
	"os"
	"syscall"

	"github.com/pkg/errors"
)

func uidAndGIDForFile(path string) (uint32, uint32) {
	stat, err := os.Stat(path)
	if err != nil {
		return 0, 0
	}
	var uid uint32
	var gid uint32

	if sysStat, ok := stat.Sys().(*syscall.Stat_t); ok {
		uid = sysStat.Uid
		gid = sysStat.Gid
	}

	return uid, gid
}

// ChmodRegularFile changes the mode of path without following a symlink.
// Anything but a regular file is refused with ErrNotRegularFile.
func ChmodRegularFile(path string, perm os.FileMode) error {
	file, err := os.OpenFile(path, os.O_RDONLY|syscall.O_NOFOLLOW|syscall.O_NONBLOCK, 0)
	if errors.Is(err, syscall.ELOOP) {
		return errors.Wrap(ErrNotRegularFile, path)
	}
	if err != nil {
		return err
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil && !errors.Is(err, fs.ErrClosed) {
			log.Println(err)
		}
	}(file)

	info, err := file.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return errors.Wrap(ErrNotRegularFile, path)
	}

	if err = file.Chmod(perm); err != nil {
		return err
	}

	return file.Close()
}
