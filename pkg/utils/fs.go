package utils

import (
	"bufio"
	"context"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

var ErrNotRegularFile = errors.New("not a regular file")

func IsFileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

func IsDirExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// WriteContentsToFile replaces the file contents and sets perm on it.
func WriteContentsToFile(contents []byte, path string, perm os.FileMode) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil && !errors.Is(err, fs.ErrClosed) {
			log.Println(err)
		}
	}(file)

	_, err = file.Write(contents)
	if err != nil {
		return err
	}

	err = file.Chmod(perm)
	if err != nil {
		return err
	}

	return file.Close()
}

// CreateFileIfNotExists writes contents to a new file at path. An existing
// file is left untouched and created is false.
func CreateFileIfNotExists(path string, contents []byte, perm os.FileMode) (created bool, err error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil && !errors.Is(err, fs.ErrClosed) {
			log.Println(err)
		}
	}(file)

	if len(contents) > 0 {
		if _, err = file.Write(contents); err != nil {
			return true, err
		}
	}

	return true, file.Close()
}

// TouchFile creates an empty file if it does not exist. Existing content is
// never truncated.
func TouchFile(path string, perm os.FileMode) (created bool, err error) {
	return CreateFileIfNotExists(path, nil, perm)
}

func FindLineAndReplaceOrAdd(ctx context.Context, path string, replaceMap map[string]string) error {
	return findInFileAndReplaceOrAdd(ctx, path, replaceMap, true)
}

func findInFileAndReplaceOrAdd(ctx context.Context, path string, replaceMap map[string]string, add bool) error {
	file, err := os.Open(path)
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

	uid, gid := uidAndGIDForFile(path)

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".find-and-replace-*")
	if err != nil {
		return err
	}
	defer func(tmpFile *os.File) {
		err := tmpFile.Close()
		if err != nil && !errors.Is(err, fs.ErrClosed) {
			log.Println(err)
		}
		_ = os.Remove(tmpFile.Name())
	}(tmpFile)

	err = findLineAndReplaceOrAdd(ctx, file, tmpFile, replaceMap, add)
	if err != nil {
		return err
	}

	err = file.Close()
	if err != nil {
		return err
	}
	err = tmpFile.Chmod(info.Mode().Perm())
	if err != nil {
		return err
	}
	err = tmpFile.Close()
	if err != nil {
		return err
	}
	err = os.Rename(tmpFile.Name(), path)
	if err != nil {
		return err
	}

	if uid != 0 || gid != 0 {
		err = os.Chown(path, int(uid), int(gid))
		if err != nil {
			return err
		}
	}

	return nil
}

// findLineAndReplaceOrAdd replaces every line whose trimmed text starts with
// a needle. Each needle is replaced at most once; leading indentation is kept.
//
//nolint:funlen
func findLineAndReplaceOrAdd(
	_ context.Context,
	r io.Reader,
	w io.Writer,
	replaceMap map[string]string,
	add bool,
) error {
	pending := make(map[string]string, len(replaceMap))
	for k, v := range replaceMap {
		pending[k] = v
	}

	reader := bufio.NewReader(r)
	writer := bufio.NewWriter(w)

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if line == "" && errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimRight(line, "\n")
		trimmedLine := strings.TrimSpace(line)

		for needle, replacement := range pending {
			if !strings.HasPrefix(trimmedLine, needle) {
				continue
			}

			fi := strings.Index(line, trimmedLine)

			b := strings.Builder{}
			b.Grow(len(line) + len(replacement))
			b.WriteString(line[:fi])
			b.WriteString(replacement)
			b.WriteString(line[fi+len(trimmedLine):])

			line = b.String()

			delete(pending, needle)

			break
		}

		if _, werr := writer.WriteString(line); werr != nil {
			return werr
		}
		if werr := writer.WriteByte('\n'); werr != nil {
			return werr
		}

		if errors.Is(err, io.EOF) {
			break
		}
	}

	if add {
		needles := lo.Keys(pending)
		sort.Strings(needles)

		for _, needle := range needles {
			if _, err := writer.WriteString(pending[needle]); err != nil {
				return err
			}
			if err := writer.WriteByte('\n'); err != nil {
				return err
			}
		}
	}

	return writer.Flush()
}
