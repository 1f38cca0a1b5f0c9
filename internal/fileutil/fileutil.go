package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// Exists reports whether path exists. Errors other than "not exist" are returned.
func Exists(fsys afero.Fs, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// MoveFile renames src to dst, refusing to replace an existing dst. The
// returned error satisfies os.IsExist when dst is already taken.
func MoveFile(fsys afero.Fs, src, dst string) error {
	exists, err := Exists(fsys, dst)
	if err != nil {
		return err
	}
	if exists {
		return &os.PathError{Op: "rename", Path: dst, Err: os.ErrExist}
	}
	return fsys.Rename(src, dst)
}

// CopyFileExclusive streams src to a newly created dst (0o644). It fails with
// an error satisfying os.IsExist when dst already exists and never overwrites.
// A partially written dst is removed on failure.
func CopyFileExclusive(fsys afero.Fs, src, dst string) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = fsys.Remove(dst)
		return err
	}
	return out.Close()
}

// CopyFileVerified is CopyFileExclusive followed by a read-back check: dst is
// reopened and its size and SHA256 compared with what was read from src. It
// returns the number of bytes copied. dst is removed on mismatch.
func CopyFileVerified(fsys afero.Fs, src, dst string) (int64, error) {
	srcInfo, err := fsys.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}

	in, err := fsys.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, err
	}

	srcHasher := sha256.New()
	written, err := io.Copy(out, io.TeeReader(in, srcHasher))
	if err != nil {
		_ = out.Close()
		_ = fsys.Remove(dst)
		return 0, err
	}
	if err := out.Close(); err != nil {
		_ = fsys.Remove(dst)
		return 0, err
	}

	if written != srcInfo.Size() {
		_ = fsys.Remove(dst)
		return 0, fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}

	onDisk, size, err := hashFile(fsys, dst)
	if err != nil {
		_ = fsys.Remove(dst)
		return 0, fmt.Errorf("read back copy: %w", err)
	}
	if size != written || !bytes.Equal(srcHasher.Sum(nil), onDisk) {
		_ = fsys.Remove(dst)
		return 0, fmt.Errorf("copy hash mismatch: %s differs from %s", dst, src)
	}
	return written, nil
}

func hashFile(fsys afero.Fs, path string) ([]byte, int64, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return nil, 0, err
	}
	return h.Sum(nil), n, nil
}
