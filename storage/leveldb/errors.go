package leveldb

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"syscall"

	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"
	lstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/wooyang2018/corekv/storage"
)

// convertError classifies a goleveldb error into the storage taxonomy.
// A missing database with create-if-missing off, or an existing one with
// error-if-exists on, is an invalid argument, as in C++ leveldb.
func convertError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, lerrors.ErrNotFound) {
		return storage.ErrNotFound
	}
	if errors.Is(err, leveldb.ErrClosed) {
		return storage.Wrap(storage.ErrClosed, err)
	}
	if lerrors.IsCorrupted(err) {
		return storage.Wrap(storage.ErrCorruption, err)
	}
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrExist) {
		return storage.Wrap(storage.ErrInvalidArgument, err)
	}
	if isIOError(err) {
		return storage.Wrap(storage.ErrIO, err)
	}
	return storage.Wrap(storage.ErrInvalidArgument, err)
}

func isIOError(err error) bool {
	var (
		pathErr *fs.PathError
		sysErr  *os.SyscallError
		errno   syscall.Errno
	)
	switch {
	case errors.As(err, &pathErr), errors.As(err, &sysErr), errors.As(err, &errno):
		return true
	case errors.Is(err, lstorage.ErrLocked), errors.Is(err, lstorage.ErrClosed):
		return true
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.ErrShortWrite):
		return true
	}
	return false
}
