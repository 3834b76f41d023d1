// Package filelock provides an advisory cross-process lock on a file.
package filelock

import (
	"errors"
	"fmt"
	"os"
)

const lockFileMode = 0o600

// Lock blocks until it holds an exclusive lock on path, creating the file if
// needed. The returned func releases the lock.
func Lock(path string) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock path built by caller
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	return func() error {
		return errors.Join(unlockFile(f), f.Close())
	}, nil
}
