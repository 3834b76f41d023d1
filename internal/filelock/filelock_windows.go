//go:build windows

package filelock

import (
	"os"

	"golang.org/x/sys/windows"
)

// Only the first byte is locked; that is enough for mutual exclusion.
const lockedBytes = 1

func lockFile(f *os.File) error {
	return windows.LockFileEx(windows.Handle(f.Fd()), windows.LOCKFILE_EXCLUSIVE_LOCK,
		0, lockedBytes, 0, new(windows.Overlapped))
}

func unlockFile(f *os.File) error {
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, lockedBytes, 0, new(windows.Overlapped))
}
