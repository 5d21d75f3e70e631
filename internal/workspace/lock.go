// Package workspace provides workspace-level utilities including locking.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
)

const lockFileName = ".patchctl.lock"

// Lock represents an acquired workspace lock.
type Lock struct {
	file     *os.File
	lockPath string
	mu       sync.Mutex
}

// AcquireLock serializes whole patchctl invocations against the same
// target tree: two concurrent invocations touching overlapping files
// produce undefined results, so callers must serialize. The engine
// itself holds no lock across modifications within a file —
// all state lives in the file-session buffer — so this is the only
// lock patchctl takes, and it spans exactly one transaction's
// lifetime: acquired in main.run before BuildPlan, released by a
// deferred Release that runs whether the transaction commits or
// aborts.
func AcquireLock(workspaceRoot string) (*Lock, error) {
	lockPath := filepath.Join(workspaceRoot, lockFileName)

	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace lock file: %w", err)
	}

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		lockFile.Close()
		return nil, fmt.Errorf("tree %q is already locked by another patchctl invocation", workspaceRoot)
	}

	lockFile.Truncate(0)
	lockFile.Seek(0, 0)
	fmt.Fprintf(lockFile, "%d\n", os.Getpid())

	return &Lock{file: lockFile, lockPath: lockPath}, nil
}

// Release unlocks and removes the lock file. It is safe to call more
// than once. No signal handler is installed to call this on SIGINT/
// SIGTERM: the OS releases the underlying flock the moment the holding
// process's file descriptors close, which happens on any exit path,
// so an interrupted transaction never leaves a live advisory lock even
// if Release never runs. At worst the lock file itself lingers holding
// a stale PID — harmless, since AcquireLock's LOCK_NB only inspects
// flock state, never the file's contents, and the next invocation
// simply truncates and rewrites it once the lock is free.
func (l *Lock) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	l.file.Close()
	os.Remove(l.lockPath)
	l.file = nil
}
