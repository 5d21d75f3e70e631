package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// A second patchctl invocation against the same tree while a first
// transaction is still holding its lock must fail fast rather than
// silently interleave with an in-flight commit.
func TestAcquireLock_SecondInvocationDuringFirstTransactionFails(t *testing.T) {
	root := t.TempDir()

	first, err := AcquireLock(root)
	if err != nil {
		t.Fatalf("AcquireLock() first invocation error = %v", err)
	}
	defer first.Release()

	second, err := AcquireLock(root)
	if err == nil {
		second.Release()
		t.Fatal("AcquireLock() should fail while another invocation holds the tree")
	}
	if second != nil {
		t.Error("AcquireLock() should return a nil Lock on contention")
	}
	if !strings.Contains(err.Error(), root) || !strings.Contains(err.Error(), "patchctl invocation") {
		t.Errorf("error = %q, want it to name the tree and the patchctl invocation", err.Error())
	}
}

// Once the first transaction releases its lock (commit or abort, both
// paths run the same deferred Release in main.run), a subsequent
// invocation against the same tree must succeed.
func TestAcquireLock_NextInvocationSucceedsAfterRelease(t *testing.T) {
	root := t.TempDir()

	first, err := AcquireLock(root)
	if err != nil {
		t.Fatalf("AcquireLock() first invocation error = %v", err)
	}
	first.Release()

	second, err := AcquireLock(root)
	if err != nil {
		t.Fatalf("AcquireLock() second invocation error = %v, want success once the tree is free", err)
	}
	defer second.Release()
}

// The lock file records the holding invocation's PID and is removed on
// release, leaving the tree exactly as it stood before the transaction
// started.
func TestAcquireLock_WritesPIDAndCleansUpOnRelease(t *testing.T) {
	root := t.TempDir()
	lockPath := filepath.Join(root, lockFileName)

	lock, err := AcquireLock(root)
	if err != nil {
		t.Fatalf("AcquireLock() error = %v", err)
	}

	data, err := os.ReadFile(lockPath)
	if err != nil {
		t.Fatalf("lock file should exist while held: %v", err)
	}
	wantPID := fmt.Sprintf("%d\n", os.Getpid())
	if string(data) != wantPID {
		t.Errorf("lock file content = %q, want %q", string(data), wantPID)
	}

	lock.Release()

	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("lock file should be removed after Release")
	}
}

// A transaction that aborts (BuildPlan failure, Commit failure) must
// release the lock exactly like one that commits, and Release must
// tolerate the deferred call running after an earlier explicit one.
func TestAcquireLock_ReleaseIdempotentAcrossAbortAndCommitPaths(t *testing.T) {
	root := t.TempDir()

	lock, err := AcquireLock(root)
	if err != nil {
		t.Fatalf("AcquireLock() error = %v", err)
	}

	// Simulate an aborted transaction releasing early, then main.run's
	// deferred Release firing again on the way out.
	lock.Release()
	lock.Release()
	lock.Release()

	next, err := AcquireLock(root)
	if err != nil {
		t.Fatalf("AcquireLock() after repeated Release() error = %v", err)
	}
	defer next.Release()
}
