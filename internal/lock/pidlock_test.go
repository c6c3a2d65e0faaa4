package lock

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAcquire_RecordsPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jig.pid")

	l, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire err=%v", err)
	}
	defer l.Release()

	pid, err := Owner(path)
	if err != nil {
		t.Fatalf("Owner err=%v", err)
	}
	if pid != os.Getpid() {
		t.Fatalf("pid = %d, want %d", pid, os.Getpid())
	}
	if l.Path() != path {
		t.Fatalf("path = %q", l.Path())
	}
}

func TestAcquire_SecondInstanceFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jig.pid")

	l, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire err=%v", err)
	}
	defer l.Release()

	if _, err := Acquire(path); err == nil {
		t.Fatal("second Acquire succeeded while the lock is held")
	}
}

func TestAcquire_AfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jig.pid")

	l, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire err=%v", err)
	}
	if err := l.Release(); err != nil {
		t.Fatalf("Release err=%v", err)
	}

	l2, err := Acquire(path)
	if err != nil {
		t.Fatalf("re-Acquire err=%v", err)
	}
	_ = l2.Release()
}

func TestAcquire_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "run", "jig.pid")

	l, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire err=%v", err)
	}
	_ = l.Release()
}

func TestAcquire_EmptyPath(t *testing.T) {
	if _, err := Acquire(""); err == nil {
		t.Fatal("Acquire accepted an empty path")
	}
}

func TestOwner_BadFile(t *testing.T) {
	dir := t.TempDir()

	if _, err := Owner(filepath.Join(dir, "missing.pid")); err == nil {
		t.Fatal("Owner read a missing file")
	}

	garbled := filepath.Join(dir, "garbled.pid")
	if err := os.WriteFile(garbled, []byte("not-a-pid\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Owner(garbled); err == nil {
		t.Fatal("Owner parsed a garbled file")
	}
}

func TestRelease_NilSafe(t *testing.T) {
	var l *PIDLock
	if err := l.Release(); err != nil {
		t.Fatalf("Release on nil err=%v", err)
	}
}
