package lock_test

import (
	"path/filepath"
	"testing"

	"ssdwatch/internal/lock"
)

func TestAcquireIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")

	first, ok, err := lock.Acquire(path)
	if err != nil || !ok {
		t.Fatalf("first Acquire: ok=%v err=%v", ok, err)
	}
	t.Cleanup(func() { _ = first.Release() })

	second, ok, err := lock.Acquire(path)
	if err != nil {
		t.Fatalf("second Acquire returned error: %v", err)
	}
	if ok || second != nil {
		t.Fatal("expected second acquirer to observe contention")
	}
}

func TestReleaseAllowsReacquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "run.lock")

	guard, ok, err := lock.Acquire(path)
	if err != nil || !ok {
		t.Fatalf("Acquire: ok=%v err=%v", ok, err)
	}
	if guard.Path() != path {
		t.Fatalf("unexpected path %q", guard.Path())
	}
	if err := guard.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := guard.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}

	again, ok, err := lock.Acquire(path)
	if err != nil || !ok {
		t.Fatalf("re-Acquire: ok=%v err=%v", ok, err)
	}
	_ = again.Release()
}

func TestNilGuardRelease(t *testing.T) {
	var g *lock.Guard
	if err := g.Release(); err != nil {
		t.Fatalf("nil Release: %v", err)
	}
	if g.Path() != "" {
		t.Fatal("expected empty path for nil guard")
	}
}
