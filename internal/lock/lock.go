// Package lock enforces that at most one pipeline run is active on the host.
//
// The guard is an advisory flock on a fixed path. The kernel drops the lock
// when the holding process exits for any reason, so a crashed run never blocks
// later ones.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// DefaultName is the lock file name used when no path is configured.
const DefaultName = "ssdwatch.lock"

// Guard holds an acquired run lock.
type Guard struct {
	path string
	lock *flock.Flock
}

// DefaultPath returns the system-wide lock location.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), DefaultName)
}

// Acquire attempts a non-blocking exclusive lock on path. acquired is false
// when another process already holds it; that is not an error.
func Acquire(path string) (*Guard, bool, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, false, fmt.Errorf("create lock directory: %w", err)
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, false, nil
	}
	return &Guard{path: path, lock: fl}, true, nil
}

// Path returns the lock file location.
func (g *Guard) Path() string {
	if g == nil {
		return ""
	}
	return g.path
}

// Release drops the lock. It is safe to call more than once.
func (g *Guard) Release() error {
	if g == nil || g.lock == nil {
		return nil
	}
	if !g.lock.Locked() {
		return nil
	}
	if err := g.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", g.path, err)
	}
	return nil
}
