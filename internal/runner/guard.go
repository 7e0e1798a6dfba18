package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"frigatectl/internal/services"
)

// Guard is a host-wide mutual exclusion for operations, backed by an
// advisory file lock so a second process cannot mutate the installation
// while one is mid-operation.
type Guard struct {
	lock *flock.Flock
}

// NewGuard creates a guard on the given lock file path.
func NewGuard(path string) *Guard {
	return &Guard{lock: flock.New(path)}
}

// TryAcquire takes the lock without blocking. A held lock reports a
// precondition failure naming the lock file.
func (g *Guard) TryAcquire() error {
	if dir := filepath.Dir(g.lock.Path()); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create lock directory %q: %w", dir, err)
		}
	}
	locked, err := g.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %q: %w", g.lock.Path(), err)
	}
	if !locked {
		return services.Wrap(services.ErrPrecondition, "runner", "lock",
			fmt.Sprintf("another operation holds %s", g.lock.Path()), nil)
	}
	return nil
}

// Release drops the lock. Releasing an unheld lock is a no-op.
func (g *Guard) Release() {
	_ = g.lock.Unlock()
}
