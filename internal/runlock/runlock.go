package runlock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/amishk599/jobfeed/internal/model"
)

// FileName is the lock file created inside the export directory.
const FileName = ".jobfeed.lock"

// Acquire takes an exclusive, non-blocking lock on dir/.jobfeed.lock. It
// returns model.ErrLocked when another process already holds it. The
// returned release func unlocks the file.
func Acquire(dir string) (func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory %s: %w", dir, err)
	}

	lock := flock.New(filepath.Join(dir, FileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", lock.Path(), err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", lock.Path(), model.ErrLocked)
	}
	return lock.Unlock, nil
}
