// Package lock keeps a single writer per data directory with a PID lockfile.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/arise/internal/constants"
	"github.com/julianstephens/arise/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrLocked is returned when another live arise process holds the lock.
var ErrLocked = errors.New("another arise process is using this data directory")

// Lock is a held lockfile.
type Lock struct {
	path string
	pid  int
}

// Path returns the lockfile location for a data directory.
func Path(dir string) string {
	return filepath.Join(dir, constants.LockfileName)
}

// Acquire takes the lock in dir. A lockfile left behind by a process that no
// longer runs, or that is not arise, is replaced.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	path := Path(dir)
	pid := getpidFunc()
	content := []byte(fmt.Sprintf("%d|%s", pid, constants.AppName))

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := f.Write(content)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			logger.Debug("Acquired lock", "path", path, "pid", pid)
			return &Lock{path: path, pid: pid}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		owner, alive := Owner(dir)
		if alive && owner != pid {
			return nil, fmt.Errorf("%w (pid %d)", ErrLocked, owner)
		}
		logger.Info("Removing stale lockfile", "path", path, "pid", owner)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, ErrLocked
}

// Owner returns the pid recorded in dir's lockfile and whether that process
// is a running arise.
func Owner(dir string) (int, bool) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return 0, false
	}
	parts := strings.SplitN(strings.TrimSpace(string(data)), "|", 2)
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return 0, false
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return pid, false
	}
	return pid, strings.HasPrefix(process.Executable(), constants.AppName)
}

// Release removes the lockfile if this lock still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	parts := strings.SplitN(strings.TrimSpace(string(data)), "|", 2)
	if pid, _ := strconv.Atoi(parts[0]); pid != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}
